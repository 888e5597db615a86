// Package blobstore persists delivered assets through gocloud blob
// buckets. The production opener roots a fileblob bucket at the
// request's destination directory; tests swap in memblob.
//
// Writes spool to a temporary file and rename on Close, so a partial
// download is never observable under its final name. When the caller
// supplies a content MD5 the bucket writer verifies it before
// committing and a mismatching body is discarded.
package blobstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.AssetStore = (*Store)(nil)

// Store is an AssetStore over an open bucket.
type Store struct {
	bucket *blob.Bucket
}

// NewStore wraps an open bucket. Close closes the bucket.
func NewStore(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Stat describes one stored object.
func (s *Store) Stat(ctx context.Context, key string) (*driven.ObjectInfo, error) {
	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	return &driven.ObjectInfo{
		Key:  key,
		Size: attrs.Size,
		MD5:  hex.EncodeToString(attrs.MD5),
	}, nil
}

// Write streams r into the object at key. With a ContentMD5 option the
// writer verifies the digest at Close and a mismatch fails the write
// without committing, reported as ErrCorruptDownload.
func (s *Store) Write(ctx context.Context, key string, r io.Reader, opts driven.WriteOptions) error {
	var wopts *blob.WriterOptions
	if opts.ContentMD5 != "" {
		sum, err := hex.DecodeString(opts.ContentMD5)
		if err != nil {
			return fmt.Errorf("write %s: content md5 is not hex: %w", key, err)
		}
		wopts = &blob.WriterOptions{ContentMD5: sum}
	}

	w, err := s.bucket.NewWriter(ctx, key, wopts)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		// The portable layer reports a ContentMD5 mismatch at Close,
		// after discarding the spooled body.
		if gcerrors.Code(err) == gcerrors.FailedPrecondition {
			return fmt.Errorf("%w: %s: %v", domain.ErrCorruptDownload, key, err)
		}
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// List returns every key in the store.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Close releases the bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}
