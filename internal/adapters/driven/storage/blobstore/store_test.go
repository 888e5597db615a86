package blobstore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func newMemStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(memblob.OpenBucket(nil))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_WriteStatRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)
	body := "GeoTIFF-bytes"

	err := store.Write(ctx, "scene.tif", strings.NewReader(body), driven.WriteOptions{
		ContentMD5: md5Hex(body),
	})
	require.NoError(t, err)

	info, err := store.Stat(ctx, "scene.tif")
	require.NoError(t, err)
	assert.Equal(t, "scene.tif", info.Key)
	assert.Equal(t, int64(len(body)), info.Size)
	assert.Equal(t, md5Hex(body), info.MD5)
}

func TestStore_WriteWithoutChecksum(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	err := store.Write(ctx, "metadata.json", strings.NewReader("{}"), driven.WriteOptions{})
	require.NoError(t, err)

	info, err := store.Stat(ctx, "metadata.json")
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size)
}

func TestStore_WriteRejectsCorruptBody(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	err := store.Write(ctx, "scene.tif", strings.NewReader("corrupt"), driven.WriteOptions{
		ContentMD5: md5Hex("expected"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptDownload)

	// Nothing was committed under the final key.
	_, err = store.Stat(ctx, "scene.tif")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_WriteRejectsMalformedChecksum(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	err := store.Write(ctx, "scene.tif", strings.NewReader("x"), driven.WriteOptions{
		ContentMD5: "not-hex!",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorruptDownload)
}

func TestStore_StatMissing(t *testing.T) {
	store := newMemStore(t)

	_, err := store.Stat(context.Background(), "absent.tif")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	for _, key := range []string{"a.tif", "b.tif", "manifest.json"} {
		require.NoError(t, store.Write(ctx, key, strings.NewReader(key), driven.WriteOptions{}))
	}

	keys, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.tif", "b.tif", "manifest.json"}, keys)
}

func TestOpener_CreatesDestination(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "imagery", "melo")

	store, err := NewOpener().OpenStore(ctx, dest)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	body := "GeoTIFF-bytes"
	require.NoError(t, store.Write(ctx, "scene.tif", strings.NewReader(body), driven.WriteOptions{
		ContentMD5: md5Hex(body),
	}))

	// The file lands under its final name with no sidecars.
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "scene.tif", entries[0].Name())

	fi, err := os.Stat(filepath.Join(dest, "scene.tif"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), fi.Size())
}

func TestOpener_UnwritableDestination(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := NewOpener().OpenStore(ctx, filepath.Join(blocker, "dest"))
	assert.ErrorIs(t, err, domain.ErrDestinationUnwritable)

	_, err = NewOpener().OpenStore(ctx, "")
	assert.ErrorIs(t, err, domain.ErrDestinationUnwritable)
}
