package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	stdsync "sync"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// --- Mock implementations shared by the pipeline tests ---

// mockProvider implements driven.ImageryProvider with scripted
// behaviour per call site.
type mockProvider struct {
	searchFn   func(ctx context.Context, query driven.SceneQuery) (*driven.ScenePage, error)
	submitFn   func(ctx context.Context, order domain.OrderRequest) (string, error)
	pollFn     func(ctx context.Context, orderID string) (*domain.OrderSnapshot, error)
	downloadFn func(ctx context.Context, asset domain.AssetDescriptor) (io.ReadCloser, int64, error)
	closed     bool
}

func (m *mockProvider) SearchScenes(ctx context.Context, query driven.SceneQuery) (*driven.ScenePage, error) {
	if m.searchFn == nil {
		return &driven.ScenePage{}, nil
	}
	return m.searchFn(ctx, query)
}

func (m *mockProvider) SubmitOrder(ctx context.Context, order domain.OrderRequest) (string, error) {
	if m.submitFn == nil {
		return "order-1", nil
	}
	return m.submitFn(ctx, order)
}

func (m *mockProvider) PollOrder(ctx context.Context, orderID string) (*domain.OrderSnapshot, error) {
	if m.pollFn == nil {
		return &domain.OrderSnapshot{OrderID: orderID, Status: domain.OrderSucceeded}, nil
	}
	return m.pollFn(ctx, orderID)
}

func (m *mockProvider) DownloadAsset(ctx context.Context, asset domain.AssetDescriptor) (io.ReadCloser, int64, error) {
	if m.downloadFn == nil {
		return io.NopCloser(strings.NewReader("imagery")), 7, nil
	}
	return m.downloadFn(ctx, asset)
}

func (m *mockProvider) Close() error {
	m.closed = true
	return nil
}

// retryableErr is a provider error that classifies itself.
type retryableErr struct {
	msg       string
	retryable bool
}

func (e *retryableErr) Error() string   { return e.msg }
func (e *retryableErr) Retryable() bool { return e.retryable }

// noAccessErr mimics a submission rejection naming inaccessible scenes.
type noAccessErr struct {
	sceneIDs []string
}

func (e *noAccessErr) Error() string {
	return fmt.Sprintf("no access to assets: %v", e.sceneIDs)
}
func (e *noAccessErr) Retryable() bool            { return false }
func (e *noAccessErr) NoAccessSceneIDs() []string { return e.sceneIDs }

// mockStore implements driven.AssetStore in memory. Writes verify
// ContentMD5 like the blob-backed store: a mismatching body fails the
// write without committing the object.
type mockStore struct {
	mu       stdsync.Mutex
	objects  map[string][]byte
	writeErr error
	listErr  error
	closed   bool
}

func newMockStore() *mockStore {
	return &mockStore{objects: make(map[string][]byte)}
}

func (s *mockStore) Stat(_ context.Context, key string) (*driven.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	sum := md5.Sum(body)
	return &driven.ObjectInfo{
		Key:  key,
		Size: int64(len(body)),
		MD5:  hex.EncodeToString(sum[:]),
	}, nil
}

func (s *mockStore) Write(_ context.Context, key string, r io.Reader, opts driven.WriteOptions) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if opts.ContentMD5 != "" {
		sum := md5.Sum(body)
		if !strings.EqualFold(hex.EncodeToString(sum[:]), opts.ContentMD5) {
			return fmt.Errorf("%w: md5 mismatch for %s", domain.ErrCorruptDownload, key)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = body
	return nil
}

func (s *mockStore) List(_ context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *mockStore) Close() error {
	s.closed = true
	return nil
}

// mockOpener hands out a fixed store.
type mockOpener struct {
	store   driven.AssetStore
	openErr error
}

func (o *mockOpener) OpenStore(_ context.Context, _ string) (driven.AssetStore, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	return o.store, nil
}

// mockTokens implements driven.TokenProvider.
type mockTokens struct {
	token         string
	authenticated bool
}

func (t *mockTokens) GetToken(_ context.Context) (string, error) {
	if !t.authenticated {
		return "", domain.ErrAuthRequired
	}
	return t.token, nil
}

func (t *mockTokens) Method() driven.CredentialMethod { return driven.CredentialAPIKey }
func (t *mockTokens) IsAuthenticated() bool           { return t.authenticated }

// mockSiteStore implements driven.SiteStore in memory.
type mockSiteStore struct {
	mu    stdsync.Mutex
	sites map[string]domain.Site
}

func newMockSiteStore() *mockSiteStore {
	return &mockSiteStore{sites: make(map[string]domain.Site)}
}

func (s *mockSiteStore) Get(_ context.Context, name string) (*domain.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	site, ok := s.sites[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &site, nil
}

func (s *mockSiteStore) List(_ context.Context) ([]domain.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Site, 0, len(s.sites))
	for _, site := range s.sites {
		out = append(out, site)
	}
	return out, nil
}

func (s *mockSiteStore) Put(_ context.Context, site domain.Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites[site.Name] = site
	return nil
}

func (s *mockSiteStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sites[name]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sites, name)
	return nil
}

// md5Hex returns the hex MD5 of a body, for scripting checksums.
func md5Hex(body string) string {
	sum := md5.Sum([]byte(body))
	return hex.EncodeToString(sum[:])
}

// sequentialIDs returns a deterministic newID func: id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	var mu stdsync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
