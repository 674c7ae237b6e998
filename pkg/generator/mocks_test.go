package generator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

// --- Mocks ---

type mockLoader struct {
	mu     sync.Mutex
	images map[string]*raster.RasterImage
	errs   map[string]error
	calls  int
}

func (m *mockLoader) Load(ctx context.Context, uri string) (*raster.RasterImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err, ok := m.errs[uri]; ok {
		return nil, err
	}
	if img, ok := m.images[uri]; ok {
		return img.Clone(), nil
	}
	return nil, errors.New("not found")
}

func (m *mockLoader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockCache struct {
	mu   sync.Mutex
	data map[string]any
}

func (m *mockCache) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// panicCache は書き込みで必ず panic するキャッシュです。
type panicCache struct{}

func (panicCache) Get(key string) (any, bool)                 { return nil, false }
func (panicCache) Set(key string, value any, d time.Duration) { panic("disk full") }

type mockNamer struct {
	name string
	err  error
}

func (m *mockNamer) SuggestName(ctx context.Context, nameA, nameB string) (string, error) {
	return m.name, m.err
}
