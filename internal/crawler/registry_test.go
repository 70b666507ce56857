package crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "cafepick/menuworker/pkg/errors"
)

// mockCacheService is an in-memory stand-in for memcache
type mockCacheService struct {
	data map[string][]byte
}

func newMockCacheService() *mockCacheService {
	return &mockCacheService{data: make(map[string][]byte)}
}

func (m *mockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCacheService) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func registryFactory(brand string, page *fakePage) Factory {
	return func() (*SiteCrawler, error) {
		def := inlineDefinition()
		def.Brand = brand
		def.Selectors.CategoryLinks = ""
		return New(def, &fakeBrowser{page: page}, Limits{})
	}
}

func TestRegistryRegisterAndBrands(t *testing.T) {
	r := NewRegistry(nil)
	page := newFakePage(nil)
	r.Register("mocha", registryFactory("mocha", page))
	r.Register("verona", registryFactory("verona", page))
	r.Register("byeol", registryFactory("byeol", page))

	assert.Equal(t, []string{"byeol", "mocha", "verona"}, r.Brands())
	assert.True(t, r.Has("mocha"))
	assert.False(t, r.Has("latte"))
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("mocha", func() (*SiteCrawler, error) {
		return nil, errors.New("first registration")
	})
	r.Register("mocha", registryFactory("mocha", newFakePage(map[string]string{
		"https://mocha.example/menu": listingPage(item("아메리카노")),
	})))

	c, err := r.Get("mocha")
	require.NoError(t, err)
	assert.Equal(t, "mocha", c.Brand())
	assert.Len(t, r.Brands(), 1)
}

func TestRegistryUnknownBrand(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Get("nope")
	require.Error(t, err)
	var ce *cerrors.CrawlError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, cerrors.ErrorTypeConfiguration, ce.Type)
}

func TestRegistryRun(t *testing.T) {
	page := newFakePage(map[string]string{
		"https://mocha.example/menu": listingPage(item("아메리카노"), item("카페라떼")),
	})
	r := NewRegistry(nil)
	r.Register("mocha", registryFactory("mocha", page))

	result := r.Run(context.Background(), "mocha")
	require.NoError(t, result.Err)
	assert.Equal(t, "mocha", result.Brand)
	assert.Len(t, result.Products, 2)
}

func TestRegistryRunAllSequentialOrder(t *testing.T) {
	pages := map[string]string{
		"https://mocha.example/menu": listingPage(item("아메리카노")),
	}
	r := NewRegistry(nil)
	r.Register("verona", registryFactory("verona", newFakePage(pages)))
	r.Register("byeol", registryFactory("byeol", newFakePage(pages)))

	results := r.RunAll(context.Background(), false)
	require.Len(t, results, 2)
	assert.Equal(t, "byeol", results[0].Brand)
	assert.Equal(t, "verona", results[1].Brand)
	for _, res := range results {
		assert.NoError(t, res.Err)
		assert.Len(t, res.Products, 1)
	}
}

func TestRegistryRunAllParallel(t *testing.T) {
	pages := map[string]string{
		"https://mocha.example/menu": listingPage(item("아메리카노")),
	}
	r := NewRegistry(nil)
	r.Register("mocha", registryFactory("mocha", newFakePage(pages)))
	r.Register("verona", registryFactory("verona", newFakePage(pages)))

	results := r.RunAll(context.Background(), true)
	require.Len(t, results, 2)
	assert.Equal(t, "mocha", results[0].Brand)
	assert.Equal(t, "verona", results[1].Brand)
}

func TestRegistryCooldownSkipsBrand(t *testing.T) {
	cache := newMockCacheService()
	r := NewRegistry(cache)
	r.Register("mocha", registryFactory("mocha", newFakePage(map[string]string{
		"https://mocha.example/menu": listingPage(item("아메리카노")),
	})))

	// A rate-limit failure starts the block window
	r.noteFailure("mocha", cerrors.NewRateLimit("mocha", time.Minute))

	result := r.Run(context.Background(), "mocha")
	require.Error(t, result.Err)
	var ce *cerrors.CrawlError
	require.ErrorAs(t, result.Err, &ce)
	assert.Equal(t, cerrors.ErrorTypeRateLimit, ce.Type)

	// Clearing the window lets the brand run again
	require.NoError(t, cache.Delete("mocha_rate_limited"))
	result = r.Run(context.Background(), "mocha")
	assert.NoError(t, result.Err)
	assert.Len(t, result.Products, 1)
}

func TestRegistryNonRateLimitFailureNotBlocked(t *testing.T) {
	cache := newMockCacheService()
	r := NewRegistry(cache)

	r.noteFailure("mocha", cerrors.NewNavigation("mocha", "boom", nil))
	assert.False(t, r.onCooldown("mocha"))
}
