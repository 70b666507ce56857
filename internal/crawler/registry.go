package crawler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"cafepick/menuworker/internal/model"
	"cafepick/menuworker/logger"
	cerrors "cafepick/menuworker/pkg/errors"
	"cafepick/menuworker/services/cache"
)

// Factory constructs a runnable crawler for one brand
type Factory func() (*SiteCrawler, error)

// Registry maps brand keys to constructible crawlers. It is populated
// once at startup by registering every site module and read many times;
// registering a brand twice overwrites the earlier registration, which
// is a deliberate allowance for test overrides.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	cooldown  cache.CacheService
	blockFor  time.Duration
}

// RunResult is the outcome of one brand's run
type RunResult struct {
	Brand    string
	Products []model.Product
	Err      error
}

// NewRegistry creates an empty registry. The cooldown cache is
// optional; when present, brands that were rate limited are skipped
// until their block window expires.
func NewRegistry(cooldown cache.CacheService) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		cooldown:  cooldown,
		blockFor:  10 * time.Minute,
	}
}

// Register binds a brand key to a crawler factory. Last registration
// wins.
func (r *Registry) Register(brand string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[brand] = f
}

// Brands returns every registered brand key, sorted
func (r *Registry) Brands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	brands := make([]string, 0, len(r.factories))
	for brand := range r.factories {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	return brands
}

// Has reports whether a brand is registered
func (r *Registry) Has(brand string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[brand]
	return ok
}

// Get constructs a runnable crawler for one brand. An unknown brand is
// a misconfiguration, not a scraping quirk.
func (r *Registry) Get(brand string) (*SiteCrawler, error) {
	r.mu.RLock()
	f, ok := r.factories[brand]
	r.mu.RUnlock()
	if !ok {
		return nil, cerrors.NewConfiguration(fmt.Sprintf("unknown brand %q", brand), nil)
	}
	return f()
}

// Run crawls one brand by name
func (r *Registry) Run(ctx context.Context, brand string) RunResult {
	result := RunResult{Brand: brand}

	if r.onCooldown(brand) {
		result.Err = cerrors.NewRateLimit(brand, r.blockFor)
		return result
	}

	c, err := r.Get(brand)
	if err != nil {
		result.Err = err
		return result
	}

	start := time.Now()
	products, err := c.Run(ctx)
	if err != nil {
		r.noteFailure(brand, err)
		result.Err = err
		return result
	}

	logger.ForBrand(brand).Info().
		Int("products", len(products)).
		Dur("elapsed", time.Since(start)).
		Msg("Crawl complete")
	result.Products = products
	return result
}

// RunAll crawls every registered brand. Sequential by default so two
// browser pools never fight over host resources; parallel mode is
// opt-in.
func (r *Registry) RunAll(ctx context.Context, parallel bool) []RunResult {
	brands := r.Brands()
	results := make([]RunResult, len(brands))

	if !parallel {
		for i, brand := range brands {
			results[i] = r.Run(ctx, brand)
		}
		return results
	}

	var wg sync.WaitGroup
	for i, brand := range brands {
		wg.Add(1)
		go func(i int, brand string) {
			defer wg.Done()
			results[i] = r.Run(ctx, brand)
		}(i, brand)
	}
	wg.Wait()
	return results
}

func (r *Registry) cooldownKey(brand string) string {
	return brand + "_rate_limited"
}

func (r *Registry) onCooldown(brand string) bool {
	if r.cooldown == nil {
		return false
	}
	_, err := r.cooldown.Get(r.cooldownKey(brand))
	return err == nil
}

// noteFailure starts a brand's block window when the failure was a
// rate limit
func (r *Registry) noteFailure(brand string, err error) {
	if r.cooldown == nil {
		return
	}
	var ce *cerrors.CrawlError
	if errors.As(err, &ce) && ce.Type == cerrors.ErrorTypeRateLimit {
		value := []byte(fmt.Sprintf("%d", int(r.blockFor.Seconds())))
		if serr := r.cooldown.Set(r.cooldownKey(brand), value, r.blockFor); serr != nil {
			logger.ForBrand(brand).Warn().Err(serr).Msg("Failed to set cooldown")
		}
	}
}

