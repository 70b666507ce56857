package crawler

import (
	"context"
	"fmt"

	"cafepick/menuworker/internal/browser"
	"cafepick/menuworker/internal/dataset"
	"cafepick/menuworker/internal/model"
	"cafepick/menuworker/logger"
	cerrors "cafepick/menuworker/pkg/errors"
)

// SiteCrawler runs one site definition's traversal strategy to
// completion and collects the emitted products.
type SiteCrawler struct {
	def     SiteDefinition
	limits  Limits
	browser browser.Browser
	log     *logger.Logger
}

// New builds a crawler for one site definition. The browser may be nil
// only for static inline definitions.
func New(def SiteDefinition, b browser.Browser, limits Limits) (*SiteCrawler, error) {
	if def.Brand == "" {
		return nil, cerrors.NewConfiguration("site definition has no brand", nil)
	}
	if def.StartURL == "" {
		return nil, cerrors.NewConfiguration(fmt.Sprintf("%s: site definition has no start URL", def.Brand), nil)
	}
	switch def.Strategy {
	case StrategyInline, StrategyListDetail, StrategyModal:
	default:
		return nil, cerrors.NewConfiguration(fmt.Sprintf("%s: unknown strategy %q", def.Brand, def.Strategy), nil)
	}
	if b == nil && !(def.Strategy == StrategyInline && def.Options.Static) {
		return nil, cerrors.NewConfiguration(fmt.Sprintf("%s: strategy %s requires a browser", def.Brand, def.Strategy), nil)
	}

	return &SiteCrawler{
		def:     def,
		limits:  limits,
		browser: b,
		log:     logger.ForBrand(def.Brand),
	}, nil
}

// Brand returns the crawler's brand key
func (c *SiteCrawler) Brand() string {
	return c.def.Brand
}

// Definition returns the crawler's site definition
func (c *SiteCrawler) Definition() SiteDefinition {
	return c.def
}

// Run drives the strategy from the start URL to completion. A run that
// produced partial data is a success; only a run with no output at all
// surfaces its error.
func (c *SiteCrawler) Run(ctx context.Context) ([]model.Product, error) {
	maxRequests := c.def.Options.MaxRequestsPerCrawl
	if c.limits.MaxRequests > 0 && (maxRequests == 0 || c.limits.MaxRequests < maxRequests) {
		maxRequests = c.limits.MaxRequests
	}

	b := &base{
		def:    c.def,
		limits: c.limits,
		budget: newRequestBudget(maxRequests),
		out:    dataset.New(),
		log:    c.log,
	}

	if !c.def.Options.Static {
		page, err := c.browser.NewPage(ctx)
		if err != nil {
			return nil, cerrors.NewNavigation(c.def.Brand, "failed to open page", err)
		}
		defer page.Close()
		b.page = page
	}

	var err error
	switch c.def.Strategy {
	case StrategyInline:
		err = (&inlineStrategy{base: b}).run(ctx)
	case StrategyListDetail:
		err = (&listDetailStrategy{base: b}).run(ctx)
	case StrategyModal:
		err = (&modalStrategy{base: b}).run(ctx)
	}

	items := b.out.Items()
	if err != nil && len(items) == 0 {
		return nil, err
	}
	if err != nil {
		c.log.Warn().Err(err).Int("products", len(items)).Msg("Run finished with partial data")
	} else {
		c.log.Info().Int("products", len(items)).Msg("Run finished")
	}
	return items, nil
}
