package crawler

import (
	"context"
	"errors"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/model"
)

// inlineStrategy crawls sites whose listing pages carry everything
// needed per product. Containers are processed in fixed-size concurrent
// batches to bound in-flight DOM work.
type inlineStrategy struct {
	*base
}

func (st *inlineStrategy) run(ctx context.Context) error {
	startDoc, err := st.loadDoc(ctx, st.def.StartURL)
	if err != nil {
		return err
	}

	ectx := model.ExtractionContext{BaseURL: st.def.BaseURL, PageURL: st.def.StartURL}
	categories := st.discoverCategories(ectx, startDoc)

	var firstErr error
	for _, cat := range categories {
		var doc *goquery.Document
		if cat.URL == st.def.StartURL {
			doc = startDoc
		} else {
			doc, err = st.loadDoc(ctx, cat.URL)
			if err != nil {
				if errors.Is(err, errBudgetExhausted) {
					return firstErr
				}
				// Whole-category failures stay isolated from the other
				// categories
				st.log.Warn().Err(err).Str("category", cat.Name).Msg("Category failed to load, skipping")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
		}

		if err := st.crawlCategory(ctx, cat, doc); err != nil {
			if errors.Is(err, errBudgetExhausted) {
				return firstErr
			}
			st.log.Warn().Err(err).Str("category", cat.Name).Msg("Category failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// crawlCategory processes the loaded first page of a category and then
// follows the definition's pagination mode for the rest.
func (st *inlineStrategy) crawlCategory(ctx context.Context, cat Category, doc *goquery.Document) error {
	st.processListing(ctx, cat, cat.URL, doc)

	// Test mode stops after the first page of each category
	if st.limits.TestMode {
		return nil
	}

	switch st.def.Pagination {
	case PaginationPageNumbers:
		maxPage := st.maxPageNumber(doc)
		for page := 2; page <= maxPage; page++ {
			url := st.pageURL(cat.URL, page)
			pageDoc, err := st.loadDoc(ctx, url)
			if err != nil {
				if errors.Is(err, errBudgetExhausted) {
					return err
				}
				st.log.Warn().Err(err).Str("url", url).Msg("Page failed to load, skipping")
				continue
			}
			st.processListing(ctx, cat, url, pageDoc)
		}

	case PaginationNextButton:
		if st.page == nil {
			st.log.Warn().Msg("Next-button pagination needs a browser, stopping after first page")
			return nil
		}
		for page := 2; page <= nextPageCap; page++ {
			if !st.budget.take() {
				return errBudgetExhausted
			}
			if err := st.page.Click(ctx, st.def.Selectors.NextButton); err != nil {
				// Control absent or disabled: end of the category
				return nil
			}
			pageDoc, err := st.snapshot(ctx)
			if err != nil {
				return err
			}
			url, _ := st.page.CurrentURL(ctx)
			if url == "" {
				url = cat.URL
			}
			st.processListing(ctx, cat, url, pageDoc)
		}
	}
	return nil
}

// processListing extracts every product container of one listing page.
// Containers run in batches of MaxConcurrency; an exception in one
// container never aborts the others.
func (st *inlineStrategy) processListing(ctx context.Context, cat Category, pageURL string, doc *goquery.Document) {
	ectx := model.ExtractionContext{
		BaseURL:  st.def.BaseURL,
		Category: cat.Name,
		PageURL:  pageURL,
	}

	containers := st.containers(doc)
	batch := st.def.Options.MaxConcurrency
	if batch <= 0 {
		batch = 5
	}

	seen := newPageDedup()
	for start := 0; start < len(containers); start += batch {
		end := start + batch
		if end > len(containers) {
			end = len(containers)
		}

		var wg sync.WaitGroup
		for _, s := range containers[start:end] {
			wg.Add(1)
			go func(s *goquery.Selection) {
				defer wg.Done()
				st.processContainer(ctx, ectx, s, seen)
			}(s)
		}
		wg.Wait()
	}
}

// processContainer handles one product container with per-item
// isolation: any error or panic is logged and the container dropped.
func (st *inlineStrategy) processContainer(ctx context.Context, ectx model.ExtractionContext, s *goquery.Selection, seen *pageDedup) {
	defer func() {
		if r := recover(); r != nil {
			st.log.Warn().Interface("panic", r).Msg("Container extraction panicked, skipping item")
		}
	}()

	p, err := st.extractProduct(ectx, s)
	if err != nil {
		st.log.Warn().Err(err).Msg("Product extraction failed, skipping item")
		return
	}
	if p == nil {
		return
	}
	if !seen.claim(p.ExternalID) {
		return
	}

	p.Nutritions = st.extractNutrition(ctx, ectx, s)
	st.emit(p)
}

// pageDedup drops containers that resolve to an external ID already
// collected on the same listing page.
type pageDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newPageDedup() *pageDedup {
	return &pageDedup{seen: make(map[string]bool)}
}

func (d *pageDedup) claim(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[id] {
		return false
	}
	d.seen[id] = true
	return true
}
