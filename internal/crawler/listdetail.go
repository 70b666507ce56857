package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/model"
	cerrors "cafepick/menuworker/pkg/errors"
)

// listDetailStrategy crawls sites whose listing pages give only a name,
// thumbnail and link, with full data on a separate detail page. Items
// are processed sequentially because detail navigation is stateful per
// browser tab.
type listDetailStrategy struct {
	*base
}

func (st *listDetailStrategy) run(ctx context.Context) error {
	startDoc, err := st.loadDoc(ctx, st.def.StartURL)
	if err != nil {
		return err
	}

	ectx := model.ExtractionContext{BaseURL: st.def.BaseURL, PageURL: st.def.StartURL}
	categories := st.discoverCategories(ectx, startDoc)

	// The start page is itself the first category; process it from the
	// document already in hand, then visit the remaining categories,
	// excluding the one just processed.
	startCat := Category{URL: st.def.StartURL}
	for _, cat := range categories {
		if cat.URL == st.def.StartURL {
			startCat = cat
			break
		}
	}

	var firstErr error
	if err := st.crawlCategory(ctx, startCat, startDoc); err != nil {
		if errors.Is(err, errBudgetExhausted) {
			return nil
		}
		firstErr = err
	}

	for _, cat := range categories {
		if cat.URL == st.def.StartURL {
			continue
		}
		doc, err := st.loadDoc(ctx, cat.URL)
		if err != nil {
			if errors.Is(err, errBudgetExhausted) {
				return firstErr
			}
			st.log.Warn().Err(err).Str("category", cat.Name).Msg("Category failed to load, skipping")
			if firstErr == nil {
				firstErr = err
			}
			continue
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

func (st *listDetailStrategy) crawlCategory(ctx context.Context, cat Category, doc *goquery.Document) error {
	if err := st.processListing(ctx, cat, cat.URL, doc); err != nil {
		return err
	}

	if st.limits.TestMode || st.def.Pagination != PaginationPageNumbers {
		return nil
	}

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
		if err := st.processListing(ctx, cat, url, pageDoc); err != nil {
			return err
		}
	}
	return nil
}

func (st *listDetailStrategy) processListing(ctx context.Context, cat Category, pageURL string, doc *goquery.Document) error {
	ectx := model.ExtractionContext{
		BaseURL:  st.def.BaseURL,
		Category: cat.Name,
		PageURL:  pageURL,
	}

	seen := newPageDedup()
	for i, s := range st.containers(doc) {
		if err := st.processItem(ctx, ectx, i, s, seen); err != nil {
			if errors.Is(err, errBudgetExhausted) {
				return err
			}
			// Per-item isolation
			st.log.Warn().Err(err).Int("index", i).Msg("Item failed, continuing")
		}
	}
	return nil
}

// processItem extracts one listing container, then fills it in from its
// detail page: either a navigable detail URL, or a same-page detail
// control that must be clicked and undone again afterwards.
func (st *listDetailStrategy) processItem(ctx context.Context, ectx model.ExtractionContext, index int, s *goquery.Selection, seen *pageDedup) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cerrors.NewExtraction(st.def.Brand, fmt.Sprintf("item panicked: %v", r), nil)
		}
	}()

	p, perr := st.extractProduct(ectx, s)
	if perr != nil {
		return perr
	}
	if p == nil {
		return nil
	}

	detailURL := st.detailURL(p, s)
	if !seen.claim(p.ExternalID) {
		return nil
	}

	switch {
	case detailURL != "":
		detailDoc, derr := st.loadDoc(ctx, detailURL)
		if derr != nil {
			if errors.Is(derr, errBudgetExhausted) {
				return derr
			}
			// Detail page failed: keep the listing-level fields
			st.log.Warn().Err(derr).Str("url", detailURL).Msg("Detail page failed, keeping listing data")
			st.emit(p)
			return nil
		}
		p.ExternalURL = detailURL
		st.fillFromDetail(ctx, ectx, p, detailDoc)

	case st.def.Selectors.DetailLink != "" && st.page != nil:
		if err := st.clickThroughDetail(ctx, ectx, index, p); err != nil {
			st.log.Warn().Err(err).Msg("Detail interaction failed, keeping listing data")
		}
	}

	st.emit(p)
	return nil
}

// detailURL computes the navigable detail page URL for one item, from
// the site-native identifier and URL template when available, the
// detail link's href otherwise. A native identifier also replaces the
// name-derived external ID with a stable one.
func (st *listDetailStrategy) detailURL(p *model.Product, s *goquery.Selection) string {
	if st.def.ExtractDetailID != nil && st.def.DetailURLTemplate != "" {
		if id := st.def.ExtractDetailID(s); id != "" {
			p.ExternalID = model.NumericExternalID(st.def.Brand, id)
			return fmt.Sprintf(st.def.DetailURLTemplate, id)
		}
	}
	if st.def.Selectors.DetailLink != "" {
		if href, ok := s.Find(st.def.Selectors.DetailLink).First().Attr("href"); ok {
			return st.resolveURL(href)
		}
	}
	return ""
}

// clickThroughDetail opens an item's in-page detail view, extracts from
// it, and always navigates back to the originating listing URL before
// the next item, error paths included.
func (st *listDetailStrategy) clickThroughDetail(ctx context.Context, ectx model.ExtractionContext, index int, p *model.Product) error {
	// Restoring the listing is not charged against the request budget:
	// skipping it would leave the tab on the detail view and every later
	// item would extract detail markup under listing assumptions
	defer func() {
		if err := st.page.Navigate(ctx, ectx.PageURL); err != nil {
			st.log.Warn().Err(err).Msg("Failed to navigate back to listing")
		}
	}()

	if err := st.page.ClickNth(ctx, st.def.Selectors.DetailLink, index); err != nil {
		return cerrors.NewNavigation(st.def.Brand, "failed to open detail view", err)
	}
	ready := WaitPolicy{MaxWait: st.def.Options.RequestTimeout, OnTimeout: ProceedOnTimeout}
	if ready.MaxWait <= 0 {
		ready.MaxWait = readyPolicy.MaxWait
	}
	if err := ready.Wait(ctx, st.page, st.def.Selectors.DetailContainer, st.log); err != nil {
		return err
	}

	detailDoc, err := st.snapshot(ctx)
	if err != nil {
		return err
	}
	st.fillFromDetail(ctx, ectx, p, detailDoc)
	return nil
}

// fillFromDetail completes a product from its detail document
func (st *listDetailStrategy) fillFromDetail(ctx context.Context, ectx model.ExtractionContext, p *model.Product, doc *goquery.Document) {
	scope := doc.Selection
	if st.def.Selectors.DetailContainer != "" {
		if found := doc.Find(st.def.Selectors.DetailContainer); found.Length() > 0 {
			scope = found
		}
	}

	sel := st.def.Selectors
	if p.Description == "" && sel.Description != "" {
		p.Description = trimmedText(scope, sel.Description)
	}
	if p.NameEn == "" && sel.NameEn != "" {
		p.NameEn = trimmedText(scope, sel.NameEn)
	}
	if p.ExternalImageURL == "" && sel.Image != "" {
		if src, ok := scope.Find(sel.Image).First().Attr("src"); ok {
			p.ExternalImageURL = st.resolveURL(src)
		}
	}
	if n := st.extractNutrition(ctx, ectx, scope); n != nil {
		p.Nutritions = n
	}
}

func trimmedText(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}
