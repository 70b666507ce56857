package crawler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/browser"
	"cafepick/menuworker/internal/dataset"
	"cafepick/menuworker/internal/model"
	"cafepick/menuworker/internal/nutrition"
	"cafepick/menuworker/logger"
	cerrors "cafepick/menuworker/pkg/errors"
)

// errBudgetExhausted ends traversal quietly once the request budget is
// spent; it is not an extraction failure.
var errBudgetExhausted = errors.New("request budget exhausted")

// base carries the state shared by the three traversal strategies for
// the duration of one run.
type base struct {
	def    SiteDefinition
	limits Limits
	budget *requestBudget
	out    *dataset.Dataset
	log    *logger.Logger
	page   browser.Page // nil in static mode
}

// loadDoc navigates to a URL (drawing from the request budget, with
// bounded retries) and parses a snapshot of the resulting document.
func (b *base) loadDoc(ctx context.Context, url string) (*goquery.Document, error) {
	if !b.budget.take() {
		return nil, errBudgetExhausted
	}

	retries := b.def.Options.MaxRetries
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		doc, err := b.loadOnce(ctx, url)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		var ce *cerrors.CrawlError
		if errors.As(err, &ce) && !ce.IsRetryable() {
			break
		}
		b.log.Warn().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("Page load failed")
	}
	return nil, lastErr
}

func (b *base) loadOnce(ctx context.Context, url string) (*goquery.Document, error) {
	if b.def.Options.Static {
		body, err := fetchStatic(b.def.Brand, url)
		if err != nil {
			return nil, err
		}
		doc, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			return nil, cerrors.NewParsing(b.def.Brand, "failed to parse document", err)
		}
		return doc, nil
	}

	if err := b.page.Navigate(ctx, url); err != nil {
		return nil, cerrors.NewNavigation(b.def.Brand, fmt.Sprintf("failed to load %s", url), err)
	}
	// Readiness is best effort: proceed with partial content rather
	// than failing the whole page
	ready := readyPolicy
	if b.def.Options.RequestTimeout > 0 {
		ready.MaxWait = b.def.Options.RequestTimeout
	}
	if err := ready.Wait(ctx, b.page, b.def.Selectors.ProductContainer, b.log); err != nil {
		return nil, cerrors.NewNavigation(b.def.Brand, "page never became ready", err)
	}
	return b.snapshot(ctx)
}

// snapshot parses the page's current markup without navigating
func (b *base) snapshot(ctx context.Context) (*goquery.Document, error) {
	html, err := b.page.HTML(ctx)
	if err != nil {
		return nil, cerrors.NewNavigation(b.def.Brand, "failed to snapshot page", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, cerrors.NewParsing(b.def.Brand, "failed to parse snapshot", err)
	}
	return doc, nil
}

// discoverCategories finds category links on a loaded page. When the
// site exposes none, the whole start page counts as a single implicit
// category.
func (b *base) discoverCategories(ectx model.ExtractionContext, doc *goquery.Document) []Category {
	var categories []Category

	if b.def.ExtractCategories != nil {
		found, err := b.def.ExtractCategories(ectx, doc)
		if err != nil {
			b.log.Warn().Err(err).Msg("Category extraction failed, falling back to start page")
		} else {
			categories = found
		}
	} else if b.def.Selectors.CategoryLinks != "" {
		seen := make(map[string]bool)
		doc.Find(b.def.Selectors.CategoryLinks).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			url := b.resolveURL(href)
			if url == "" || seen[url] {
				return
			}
			seen[url] = true
			categories = append(categories, Category{
				Name: strings.TrimSpace(s.Text()),
				URL:  url,
			})
		})
	}

	if len(categories) == 0 {
		categories = []Category{{Name: "", URL: b.def.StartURL}}
	}
	if b.limits.MaxCategories > 0 && len(categories) > b.limits.MaxCategories {
		categories = categories[:b.limits.MaxCategories]
	}
	return categories
}

// containers returns the product container selections of a listing
// page, capped by the per-page product limit.
func (b *base) containers(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find(b.def.Selectors.ProductContainer).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if b.limits.MaxProductsPerPage > 0 && i >= b.limits.MaxProductsPerPage {
			return false
		}
		out = append(out, s)
		return true
	})
	return out
}

// extractProduct pulls the basic product fields from one container,
// via the definition's callback or the selector-driven default. The
// missing identity fields are filled in afterwards either way.
func (b *base) extractProduct(ectx model.ExtractionContext, s *goquery.Selection) (*model.Product, error) {
	var p *model.Product
	var err error

	if b.def.ExtractProduct != nil {
		p, err = b.def.ExtractProduct(ectx, s)
	} else {
		p, err = b.defaultProduct(ectx, s)
	}
	if err != nil || p == nil {
		return nil, err
	}

	if p.ExternalCategory == "" {
		p.ExternalCategory = ectx.Category
	}
	if p.ExternalURL == "" {
		p.ExternalURL = ectx.PageURL
	}
	if p.ExternalID == "" {
		p.ExternalID = model.BuildExternalID(b.def.Brand, ectx.Category, p.Name)
	}
	if err := p.Validate(); err != nil {
		return nil, cerrors.NewExtraction(b.def.Brand, "invalid product", err)
	}
	return p, nil
}

func (b *base) defaultProduct(ectx model.ExtractionContext, s *goquery.Selection) (*model.Product, error) {
	sel := b.def.Selectors

	name := strings.TrimSpace(s.Find(sel.Name).First().Text())
	if name == "" {
		return nil, nil
	}

	p := &model.Product{Name: name}
	if sel.NameEn != "" {
		p.NameEn = strings.TrimSpace(s.Find(sel.NameEn).First().Text())
	}
	if sel.Description != "" {
		p.Description = strings.TrimSpace(s.Find(sel.Description).First().Text())
	}
	if sel.Image != "" {
		img := s.Find(sel.Image).First()
		if src, ok := img.Attr("src"); ok {
			p.ExternalImageURL = b.resolveURL(src)
		} else if src, ok := img.Attr("data-src"); ok {
			p.ExternalImageURL = b.resolveURL(src)
		}
	}
	return p, nil
}

// extractNutrition runs the definition's nutrition callback or the
// structured default, scoped to one container. Any failure here is
// downgraded to "no nutrition data"; it never aborts the product.
func (b *base) extractNutrition(ctx context.Context, ectx model.ExtractionContext, s *goquery.Selection) (n *model.Nutritions) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn().Interface("panic", r).Msg("Nutrition extraction panicked, treating as absent")
			n = nil
		}
	}()

	if b.def.ExtractNutrition != nil {
		found, err := b.def.ExtractNutrition(ctx, b.page, ectx, s)
		if err != nil {
			b.log.Debug().Err(err).Msg("Nutrition extraction failed")
			return nil
		}
		return found.OrNil()
	}

	sel := b.def.Selectors
	scope := s
	if sel.NutritionContainer != "" {
		scope = s.Find(sel.NutritionContainer)
		if scope.Length() == 0 {
			return nil
		}
	}

	if sel.NutritionLabels != "" && sel.NutritionValues != "" {
		return nutrition.FromDefinitionList(scope, sel.NutritionLabels, sel.NutritionValues)
	}
	if table := tableIn(scope); table != nil {
		return nutrition.FromHTMLTable(table)
	}
	return nutrition.FromText(scope.Text())
}

func tableIn(s *goquery.Selection) *goquery.Selection {
	if s.Is("table") {
		return s
	}
	if t := s.Find("table"); t.Length() > 0 {
		return t.First()
	}
	return nil
}

// emit validates and appends one product
func (b *base) emit(p *model.Product) {
	b.out.Append(*p)
	b.log.Debug().Str("name", p.Name).Str("external_id", p.ExternalID).Msg("Product collected")
}

// resolveURL resolves a possibly-relative href against the site base
func (b *base) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return strings.TrimSuffix(b.def.BaseURL, "/") + href
	default:
		return strings.TrimSuffix(b.def.BaseURL, "/") + "/" + href
	}
}

// maxPageNumber reads the highest page number out of the pagination
// links of a listing page. Returns 1 when none parse.
func (b *base) maxPageNumber(doc *goquery.Document) int {
	maxPage := 1
	if b.def.Selectors.PageLinks == "" {
		return maxPage
	}
	doc.Find(b.def.Selectors.PageLinks).Each(func(_ int, s *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
		if err == nil && n > maxPage {
			maxPage = n
		}
	})
	return maxPage
}

// pageURL builds the URL of page n of a category
func (b *base) pageURL(categoryURL string, page int) string {
	if b.def.PageURL != nil {
		return b.def.PageURL(categoryURL, page)
	}
	sep := "?"
	if strings.Contains(categoryURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", categoryURL, sep, page)
}

// modalWait returns the bounded wait applied to modal visibility
func (b *base) modalWait() WaitPolicy {
	wait := b.def.Options.ModalWait
	if wait <= 0 {
		wait = time.Second
	}
	return WaitPolicy{MaxWait: wait, OnTimeout: AbortOnTimeout}
}
