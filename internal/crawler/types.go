package crawler

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/browser"
	"cafepick/menuworker/internal/model"
)

// StrategyKind selects the traversal algorithm a site definition plugs
// into.
type StrategyKind string

const (
	// StrategyInline is for sites whose listing pages carry everything
	// needed per product
	StrategyInline StrategyKind = "inline"
	// StrategyListDetail is for sites whose full data lives on a
	// separate detail page
	StrategyListDetail StrategyKind = "list-detail"
	// StrategyModal is for sites that reveal nutrition only through an
	// overlay interaction
	StrategyModal StrategyKind = "modal"
)

// PaginationMode selects how a strategy advances past the first page of
// a category.
type PaginationMode string

const (
	PaginationNone        PaginationMode = "none"
	PaginationPageNumbers PaginationMode = "page-numbers"
	PaginationNextButton  PaginationMode = "next-button"
)

// Category is one discovered category link
type Category struct {
	Name string
	URL  string
}

// ProductExtractor pulls the basic fields out of one product container.
// Returning (nil, nil) skips the container.
type ProductExtractor func(ectx model.ExtractionContext, s *goquery.Selection) (*model.Product, error)

// NutritionExtractor pulls nutrition for one product. The page is nil
// for static fetches; structured extractors only need the container
// selection. Returning nil means "no nutrition data".
type NutritionExtractor func(ctx context.Context, page browser.Page, ectx model.ExtractionContext, s *goquery.Selection) (*model.Nutritions, error)

// CategoryExtractor discovers category links from a loaded page
type CategoryExtractor func(ectx model.ExtractionContext, doc *goquery.Document) ([]Category, error)

// DetailIDExtractor pulls the site-native product identifier used with
// the detail URL template
type DetailIDExtractor func(s *goquery.Selection) string

// Selectors is the CSS selector table of one site definition
type Selectors struct {
	// Listing page
	ProductContainer string
	Name             string
	NameEn           string
	Description      string
	Image            string
	CategoryLinks    string

	// Nutrition, scoped to a container (listing, detail or modal)
	NutritionContainer string
	NutritionLabels    string
	NutritionValues    string

	// Pagination
	PageLinks  string
	NextButton string

	// List-detail
	DetailLink      string
	DetailContainer string

	// Modal
	ModalTrigger   string
	ModalContainer string
	ModalClose     string
}

// Options carries the runtime knobs of one site definition
type Options struct {
	// MaxConcurrency bounds in-flight container extraction within one
	// listing page (inline strategy only; the stateful strategies are
	// sequential by construction)
	MaxConcurrency int

	// MaxRequestsPerCrawl bounds outbound page loads per run; 0 means
	// unlimited
	MaxRequestsPerCrawl int

	// MaxRetries bounds navigation retries per page
	MaxRetries int

	// RequestTimeout bounds one page load
	RequestTimeout time.Duration

	// ModalWait bounds the wait for a modal to become visible
	ModalWait time.Duration

	// Static fetches listing pages over plain HTTP instead of a browser
	// (inline strategy on sites that render server-side)
	Static bool

	// Browser launch options
	Browser browser.Options
}

// SiteDefinition is the immutable per-site configuration record.
// Created once at process start from static data, never mutated.
type SiteDefinition struct {
	Brand    string
	BaseURL  string
	StartURL string

	// DetailURLTemplate builds a product detail URL from the extracted
	// identifier, e.g. "https://example.com/menu/view?id=%s"
	DetailURLTemplate string

	Strategy   StrategyKind
	Pagination PaginationMode
	Selectors  Selectors
	Options    Options

	// PageURL builds the URL for page n of a category under
	// page-numbers pagination. Defaults to appending "?page=n".
	PageURL func(categoryURL string, page int) string

	// Optional extraction overrides. Nil falls back to the
	// selector-driven defaults.
	ExtractProduct    ProductExtractor
	ExtractNutrition  NutritionExtractor
	ExtractCategories CategoryExtractor
	ExtractDetailID   DetailIDExtractor
}

// Limits caps work per run. Zero values mean uncapped; test mode caps
// categories, products per page and total requests so integration runs
// stay fast and deterministic.
type Limits struct {
	TestMode           bool
	MaxCategories      int
	MaxProductsPerPage int
	MaxRequests        int
}

// nextPageCap is the safety bound on next-button pagination loops
const nextPageCap = 50
