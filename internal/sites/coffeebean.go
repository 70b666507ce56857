package sites

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/browser"
	"cafepick/menuworker/internal/crawler"
	"cafepick/menuworker/internal/model"
	"cafepick/menuworker/internal/nutrition"
)

// CoffeeBean embeds nutrition as data attributes on each card instead
// of rendered markup, so both extractors are custom.
func CoffeeBean() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "coffeebean",
		BaseURL:    "https://www.coffeebeankorea.com",
		StartURL:   "https://www.coffeebeankorea.com/menu/list.asp?category=32",
		Strategy:   crawler.StrategyInline,
		Pagination: crawler.PaginationNone,
		Selectors: crawler.Selectors{
			ProductContainer: "ul.menu_list > li",
			Name:             "dt span",
			CategoryLinks:    "div.lnb_menu a",
		},
		Options: crawler.Options{
			MaxRetries:     2,
			RequestTimeout: 20 * time.Second,
		},
		ExtractProduct:   coffeeBeanProduct,
		ExtractNutrition: coffeeBeanNutrition,
	}
}

func coffeeBeanProduct(ectx model.ExtractionContext, s *goquery.Selection) (*model.Product, error) {
	name := strings.TrimSpace(s.Find("dt span").First().Text())
	if name == "" {
		return nil, nil
	}
	p := &model.Product{
		Name:  name,
		Price: parsePrice(s.Find("dd.price").First().Text()),
	}
	if src, ok := s.Find("img").First().Attr("src"); ok {
		p.ExternalImageURL = src
	}
	return p, nil
}

// coffeeBeanNutrition maps the card's data attributes through the
// shared Korean label table.
func coffeeBeanNutrition(ctx context.Context, page browser.Page, ectx model.ExtractionContext, s *goquery.Selection) (*model.Nutritions, error) {
	attrs := []struct{ attr, label string }{
		{"data-capacity", "1회 제공량(ml)"},
		{"data-kcal", "열량(kcal)"},
		{"data-sugar", "당류(g)"},
		{"data-protein", "단백질(g)"},
		{"data-sat-fat", "포화지방(g)"},
		{"data-sodium", "나트륨(mg)"},
		{"data-caffeine", "카페인(mg)"},
	}

	var labels, values []string
	for _, a := range attrs {
		if v, ok := s.Attr(a.attr); ok {
			labels = append(labels, a.label)
			values = append(values, v)
		}
	}
	return nutrition.FromPairs(labels, values), nil
}
