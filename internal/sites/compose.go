package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/crawler"
	"cafepick/menuworker/internal/model"
)

// Compose serves static listing pages with a price per card
func Compose() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "compose",
		BaseURL:    "https://composecoffee.com",
		StartURL:   "https://composecoffee.com/menu/category/185",
		Strategy:   crawler.StrategyInline,
		Pagination: crawler.PaginationPageNumbers,
		Selectors: crawler.Selectors{
			ProductContainer:   "div.itemBox",
			Name:               "h3.title",
			Image:              "img",
			CategoryLinks:      "ul.menu-category a",
			NutritionContainer: "div.info_txt",
			PageLinks:          "ul.pagination a",
		},
		Options: crawler.Options{
			Static:     true,
			MaxRetries: 3,
		},
		ExtractProduct: composeProduct,
	}
}

func composeProduct(ectx model.ExtractionContext, s *goquery.Selection) (*model.Product, error) {
	name := strings.TrimSpace(s.Find("h3.title").First().Text())
	if name == "" {
		return nil, nil
	}
	p := &model.Product{
		Name:  name,
		Price: parsePrice(s.Find("p.price").First().Text()),
	}
	if src, ok := s.Find("img").First().Attr("src"); ok {
		p.ExternalImageURL = src
	}
	return p, nil
}
