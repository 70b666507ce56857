package sites

import (
	"time"

	"cafepick/menuworker/internal/crawler"
)

// TomNToms loads more items through a next control instead of page
// links.
func TomNToms() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "tomntoms",
		BaseURL:    "https://www.tomntoms.com",
		StartURL:   "https://www.tomntoms.com/menu/coffee",
		Strategy:   crawler.StrategyInline,
		Pagination: crawler.PaginationNextButton,
		Selectors: crawler.Selectors{
			ProductContainer:   "div.menu-grid div.menu-card",
			Name:               "p.menu-name",
			NameEn:             "p.menu-name-en",
			Image:              "img",
			CategoryLinks:      "nav.menu-nav a",
			NutritionContainer: "div.menu-nutrition",
			NextButton:         "button.btn-more",
		},
		Options: crawler.Options{
			MaxRetries:     2,
			RequestTimeout: 20 * time.Second,
		},
	}
}
