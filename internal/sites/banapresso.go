package sites

import (
	"time"

	"cafepick/menuworker/internal/crawler"
)

// Banapresso renders its menu client-side, so the inline strategy runs
// it in a browser with a readiness wait on the product grid.
func Banapresso() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "banapresso",
		BaseURL:    "https://www.banapresso.com",
		StartURL:   "https://www.banapresso.com/menu",
		Strategy:   crawler.StrategyInline,
		Pagination: crawler.PaginationNone,
		Selectors: crawler.Selectors{
			ProductContainer:   "ul.prd_list > li",
			Name:               "p.prd_name",
			Image:              "img",
			CategoryLinks:      "div.tab_wrap a",
			NutritionContainer: "div.prd_info",
		},
		Options: crawler.Options{
			MaxRetries:     2,
			RequestTimeout: 25 * time.Second,
		},
	}
}
