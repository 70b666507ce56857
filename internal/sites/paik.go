package sites

import (
	"cafepick/menuworker/internal/crawler"
)

// Paik serves a static listing with nutrition text under each item
func Paik() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "paik",
		BaseURL:    "https://paikdabang.com",
		StartURL:   "https://paikdabang.com/menu/menu_coffee/",
		Strategy:   crawler.StrategyInline,
		Pagination: crawler.PaginationNone,
		Selectors: crawler.Selectors{
			ProductContainer:   "ul.menu_list > li",
			Name:               "p.menu_tit",
			Description:        "div.menu_txt",
			Image:              "img",
			CategoryLinks:      "ul.menu_category a",
			NutritionContainer: "div.nutrition_table",
		},
		Options: crawler.Options{
			Static:     true,
			MaxRetries: 3,
		},
	}
}
