package sites

import (
	"cafepick/menuworker/internal/crawler"
)

// Mega renders its whole listing server-side with nutrition text inside
// each card, so it crawls statically without a browser.
func Mega() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "mega",
		BaseURL:    "https://www.mega-mgccoffee.com",
		StartURL:   "https://www.mega-mgccoffee.com/menu/?menu_category1=1",
		Strategy:   crawler.StrategyInline,
		Pagination: crawler.PaginationPageNumbers,
		Selectors: crawler.Selectors{
			ProductContainer:   "ul.cont_gallery_list > li.cont_gallery_list_item",
			Name:               "div.cont_text_title b",
			Description:        "div.cont_text_inner:not(.cont_text_info)",
			Image:              "img",
			CategoryLinks:      "ul.cont_category a",
			NutritionContainer: "div.cont_text_info",
			PageLinks:          "div.board_page a",
		},
		Options: crawler.Options{
			Static:     true,
			MaxRetries: 3,
		},
	}
}
