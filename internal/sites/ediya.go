package sites

import (
	"fmt"
	"time"

	"cafepick/menuworker/internal/crawler"
)

// Ediya paginates its drink list by page number and opens details in
// place, so each item is clicked and the listing restored afterwards.
func Ediya() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "ediya",
		BaseURL:    "https://ediya.com",
		StartURL:   "https://ediya.com/contents/drink.html",
		Strategy:   crawler.StrategyListDetail,
		Pagination: crawler.PaginationPageNumbers,
		Selectors: crawler.Selectors{
			ProductContainer: "#menu_ul > li",
			Name:             "h2",
			Image:            "img",
			DetailLink:       "a.detail_open",
			DetailContainer:  "div.detail_con",
			Description:      "div.detail_txt",
			NutritionLabels:  "dl.nutri_kind dt",
			NutritionValues:  "dl.nutri_kind dd",
			PageLinks:        "div.paging a",
		},
		Options: crawler.Options{
			MaxRetries:     2,
			RequestTimeout: 20 * time.Second,
		},
		PageURL: func(categoryURL string, page int) string {
			return fmt.Sprintf("%s?gotoPage=%d", categoryURL, page)
		},
	}
}
