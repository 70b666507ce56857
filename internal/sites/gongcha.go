package sites

import (
	"time"

	"cafepick/menuworker/internal/crawler"
)

// Gongcha opens a nutrition overlay per product; the close control is
// unreliable on some categories, which the dismissal fallback covers.
func Gongcha() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "gongcha",
		BaseURL:    "https://www.gong-cha.co.kr",
		StartURL:   "https://www.gong-cha.co.kr/brand/menu/product",
		Strategy:   crawler.StrategyModal,
		Pagination: crawler.PaginationNone,
		Selectors: crawler.Selectors{
			ProductContainer: "div.prd_wrap div.item",
			Name:             "p.prd_name",
			Image:            "img",
			CategoryLinks:    "div.menu_category a",
			ModalTrigger:     "a.btn_view",
			ModalContainer:   "div.layer_popup.nutrition",
			ModalClose:       "div.layer_popup.nutrition a.btn_close",
			NutritionLabels:  "table th",
			NutritionValues:  "table td",
		},
		Options: crawler.Options{
			MaxRetries:     2,
			RequestTimeout: 20 * time.Second,
			ModalWait:      2 * time.Second,
		},
	}
}
