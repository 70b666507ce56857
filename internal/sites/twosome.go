package sites

import (
	"time"

	"cafepick/menuworker/internal/crawler"
)

// Twosome reveals nutrition only through a per-product overlay
func Twosome() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "twosome",
		BaseURL:    "https://mo.twosome.co.kr",
		StartURL:   "https://mo.twosome.co.kr/mn/menuInfoList.do?grpSeq=8",
		Strategy:   crawler.StrategyModal,
		Pagination: crawler.PaginationNone,
		Selectors: crawler.Selectors{
			ProductContainer: "ul.menu-list > li",
			Name:             "strong.menu-tit",
			NameEn:           "span.menu-tit-en",
			Image:            "img",
			CategoryLinks:    "ul.tab-menu a",
			ModalTrigger:     "a.btn-nutrient",
			ModalContainer:   "div.nutrient-layer",
			ModalClose:       "div.nutrient-layer button.btn-close",
			NutritionLabels:  "table.nutrient-table th",
			NutritionValues:  "table.nutrient-table td",
		},
		Options: crawler.Options{
			MaxRetries:     2,
			RequestTimeout: 20 * time.Second,
			ModalWait:      3 * time.Second,
		},
	}
}
