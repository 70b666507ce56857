package sites

import (
	"time"

	"cafepick/menuworker/internal/crawler"
)

// Pascucci links each card to a conventional detail page
func Pascucci() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:      "pascucci",
		BaseURL:    "https://www.caffe-pascucci.co.kr",
		StartURL:   "https://www.caffe-pascucci.co.kr/menu/menuList.asp",
		Strategy:   crawler.StrategyListDetail,
		Pagination: crawler.PaginationNone,
		Selectors: crawler.Selectors{
			ProductContainer:   "ul.menuList > li",
			Name:               "p.tit",
			Image:              "img",
			CategoryLinks:      "div.menuCategory a",
			DetailLink:         "a",
			DetailContainer:    "div.menuView",
			NameEn:             "p.engTit",
			Description:        "p.txt",
			NutritionContainer: "table.nutritionTable",
		},
		Options: crawler.Options{
			MaxRetries:     2,
			RequestTimeout: 20 * time.Second,
		},
	}
}
