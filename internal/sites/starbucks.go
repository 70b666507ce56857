package sites

import (
	"time"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/crawler"
)

// Starbucks lists drinks on one long page and keeps description and
// nutrition on a per-product detail page addressed by product code.
func Starbucks() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:             "starbucks",
		BaseURL:           "https://www.starbucks.co.kr",
		StartURL:          "https://www.starbucks.co.kr/menu/drink_list.do",
		DetailURLTemplate: "https://www.starbucks.co.kr/menu/drink_view.do?product_cd=%s",
		Strategy:          crawler.StrategyListDetail,
		Pagination:        crawler.PaginationNone,
		Selectors: crawler.Selectors{
			ProductContainer:   "li.menuDataSet",
			Name:               "dd",
			Image:              "img",
			DetailContainer:    "div.product_view_detail",
			NameEn:             "h4 span",
			Description:        "p.t1",
			NutritionContainer: "div.product_info_content",
			NutritionLabels:    "dt",
			NutritionValues:    "dd",
		},
		Options: crawler.Options{
			MaxRetries:     2,
			RequestTimeout: 20 * time.Second,
		},
		ExtractDetailID: func(s *goquery.Selection) string {
			prod, _ := s.Find("a.goDrinkView").Attr("prod")
			return prod
		},
	}
}
