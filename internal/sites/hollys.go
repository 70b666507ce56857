package sites

import (
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/crawler"
)

var hollysMenuNo = regexp.MustCompile(`menuView\.do\?menuNo=(\d+)`)

// Hollys addresses detail pages by a numeric menu number embedded in
// the listing hrefs.
func Hollys() crawler.SiteDefinition {
	return crawler.SiteDefinition{
		Brand:             "hollys",
		BaseURL:           "https://www.hollys.co.kr",
		StartURL:          "https://www.hollys.co.kr/menu/espresso.do",
		DetailURLTemplate: "https://www.hollys.co.kr/menu/menuView.do?menuNo=%s",
		Strategy:          crawler.StrategyListDetail,
		Pagination:        crawler.PaginationPageNumbers,
		Selectors: crawler.Selectors{
			ProductContainer:   "ul.menu_list01 > li",
			Name:               "a.name",
			Image:              "img",
			CategoryLinks:      "div.menu_tab a",
			DetailContainer:    "div.menu_view",
			NameEn:             "p.eng_name",
			Description:        "p.menu_txt",
			NutritionContainer: "div.nutri_info",
			NutritionLabels:    "th",
			NutritionValues:    "td",
			PageLinks:          "div.paging a",
		},
		Options: crawler.Options{
			MaxRetries:     2,
			RequestTimeout: 20 * time.Second,
		},
		ExtractDetailID: func(s *goquery.Selection) string {
			href, ok := s.Find("a").First().Attr("href")
			if !ok {
				return ""
			}
			if m := hollysMenuNo.FindStringSubmatch(href); m != nil {
				return m[1]
			}
			return ""
		},
	}
}
