package crawler

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listDetailDefinition() SiteDefinition {
	return SiteDefinition{
		Brand:             "verona",
		BaseURL:           "https://verona.example",
		StartURL:          "https://verona.example/menu",
		DetailURLTemplate: "https://verona.example/menu/view?id=%s",
		Strategy:          StrategyListDetail,
		Selectors: Selectors{
			ProductContainer: "li.item",
			Name:             "p.name",
			Description:      "div.desc",
			DetailContainer:  "div.detail",
		},
		ExtractDetailID: func(s *goquery.Selection) string {
			id, _ := s.Attr("data-id")
			return id
		},
	}
}

func detailPage(desc, nutritionText string) string {
	return `<html><body><div class="detail"><div class="desc">` + desc +
		`</div><p>` + nutritionText + `</p></div></body></html>`
}

func TestListDetailFillsFromDetailPage(t *testing.T) {
	def := listDetailDefinition()

	listing := `<html><body><ul>
<li class="item" data-id="101"><p class="name">아메리카노</p></li>
<li class="item" data-id="102"><p class="name">바닐라라떼</p></li>
</ul></body></html>`

	page := newFakePage(map[string]string{
		def.StartURL: listing,
		"https://verona.example/menu/view?id=101": detailPage("진한 에스프레소", "열량 10kcal 카페인 150mg"),
		"https://verona.example/menu/view?id=102": detailPage("바닐라 시럽", "열량 250kcal"),
	})

	products := runSite(t, def, page, Limits{})
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "verona:101", first.ExternalID)
	assert.Equal(t, "https://verona.example/menu/view?id=101", first.ExternalURL)
	assert.Equal(t, "진한 에스프레소", first.Description)
	require.NotNil(t, first.Nutritions)
	assert.Equal(t, 10.0, first.Nutritions.Calories)
	assert.Equal(t, 150.0, first.Nutritions.Caffeine)
	assert.Equal(t, "mg", first.Nutritions.CaffeineUnit)

	second := products[1]
	assert.Equal(t, "verona:102", second.ExternalID)
	require.NotNil(t, second.Nutritions)
	assert.Equal(t, 250.0, second.Nutritions.Calories)
}

func TestListDetailKeepsListingDataWhenDetailFails(t *testing.T) {
	def := listDetailDefinition()

	listing := `<html><body><ul>
<li class="item" data-id="404"><p class="name">아메리카노</p></li>
</ul></body></html>`

	// The detail URL is absent from the fake, so navigation fails
	page := newFakePage(map[string]string{def.StartURL: listing})

	products := runSite(t, def, page, Limits{})
	require.Len(t, products, 1)
	assert.Equal(t, "아메리카노", products[0].Name)
	assert.Nil(t, products[0].Nutritions)
}

func TestListDetailClickThrough(t *testing.T) {
	def := listDetailDefinition()
	def.DetailURLTemplate = ""
	def.ExtractDetailID = nil
	def.Selectors.DetailLink = "a.more"

	listing := `<html><body><ul>
<li class="item"><p class="name">아메리카노</p><a class="more">상세</a></li>
<li class="item"><p class="name">카페라떼</p><a class="more">상세</a></li>
</ul></body></html>`

	page := newFakePage(map[string]string{def.StartURL: listing})
	page.detailLink = "a.more"
	page.details = []string{
		detailPage("첫번째 설명", "열량 5kcal"),
		detailPage("두번째 설명", "열량 180kcal"),
	}

	products := runSite(t, def, page, Limits{})
	require.Len(t, products, 2)

	assert.Equal(t, "첫번째 설명", products[0].Description)
	require.NotNil(t, products[0].Nutritions)
	assert.Equal(t, 5.0, products[0].Nutritions.Calories)
	assert.Equal(t, "두번째 설명", products[1].Description)

	// Every click-through navigates back to the listing before the next
	// item
	backs := 0
	for _, url := range page.navigations {
		if url == def.StartURL {
			backs++
		}
	}
	assert.GreaterOrEqual(t, backs, 2)
}

func TestListDetailClickThroughRestoresListingWhenBudgetSpent(t *testing.T) {
	def := listDetailDefinition()
	def.DetailURLTemplate = ""
	def.ExtractDetailID = nil
	def.Selectors.DetailLink = "a.more"
	// The initial load consumes the whole budget
	def.Options.MaxRequestsPerCrawl = 1

	listing := `<html><body><ul>
<li class="item"><p class="name">아메리카노</p><a class="more">상세</a></li>
<li class="item"><p class="name">카페라떼</p><a class="more">상세</a></li>
</ul></body></html>`

	page := newFakePage(map[string]string{def.StartURL: listing})
	page.detailLink = "a.more"
	page.details = []string{
		detailPage("첫번째 설명", "열량 5kcal"),
		detailPage("두번째 설명", "열량 180kcal"),
	}

	products := runSite(t, def, page, Limits{})
	require.Len(t, products, 2)

	// Each item read its own detail view, not the previous item's
	// leftover markup
	assert.Equal(t, "첫번째 설명", products[0].Description)
	assert.Equal(t, "두번째 설명", products[1].Description)

	// The tab ends back on the listing
	assert.Empty(t, page.detailHTML)
	backs := 0
	for _, url := range page.navigations[1:] {
		if url == def.StartURL {
			backs++
		}
	}
	assert.Equal(t, 2, backs)
}

func TestListDetailSamePageDedup(t *testing.T) {
	def := listDetailDefinition()
	def.DetailURLTemplate = ""
	def.ExtractDetailID = nil

	listing := `<html><body><ul>
<li class="item"><p class="name">아메리카노</p></li>
<li class="item"><p class="name">아메리카노</p></li>
</ul></body></html>`

	page := newFakePage(map[string]string{def.StartURL: listing})

	products := runSite(t, def, page, Limits{})
	assert.Len(t, products, 1)
}

func TestListDetailNameDerivedIDWhenNoNativeID(t *testing.T) {
	def := listDetailDefinition()
	def.DetailURLTemplate = ""
	def.ExtractDetailID = nil

	listing := `<html><body><ul>
<li class="item"><p class="name">Ice 아메리카노</p></li>
</ul></body></html>`

	page := newFakePage(map[string]string{def.StartURL: listing})

	products := runSite(t, def, page, Limits{})
	require.Len(t, products, 1)
	assert.True(t, strings.HasPrefix(products[0].ExternalID, "verona:"))
	assert.Contains(t, products[0].ExternalID, "ice-아메리카노")
}
