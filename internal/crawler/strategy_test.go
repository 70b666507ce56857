package crawler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafepick/menuworker/internal/browser"
	"cafepick/menuworker/internal/dataset"
	"cafepick/menuworker/internal/model"
	"cafepick/menuworker/logger"
)

func testBase(def SiteDefinition) *base {
	return &base{
		def:    def,
		budget: newRequestBudget(0),
		out:    dataset.New(),
		log:    logger.ForBrand(def.Brand),
	}
}

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestResolveURL(t *testing.T) {
	b := testBase(SiteDefinition{BaseURL: "https://mocha.example/"})

	assert.Equal(t, "", b.resolveURL("  "))
	assert.Equal(t, "https://cdn.example/a.png", b.resolveURL("//cdn.example/a.png"))
	assert.Equal(t, "http://mocha.example/m", b.resolveURL("http://mocha.example/m"))
	assert.Equal(t, "https://mocha.example/menu/coffee", b.resolveURL("/menu/coffee"))
	assert.Equal(t, "https://mocha.example/menu/coffee", b.resolveURL("menu/coffee"))
}

func TestMaxPageNumber(t *testing.T) {
	b := testBase(SiteDefinition{Selectors: Selectors{PageLinks: "a.page"}})

	d := doc(t, `<div><a class="page">1</a><a class="page">3</a><a class="page">다음</a></div>`)
	assert.Equal(t, 3, b.maxPageNumber(d))

	empty := doc(t, `<div></div>`)
	assert.Equal(t, 1, b.maxPageNumber(empty))
}

func TestPageURL(t *testing.T) {
	b := testBase(SiteDefinition{})
	assert.Equal(t, "https://x.example/menu?page=2", b.pageURL("https://x.example/menu", 2))
	assert.Equal(t, "https://x.example/menu?cat=1&page=3", b.pageURL("https://x.example/menu?cat=1", 3))

	b.def.PageURL = func(categoryURL string, page int) string {
		return categoryURL + "#p" + string(rune('0'+page))
	}
	assert.Equal(t, "https://x.example/menu#p2", b.pageURL("https://x.example/menu", 2))
}

func TestDiscoverCategoriesDedupAndCap(t *testing.T) {
	b := testBase(SiteDefinition{
		BaseURL:   "https://mocha.example",
		StartURL:  "https://mocha.example/menu",
		Selectors: Selectors{CategoryLinks: "a.cat"},
	})
	b.limits = Limits{MaxCategories: 2}

	d := doc(t, `<nav>
<a class="cat" href="/menu/coffee">커피</a>
<a class="cat" href="/menu/coffee">커피</a>
<a class="cat" href="/menu/tea">티</a>
<a class="cat" href="/menu/ade">에이드</a>
</nav>`)

	cats := b.discoverCategories(model.ExtractionContext{}, d)
	require.Len(t, cats, 2)
	assert.Equal(t, "커피", cats[0].Name)
	assert.Equal(t, "https://mocha.example/menu/coffee", cats[0].URL)
	assert.Equal(t, "티", cats[1].Name)
}

func TestDiscoverCategoriesImplicitFallback(t *testing.T) {
	b := testBase(SiteDefinition{StartURL: "https://mocha.example/menu"})

	cats := b.discoverCategories(model.ExtractionContext{}, doc(t, `<div></div>`))
	require.Len(t, cats, 1)
	assert.Equal(t, "https://mocha.example/menu", cats[0].URL)
	assert.Equal(t, "", cats[0].Name)
}

func TestDefaultProductSkipsNameless(t *testing.T) {
	b := testBase(SiteDefinition{
		Brand:     "mocha",
		Selectors: Selectors{Name: "p.name", Image: "img"},
	})

	d := doc(t, `<li><p class="name">  </p><img src="/a.png"></li>`)
	p, err := b.extractProduct(model.ExtractionContext{}, d.Selection)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestDefaultProductDataSrcImage(t *testing.T) {
	b := testBase(SiteDefinition{
		Brand:   "mocha",
		BaseURL: "https://mocha.example",
		Selectors: Selectors{
			ProductContainer: "li",
			Name:             "p.name",
			Image:            "img",
		},
	})

	d := doc(t, `<li><p class="name">아메리카노</p><img data-src="/img/a.png"></li>`)
	p, err := b.extractProduct(model.ExtractionContext{Category: "커피", PageURL: "https://mocha.example/menu"}, d.Selection)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "https://mocha.example/img/a.png", p.ExternalImageURL)
	assert.Equal(t, "커피", p.ExternalCategory)
	assert.Equal(t, "mocha:커피:아메리카노", p.ExternalID)
}

func TestExtractNutritionPanicTreatedAsAbsent(t *testing.T) {
	b := testBase(SiteDefinition{Brand: "mocha"})
	b.def.ExtractNutrition = func(ctx context.Context, page browser.Page, ectx model.ExtractionContext, s *goquery.Selection) (*model.Nutritions, error) {
		panic("bad selector")
	}

	d := doc(t, `<li></li>`)
	assert.Nil(t, b.extractNutrition(context.Background(), model.ExtractionContext{}, d.Selection))
}

func TestRequestBudget(t *testing.T) {
	b := newRequestBudget(2)
	assert.True(t, b.take())
	assert.True(t, b.take())
	assert.False(t, b.take())

	unlimited := newRequestBudget(0)
	for i := 0; i < 1000; i++ {
		assert.True(t, unlimited.take())
	}
}

func TestPageDedup(t *testing.T) {
	d := newPageDedup()
	assert.True(t, d.claim("mocha:a"))
	assert.False(t, d.claim("mocha:a"))
	assert.True(t, d.claim("mocha:b"))
}

func TestWaitPolicyProceedOnTimeout(t *testing.T) {
	page := newFakePage(nil)
	page.modalContainer = "div.modal" // makes the wait fail while closed

	proceed := WaitPolicy{MaxWait: time.Millisecond, OnTimeout: ProceedOnTimeout}
	assert.NoError(t, proceed.Wait(context.Background(), page, "div.modal", logger.ForBrand("test")))

	abort := WaitPolicy{MaxWait: time.Millisecond, OnTimeout: AbortOnTimeout}
	assert.Error(t, abort.Wait(context.Background(), page, "div.modal", logger.ForBrand("test")))

	// A nil page or empty selector is a no-op
	assert.NoError(t, abort.Wait(context.Background(), nil, "div.modal", logger.ForBrand("test")))
	assert.NoError(t, abort.Wait(context.Background(), page, "", logger.ForBrand("test")))
}

func TestNewValidation(t *testing.T) {
	_, err := New(SiteDefinition{}, nil, Limits{})
	assert.Error(t, err)

	_, err = New(SiteDefinition{Brand: "x", StartURL: "https://x.example"}, nil, Limits{})
	assert.Error(t, err, "unknown strategy")

	_, err = New(SiteDefinition{Brand: "x", StartURL: "https://x.example", Strategy: StrategyModal}, nil, Limits{})
	assert.Error(t, err, "modal strategy needs a browser")

	_, err = New(SiteDefinition{
		Brand:    "x",
		StartURL: "https://x.example",
		Strategy: StrategyInline,
		Options:  Options{Static: true},
	}, nil, Limits{})
	assert.NoError(t, err, "static inline runs without a browser")
}
