package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafepick/menuworker/exporter"
	"cafepick/menuworker/internal/crawler"
	"cafepick/menuworker/internal/model"
	"cafepick/menuworker/services/categorizer"
)

// newMenuServer serves a two-category menu site the way the static
// café sites render: server-side listing pages with a nutrition table
// per card.
func newMenuServer() *httptest.Server {
	card := func(name string) string {
		return fmt.Sprintf(`<li class="item"><p class="name">%s</p>
<div class="nutrition"><table>
<tr><th>1회 제공량(g)</th><th>열량(kcal)</th><th>당류(g)</th><th>카페인(mg)</th></tr>
<tr><td>-</td><td>250</td><td>35</td><td>-</td></tr>
</table></div></li>`, name)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/menu", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<a class="cat" href="/menu/coffee">커피</a>
<a class="cat" href="/menu/tea">티</a>
</body></html>`)
	})
	mux.HandleFunc("/menu/coffee", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><ul>`+card("아이스 아메리카노")+card("카페라떼")+`</ul></body></html>`)
	})
	mux.HandleFunc("/menu/tea", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><ul>`+card("캐모마일 티")+card("얼그레이 티")+`</ul></body></html>`)
	})
	return httptest.NewServer(mux)
}

func TestStaticCrawlToExport(t *testing.T) {
	server := newMenuServer()
	defer server.Close()

	def := crawler.SiteDefinition{
		Brand:    "localcafe",
		BaseURL:  server.URL,
		StartURL: server.URL + "/menu",
		Strategy: crawler.StrategyInline,
		Selectors: crawler.Selectors{
			ProductContainer:   "li.item",
			Name:               "p.name",
			CategoryLinks:      "a.cat",
			NutritionContainer: "div.nutrition",
		},
		Options: crawler.Options{Static: true},
	}

	c, err := crawler.New(def, nil, crawler.Limits{})
	require.NoError(t, err)

	products, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 4)

	for _, p := range products {
		require.NotNil(t, p.Nutritions, p.Name)
		assert.Equal(t, 250.0, p.Nutritions.Calories)
		assert.Equal(t, "kcal", p.Nutritions.CaloriesUnit)
		assert.Equal(t, 35.0, p.Nutritions.Sugar)
		assert.Empty(t, p.Nutritions.ServingSizeUnit)
		assert.Empty(t, p.Nutritions.CaffeineUnit)
	}

	products = categorizer.New().Apply(products)
	categories := make(map[string]string)
	for _, p := range products {
		categories[p.Name] = p.Category
	}
	assert.Equal(t, categorizer.CategoryCoffee, categories["아이스 아메리카노"])
	assert.Equal(t, categorizer.CategoryTea, categories["캐모마일 티"])

	path, err := exporter.WriteProducts(t.TempDir(), "localcafe", products)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []model.Product
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded, 4)
}

func TestStaticCrawlTestModeBudget(t *testing.T) {
	server := newMenuServer()
	defer server.Close()

	def := crawler.SiteDefinition{
		Brand:    "localcafe",
		BaseURL:  server.URL,
		StartURL: server.URL + "/menu",
		Strategy: crawler.StrategyInline,
		Selectors: crawler.Selectors{
			ProductContainer: "li.item",
			Name:             "p.name",
			CategoryLinks:    "a.cat",
		},
		Options: crawler.Options{Static: true},
	}

	c, err := crawler.New(def, nil, crawler.Limits{
		TestMode:           true,
		MaxCategories:      1,
		MaxProductsPerPage: 1,
	})
	require.NoError(t, err)

	products, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
