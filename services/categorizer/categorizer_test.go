package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cafepick/menuworker/internal/model"
)

func TestCategorizeByExternalCategory(t *testing.T) {
	c := New()

	cases := []struct {
		external string
		want     string
	}{
		{"커피", CategoryCoffee},
		{"NEW 에스프레소", CategoryCoffee},
		{"티/음료", CategoryTea},
		{"스무디&프라페", CategorySmoothie},
		{"에이드", CategoryAde},
		{"디저트", CategoryDessert},
	}
	for _, tc := range cases {
		r := c.Categorize(model.Product{Name: "x", ExternalCategory: tc.external})
		assert.Equal(t, tc.want, r.Category, tc.external)
		assert.Equal(t, SourceDirect, r.Source)
		assert.Equal(t, ConfidenceHigh, r.Confidence)
		assert.NotEmpty(t, r.MatchedRule)
	}
}

func TestCategorizeByName(t *testing.T) {
	c := New()

	cases := []struct {
		name string
		want string
	}{
		{"아이스 아메리카노", CategoryCoffee},
		{"돌체 라떼", CategoryCoffee},
		{"캐모마일 티", CategoryTea},
		{"자몽 에이드", CategoryAde},
		{"딸기 스무디", CategorySmoothie},
		{"초코 케이크", CategoryDessert},
	}
	for _, tc := range cases {
		r := c.Categorize(model.Product{Name: tc.name})
		assert.Equal(t, tc.want, r.Category, tc.name)
		assert.Equal(t, SourcePattern, r.Source)
		assert.Equal(t, ConfidenceMedium, r.Confidence)
	}
}

func TestCategorySpecificLabelWins(t *testing.T) {
	c := New()

	// A combined label matches the more specific rule, not the generic
	// one behind it
	r := c.Categorize(model.Product{Name: "x", ExternalCategory: "커피 스무디"})
	assert.Equal(t, CategorySmoothie, r.Category)
}

func TestCategorizeFallback(t *testing.T) {
	c := New()

	r := c.Categorize(model.Product{Name: "시즌 한정 세트"})
	assert.Equal(t, CategoryEtc, r.Category)
	assert.Equal(t, SourceFallback, r.Source)
	assert.Equal(t, ConfidenceLow, r.Confidence)
}

func TestApplyFillsOnlyMissing(t *testing.T) {
	c := New()

	products := c.Apply([]model.Product{
		{Name: "아메리카노", Category: "signature"},
		{Name: "자몽 에이드"},
	})

	assert.Equal(t, "signature", products[0].Category)
	assert.Equal(t, CategoryAde, products[1].Category)
}
