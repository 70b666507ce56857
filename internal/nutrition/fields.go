package nutrition

import (
	"strings"

	"cafepick/menuworker/internal/model"
)

// fieldRule maps a label keyword to a canonical nutrition field. Rules
// are matched in order; the compound fat labels must come before the
// bare "지방" rule or they would be swallowed by it.
type fieldRule struct {
	keywords    []string
	defaultUnit string
	set         func(n *model.Nutritions, value float64, unit string)
}

var fieldRules = []fieldRule{
	{
		keywords:    []string{"제공량", "serving"},
		defaultUnit: "ml",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.ServingSize, n.ServingSizeUnit = NormalizeServing(v, unit)
			if n.ServingSizeUnit == "" {
				n.ServingSizeUnit = "ml"
			}
		},
	},
	{
		keywords:    []string{"열량", "칼로리", "calorie", "kcal"},
		defaultUnit: "kcal",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Calories, n.CaloriesUnit = v, unit
		},
	},
	{
		keywords:    []string{"탄수화물", "carbohydrate"},
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Carbohydrates, n.CarbohydratesUnit = v, unit
		},
	},
	{
		keywords:    []string{"당류", "당분", "sugar"},
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Sugar, n.SugarUnit = v, unit
		},
	},
	{
		keywords:    []string{"단백질", "protein"},
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Protein, n.ProteinUnit = v, unit
		},
	},
	{
		keywords:    []string{"포화지방", "saturated"},
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.SaturatedFat, n.SaturatedFatUnit = v, unit
		},
	},
	{
		keywords:    []string{"트랜스지방", "트랜스 지방", "trans"},
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.TransFat, n.TransFatUnit = v, unit
		},
	},
	{
		keywords:    []string{"지방", "fat"},
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Fat, n.FatUnit = v, unit
		},
	},
	{
		keywords:    []string{"나트륨", "sodium", "natrium"},
		defaultUnit: "mg",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Natrium, n.NatriumUnit = v, unit
		},
	},
	{
		keywords:    []string{"콜레스테롤", "cholesterol"},
		defaultUnit: "mg",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Cholesterol, n.CholesterolUnit = v, unit
		},
	},
	{
		keywords:    []string{"카페인", "caffeine"},
		defaultUnit: "mg",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Caffeine, n.CaffeineUnit = v, unit
		},
	},
}

// ApplyLabeled assigns one labeled raw value to its canonical field.
// Unknown labels and unparseable values are ignored. The unit comes from
// the label's parentheses when present, the rule default otherwise.
// Exported so site-specific custom extractors can reuse the mapping.
func ApplyLabeled(n *model.Nutritions, label, raw string) {
	value, ok := ParseValue(raw)
	if !ok {
		return
	}

	lower := strings.ToLower(label)
	for _, rule := range fieldRules {
		if !containsAny(lower, rule.keywords) {
			continue
		}
		unit := UnitFromLabel(label)
		if unit == "" {
			unit = rule.defaultUnit
		}
		rule.set(n, value, unit)
		return
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
