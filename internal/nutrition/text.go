package nutrition

import (
	"regexp"
	"strings"

	"cafepick/menuworker/internal/model"
)

// textPattern captures one labeled value from free text. Group 1 is the
// numeric value; group 2, when present, is the unit token adjacent to
// the number.
type textPattern struct {
	re          *regexp.Regexp
	defaultUnit string
	set         func(n *model.Nutritions, value float64, unit string)
}

// Labeled patterns for nutrition embedded in unstructured prose, e.g.
// "1회 제공량 355ml / 열량 180kcal / 당류 22g / 카페인 150mg".
var textPatterns = []textPattern{
	{
		re:          regexp.MustCompile(`(?:1회\s*제공량|제공량|용량)\s*[:：]?\s*([0-9][0-9.,]*)\s*(ml|mL|ML|g|oz|온스)?`),
		defaultUnit: "ml",
		set: func(n *model.Nutritions, v float64, unit string) {
			if unit == "온스" {
				unit = "oz"
			}
			n.ServingSize, n.ServingSizeUnit = NormalizeServing(v, unit)
			if n.ServingSizeUnit == "" {
				n.ServingSizeUnit = "ml"
			}
		},
	},
	{
		re:          regexp.MustCompile(`(?:열량|칼로리)\s*[:：]?\s*([0-9][0-9.,]*)\s*(kcal|Kcal|KCAL)?`),
		defaultUnit: "kcal",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Calories, n.CaloriesUnit = v, "kcal"
		},
	},
	{
		re:          regexp.MustCompile(`탄수화물\s*[:：]?\s*([0-9][0-9.,]*)\s*(g)?`),
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Carbohydrates, n.CarbohydratesUnit = v, unit
		},
	},
	{
		re:          regexp.MustCompile(`당류\s*[:：]?\s*([0-9][0-9.,]*)\s*(g)?`),
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Sugar, n.SugarUnit = v, unit
		},
	},
	{
		re:          regexp.MustCompile(`단백질\s*[:：]?\s*([0-9][0-9.,]*)\s*(g)?`),
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Protein, n.ProteinUnit = v, unit
		},
	},
	{
		re:          regexp.MustCompile(`포화\s*지방\s*[:：]?\s*([0-9][0-9.,]*)\s*(g)?`),
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.SaturatedFat, n.SaturatedFatUnit = v, unit
		},
	},
	{
		re:          regexp.MustCompile(`트랜스\s*지방\s*[:：]?\s*([0-9][0-9.,]*)\s*(g)?`),
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.TransFat, n.TransFatUnit = v, unit
		},
	},
	{
		re:          regexp.MustCompile(`(?:^|[^스화])지방\s*[:：]?\s*([0-9][0-9.,]*)\s*(g)?`),
		defaultUnit: "g",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Fat, n.FatUnit = v, unit
		},
	},
	{
		re:          regexp.MustCompile(`나트륨\s*[:：]?\s*([0-9][0-9.,]*)\s*(mg|g)?`),
		defaultUnit: "mg",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Natrium, n.NatriumUnit = v, unit
		},
	},
	{
		re:          regexp.MustCompile(`콜레스테롤\s*[:：]?\s*([0-9][0-9.,]*)\s*(mg|g)?`),
		defaultUnit: "mg",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Cholesterol, n.CholesterolUnit = v, unit
		},
	},
	{
		re:          regexp.MustCompile(`카페인\s*[:：]?\s*([0-9][0-9.,]*)\s*(mg|g)?`),
		defaultUnit: "mg",
		set: func(n *model.Nutritions, v float64, unit string) {
			n.Caffeine, n.CaffeineUnit = v, unit
		},
	},
}

// FromText applies the labeled pattern table against a blob of raw text.
// A value is accepted only when its match parses as a finite number;
// anything else is treated as "field absent". Returns nil when no
// pattern matched.
func FromText(text string) *model.Nutritions {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	n := &model.Nutritions{}
	for _, p := range textPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, ok := ParseValue(m[1])
		if !ok {
			continue
		}
		unit := ""
		if len(m) > 2 {
			unit = m[2]
		}
		if unit == "" {
			unit = p.defaultUnit
		}
		p.set(n, value, unit)
	}
	return n.OrNil()
}
