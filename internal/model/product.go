package model

import (
	"encoding/json"
)

// Product represents one scraped menu item
type Product struct {
	Name             string      `json:"name"`
	NameEn           string      `json:"nameEn,omitempty"`
	Description      string      `json:"description,omitempty"`
	Price            float64     `json:"price,omitempty"`
	ExternalImageURL string      `json:"externalImageUrl,omitempty"`
	Category         string      `json:"category,omitempty"`
	ExternalCategory string      `json:"externalCategory,omitempty"`
	ExternalID       string      `json:"externalId"`
	ExternalURL      string      `json:"externalUrl,omitempty"`
	ImageStorageID   string      `json:"imageStorageId,omitempty"`
	Nutritions       *Nutritions `json:"nutritions,omitempty"`
}

// Validate checks the fields required of every emitted product
func (p *Product) Validate() error {
	if p.Name == "" {
		return errMissingName
	}
	if p.ExternalID == "" {
		return errMissingExternalID
	}
	return nil
}

// Nutritions holds normalized nutrition facts. A value field is populated
// iff its companion unit field is populated; zero is a legitimate value
// (decaf caffeine, trans fat), so presence is keyed on the unit, never on
// the number.
type Nutritions struct {
	ServingSize       float64 `json:"servingSize"`
	ServingSizeUnit   string  `json:"servingSizeUnit,omitempty"`
	Calories          float64 `json:"calories"`
	CaloriesUnit      string  `json:"caloriesUnit,omitempty"`
	Carbohydrates     float64 `json:"carbohydrates"`
	CarbohydratesUnit string  `json:"carbohydratesUnit,omitempty"`
	Sugar             float64 `json:"sugar"`
	SugarUnit         string  `json:"sugarUnit,omitempty"`
	Protein           float64 `json:"protein"`
	ProteinUnit       string  `json:"proteinUnit,omitempty"`
	Fat               float64 `json:"fat"`
	FatUnit           string  `json:"fatUnit,omitempty"`
	TransFat          float64 `json:"transFat"`
	TransFatUnit      string  `json:"transFatUnit,omitempty"`
	SaturatedFat      float64 `json:"saturatedFat"`
	SaturatedFatUnit  string  `json:"saturatedFatUnit,omitempty"`
	Natrium           float64 `json:"natrium"`
	NatriumUnit       string  `json:"natriumUnit,omitempty"`
	Cholesterol       float64 `json:"cholesterol"`
	CholesterolUnit   string  `json:"cholesterolUnit,omitempty"`
	Caffeine          float64 `json:"caffeine"`
	CaffeineUnit      string  `json:"caffeineUnit,omitempty"`
}

// MarshalJSON emits a value field exactly when its unit field is set.
// float64 zero values are meaningful, so omitempty on the numbers would
// drop them; instead absent fields are pruned here by their empty unit.
func (n Nutritions) MarshalJSON() ([]byte, error) {
	type shadow struct {
		ServingSize       *float64 `json:"servingSize,omitempty"`
		ServingSizeUnit   string   `json:"servingSizeUnit,omitempty"`
		Calories          *float64 `json:"calories,omitempty"`
		CaloriesUnit      string   `json:"caloriesUnit,omitempty"`
		Carbohydrates     *float64 `json:"carbohydrates,omitempty"`
		CarbohydratesUnit string   `json:"carbohydratesUnit,omitempty"`
		Sugar             *float64 `json:"sugar,omitempty"`
		SugarUnit         string   `json:"sugarUnit,omitempty"`
		Protein           *float64 `json:"protein,omitempty"`
		ProteinUnit       string   `json:"proteinUnit,omitempty"`
		Fat               *float64 `json:"fat,omitempty"`
		FatUnit           string   `json:"fatUnit,omitempty"`
		TransFat          *float64 `json:"transFat,omitempty"`
		TransFatUnit      string   `json:"transFatUnit,omitempty"`
		SaturatedFat      *float64 `json:"saturatedFat,omitempty"`
		SaturatedFatUnit  string   `json:"saturatedFatUnit,omitempty"`
		Natrium           *float64 `json:"natrium,omitempty"`
		NatriumUnit       string   `json:"natriumUnit,omitempty"`
		Cholesterol       *float64 `json:"cholesterol,omitempty"`
		CholesterolUnit   string   `json:"cholesterolUnit,omitempty"`
		Caffeine          *float64 `json:"caffeine,omitempty"`
		CaffeineUnit      string   `json:"caffeineUnit,omitempty"`
	}

	present := func(v float64, unit string) *float64 {
		if unit == "" {
			return nil
		}
		return &v
	}

	return json.Marshal(shadow{
		ServingSize:       present(n.ServingSize, n.ServingSizeUnit),
		ServingSizeUnit:   n.ServingSizeUnit,
		Calories:          present(n.Calories, n.CaloriesUnit),
		CaloriesUnit:      n.CaloriesUnit,
		Carbohydrates:     present(n.Carbohydrates, n.CarbohydratesUnit),
		CarbohydratesUnit: n.CarbohydratesUnit,
		Sugar:             present(n.Sugar, n.SugarUnit),
		SugarUnit:         n.SugarUnit,
		Protein:           present(n.Protein, n.ProteinUnit),
		ProteinUnit:       n.ProteinUnit,
		Fat:               present(n.Fat, n.FatUnit),
		FatUnit:           n.FatUnit,
		TransFat:          present(n.TransFat, n.TransFatUnit),
		TransFatUnit:      n.TransFatUnit,
		SaturatedFat:      present(n.SaturatedFat, n.SaturatedFatUnit),
		SaturatedFatUnit:  n.SaturatedFatUnit,
		Natrium:           present(n.Natrium, n.NatriumUnit),
		NatriumUnit:       n.NatriumUnit,
		Cholesterol:       present(n.Cholesterol, n.CholesterolUnit),
		CholesterolUnit:   n.CholesterolUnit,
		Caffeine:          present(n.Caffeine, n.CaffeineUnit),
		CaffeineUnit:      n.CaffeineUnit,
	})
}

// Empty reports whether no field was populated. Extractors must return
// nil instead of an empty record, so callers can treat "no nutrition
// data" as an absent value.
func (n *Nutritions) Empty() bool {
	if n == nil {
		return true
	}
	return n.ServingSizeUnit == "" &&
		n.CaloriesUnit == "" &&
		n.CarbohydratesUnit == "" &&
		n.SugarUnit == "" &&
		n.ProteinUnit == "" &&
		n.FatUnit == "" &&
		n.TransFatUnit == "" &&
		n.SaturatedFatUnit == "" &&
		n.NatriumUnit == "" &&
		n.CholesterolUnit == "" &&
		n.CaffeineUnit == ""
}

// OrNil returns nil when the record is empty, the record otherwise
func (n *Nutritions) OrNil() *Nutritions {
	if n.Empty() {
		return nil
	}
	return n
}

// ExtractionContext is the bag of ambient values passed to extractor
// callbacks. It carries no state across calls.
type ExtractionContext struct {
	BaseURL  string
	Category string
	PageURL  string
}
