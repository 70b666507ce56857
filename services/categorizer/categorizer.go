// Package categorizer maps site-specific category labels and product
// names onto the canonical menu taxonomy.
package categorizer

import (
	"regexp"
	"strings"

	"cafepick/menuworker/internal/model"
)

// Canonical category keys
const (
	CategoryCoffee   = "coffee"
	CategoryTea      = "tea"
	CategoryAde      = "ade"
	CategorySmoothie = "smoothie"
	CategoryDessert  = "dessert"
	CategoryEtc      = "etc"
)

// Confidence levels of a categorization decision
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Decision sources. SourceHuman marks a manual override applied
// downstream; the rule engine itself never produces it.
const (
	SourceDirect   = "direct"
	SourcePattern  = "pattern"
	SourceFallback = "fallback"
	SourceHuman    = "human"
)

// Result explains one categorization decision
type Result struct {
	Category    string
	Confidence  string // high, medium or low
	Source      string // direct, pattern, fallback or human
	MatchedRule string
}

// Categorizer assigns a canonical category to a product
type Categorizer interface {
	Categorize(p model.Product) Result
}

// labelRule maps one site category label substring to a canonical key.
// Rules apply in order so the more specific labels win.
type labelRule struct {
	label    string
	category string
}

var labelRules = []labelRule{
	{"스무디", CategorySmoothie},
	{"smoothie", CategorySmoothie},
	{"프라페", CategorySmoothie},
	{"에이드", CategoryAde},
	{"ade", CategoryAde},
	{"주스", CategoryAde},
	{"커피", CategoryCoffee},
	{"coffee", CategoryCoffee},
	{"espresso", CategoryCoffee},
	{"에스프레소", CategoryCoffee},
	{"콜드브루", CategoryCoffee},
	{"디카페인", CategoryCoffee},
	{"밀크티", CategoryTea},
	{"티", CategoryTea},
	{"tea", CategoryTea},
	{"차", CategoryTea},
	{"디저트", CategoryDessert},
	{"dessert", CategoryDessert},
	{"베이커리", CategoryDessert},
	{"푸드", CategoryDessert},
}

// namePattern is one name-based classification rule, applied in order
type namePattern struct {
	name     string
	re       *regexp.Regexp
	category string
}

var namePatterns = []namePattern{
	{"smoothie-name", regexp.MustCompile(`스무디|프라페|쉐이크|블렌디드`), CategorySmoothie},
	{"ade-name", regexp.MustCompile(`에이드|스파클링|주스`), CategoryAde},
	{"tea-name", regexp.MustCompile(`티$|밀크티|허브티|캐모마일|얼그레이|녹차|홍차|유자차`), CategoryTea},
	{"coffee-name", regexp.MustCompile(`아메리카노|라떼|에스프레소|카푸치노|모카|콜드브루|커피`), CategoryCoffee},
	{"dessert-name", regexp.MustCompile(`케이크|케익|쿠키|마카롱|스콘|베이글|샌드위치`), CategoryDessert},
}

// RuleBased categorizes by the site's own category label first and the
// product name second.
type RuleBased struct{}

// New creates a rule-based categorizer
func New() *RuleBased {
	return &RuleBased{}
}

// Categorize decides the canonical category of one product
func (c *RuleBased) Categorize(p model.Product) Result {
	ext := strings.ToLower(strings.TrimSpace(p.ExternalCategory))
	if ext != "" {
		for _, rule := range labelRules {
			if strings.Contains(ext, rule.label) {
				return Result{
					Category:    rule.category,
					Confidence:  ConfidenceHigh,
					Source:      SourceDirect,
					MatchedRule: rule.label,
				}
			}
		}
	}

	name := p.Name
	if p.NameEn != "" {
		name += " " + strings.ToLower(p.NameEn)
	}
	for _, rule := range namePatterns {
		if rule.re.MatchString(name) {
			return Result{
				Category:    rule.category,
				Confidence:  ConfidenceMedium,
				Source:      SourcePattern,
				MatchedRule: rule.name,
			}
		}
	}

	return Result{Category: CategoryEtc, Confidence: ConfidenceLow, Source: SourceFallback}
}

// Apply categorizes every product in place, filling only products
// without a category yet.
func (c *RuleBased) Apply(products []model.Product) []model.Product {
	for i := range products {
		if products[i].Category != "" {
			continue
		}
		products[i].Category = c.Categorize(products[i]).Category
	}
	return products
}
