// Package sites holds the declarative definition of every supported
// café brand. Adding a brand means adding one definition here; the
// traversal strategies and nutrition extraction are shared.
package sites

import (
	"regexp"
	"strconv"
	"strings"

	"cafepick/menuworker/internal/browser"
	"cafepick/menuworker/internal/crawler"
)

// Deps carries what site registration needs at runtime
type Deps struct {
	Browser browser.Browser
	Limits  crawler.Limits
}

// Definitions returns every built-in site definition
func Definitions() []crawler.SiteDefinition {
	return []crawler.SiteDefinition{
		Starbucks(),
		Ediya(),
		Twosome(),
		Hollys(),
		Mega(),
		Paik(),
		Gongcha(),
		Pascucci(),
		CoffeeBean(),
		TomNToms(),
		Compose(),
		Banapresso(),
	}
}

// RegisterAll registers a crawler factory for every built-in site
func RegisterAll(reg *crawler.Registry, deps Deps) {
	for _, def := range Definitions() {
		def := def
		reg.Register(def.Brand, func() (*crawler.SiteCrawler, error) {
			return crawler.New(def, deps.Browser, deps.Limits)
		})
	}
}

var priceDigits = regexp.MustCompile(`[0-9][0-9,]*`)

// parsePrice reads a won amount out of decorated price text like
// "₩4,500" or "4,500원". Returns 0 when no digits are present.
func parsePrice(s string) float64 {
	m := priceDigits.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
