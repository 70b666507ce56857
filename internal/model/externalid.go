package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	errMissingName       = errors.New("product name is required")
	errMissingExternalID = errors.New("product external id is required")
)

// BuildExternalID derives a stable external ID from site-native parts
// (brand, category, product name). Re-crawling the same catalog yields
// the same IDs, which is what lets the store match unchanged/updated
// items across runs.
//
// Known limitation: when a site exposes no numeric product ID the name
// itself participates in the ID, so a cosmetic rename mints a new ID and
// downstream sees a remove+create instead of an update.
func BuildExternalID(brand string, parts ...string) string {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, slug(brand))
	for _, p := range parts {
		if s := slug(p); s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, ":")
}

// NumericExternalID derives an external ID from a site's own numeric
// product identifier. Preferred over BuildExternalID whenever the site
// embeds one.
func NumericExternalID(brand string, id string) string {
	return fmt.Sprintf("%s:%s", slug(brand), strings.TrimSpace(id))
}

// slug lowercases and collapses every non-letter, non-digit run into a
// single hyphen. Hangul counts as letters, so Korean product names stay
// readable in the ID.
func slug(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
