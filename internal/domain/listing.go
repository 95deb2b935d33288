// Package domain defines the core types shared across the giftcheck pipeline:
// marketplace listings, floor quotes, rendered alerts, and the delivery error
// taxonomy.
package domain

import (
	"strings"
	"unicode"
)

// Listing is one gift instance offered on the marketplace. It is produced
// fresh each poll cycle and never mutated afterwards.
type Listing struct {
	ID       int64   // marketplace gift number, unique per listing
	Name     string  // display name, e.g. "Desk Calendar #3"
	Model    string  // variant label within the collection
	Symbol   string  // symbol attribute
	Backdrop string  // backdrop / rarity category label
	Price    float64 // asking price in TON
}

// CollectionKey returns the normalized grouping key for the listing's
// collection.
func (l Listing) CollectionKey() string {
	return NormalizeName(l.Name)
}

// NormalizeName projects a display name onto its alphanumeric characters,
// preserving their order. "Desk Calendar #3" becomes "DeskCalendar3". The key
// groups listings into collections and is embedded in deep links.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
