// Package policy implements the alert policies that decide whether a new
// listing is worth announcing. Exactly one policy is active per deployment;
// the variants share one pipeline instead of forking it.
package policy

import (
	"fmt"
	"strings"

	"github.com/cienerpi/giftcheck/internal/domain"
)

// Policy decides whether a listing should be announced, given the resolved
// collection-wide and model-specific floors.
type Policy interface {
	Name() string
	ShouldAlert(l domain.Listing, collection, model domain.FloorQuote) bool
}

// Params selects and parameterizes the active policy.
type Params struct {
	Kind            string   // "all", "backdrop", or "discount"
	SkipCollections []string // collection keys muted under "all"
	BackdropPrefix  string   // backdrop prefix required under "backdrop"
	DiscountRatio   float64  // price/floor ratio at or below which "discount" fires
}

// New constructs the policy selected by p.Kind.
func New(p Params) (Policy, error) {
	switch strings.ToLower(p.Kind) {
	case "all":
		return NewUnconditional(p.SkipCollections), nil
	case "backdrop":
		if p.BackdropPrefix == "" {
			return nil, fmt.Errorf("policy: backdrop policy needs a non-empty prefix")
		}
		return &BackdropPrefix{prefix: p.BackdropPrefix}, nil
	case "discount":
		if p.DiscountRatio <= 0 || p.DiscountRatio > 1 {
			return nil, fmt.Errorf("policy: discount ratio must be in (0, 1], got %v", p.DiscountRatio)
		}
		return &Discount{ratio: p.DiscountRatio}, nil
	default:
		return nil, fmt.Errorf("policy: unknown kind %q (valid: all, backdrop, discount)", p.Kind)
	}
}

// Unconditional announces every new listing except those whose collection key
// is on the mute list.
type Unconditional struct {
	skip map[string]bool
}

// NewUnconditional builds the unconditional policy with the given muted
// collection keys.
func NewUnconditional(skipCollections []string) *Unconditional {
	skip := make(map[string]bool, len(skipCollections))
	for _, key := range skipCollections {
		skip[key] = true
	}
	return &Unconditional{skip: skip}
}

func (u *Unconditional) Name() string { return "all" }

func (u *Unconditional) ShouldAlert(l domain.Listing, _, _ domain.FloorQuote) bool {
	return !u.skip[l.CollectionKey()]
}

// BackdropPrefix announces only listings whose backdrop label starts with the
// configured prefix.
type BackdropPrefix struct {
	prefix string
}

func (b *BackdropPrefix) Name() string { return "backdrop" }

func (b *BackdropPrefix) ShouldAlert(l domain.Listing, _, _ domain.FloorQuote) bool {
	return strings.HasPrefix(l.Backdrop, b.prefix)
}

// Discount announces listings priced at or below floor × ratio for either
// floor. An unusable floor suppresses only its own branch.
type Discount struct {
	ratio float64
}

func (d *Discount) Name() string { return "discount" }

func (d *Discount) ShouldAlert(l domain.Listing, collection, model domain.FloorQuote) bool {
	return d.atDiscount(l.Price, collection) || d.atDiscount(l.Price, model)
}

func (d *Discount) atDiscount(price float64, floor domain.FloorQuote) bool {
	return floor.OK && price <= floor.Price*d.ratio
}

// Decision is the evaluator's verdict for one listing, carrying the derived
// deltas so the formatter does not recompute them.
type Decision struct {
	Alert           bool
	CollectionDelta domain.PriceDelta
	ModelDelta      domain.PriceDelta
}

// Evaluate applies the policy to a listing and derives the percentage delta
// against each floor. Absent floors yield neutral deltas, never an error.
func Evaluate(p Policy, l domain.Listing, collection, model domain.FloorQuote) Decision {
	return Decision{
		Alert:           p.ShouldAlert(l, collection, model),
		CollectionDelta: collection.Delta(l.Price),
		ModelDelta:      model.Delta(l.Price),
	}
}
