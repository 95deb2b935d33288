package domain

// FloorQuote is the minimum price among currently active listings matching a
// filter (collection-wide or model-specific). The zero value means no usable
// floor: no match was found, the fetch failed, or the minimum was zero.
// A zero minimum is deliberately unusable to keep percentage math sane.
type FloorQuote struct {
	Price float64
	OK    bool
}

// Floor constructs a FloorQuote from a raw minimum price. Non-positive prices
// yield an unusable quote.
func Floor(price float64) FloorQuote {
	if price <= 0 {
		return FloorQuote{}
	}
	return FloorQuote{Price: price, OK: true}
}

// Delta returns the percentage distance of price from this floor. An unusable
// floor yields the neutral delta.
func (q FloorQuote) Delta(price float64) PriceDelta {
	if !q.OK {
		return PriceDelta{}
	}
	return PriceDelta{Pct: (price - q.Price) / q.Price * 100, Known: true}
}

// PriceDelta is the percentage gap between a listing price and a floor. The
// zero value is the neutral "no change" sentinel used when no floor exists.
type PriceDelta struct {
	Pct   float64
	Known bool
}

// Direction classifies the delta for presentation.
func (d PriceDelta) Direction() Direction {
	const eps = 1e-6
	switch {
	case !d.Known, d.Pct > -eps && d.Pct < eps:
		return Flat
	case d.Pct < 0:
		return Down
	default:
		return Up
	}
}

// Direction is the sign of a price delta.
type Direction int

const (
	Flat Direction = iota
	Down
	Up
)
