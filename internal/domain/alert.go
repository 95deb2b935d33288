package domain

// Alert bundles a listing with its resolved floors and deltas, ready for
// formatting.
type Alert struct {
	Listing         Listing
	CollectionFloor FloorQuote
	ModelFloor      FloorQuote
	CollectionDelta PriceDelta
	ModelDelta      PriceDelta
}

// Message is the rendered form of an alert handed to notification senders.
// Emphasis and interactive affordances are the sender's concern; the message
// carries only semantic fields.
type Message struct {
	Title       string
	Body        string
	ActionLink  string // deep link to act on the listing
	PreviewLink string // preview asset for the listing
}
