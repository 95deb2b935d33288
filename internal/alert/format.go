// Package alert renders evaluated listings into messages. Message layout is a
// tagged style variant so new layouts do not fork the pipeline; emphasis and
// interactive affordances stay with the notification senders.
package alert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cienerpi/giftcheck/internal/domain"
)

// Style selects the message layout.
type Style string

const (
	// StyleFull is the multi-line layout with both floors and all attributes.
	StyleFull Style = "full"
	// StyleCompact is a single-line layout for low-noise channels.
	StyleCompact Style = "compact"
)

// ParseStyle validates a configured style name.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(s)) {
	case StyleFull:
		return StyleFull, nil
	case StyleCompact:
		return StyleCompact, nil
	default:
		return "", fmt.Errorf("alert: unknown style %q (valid: full, compact)", s)
	}
}

// Formatter renders alerts in one configured style.
type Formatter struct {
	style Style
}

// NewFormatter creates a Formatter for the given style.
func NewFormatter(style Style) *Formatter {
	return &Formatter{style: style}
}

// Format renders the alert. The action link targets the listing on the
// marketplace; the preview link is the listing's animated asset.
func (f *Formatter) Format(a domain.Alert) domain.Message {
	l := a.Listing
	actionLink := fmt.Sprintf("https://t.me/nft/%s-%d", l.CollectionKey(), l.ID)

	msg := domain.Message{
		Title:       fmt.Sprintf("🎁 %s #%d", l.Name, l.ID),
		ActionLink:  actionLink,
		PreviewLink: actionLink + ".gif",
	}

	switch f.style {
	case StyleCompact:
		msg.Body = fmt.Sprintf("%s TON (floor %s %s, model %s %s)",
			formatPrice(l.Price),
			formatFloor(a.CollectionFloor), formatDelta(a.CollectionDelta),
			formatFloor(a.ModelFloor), formatDelta(a.ModelDelta),
		)
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "Price: %s TON\n\n", formatPrice(l.Price))
		fmt.Fprintf(&b, "Floor (all): %s (%s)\n", formatFloor(a.CollectionFloor), formatDelta(a.CollectionDelta))
		fmt.Fprintf(&b, "Floor (model «%s»): %s (%s)\n\n", l.Model, formatFloor(a.ModelFloor), formatDelta(a.ModelDelta))
		fmt.Fprintf(&b, "Model: %s\n", l.Model)
		fmt.Fprintf(&b, "Symbol: %s\n", l.Symbol)
		fmt.Fprintf(&b, "Backdrop: %s", l.Backdrop)
		msg.Body = b.String()
	}

	return msg
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func formatFloor(q domain.FloorQuote) string {
	if !q.OK {
		return "— TON"
	}
	return formatPrice(q.Price) + " TON"
}

// formatDelta renders a directional marker and the absolute percentage gap.
// The neutral sentinel keeps the original "+0.0%" spelling so a missing floor
// is distinguishable from an exact floor match.
func formatDelta(d domain.PriceDelta) string {
	if !d.Known {
		return "😐+0.0%"
	}
	marker := "😐"
	switch d.Direction() {
	case domain.Down:
		marker = "🔻"
	case domain.Up:
		marker = "🔺"
	}
	pct := d.Pct
	if pct < 0 {
		pct = -pct
	}
	return fmt.Sprintf("%s%.1f%%", marker, pct)
}
