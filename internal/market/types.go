package market

import (
	"encoding/json"

	"github.com/cienerpi/giftcheck/internal/domain"
)

// giftRecord is the wire shape of one listing in a pageGifts response.
type giftRecord struct {
	GiftNum  int64   `json:"gift_num"`
	Name     string  `json:"name"`
	Model    string  `json:"model"`
	Symbol   string  `json:"symbol"`
	Backdrop string  `json:"backdrop"`
	Price    float64 `json:"price"`
}

func (r giftRecord) toListing() domain.Listing {
	return domain.Listing{
		ID:       r.GiftNum,
		Name:     r.Name,
		Model:    r.Model,
		Symbol:   r.Symbol,
		Backdrop: r.Backdrop,
		Price:    r.Price,
	}
}

// pageEnvelope is the enveloped variant of a pageGifts response. The API has
// shipped both "data" and "docs" as the payload field.
type pageEnvelope struct {
	Data json.RawMessage `json:"data"`
	Docs json.RawMessage `json:"docs"`
}

// decodePage accepts either a bare array of records or an envelope exposing
// the array under "data" or "docs". Any other shape decodes to an empty page.
func decodePage(body []byte) []giftRecord {
	var records []giftRecord
	if err := json.Unmarshal(body, &records); err == nil {
		return records
	}

	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	for _, raw := range [][]byte{env.Data, env.Docs} {
		if len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, &records); err == nil {
			return records
		}
	}
	return nil
}
