package policy

import (
	"testing"

	"github.com/cienerpi/giftcheck/internal/domain"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		want    string
		wantErr bool
	}{
		{"all", Params{Kind: "all"}, "all", false},
		{"backdrop", Params{Kind: "backdrop", BackdropPrefix: "Platinum"}, "backdrop", false},
		{"discount", Params{Kind: "discount", DiscountRatio: 0.9}, "discount", false},
		{"kind is case-insensitive", Params{Kind: "ALL"}, "all", false},
		{"backdrop needs prefix", Params{Kind: "backdrop"}, "", true},
		{"discount ratio too high", Params{Kind: "discount", DiscountRatio: 1.5}, "", true},
		{"discount ratio zero", Params{Kind: "discount"}, "", true},
		{"unknown kind", Params{Kind: "fancy"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q; want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestUnconditional(t *testing.T) {
	p := NewUnconditional([]string{"DeskCalendar", "LolPop"})

	if p.ShouldAlert(domain.Listing{Name: "Lol Pop"}, domain.FloorQuote{}, domain.FloorQuote{}) {
		t.Error("muted collection must not alert")
	}
	if !p.ShouldAlert(domain.Listing{Name: "Plush Pepe"}, domain.FloorQuote{}, domain.FloorQuote{}) {
		t.Error("unmuted collection must alert")
	}
}

func TestBackdropPrefix(t *testing.T) {
	p := &BackdropPrefix{prefix: "Platinum"}

	tests := []struct {
		backdrop string
		want     bool
	}{
		{"PlatinumRare", true},
		{"Platinum", true},
		{"Gold", false},
		{"", false},
		{"platinumrare", false}, // prefix match is case-sensitive
	}

	for _, tt := range tests {
		got := p.ShouldAlert(domain.Listing{Backdrop: tt.backdrop}, domain.FloorQuote{}, domain.FloorQuote{})
		if got != tt.want {
			t.Errorf("ShouldAlert(backdrop=%q) = %v; want %v", tt.backdrop, got, tt.want)
		}
	}
}

func TestDiscount(t *testing.T) {
	p := &Discount{ratio: 0.9}

	tests := []struct {
		name       string
		price      float64
		collection domain.FloorQuote
		model      domain.FloorQuote
		want       bool
	}{
		{"exactly at threshold", 81, domain.Floor(90), domain.FloorQuote{}, true},
		{"just above threshold", 82, domain.Floor(90), domain.FloorQuote{}, false},
		{"model floor alone fires", 81, domain.FloorQuote{}, domain.Floor(90), true},
		{"either floor suffices", 81, domain.Floor(10), domain.Floor(90), true},
		{"no floors never fires", 1, domain.FloorQuote{}, domain.FloorQuote{}, false},
		{"zero floor never fires", 0.1, domain.Floor(0), domain.FloorQuote{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ShouldAlert(domain.Listing{Price: tt.price}, tt.collection, tt.model)
			if got != tt.want {
				t.Errorf("ShouldAlert(price=%v) = %v; want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestEvaluateDeltas(t *testing.T) {
	p := NewUnconditional(nil)
	l := domain.Listing{Name: "Plush Pepe", Price: 110}

	d := Evaluate(p, l, domain.Floor(100), domain.FloorQuote{})
	if !d.Alert {
		t.Error("unconditional policy should alert")
	}
	if !d.CollectionDelta.Known || d.CollectionDelta.Pct != 10 {
		t.Errorf("CollectionDelta = %+v; want known +10%%", d.CollectionDelta)
	}
	if d.ModelDelta.Known {
		t.Errorf("ModelDelta = %+v; want neutral for absent floor", d.ModelDelta)
	}
	if d.ModelDelta.Direction() != domain.Flat {
		t.Errorf("ModelDelta.Direction() = %v; want Flat", d.ModelDelta.Direction())
	}
}
