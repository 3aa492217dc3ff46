package pricing

import (
	"encoding/json"
	"testing"

	"github.com/balcao-pos/balcao/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"nil", nil, 0},
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"numeric string", "29.90", 29.9},
		{"comma decimal string", "29,90", 29.9},
		{"padded string", "  10.00 ", 10},
		{"json number", json.Number("4.25"), 4.25},
		{"non-numeric string", "abc", 0},
		{"empty string", "", 0},
		{"negative", -3.5, 0},
		{"negative string", "-3.50", 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEffective(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
		want    float64
	}{
		{
			name:    "no promotion",
			product: domain.Product{Price: 30},
			want:    30,
		},
		{
			name:    "promotion lower than base",
			product: domain.Product{Price: 30, PromotionalPrice: floatPtr(24.9)},
			want:    24.9,
		},
		{
			name:    "promotion equal to base is ignored",
			product: domain.Product{Price: 30, PromotionalPrice: floatPtr(30)},
			want:    30,
		},
		{
			name:    "promotion above base is ignored",
			product: domain.Product{Price: 30, PromotionalPrice: floatPtr(35)},
			want:    30,
		},
		{
			name:    "negative promotion is ignored",
			product: domain.Product{Price: 30, PromotionalPrice: floatPtr(-1)},
			want:    30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Effective(tt.product); got != tt.want {
				t.Errorf("Effective() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnitPrice(t *testing.T) {
	product := domain.Product{
		ID:               "pizza-margherita",
		Name:             "Pizza Margherita",
		Price:            34.9,
		PromotionalPrice: floatPtr(29.9),
		Variations: []domain.Variation{
			{ID: "grande", Name: "Grande", Price: floatPtr(39.9)},
			{ID: "media", Name: "Média"},
		},
	}

	t.Run("variation price replaces base", func(t *testing.T) {
		item := domain.CartItem{
			Product:   product,
			Quantity:  1,
			Variation: &product.Variations[0],
		}
		if got := UnitPrice(item); got != 39.9 {
			t.Errorf("UnitPrice() = %v, want 39.9", got)
		}
	})

	t.Run("variation without price falls back to effective price", func(t *testing.T) {
		item := domain.CartItem{
			Product:   product,
			Quantity:  1,
			Variation: &product.Variations[1],
		}
		if got := UnitPrice(item); got != 29.9 {
			t.Errorf("UnitPrice() = %v, want 29.9 (promotional)", got)
		}
	})

	t.Run("optionals are additive per quantity", func(t *testing.T) {
		item := domain.CartItem{
			Product:  product,
			Quantity: 1,
			Optionals: []domain.OptionalSelection{
				{Optional: domain.Optional{ID: "bacon", Price: 5}, Quantity: 2},
				{Optional: domain.Optional{ID: "catupiry", Price: 4}, Quantity: 1},
			},
		}
		if got := UnitPrice(item); got != 29.9+10+4 {
			t.Errorf("UnitPrice() = %v, want %v", got, 29.9+10+4)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		item := domain.CartItem{
			Product:   product,
			Quantity:  3,
			Variation: &product.Variations[0],
			Optionals: []domain.OptionalSelection{
				{Optional: domain.Optional{ID: "bacon", Price: 5}, Quantity: 1},
			},
		}
		first := UnitPrice(item)
		second := UnitPrice(item)
		if first != second {
			t.Errorf("UnitPrice not idempotent: %v then %v", first, second)
		}
	})

	// End-to-end pricing scenario: promo base 29.90, variation that
	// overrides to +10 over promo, one optional at 5.00.
	t.Run("scenario margherita grande with bacon", func(t *testing.T) {
		grande := domain.Variation{ID: "grande", Name: "Grande", Price: floatPtr(39.9)}
		item := domain.CartItem{
			Product:   product,
			Quantity:  1,
			Variation: &grande,
			Optionals: []domain.OptionalSelection{
				{Optional: domain.Optional{ID: "bacon", Name: "Bacon", Price: 5}, Quantity: 1},
			},
		}
		if got := UnitPrice(item); got != 44.9 {
			t.Errorf("UnitPrice() = %v, want 44.90", got)
		}
		if got := LineTotal(item); got != 44.9 {
			t.Errorf("LineTotal() = %v, want 44.90", got)
		}
	})
}
