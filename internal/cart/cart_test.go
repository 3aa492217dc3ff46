package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balcao-pos/balcao/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func pizza() domain.Product {
	return domain.Product{
		ID:               "pizza",
		Name:             "Pizza Margherita",
		Price:            34.9,
		PromotionalPrice: floatPtr(29.9),
		Variations: []domain.Variation{
			{ID: "grande", Name: "Grande", Price: floatPtr(39.9)},
			{ID: "media", Name: "Média"},
		},
		Optionals: []domain.Optional{
			{ID: "bacon", Name: "Bacon", Price: 5},
			{ID: "catupiry", Name: "Catupiry", Price: 4},
		},
	}
}

func TestAddItemMergesBySignature(t *testing.T) {
	c := New()
	p := pizza()
	grande := &p.Variations[0]
	optionals := []domain.OptionalSelection{
		{Optional: p.Optionals[0], Quantity: 1},
		{Optional: p.Optionals[1], Quantity: 2},
	}

	sig1 := c.AddItem(p, grande, optionals, 1)

	// Same selection with optionals listed in the opposite order must
	// land on the same line.
	reversed := []domain.OptionalSelection{
		{Optional: p.Optionals[1], Quantity: 2},
		{Optional: p.Optionals[0], Quantity: 1},
	}
	sig2 := c.AddItem(p, grande, reversed, 2)

	assert.Equal(t, sig1, sig2)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 3, c.Items()[0].Quantity)
}

func TestAddItemDistinctSignatures(t *testing.T) {
	c := New()
	p := pizza()

	base := c.AddItem(p, nil, nil, 1)
	withVariation := c.AddItem(p, &p.Variations[0], nil, 1)
	withOptional := c.AddItem(p, &p.Variations[0], []domain.OptionalSelection{
		{Optional: p.Optionals[0], Quantity: 1},
	}, 1)
	moreOfOptional := c.AddItem(p, &p.Variations[0], []domain.OptionalSelection{
		{Optional: p.Optionals[0], Quantity: 2},
	}, 1)

	sigs := map[string]bool{base: true, withVariation: true, withOptional: true, moreOfOptional: true}
	assert.Len(t, sigs, 4, "each distinct selection gets its own line")
	assert.Equal(t, 4, c.Len())
}

func TestZeroQuantityOptionalsDoNotAffectSignature(t *testing.T) {
	c := New()
	p := pizza()

	sig1 := c.AddItem(p, nil, nil, 1)
	sig2 := c.AddItem(p, nil, []domain.OptionalSelection{
		{Optional: p.Optionals[0], Quantity: 0},
	}, 1)

	assert.Equal(t, sig1, sig2)
	assert.Equal(t, 1, c.Len())
}

func TestIncrementQuantityRemovesAtZero(t *testing.T) {
	c := New()
	p := pizza()
	sig := c.AddItem(p, nil, nil, 2)

	require.NoError(t, c.IncrementQuantity(sig, -1))
	assert.Equal(t, 1, c.Items()[0].Quantity)

	require.NoError(t, c.IncrementQuantity(sig, -1))
	assert.True(t, c.IsEmpty())

	err := c.IncrementQuantity(sig, 1)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func TestObservationAndRemove(t *testing.T) {
	c := New()
	p := pizza()
	sig := c.AddItem(p, nil, nil, 1)

	require.NoError(t, c.SetObservation(sig, "sem cebola"))
	assert.Equal(t, "sem cebola", c.Items()[0].Observation)

	require.NoError(t, c.RemoveItem(sig))
	assert.True(t, c.IsEmpty())
	assert.Error(t, c.RemoveItem(sig))
}

func TestTotal(t *testing.T) {
	c := New()
	p := pizza()

	// Grande (39.90) + Bacon (5.00) = 44.90, qty 1.
	c.AddItem(p, &p.Variations[0], []domain.OptionalSelection{
		{Optional: p.Optionals[0], Quantity: 1},
	}, 1)
	assert.InDelta(t, 44.9, c.Total(), 0.001)

	// Plain promo-priced pizza, qty 2.
	c.AddItem(p, nil, nil, 2)
	assert.InDelta(t, 44.9+2*29.9, c.Total(), 0.001)
}

func TestClearAndProductIDs(t *testing.T) {
	c := New()
	p := pizza()
	other := domain.Product{ID: "coca", Name: "Coca-Cola", Price: 6}

	c.AddItem(p, nil, nil, 1)
	c.AddItem(p, &p.Variations[0], nil, 1)
	c.AddItem(other, nil, nil, 1)

	assert.Equal(t, []string{"pizza", "coca"}, c.ProductIDs())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.ProductIDs())
	assert.Zero(t, c.Total())
}
