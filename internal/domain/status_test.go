package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatusName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pronto", "Pronto"},
		{"Pronto / Cozinha", "Pronto"},
		{"  Em Preparação  ", "Em Preparação"},
		{"Cancelado/Caixa", "Cancelado"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeStatusName(tt.in), tt.in)
	}
}

func TestStatusFromName(t *testing.T) {
	assert.Equal(t, StatusReceived, StatusFromName("Pedido Recebido"))
	assert.Equal(t, StatusPreparing, StatusFromName("em preparação"))
	assert.Equal(t, StatusReady, StatusFromName("Pronto / Cozinha"))
	assert.Equal(t, StatusCancelled, StatusFromName("Cancelado"))
	assert.Equal(t, StatusUnknown, StatusFromName("Aguardando Pagamento"))
}

func TestTerminalSet(t *testing.T) {
	terminal := []Status{StatusDelivered, StatusCancelled, StatusCompleted, StatusArchived}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), string(s))
	}
	open := []Status{StatusReceived, StatusPreparing, StatusReady, StatusDelivering, StatusUnknown}
	for _, s := range open {
		assert.False(t, s.Terminal(), string(s))
	}
}

func TestNextStatusBranchesOnDelivery(t *testing.T) {
	next, ok := NextStatus(StatusReady, false)
	assert.True(t, ok)
	assert.Equal(t, StatusDelivered, next, "dine-in skips the courier step")

	next, ok = NextStatus(StatusReady, true)
	assert.True(t, ok)
	assert.Equal(t, StatusDelivering, next)

	_, ok = NextStatus(StatusDelivered, false)
	assert.False(t, ok)
	_, ok = NextStatus(StatusUnknown, false)
	assert.False(t, ok)
}

func TestStatusSetPrefersBackendSpelling(t *testing.T) {
	set := NewStatusSet([]StatusRecord{
		{Name: "Pedido Recebido", OrderPosition: 1, IsInitial: true},
		{Name: "Pronto / Cozinha", OrderPosition: 3},
	})

	assert.Equal(t, "Pronto / Cozinha", set.NameFor(StatusReady))
	assert.Equal(t, "Em Preparação", set.NameFor(StatusPreparing), "missing tags fall back to canonical names")
	assert.Equal(t, "Pedido Recebido", set.InitialName())

	var nilSet *StatusSet
	assert.Equal(t, "Cancelado", nilSet.NameFor(StatusCancelled))
}
