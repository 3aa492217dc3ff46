package domain

import (
	"strings"
)

// Status is the enumerated tag for an order's lifecycle position. The
// backend identifies statuses by free-text Portuguese names; the tag is
// resolved at the boundary so the rest of the code never compares
// display strings.
type Status string

const (
	StatusReceived   Status = "received"   // Pedido Recebido
	StatusPreparing  Status = "preparing"  // Em Preparação
	StatusReady      Status = "ready"      // Pronto
	StatusDelivering Status = "delivering" // Em Entrega
	StatusDelivered  Status = "delivered"  // Entregue
	StatusCancelled  Status = "cancelled"  // Cancelado
	StatusCompleted  Status = "completed"  // Concluído
	StatusArchived   Status = "archived"   // Arquivado
	StatusUnknown    Status = "unknown"
)

// canonicalStatusNames holds the backend's default spelling for each
// tag, used when the status records have not been loaded yet.
var canonicalStatusNames = map[Status]string{
	StatusReceived:   "Pedido Recebido",
	StatusPreparing:  "Em Preparação",
	StatusReady:      "Pronto",
	StatusDelivering: "Em Entrega",
	StatusDelivered:  "Entregue",
	StatusCancelled:  "Cancelado",
	StatusCompleted:  "Concluído",
	StatusArchived:   "Arquivado",
}

// DisplayName returns the backend's canonical spelling for the tag.
func (s Status) DisplayName() string {
	if name, ok := canonicalStatusNames[s]; ok {
		return name
	}
	return string(s)
}

// Terminal reports whether no further product or status edits are
// permitted. Cancelling an already-cancelled order is handled
// separately (idempotent no-op).
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// NormalizeStatusName strips the decorative suffix after the first "/"
// (e.g. "Pronto / Cozinha" -> "Pronto") and trims whitespace.
func NormalizeStatusName(name string) string {
	if i := strings.Index(name, "/"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// StatusFromName resolves a backend display name to its tag. The name
// is normalized first; unrecognized names map to StatusUnknown.
func StatusFromName(name string) Status {
	normalized := NormalizeStatusName(name)
	for tag, canonical := range canonicalStatusNames {
		if strings.EqualFold(normalized, canonical) {
			return tag
		}
	}
	return StatusUnknown
}

// NextStatus returns the automatic next step in the order flow. Ready
// branches on delivery: couriered orders pass through Delivering,
// dine-in orders go straight to Delivered. Statuses outside the flow
// have no automatic next and return false.
func NextStatus(s Status, isDelivery bool) (Status, bool) {
	switch s {
	case StatusReceived:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		if isDelivery {
			return StatusDelivering, true
		}
		return StatusDelivered, true
	case StatusDelivering:
		return StatusDelivered, true
	}
	return StatusUnknown, false
}

// StatusRecord is one row from the backend's order-status listing.
type StatusRecord struct {
	Name          string
	OrderPosition int
	IsInitial     bool
}

// StatusSet maps between the backend's configured status names and
// tags. Built once at startup from the status listing so transition
// payloads use the backend's own spelling (including any "/" suffix it
// configured).
type StatusSet struct {
	names   map[Status]string
	initial string
}

// NewStatusSet classifies backend status records by tag. When two
// records normalize to the same tag the first by order_position wins.
func NewStatusSet(records []StatusRecord) *StatusSet {
	set := &StatusSet{names: make(map[Status]string)}
	for _, rec := range records {
		tag := StatusFromName(rec.Name)
		if tag == StatusUnknown {
			continue
		}
		if _, seen := set.names[tag]; !seen {
			set.names[tag] = rec.Name
		}
		if rec.IsInitial && set.initial == "" {
			set.initial = rec.Name
		}
	}
	return set
}

// NameFor returns the backend's configured spelling for a tag, falling
// back to the canonical name when the tag was not in the listing.
func (ss *StatusSet) NameFor(s Status) string {
	if ss != nil {
		if name, ok := ss.names[s]; ok {
			return name
		}
	}
	return s.DisplayName()
}

// InitialName returns the name of the backend's initial status, or the
// canonical received name when none was flagged.
func (ss *StatusSet) InitialName() string {
	if ss != nil && ss.initial != "" {
		return ss.initial
	}
	return StatusReceived.DisplayName()
}
