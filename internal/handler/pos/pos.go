// Package pos exposes the terminal API: sessions, the cart and
// selection flow, the order lifecycle, recommendations and the
// catalog proxies.
package pos

import (
	"log/slog"
	"net/http"

	"github.com/balcao-pos/balcao/internal/backend"
	"github.com/balcao-pos/balcao/internal/cart"
	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/handler"
	"github.com/balcao-pos/balcao/internal/service"
	"github.com/balcao-pos/balcao/internal/state"
	"github.com/balcao-pos/balcao/internal/telemetry"
)

// Handler serves the terminal endpoints.
type Handler struct {
	sessions    *service.SessionManager
	orders      *service.OrderService
	recommender *service.Recommender
	api         backend.API
	flags       *state.FlagStore
	catalog     map[string]domain.Product
	metrics     *telemetry.BusinessMetrics
	logger      *slog.Logger
}

// metricsCartAdd counts a cart line addition.
func (h *Handler) metricsCartAdd() {
	h.metrics.CartItemAdded()
}

// Config wires the handler's collaborators.
type Config struct {
	Sessions    *service.SessionManager
	Orders      *service.OrderService
	Recommender *service.Recommender
	API         backend.API
	Flags       *state.FlagStore

	// Products resolves product IDs for cart additions.
	Products []domain.Product

	Metrics *telemetry.BusinessMetrics
	Logger  *slog.Logger
}

// NewHandler creates the terminal handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	catalog := make(map[string]domain.Product, len(cfg.Products))
	for _, p := range cfg.Products {
		catalog[p.ID] = p
	}
	return &Handler{
		sessions:    cfg.Sessions,
		orders:      cfg.Orders,
		recommender: cfg.Recommender,
		api:         cfg.API,
		flags:       cfg.Flags,
		catalog:     catalog,
		metrics:     cfg.Metrics,
		logger:      logger,
	}
}

// session resolves the {id} path segment to a live session, writing
// the error response itself on failure.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	id := r.PathValue("id")
	s, ok := h.sessions.Get(id)
	if !ok {
		handler.ErrorResponse(w, r, domain.NotFound("session.get", "session", id))
		return nil, false
	}
	return s, true
}

// CreateSession starts a fresh terminal session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	h.logger.Info("session created", "session_id", s.ID)
	handler.RespondJSON(w, http.StatusCreated, h.snapshot(s))
}

// GetSession returns the session snapshot.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// DeleteSession discards a session.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// Snapshot
// -----------------------------------------------------------------------------

type cartLineView struct {
	Signature   string                     `json:"signature"`
	ProductID   string                     `json:"product_id"`
	ProductName string                     `json:"product_name"`
	Quantity    int                        `json:"quantity"`
	UnitPrice   float64                    `json:"unit_price"`
	LineTotal   float64                    `json:"line_total"`
	Observation string                     `json:"observation,omitempty"`
	Variation   *domain.VariationSnapshot  `json:"variation,omitempty"`
	Optionals   []domain.OptionalSnapshot  `json:"optionals,omitempty"`
}

type selectionView struct {
	ProductID    string         `json:"product_id"`
	ProductName  string         `json:"product_name"`
	VariationID  string         `json:"variation_id,omitempty"`
	Optionals    map[string]int `json:"optionals,omitempty"`
	RunningTotal float64        `json:"running_total"`
}

type trocoView struct {
	ShouldPrompt   bool    `json:"should_prompt"`
	Answered       bool    `json:"answered"`
	NeedsChange    bool    `json:"needs_change"`
	AmountReceived float64 `json:"amount_received,omitempty"`
	Change         float64 `json:"change,omitempty"`
}

type sessionView struct {
	ID            string                 `json:"id"`
	Cart          []cartLineView         `json:"cart"`
	CartTotal     float64                `json:"cart_total"`
	Selection     *selectionView         `json:"selection,omitempty"`
	Table         *domain.Table          `json:"table,omitempty"`
	PaymentMethod *domain.PaymentMethod  `json:"payment_method,omitempty"`
	Client        *domain.Client         `json:"client,omitempty"`
	IsDelivery    bool                   `json:"is_delivery"`
	Delivery      domain.DeliveryAddress `json:"delivery"`
	Comment       string                 `json:"comment,omitempty"`
	Troco         trocoView              `json:"troco"`
	CurrentOrder  *domain.Order          `json:"current_order,omitempty"`
}

func (h *Handler) snapshot(s *service.Session) sessionView {
	view := sessionView{
		ID:            s.ID,
		Cart:          cartViews(s.CartItems()),
		CartTotal:     s.CartTotal(),
		Table:         s.Table(),
		PaymentMethod: s.PaymentMethod(),
		Client:        s.Client(),
		IsDelivery:    s.IsDelivery(),
		Delivery:      s.Delivery(),
		Comment:       s.Comment(),
		CurrentOrder:  s.CurrentOrder(),
	}

	troco := s.TrocoState()
	view.Troco = trocoView{
		ShouldPrompt:   s.ShouldPromptChange(),
		Answered:       troco.Answered,
		NeedsChange:    troco.NeedsChange,
		AmountReceived: troco.AmountReceived,
		Change:         troco.Change,
	}

	if state, open := s.SelectionState(); open {
		view.Selection = selectionViewOf(state)
	}
	return view
}

func selectionViewOf(state cart.SelectionState) *selectionView {
	view := &selectionView{
		ProductID:    state.Product.ID,
		ProductName:  state.Product.Name,
		VariationID:  state.VariationID,
		RunningTotal: state.RunningTotal,
	}
	if len(state.OptionalQty) > 0 {
		view.Optionals = state.OptionalQty
	}
	return view
}
