package pos

import (
	"net/http"

	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/handler"
)

// SelectTable sets (or clears) the table for the session.
func (h *Handler) SelectTable(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		TableID string `json:"table_id"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if req.TableID == "" {
		s.SelectTable(nil)
		handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
		return
	}

	tables, err := h.api.ListTables(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	for i := range tables {
		if tables[i].ID == req.TableID {
			s.SelectTable(&tables[i])
			handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
			return
		}
	}
	handler.ErrorResponse(w, r, domain.NotFound("session.table", "table", req.TableID))
}

// SelectPaymentMethod sets the payment method for the session.
func (h *Handler) SelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		PaymentMethodID string `json:"payment_method_id"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if req.PaymentMethodID == "" {
		s.SelectPaymentMethod(nil)
		handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
		return
	}

	methods, err := h.api.ListPaymentMethods(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	for i := range methods {
		if methods[i].ID == req.PaymentMethodID {
			s.SelectPaymentMethod(&methods[i])
			handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
			return
		}
	}
	handler.ErrorResponse(w, r, domain.NotFound("session.payment", "payment method", req.PaymentMethodID))
}

// SelectClient sets (or clears) the client for the session.
func (h *Handler) SelectClient(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		ClientID string `json:"client_id"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if req.ClientID == "" {
		s.SelectClient(nil)
		handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
		return
	}

	clients, err := h.api.ListClients(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	for i := range clients {
		if clients[i].ID == req.ClientID {
			s.SelectClient(&clients[i])
			handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
			return
		}
	}
	handler.ErrorResponse(w, r, domain.NotFound("session.client", "client", req.ClientID))
}

// SetDelivery switches the session between dine-in and delivery.
func (h *Handler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		IsDelivery bool `json:"is_delivery"`
		domain.DeliveryAddress
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	s.SetDelivery(req.IsDelivery, req.DeliveryAddress)
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// SetComment sets the order comment.
func (h *Handler) SetComment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	s.SetComment(req.Text)
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// AnswerTroco records the change prompt answer.
func (h *Handler) AnswerTroco(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		NeedsChange    bool    `json:"needs_change"`
		AmountReceived float64 `json:"amount_received"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if !req.NeedsChange {
		s.AnswerNoChange()
		handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
		return
	}
	if err := s.AnswerChange(req.AmountReceived); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// StartOrder submits the cart as a new order.
func (h *Handler) StartOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	order, err := h.orders.StartOrder(r.Context(), s)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, order)
}

// UpdateOrder replaces the open order with the session's state.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	order, err := h.orders.UpdateOrder(r.Context(), s)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, order)
}

// AdvanceOrder moves the open order one step along the flow.
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	order, err := h.orders.AdvanceStatus(r.Context(), s)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, order)
}

// FinalizeOrder marks the open order delivered.
func (h *Handler) FinalizeOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	order, err := h.orders.FinalizeOrder(r.Context(), s)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, order)
}

// CancelOrder cancels the open order.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	order, err := h.orders.CancelOrder(r.Context(), s)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, order)
}

// OpenOrder attaches an existing order to the session.
func (h *Handler) OpenOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.OpenOrder(r.Context(), s, req.OrderID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, order)
}

// CloseOrder detaches the open order from the session.
func (h *Handler) CloseOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.orders.CloseOrder(s)
	w.WriteHeader(http.StatusNoContent)
}

// TodaysOrders lists today's orders and refreshes the session cache.
func (h *Handler) TodaysOrders(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	orders, err := h.orders.LoadToday(r.Context(), s)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// SearchOrder finds an order by its number.
func (h *Handler) SearchOrder(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	order, err := h.orders.SearchOrder(r.Context(), number)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, order)
}

// TableOrders lists the open orders on one table.
func (h *Handler) TableOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.TableOrders(r.Context(), r.PathValue("table"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
