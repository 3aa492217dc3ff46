package pos

import (
	"net/http"

	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/handler"
	"github.com/balcao-pos/balcao/internal/pricing"
)

func cartViews(items []domain.CartItem) []cartLineView {
	views := make([]cartLineView, 0, len(items))
	for _, item := range items {
		view := cartLineView{
			Signature:   item.Signature(),
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   pricing.UnitPrice(item),
			LineTotal:   pricing.LineTotal(item),
			Observation: item.Observation,
		}
		if item.Variation != nil {
			snapshot := domain.VariationSnapshot{ID: item.Variation.ID, Name: item.Variation.Name}
			if item.Variation.Price != nil {
				snapshot.Price = *item.Variation.Price
			}
			view.Variation = &snapshot
		}
		for _, sel := range item.Optionals {
			view.Optionals = append(view.Optionals, domain.OptionalSnapshot{
				ID:       sel.Optional.ID,
				Name:     sel.Optional.Name,
				Price:    sel.Optional.Price,
				Quantity: sel.Quantity,
			})
		}
		views = append(views, view)
	}
	return views
}

// AddCartItem adds a product to the cart by ID, or opens the selection
// dialog when the product requires choices.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, ok := h.catalog[req.ProductID]
	if !ok {
		handler.ErrorResponse(w, r, domain.NotFound("cart.add", "product", req.ProductID))
		return
	}

	_, opened := s.AddProduct(product)
	if !opened {
		h.metricsCartAdd()
	}
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// ChooseVariation sets the variation on the open selection dialog.
func (h *Handler) ChooseVariation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		VariationID string `json:"variation_id"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := s.ChooseVariation(req.VariationID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// SetOptionalQuantity sets an optional quantity on the open dialog.
func (h *Handler) SetOptionalQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		OptionalID string `json:"optional_id"`
		Quantity   int    `json:"quantity"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := s.SetOptionalQuantity(req.OptionalID, req.Quantity); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// ConfirmSelection commits the dialog's line into the cart.
func (h *Handler) ConfirmSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := s.ConfirmSelection(); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.metricsCartAdd()
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// CancelSelection closes the dialog without adding anything.
func (h *Handler) CancelSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.CancelSelection()
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// SetQuantity adjusts a cart line by a delta.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := s.IncrementQuantity(r.PathValue("signature"), req.Delta); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// SetObservation attaches a note to a cart line.
func (h *Handler) SetObservation(w http.ResponseWriter, r *http.Request) {
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
	if err := s.SetObservation(r.PathValue("signature"), req.Text); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// RemoveCartItem deletes a cart line.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.RemoveCartItem(r.PathValue("signature")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.ClearCart()
	handler.RespondJSON(w, http.StatusOK, h.snapshot(s))
}

// Recommendations returns the suggestion strip for the cart.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	products := h.recommender.ForCart(r.Context(), s)
	handler.RespondJSON(w, http.StatusOK, map[string]any{"products": products})
}
