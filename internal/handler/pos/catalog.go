package pos

import (
	"net/http"

	"github.com/balcao-pos/balcao/internal/handler"
)

// Products proxies the product catalog.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.api.ListProducts(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"products": products})
}

// Categories proxies the category listing.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.api.ListCategories(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Tables proxies the table listing.
func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.api.ListTables(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

// PaymentMethods proxies the payment method listing, kinds included.
func (h *Handler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.api.ListPaymentMethods(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"payment_methods": methods})
}

// Clients proxies the client listing.
func (h *Handler) Clients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.api.ListClients(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

// Statuses proxies the order-status ladder.
func (h *Handler) Statuses(w http.ResponseWriter, r *http.Request) {
	records, err := h.api.ListStatuses(r.Context(), true)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"statuses": records})
}

// LookupCEP resolves a postal code into address fields.
func (h *Handler) LookupCEP(w http.ResponseWriter, r *http.Request) {
	info, err := h.api.LookupPostalCode(r.Context(), r.PathValue("code"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, info)
}

// Flags returns the terminal's durable flags.
func (h *Handler) Flags(w http.ResponseWriter, r *http.Request) {
	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"tutorial_completed": h.flags.TutorialCompleted(),
	})
}

// CompleteTutorial marks the tutorial done.
func (h *Handler) CompleteTutorial(w http.ResponseWriter, r *http.Request) {
	if err := h.flags.SetTutorialCompleted(); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotificationRead reports whether a notification was read.
func (h *Handler) NotificationRead(w http.ResponseWriter, r *http.Request) {
	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"read": h.flags.IsNotificationRead(r.PathValue("notification")),
	})
}

// MarkNotificationRead marks a notification as read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.flags.MarkNotificationRead(r.PathValue("notification")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
