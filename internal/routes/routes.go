// Package routes maps the terminal API onto the router.
package routes

import (
	"net/http"

	"github.com/balcao-pos/balcao/internal/handler/pos"
	"github.com/balcao-pos/balcao/internal/middleware"
	"github.com/balcao-pos/balcao/internal/router"
)

// Deps carries everything route registration needs.
type Deps struct {
	POS     *pos.Handler
	Metrics *middleware.Metrics
}

// Register mounts every route on the router.
func Register(r *router.Router, deps Deps) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	if deps.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	h := deps.POS
	api := r.Group()

	// Sessions.
	api.Post("/api/pos/sessions", h.CreateSession)
	api.Get("/api/pos/sessions/{id}", h.GetSession)
	api.Delete("/api/pos/sessions/{id}", h.DeleteSession)

	// Cart and the selection dialog.
	api.Post("/api/pos/sessions/{id}/cart/items", h.AddCartItem)
	api.Put("/api/pos/sessions/{id}/cart/items/{signature}/quantity", h.SetQuantity)
	api.Put("/api/pos/sessions/{id}/cart/items/{signature}/observation", h.SetObservation)
	api.Delete("/api/pos/sessions/{id}/cart/items/{signature}", h.RemoveCartItem)
	api.Delete("/api/pos/sessions/{id}/cart", h.ClearCart)
	api.Post("/api/pos/sessions/{id}/selection/variation", h.ChooseVariation)
	api.Post("/api/pos/sessions/{id}/selection/optionals", h.SetOptionalQuantity)
	api.Post("/api/pos/sessions/{id}/selection/confirm", h.ConfirmSelection)
	api.Delete("/api/pos/sessions/{id}/selection", h.CancelSelection)
	api.Get("/api/pos/sessions/{id}/recommendations", h.Recommendations)

	// Checkout context.
	api.Put("/api/pos/sessions/{id}/table", h.SelectTable)
	api.Put("/api/pos/sessions/{id}/payment-method", h.SelectPaymentMethod)
	api.Put("/api/pos/sessions/{id}/client", h.SelectClient)
	api.Put("/api/pos/sessions/{id}/delivery", h.SetDelivery)
	api.Put("/api/pos/sessions/{id}/comment", h.SetComment)
	api.Post("/api/pos/sessions/{id}/troco", h.AnswerTroco)

	// Order lifecycle.
	api.Post("/api/pos/sessions/{id}/order", h.StartOrder)
	api.Put("/api/pos/sessions/{id}/order", h.UpdateOrder)
	api.Post("/api/pos/sessions/{id}/order/advance", h.AdvanceOrder)
	api.Post("/api/pos/sessions/{id}/order/finalize", h.FinalizeOrder)
	api.Post("/api/pos/sessions/{id}/order/cancel", h.CancelOrder)
	api.Post("/api/pos/sessions/{id}/order/open", h.OpenOrder)
	api.Delete("/api/pos/sessions/{id}/order", h.CloseOrder)
	api.Get("/api/pos/sessions/{id}/orders/today", h.TodaysOrders)

	// Lookups.
	api.Get("/api/pos/orders/search", h.SearchOrder)
	api.Get("/api/pos/tables/{table}/orders", h.TableOrders)
	api.Get("/api/pos/products", h.Products)
	api.Get("/api/pos/categories", h.Categories)
	api.Get("/api/pos/tables", h.Tables)
	api.Get("/api/pos/payment-methods", h.PaymentMethods)
	api.Get("/api/pos/clients", h.Clients)
	api.Get("/api/pos/statuses", h.Statuses)
	api.Get("/api/pos/cep/{code}", h.LookupCEP)

	// Terminal flags.
	api.Get("/api/pos/flags", h.Flags)
	api.Post("/api/pos/flags/tutorial-completed", h.CompleteTutorial)
	api.Get("/api/pos/flags/notifications/{notification}", h.NotificationRead)
	api.Post("/api/pos/flags/notifications/{notification}/read", h.MarkNotificationRead)
}
