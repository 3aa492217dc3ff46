// Package service implements the terminal-side order flow: session
// state, the order lifecycle against the backend, table occupancy,
// the cash change prompt and recommendations.
package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balcao-pos/balcao/internal/cart"
	"github.com/balcao-pos/balcao/internal/domain"
)

// Session is the state of one terminal: the cart being assembled, the
// chosen table, payment method and client, the change prompt, and the
// order currently open on the terminal.
//
// All access goes through methods holding the session mutex. Backend
// calls never happen under the lock; the mutation guard and refresh
// sequence coordinate the in-flight window instead.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	cart      *cart.Cart
	selection *cart.Selection

	table         *domain.Table
	paymentMethod *domain.PaymentMethod
	client        *domain.Client
	isDelivery    bool
	delivery      domain.DeliveryAddress
	comment       string

	troco Troco

	current      *domain.Order
	todaysOrders []domain.Order

	// mutating is set while an order mutation is in flight so a second
	// tap on the same button cannot start a concurrent submit.
	mutating bool

	// refreshSeq orders async refetches; a refresh that finishes after
	// a newer one started is discarded.
	refreshSeq uint64
}

func newSession() *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		cart:      cart.New(),
	}
}

// -----------------------------------------------------------------------------
// Cart and selection
// -----------------------------------------------------------------------------

// AddProduct adds a product to the cart, or opens the selection dialog
// when the product has variations or optionals to choose. Returns the
// affected line's signature, or "" with opened=true when a selection
// was opened instead.
func (s *Session) AddProduct(product domain.Product) (signature string, opened bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.HasSelections() {
		s.selection = cart.NewSelection(product)
		return "", true
	}
	// A change answer is only valid for the total it was given for.
	s.troco = Troco{}
	return s.cart.AddItem(product, nil, nil, 1), false
}

// SelectionState returns a copy of the open selection dialog's state.
// The copy is taken under the session lock, so a concurrent variation
// or optional edit cannot race the read.
func (s *Session) SelectionState() (cart.SelectionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return cart.SelectionState{}, false
	}
	return s.selection.State(), true
}

// ChooseVariation sets the variation on the open selection.
func (s *Session) ChooseVariation(variationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return domain.Invalid("selection.variation", "No selection dialog is open")
	}
	return s.selection.ChooseVariation(variationID)
}

// SetOptionalQuantity sets an optional quantity on the open selection.
func (s *Session) SetOptionalQuantity(optionalID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return domain.Invalid("selection.optional", "No selection dialog is open")
	}
	return s.selection.SetOptionalQuantity(optionalID, quantity)
}

// ConfirmSelection validates the open selection, merges the resulting
// line into the cart and closes the dialog. The dialog stays open on
// validation failure.
func (s *Session) ConfirmSelection() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return "", domain.Invalid("selection.confirm", "No selection dialog is open")
	}

	item, err := s.selection.Confirm()
	if err != nil {
		return "", err
	}
	s.selection = nil
	s.troco = Troco{}
	return s.cart.AddItem(item.Product, item.Variation, item.Optionals, item.Quantity), nil
}

// CancelSelection closes the dialog without touching the cart.
func (s *Session) CancelSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

// IncrementQuantity adjusts a cart line, removing it at zero. The
// change answer is discarded: the total it covered no longer exists.
func (s *Session) IncrementQuantity(signature string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.IncrementQuantity(signature, delta); err != nil {
		return err
	}
	s.troco = Troco{}
	return nil
}

// SetObservation attaches a note to a cart line.
func (s *Session) SetObservation(signature, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.SetObservation(signature, text)
}

// RemoveCartItem deletes a cart line.
func (s *Session) RemoveCartItem(signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.RemoveItem(signature); err != nil {
		return err
	}
	s.troco = Troco{}
	return nil
}

// ClearCart empties the cart and resets the change prompt, which only
// makes sense for the cart it was answered for.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.troco = Troco{}
}

// CartItems returns a copy of the cart lines.
func (s *Session) CartItems() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

// CartTotal returns the current cart total.
func (s *Session) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// CartIsEmpty reports whether the cart has no lines.
func (s *Session) CartIsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

// CartProductIDs returns the distinct product IDs in the cart.
func (s *Session) CartProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ProductIDs()
}

// -----------------------------------------------------------------------------
// Checkout context
// -----------------------------------------------------------------------------

// SelectTable sets (or clears) the table for the next order.
func (s *Session) SelectTable(table *domain.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}

// Table returns the selected table.
func (s *Session) Table() *domain.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// SelectPaymentMethod sets the payment method. Moving away from cash
// discards the change answer: it belonged to the cash choice.
func (s *Session) SelectPaymentMethod(method *domain.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if method == nil || !method.IsCash() {
		s.troco = Troco{}
	}
	s.paymentMethod = method
}

// PaymentMethod returns the selected payment method.
func (s *Session) PaymentMethod() *domain.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentMethod
}

// SelectClient sets (or clears) the client for the next order.
func (s *Session) SelectClient(client *domain.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

// Client returns the selected client.
func (s *Session) Client() *domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// SetDelivery marks the order as a delivery with the given address, or
// back to dine-in with a zero address.
func (s *Session) SetDelivery(isDelivery bool, address domain.DeliveryAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isDelivery = isDelivery
	if isDelivery {
		s.delivery = address
	} else {
		s.delivery = domain.DeliveryAddress{}
	}
}

// IsDelivery reports whether the next order is a delivery.
func (s *Session) IsDelivery() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDelivery
}

// Delivery returns the delivery address.
func (s *Session) Delivery() domain.DeliveryAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivery
}

// SetComment sets the free-text order comment.
func (s *Session) SetComment(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comment = text
}

// Comment returns the order comment.
func (s *Session) Comment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comment
}

// -----------------------------------------------------------------------------
// Current order and refresh coordination
// -----------------------------------------------------------------------------

// CurrentOrder returns a copy of the order open on this terminal, or
// nil.
func (s *Session) CurrentOrder() *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	order := *s.current
	return &order
}

// setCurrent replaces the open order.
func (s *Session) setCurrent(order *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = order
}

// TodaysOrders returns the cached order list for today.
func (s *Session) TodaysOrders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]domain.Order, len(s.todaysOrders))
	copy(orders, s.todaysOrders)
	return orders
}

// beginMutation claims the in-flight slot. A second mutation while one
// is being sent is rejected rather than queued: the double-tap must
// not produce two submits.
func (s *Session) beginMutation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutating {
		return ErrMutationInFlight
	}
	s.mutating = true
	return nil
}

// endMutation releases the in-flight slot.
func (s *Session) endMutation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutating = false
}

// nextRefreshSeq claims a sequence number for an async refetch.
func (s *Session) nextRefreshSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshSeq++
	return s.refreshSeq
}

// applyRefresh installs a refetched order list unless a newer refetch
// has started since. Returns whether the result was applied.
func (s *Session) applyRefresh(seq uint64, orders []domain.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.refreshSeq {
		return false
	}
	s.todaysOrders = orders
	return true
}

// resetAfterSubmit clears the cart and checkout context once an order
// was accepted by the backend.
func (s *Session) resetAfterSubmit(order *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.selection = nil
	s.troco = Troco{}
	s.comment = ""
	s.current = order
}

// -----------------------------------------------------------------------------
// Session manager
// -----------------------------------------------------------------------------

// SessionManager owns the live terminal sessions.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager returns an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Create starts a fresh session.
func (m *SessionManager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := newSession()
	m.sessions[s.ID] = s
	return s
}

// Get looks up a session by ID.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
