package service

import "github.com/balcao-pos/balcao/internal/domain"

// Sentinel errors for the order flow. Handlers map these to HTTP via
// their domain error codes.
var (
	ErrEmptyCart        = domain.Invalid("order.start", "Add at least one item before sending the order")
	ErrNoPaymentMethod  = domain.Invalid("order.start", "Choose a payment method before sending the order")
	ErrNoTable          = domain.Invalid("order.start", "Choose a table or mark the order as delivery")
	ErrTableOccupied    = domain.Conflict("order.start", "This table already has an open order")
	ErrNoCurrentOrder   = domain.Invalid("order", "No order is open on this terminal")
	ErrOrderTerminal    = domain.Conflict("order", "This order is closed and can no longer be changed")
	ErrAlreadyDelivered = domain.Conflict("order.finalize", "This order was already delivered")
	ErrNoNextStatus     = domain.Conflict("order.advance", "This order has no automatic next status")
	ErrMutationInFlight = domain.Conflict("order", "Another change to this order is still being sent")
	ErrCompanyRequired  = domain.Invalid("order", "A company token is required")
	ErrInvalidAmount    = domain.NewValidationError("troco.answer", "valor_recebido", "Enter an amount greater than zero")
	ErrChangeBelowTotal = domain.NewValidationError("troco.answer", "valor_recebido", "The amount received must cover the order total")
)
