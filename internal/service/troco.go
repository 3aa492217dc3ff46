package service

// Troco is the state of the cash change prompt. Answered distinguishes
// "not asked yet" from "asked and declined". An answer belongs to the
// cart total it was validated against; any cart content change discards
// it so the prompt comes back for the new total.
type Troco struct {
	Answered       bool
	NeedsChange    bool
	AmountReceived float64
	Change         float64
}

// ShouldPromptChange reports whether the change prompt must be shown
// before the order can be sent: cash payment, non-empty cart, and no
// answer recorded yet.
func (s *Session) ShouldPromptChange() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paymentMethod == nil || !s.paymentMethod.IsCash() {
		return false
	}
	if s.cart.IsEmpty() {
		return false
	}
	return !s.troco.Answered
}

// AnswerChange records that the customer pays cash and needs change
// for the given amount. The amount must be positive and cover the cart
// total; the computed change is total-exact at zero.
func (s *Session) AnswerChange(amountReceived float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amountReceived <= 0 {
		return ErrInvalidAmount
	}
	total := s.cart.Total()
	if amountReceived < total {
		return ErrChangeBelowTotal
	}

	s.troco = Troco{
		Answered:       true,
		NeedsChange:    true,
		AmountReceived: amountReceived,
		Change:         amountReceived - total,
	}
	return nil
}

// AnswerNoChange records that no change is needed.
func (s *Session) AnswerNoChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.troco = Troco{Answered: true}
}

// TrocoState returns the current change answer.
func (s *Session) TrocoState() Troco {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.troco
}
