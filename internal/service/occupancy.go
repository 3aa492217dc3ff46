package service

import "github.com/balcao-pos/balcao/internal/domain"

// IsOccupied reports whether any non-terminal order sits on the table.
func IsOccupied(orders []domain.Order, tableID string) bool {
	if tableID == "" {
		return false
	}
	for _, o := range orders {
		if o.TableID == tableID && !o.Status.Terminal() {
			return true
		}
	}
	return false
}

// OccupiedByAnother reports whether an order other than currentOrderID
// holds the table. Starting a new order on an occupied table is
// blocked, but updating the order that occupies it is not.
func OccupiedByAnother(orders []domain.Order, tableID, currentOrderID string) bool {
	if tableID == "" {
		return false
	}
	for _, o := range orders {
		if o.TableID != tableID || o.Status.Terminal() {
			continue
		}
		if currentOrderID != "" && o.ID == currentOrderID {
			continue
		}
		return true
	}
	return false
}
