package orders

import "github.com/kitforge-labs/kitforge-backend/pkg/enums"

// StockAction is the inventory side effect a status transition demands.
type StockAction int

const (
	// StockActionNone leaves inventory untouched.
	StockActionNone StockAction = iota
	// StockActionRestore puts the order's reserved parts back into stock.
	StockActionRestore
)

// restoreTransitions enumerates every edge that releases reserved stock.
// Stock is reserved while an order sits in pending, pending_payment or
// payment_received; moving from one of those into any cancelled-family
// status is the single moment parts flow back. No other edge touches
// inventory, so an order cancelled twice, or cancelled after shipping,
// never double-restores.
var restoreTransitions = map[enums.OrderStatus]map[enums.OrderStatus]bool{
	enums.OrderStatusPending: {
		enums.OrderStatusCancelled:     true,
		enums.OrderStatusFailed:        true,
		enums.OrderStatusPaymentFailed: true,
		enums.OrderStatusRefunded:      true,
	},
	enums.OrderStatusPendingPayment: {
		enums.OrderStatusCancelled:     true,
		enums.OrderStatusFailed:        true,
		enums.OrderStatusPaymentFailed: true,
		enums.OrderStatusRefunded:      true,
	},
	enums.OrderStatusPaymentReceived: {
		enums.OrderStatusCancelled:     true,
		enums.OrderStatusFailed:        true,
		enums.OrderStatusPaymentFailed: true,
		enums.OrderStatusRefunded:      true,
	},
}

// TransitionAction returns the stock side effect of moving an order between
// two statuses.
func TransitionAction(from, to enums.OrderStatus) StockAction {
	if restoreTransitions[from][to] {
		return StockActionRestore
	}
	return StockActionNone
}

// HoldsStock reports whether an order in this status has parts reserved.
func HoldsStock(status enums.OrderStatus) bool {
	_, ok := restoreTransitions[status]
	return ok
}

// IsCancelledFamily reports whether the status counts as a cancellation
// for timestamping purposes.
func IsCancelledFamily(status enums.OrderStatus) bool {
	switch status {
	case enums.OrderStatusCancelled, enums.OrderStatusFailed, enums.OrderStatusPaymentFailed, enums.OrderStatusRefunded:
		return true
	default:
		return false
	}
}
