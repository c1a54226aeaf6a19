package service

import (
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/model"
)

// nextStatus encodes the linear happy path of the order lifecycle.
var nextStatus = map[model.OrderStatus]model.OrderStatus{
	model.OrderStatusPending:   model.OrderStatusConfirmed,
	model.OrderStatusConfirmed: model.OrderStatusPreparing,
	model.OrderStatusPreparing: model.OrderStatusArriving,
	model.OrderStatusArriving:  model.OrderStatusCompleted,
}

// ValidOrderStatus reports whether the status is one of the seven
// lifecycle states.
func ValidOrderStatus(status model.OrderStatus) bool {
	switch status {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusPreparing,
		model.OrderStatusArriving, model.OrderStatusCompleted, model.OrderStatusCancelled,
		model.OrderStatusRejected:
		return true
	}
	return false
}

// TerminalStatus reports whether no further transitions are permitted
// out of the given status.
func TerminalStatus(status model.OrderStatus) bool {
	switch status {
	case model.OrderStatusCompleted, model.OrderStatusCancelled, model.OrderStatusRejected:
		return true
	}
	return false
}

// CanCancel validates the customer cancellation transition. Cancelling
// is allowed from pending, confirmed, preparing and arriving only.
func CanCancel(current model.OrderStatus) error {
	if TerminalStatus(current) {
		return apperr.InvalidTransition(fmt.Sprintf("cannot cancel an order in status %q", current))
	}
	return nil
}

// CanTransition validates a status change against the lifecycle state
// machine: exactly one forward step along the happy path, or a jump to
// a terminal branch from any non-terminal state. The storage layer only
// constrains status to the enum; this is the contract enforced above it.
func CanTransition(current, target model.OrderStatus) error {
	if !ValidOrderStatus(target) {
		return apperr.BadRequest(fmt.Sprintf("unknown order status %q", target))
	}
	if TerminalStatus(current) {
		return apperr.InvalidTransition(fmt.Sprintf("order in status %q cannot change status", current))
	}
	if target == model.OrderStatusCancelled || target == model.OrderStatusRejected {
		return nil
	}
	if nextStatus[current] != target {
		return apperr.InvalidTransition(fmt.Sprintf("cannot move order from %q to %q", current, target))
	}
	return nil
}
