package service

import (
	"testing"

	"storefront-service/internal/apperr"
	"storefront-service/internal/model"
)

func TestCanCancelFromActiveStates(t *testing.T) {
	for _, status := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusConfirmed,
		model.OrderStatusPreparing,
		model.OrderStatusArriving,
	} {
		if err := CanCancel(status); err != nil {
			t.Errorf("CanCancel(%q) = %v, want nil", status, err)
		}
	}
}

func TestCanCancelFromTerminalStates(t *testing.T) {
	for _, status := range []model.OrderStatus{
		model.OrderStatusCompleted,
		model.OrderStatusCancelled,
		model.OrderStatusRejected,
	} {
		err := CanCancel(status)
		if err == nil {
			t.Errorf("CanCancel(%q) = nil, want error", status)
			continue
		}
		if appErr := apperr.From(err); appErr.Kind != apperr.KindInvalidTransition {
			t.Errorf("CanCancel(%q) kind = %q, want %q", status, appErr.Kind, apperr.KindInvalidTransition)
		}
	}
}

func TestCanTransitionHappyPath(t *testing.T) {
	steps := []struct {
		from, to model.OrderStatus
	}{
		{model.OrderStatusPending, model.OrderStatusConfirmed},
		{model.OrderStatusConfirmed, model.OrderStatusPreparing},
		{model.OrderStatusPreparing, model.OrderStatusArriving},
		{model.OrderStatusArriving, model.OrderStatusCompleted},
	}
	for _, step := range steps {
		if err := CanTransition(step.from, step.to); err != nil {
			t.Errorf("CanTransition(%q, %q) = %v, want nil", step.from, step.to, err)
		}
	}
}

func TestCanTransitionRejectsJumps(t *testing.T) {
	jumps := []struct {
		from, to model.OrderStatus
	}{
		{model.OrderStatusPending, model.OrderStatusPreparing},
		{model.OrderStatusPending, model.OrderStatusCompleted},
		{model.OrderStatusConfirmed, model.OrderStatusArriving},
		{model.OrderStatusConfirmed, model.OrderStatusPending},
		{model.OrderStatusArriving, model.OrderStatusConfirmed},
	}
	for _, jump := range jumps {
		if err := CanTransition(jump.from, jump.to); err == nil {
			t.Errorf("CanTransition(%q, %q) = nil, want error", jump.from, jump.to)
		}
	}
}

func TestCanTransitionTerminalBranches(t *testing.T) {
	for _, from := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusConfirmed,
		model.OrderStatusPreparing,
		model.OrderStatusArriving,
	} {
		if err := CanTransition(from, model.OrderStatusCancelled); err != nil {
			t.Errorf("CanTransition(%q, cancelled) = %v, want nil", from, err)
		}
		if err := CanTransition(from, model.OrderStatusRejected); err != nil {
			t.Errorf("CanTransition(%q, rejected) = %v, want nil", from, err)
		}
	}
}

func TestCanTransitionOutOfTerminalStates(t *testing.T) {
	for _, from := range []model.OrderStatus{
		model.OrderStatusCompleted,
		model.OrderStatusCancelled,
		model.OrderStatusRejected,
	} {
		if err := CanTransition(from, model.OrderStatusConfirmed); err == nil {
			t.Errorf("CanTransition(%q, confirmed) = nil, want error", from)
		}
		if err := CanTransition(from, model.OrderStatusCancelled); err == nil {
			t.Errorf("CanTransition(%q, cancelled) = nil, want error", from)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	err := CanTransition(model.OrderStatusPending, model.OrderStatus("shipped"))
	if err == nil {
		t.Fatal("CanTransition to an unknown status = nil, want error")
	}
	if appErr := apperr.From(err); appErr.Kind != apperr.KindBadRequest {
		t.Errorf("kind = %q, want %q", appErr.Kind, apperr.KindBadRequest)
	}
}

func TestTerminalStatus(t *testing.T) {
	if TerminalStatus(model.OrderStatusPending) {
		t.Error("pending must not be terminal")
	}
	if !TerminalStatus(model.OrderStatusCompleted) {
		t.Error("completed must be terminal")
	}
}
