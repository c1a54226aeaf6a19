package service

import (
	"testing"

	"storefront-service/internal/model"
)

func TestComputeCheckoutPercentageTax(t *testing.T) {
	lines := []CartLine{{ItemID: 1, Price: 10, Quantity: 2}}
	taxes := []model.Tax{{Name: "VAT", Type: model.TaxTypePercentage, Value: 10, Active: true}}

	got := ComputeCheckout(lines, taxes, 5)

	if got.Subtotal != 20 {
		t.Errorf("subtotal = %v, want 20", got.Subtotal)
	}
	if got.Taxes != 2 {
		t.Errorf("taxes = %v, want 2", got.Taxes)
	}
	if got.DeliveryFee != 5 {
		t.Errorf("delivery fee = %v, want 5", got.DeliveryFee)
	}
	if got.Total != 27 {
		t.Errorf("total = %v, want 27", got.Total)
	}
}

func TestComputeCheckoutFixedTax(t *testing.T) {
	lines := []CartLine{{ItemID: 1, Price: 10, Quantity: 1}}
	taxes := []model.Tax{{Name: "Bottle deposit", Type: model.TaxTypeFixed, Value: 3, Active: true}}

	got := ComputeCheckout(lines, taxes, 5)

	if got.Subtotal != 10 {
		t.Errorf("subtotal = %v, want 10", got.Subtotal)
	}
	if got.Taxes != 3 {
		t.Errorf("taxes = %v, want 3", got.Taxes)
	}
	if got.Total != 18 {
		t.Errorf("total = %v, want 18", got.Total)
	}
}

func TestComputeCheckoutSkipsInactiveTaxes(t *testing.T) {
	lines := []CartLine{{ItemID: 1, Price: 100, Quantity: 1}}
	taxes := []model.Tax{
		{Name: "VAT", Type: model.TaxTypePercentage, Value: 10, Active: true},
		{Name: "Old levy", Type: model.TaxTypeFixed, Value: 50, Active: false},
	}

	got := ComputeCheckout(lines, taxes, 0)

	if got.Taxes != 10 {
		t.Errorf("taxes = %v, want 10 (inactive tax must be skipped)", got.Taxes)
	}
	if got.Total != 110 {
		t.Errorf("total = %v, want 110", got.Total)
	}
}

func TestComputeCheckoutTaxOrderIndependent(t *testing.T) {
	lines := []CartLine{{ItemID: 1, Price: 33.33, Quantity: 3}}
	forward := []model.Tax{
		{Name: "VAT", Type: model.TaxTypePercentage, Value: 7.5, Active: true},
		{Name: "Deposit", Type: model.TaxTypeFixed, Value: 1.25, Active: true},
	}
	reversed := []model.Tax{forward[1], forward[0]}

	a := ComputeCheckout(lines, forward, 4.99)
	b := ComputeCheckout(lines, reversed, 4.99)

	if a != b {
		t.Errorf("breakdown depends on tax order: %+v vs %+v", a, b)
	}
}

func TestComputeCheckoutEmptyCart(t *testing.T) {
	got := ComputeCheckout(nil, nil, 5)

	if got.Subtotal != 0 || got.Taxes != 0 {
		t.Errorf("empty cart breakdown = %+v, want zero subtotal and taxes", got)
	}
	if got.Total != 5 {
		t.Errorf("total = %v, want 5 (delivery fee only)", got.Total)
	}
}

func TestComputeCheckoutRoundsToCents(t *testing.T) {
	lines := []CartLine{{ItemID: 1, Price: 0.1, Quantity: 3}}
	taxes := []model.Tax{{Name: "VAT", Type: model.TaxTypePercentage, Value: 9.75, Active: true}}

	got := ComputeCheckout(lines, taxes, 0)

	if got.Subtotal != 0.3 {
		t.Errorf("subtotal = %v, want 0.3", got.Subtotal)
	}
	if got.Taxes != 0.03 {
		t.Errorf("taxes = %v, want 0.03", got.Taxes)
	}
	if got.Total != 0.33 {
		t.Errorf("total = %v, want 0.33", got.Total)
	}
}

func TestMatchesBreakdown(t *testing.T) {
	server := CheckoutBreakdown{Subtotal: 20, Taxes: 2, DeliveryFee: 5, Total: 27}

	if !MatchesBreakdown(server, server) {
		t.Error("identical breakdowns must match")
	}
	if !MatchesBreakdown(CheckoutBreakdown{Subtotal: 20.005, Taxes: 2, DeliveryFee: 5, Total: 27.005}, server) {
		t.Error("sub-cent drift must be tolerated")
	}
	if MatchesBreakdown(CheckoutBreakdown{Subtotal: 20, Taxes: 2, DeliveryFee: 5, Total: 28}, server) {
		t.Error("a one-unit total mismatch must be rejected")
	}
	if MatchesBreakdown(CheckoutBreakdown{Subtotal: 19, Taxes: 3, DeliveryFee: 5, Total: 27}, server) {
		t.Error("matching totals with mismatched components must be rejected")
	}
}
