package service

import (
	"math"

	"storefront-service/internal/model"
)

// CartLine is one priced line of a cart: an item reference with the
// quantity being purchased.
type CartLine struct {
	ItemID   uint    `json:"item_id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CheckoutBreakdown is the monetary result of a checkout computation.
// It becomes the order's frozen snapshot at creation time.
type CheckoutBreakdown struct {
	Subtotal    float64 `json:"subtotal"`
	Taxes       float64 `json:"taxes"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

// ComputeCheckout turns cart lines, the product's tax rows and the
// delivery fee into a breakdown. Pure and deterministic: every tax is
// computed independently against the subtotal, so the order of tax rows
// never affects the total. Inactive tax rows are skipped.
func ComputeCheckout(lines []CartLine, taxes []model.Tax, deliveryFee float64) CheckoutBreakdown {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	subtotal = roundCents(subtotal)

	var taxTotal float64
	for _, tax := range taxes {
		if !tax.Active {
			continue
		}
		switch tax.Type {
		case model.TaxTypeFixed:
			taxTotal += tax.Value
		case model.TaxTypePercentage:
			taxTotal += subtotal * tax.Value / 100
		}
	}
	taxTotal = roundCents(taxTotal)

	return CheckoutBreakdown{
		Subtotal:    subtotal,
		Taxes:       taxTotal,
		DeliveryFee: roundCents(deliveryFee),
		Total:       roundCents(subtotal + taxTotal + deliveryFee),
	}
}

// MatchesBreakdown compares a client-submitted breakdown against the
// server recomputation within a one-cent tolerance. Client totals are a
// checksum only; the server snapshot is always the one persisted.
func MatchesBreakdown(client, server CheckoutBreakdown) bool {
	const tolerance = 0.01
	return math.Abs(client.Subtotal-server.Subtotal) < tolerance &&
		math.Abs(client.Taxes-server.Taxes) < tolerance &&
		math.Abs(client.DeliveryFee-server.DeliveryFee) < tolerance &&
		math.Abs(client.Total-server.Total) < tolerance
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
