package service

import "testing"

func TestCartAddIncrementsExistingLine(t *testing.T) {
	var cart Cart
	cart.Add(1, 9.99)
	cart.Add(2, 4.50)
	cart.Add(1, 9.99)

	lines := cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].ItemID != 1 || lines[0].Quantity != 2 {
		t.Errorf("line 0 = %+v, want item 1 with quantity 2", lines[0])
	}
	if lines[1].ItemID != 2 || lines[1].Quantity != 1 {
		t.Errorf("line 1 = %+v, want item 2 with quantity 1", lines[1])
	}
}

func TestCartSetQuantity(t *testing.T) {
	var cart Cart
	cart.Add(1, 5)
	cart.SetQuantity(1, 7)

	if lines := cart.Lines(); lines[0].Quantity != 7 {
		t.Errorf("quantity = %d, want 7", lines[0].Quantity)
	}

	// Zero or negative removes the line
	cart.SetQuantity(1, 0)
	if !cart.Empty() {
		t.Error("setting quantity to zero must remove the line")
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	var cart Cart
	cart.Add(1, 5)
	cart.Add(2, 3)

	cart.Remove(1)
	if lines := cart.Lines(); len(lines) != 1 || lines[0].ItemID != 2 {
		t.Errorf("lines after remove = %+v, want only item 2", lines)
	}

	// Removing an absent item is a no-op
	cart.Remove(99)
	if len(cart.Lines()) != 1 {
		t.Error("removing an absent item must not change the cart")
	}

	cart.Clear()
	if !cart.Empty() {
		t.Error("cart must be empty after Clear")
	}
}

func TestCartCheckoutIntegration(t *testing.T) {
	var cart Cart
	cart.Add(1, 10)
	cart.Add(1, 10)

	got := ComputeCheckout(cart.Lines(), nil, 5)
	if got.Subtotal != 20 || got.Total != 25 {
		t.Errorf("breakdown = %+v, want subtotal 20 and total 25", got)
	}
}
