package service

// Cart is an ordered list of cart lines. Mutation rules: adding an item
// already present increments its quantity instead of duplicating the
// line, and setting a quantity at or below zero removes the line.
type Cart struct {
	lines []CartLine
}

// Add puts one unit of the item into the cart, incrementing the
// existing line when the item is already present.
func (c *Cart) Add(itemID uint, price float64) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, CartLine{ItemID: itemID, Price: price, Quantity: 1})
}

// SetQuantity sets the quantity of an existing line. Quantities at or
// below zero remove the line entirely.
func (c *Cart) SetQuantity(itemID uint, quantity int) {
	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return
	}
}

// Remove deletes the line for the given item, if present.
func (c *Cart) Remove(itemID uint) {
	c.SetQuantity(itemID, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns the current cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	return c.lines
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}
