package domain

// CartLine is a product id and quantity held in a cart.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Cart is the per-session shopping cart. Lines keep insertion order.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) Quantity(productID int64) int {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Add increases the quantity of productID, appending a line if needed.
func (c *Cart) Add(productID int64, quantity int) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ProductID: productID, Quantity: quantity})
}

// Set replaces the quantity of productID. A quantity of zero or less removes it.
func (c *Cart) Set(productID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ProductID: productID, Quantity: quantity})
}

func (c *Cart) Remove(productID int64) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// PricedLine is a cart line joined with its product.
type PricedLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Total    Money   `json:"total"`
}

// CartView is a cart priced against the current catalog.
type CartView struct {
	Lines []PricedLine `json:"lines"`
	Total Money        `json:"total"`
}
