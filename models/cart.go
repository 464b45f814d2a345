package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartItem is a (product, quantity) pair held server-side.
type CartItem struct {
	ProductID ID              `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Product   *Product        `json:"product,omitempty"`
}

// Title returns the best available label for the line.
func (c CartItem) Title() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Product != nil && c.Product.Name != "" {
		return c.Product.Name
	}
	return "Product " + c.ProductID.String()
}

// UnitPrice falls back to the embedded product's price when the line carries none.
func (c CartItem) UnitPrice() decimal.Decimal {
	if c.Price.IsZero() && c.Product != nil {
		return c.Product.Price
	}
	return c.Price
}

// Cart is the last-fetched cart snapshot. The backend may send either a bare
// array of items or an object with an items field.
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		c.Total = decimal.Zero
		return json.Unmarshal(data, &c.Items)
	}
	type cartAlias Cart
	var alias cartAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*c = Cart(alias)
	return nil
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// WishlistItem is a product reference held in the user's wishlist.
type WishlistItem struct {
	ProductID ID       `json:"product_id"`
	Name      string   `json:"name,omitempty"`
	Product   *Product `json:"product,omitempty"`
}

func (w WishlistItem) Title() string {
	if w.Name != "" {
		return w.Name
	}
	if w.Product != nil && w.Product.Name != "" {
		return w.Product.Name
	}
	return "Product " + w.ProductID.String()
}

// Wishlist accepts the same array-or-object shapes as Cart.
type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

func (w *Wishlist) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &w.Items)
	}
	type wishlistAlias Wishlist
	var alias wishlistAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*w = Wishlist(alias)
	return nil
}

func (w Wishlist) Empty() bool {
	return len(w.Items) == 0
}
