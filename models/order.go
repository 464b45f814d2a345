package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Order lifecycle: placed -> paid -> shipped -> delivered.
const (
	OrderPlaced    OrderStatus = "placed"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

func (s OrderStatus) Is(other OrderStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

// Order is a server-owned aggregate of cart items at purchase time.
type Order struct {
	ID          ID              `json:"id,omitempty"`
	UserID      ID              `json:"user_id,omitempty"`
	Items       []CartItem      `json:"items,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status,omitempty"`
	TrackingID  string          `json:"tracking_id,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"` // Kept as sent; backend timestamp formats vary
}

// Payable reports whether the order is awaiting payment.
func (o Order) Payable() bool {
	return o.Status == "" || o.Status.Is(OrderPlaced) || o.Status.Is("pending")
}

// Shippable reports whether a tracking ID may be attached.
func (o Order) Shippable() bool {
	return o.Status.Is(OrderPaid)
}

func (o Order) Deliverable() bool {
	return o.Status.Is(OrderShipped)
}

// ShipmentUpdate is the body for shipment and delivery updates.
type ShipmentUpdate struct {
	TrackingID string `json:"tracking_id"`
}

// Review is the review submission body.
type Review struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}
