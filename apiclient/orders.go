package apiclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-storefront/models"
)

// PlaceOrder turns the current cart into an order.
func (c *Client) PlaceOrder(ctx context.Context, token string) (*models.Order, error) {
	return c.order(ctx, call{
		method:   http.MethodPost,
		path:     "/orders/orders/place",
		token:    token,
		body:     struct{}{},
		fallback: "Failed to place order",
	})
}

func (c *Client) GetOrderDetails(ctx context.Context, token, orderID string) (*models.Order, error) {
	return c.order(ctx, call{
		method:   http.MethodGet,
		path:     pathf("/orders/orders/%s", orderID),
		token:    token,
		fallback: "Failed to fetch order details",
	})
}

// GetOrders lists the caller's orders.
func (c *Client) GetOrders(ctx context.Context, token string) ([]models.Order, error) {
	return c.orders(ctx, call{
		method:   http.MethodGet,
		path:     "/orders/orders",
		token:    token,
		fallback: "Failed to fetch orders",
	})
}

// GetAllOrders lists every order in the system (admin).
func (c *Client) GetAllOrders(ctx context.Context, token string) ([]models.Order, error) {
	return c.orders(ctx, call{
		method:   http.MethodGet,
		path:     "/orders/orders-all",
		token:    token,
		fallback: "Failed to fetch orders",
	})
}

func (c *Client) DeleteOrder(ctx context.Context, token, orderID string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodDelete,
		path:     pathf("/orders/orders/%s", orderID),
		token:    token,
		fallback: "Failed to delete order",
	})
}

// ProcessPayment pays for an order.
func (c *Client) ProcessPayment(ctx context.Context, token, orderID string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodPost,
		path:     pathf("/payment/orders/%s/pay", orderID),
		token:    token,
		body:     struct{}{},
		fallback: "Payment failed. Please try again.",
	})
}

// UpdateShipmentStatus attaches a tracking ID and marks the order shipped.
func (c *Client) UpdateShipmentStatus(ctx context.Context, token, orderID, trackingID string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodPut,
		path:     pathf("/shipment/orders/%s/shipment", orderID),
		token:    token,
		body:     models.ShipmentUpdate{TrackingID: trackingID},
		fallback: "Failed to update shipment status",
	})
}

// UpdateDeliveryStatus marks a shipped order delivered.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, token, orderID, trackingID string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodPut,
		path:     pathf("/shipment/orders/%s/deliver", orderID),
		token:    token,
		body:     models.ShipmentUpdate{TrackingID: trackingID},
		fallback: "Failed to mark as delivered",
	})
}

// SubmitReview posts a product review.
func (c *Client) SubmitReview(ctx context.Context, token, productID string, rating int, comment string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodPost,
		path:     "/reviews",
		token:    token,
		body:     models.Review{ProductID: productID, Rating: rating, Comment: comment},
		fallback: "Review submission failed.",
	})
}

func (c *Client) order(ctx context.Context, cl call) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, cl, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) orders(ctx context.Context, cl call) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, cl, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
