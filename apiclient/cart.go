package apiclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-storefront/models"
)

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type wishlistItemRequest struct {
	ProductID string `json:"product_id"`
}

// AddToCart adds quantity units of a product and returns the updated cart.
func (c *Client) AddToCart(ctx context.Context, token, productID string, quantity int) (*models.Cart, error) {
	return c.cart(ctx, call{
		method:   http.MethodPost,
		path:     "/cart/cart",
		token:    token,
		body:     cartItemRequest{ProductID: productID, Quantity: quantity},
		fallback: "Failed to add to cart",
	})
}

func (c *Client) GetCart(ctx context.Context, token string) (*models.Cart, error) {
	return c.cart(ctx, call{
		method:   http.MethodGet,
		path:     "/cart/cart",
		token:    token,
		fallback: "Failed to fetch cart",
	})
}

func (c *Client) RemoveFromCart(ctx context.Context, token, productID string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodDelete,
		path:     pathf("/cart/cart/%s", productID),
		token:    token,
		fallback: "Failed to remove item from cart",
	})
}

func (c *Client) AddToWishlist(ctx context.Context, token, productID string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodPost,
		path:     "/cart/wishlist",
		token:    token,
		body:     wishlistItemRequest{ProductID: productID},
		fallback: "Failed to add to wishlist",
	})
}

func (c *Client) GetWishlist(ctx context.Context, token string) (*models.Wishlist, error) {
	var list models.Wishlist
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/cart/wishlist",
		token:    token,
		fallback: "Failed to fetch wishlist",
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodDelete,
		path:     pathf("/cart/wishlist/%s", productID),
		token:    token,
		fallback: "Failed to remove from wishlist",
	})
}

func (c *Client) cart(ctx context.Context, cl call) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, cl, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}
