package apiclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-storefront/models"
)

// GetProducts lists the catalog. No authentication is needed.
func (c *Client) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/product/products",
		fallback: "Failed to fetch products",
	}, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductDetails fetches one product. The token is optional; when given
// the backend may tailor the response to the caller.
func (c *Client) GetProductDetails(ctx context.Context, token, productID string) (*models.Product, error) {
	return c.product(ctx, call{
		method:   http.MethodGet,
		path:     pathf("/product/products/%s", productID),
		token:    token,
		fallback: "Failed to fetch product details",
	})
}

// AddProduct creates a catalog entry (admin/vendor).
func (c *Client) AddProduct(ctx context.Context, token string, input models.ProductInput) (*models.Product, error) {
	return c.product(ctx, call{
		method:   http.MethodPost,
		path:     "/product/products",
		token:    token,
		body:     input,
		fallback: "Failed to add product",
	})
}

// UpdateProduct replaces a catalog entry (admin/vendor).
func (c *Client) UpdateProduct(ctx context.Context, token, productID string, input models.ProductInput) (*models.Product, error) {
	return c.product(ctx, call{
		method:   http.MethodPut,
		path:     pathf("/product/products/%s", productID),
		token:    token,
		body:     input,
		fallback: "Failed to update product",
	})
}

func (c *Client) DeleteProduct(ctx context.Context, token, productID string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodDelete,
		path:     pathf("/product/products/%s", productID),
		token:    token,
		fallback: "Failed to delete product",
	})
}

func (c *Client) product(ctx context.Context, cl call) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, cl, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
