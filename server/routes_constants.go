package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public pages
	RouteHome           = "/{$}"
	RouteLogin          = "/login"
	RouteRegister       = "/register"
	RouteLogout         = "/logout"
	RouteProducts       = "/products"
	RouteProductDetails = "/products/{productId}"

	// Product actions (gated)
	RouteProductAddToCart     = "/products/{productId}/cart"
	RouteProductAddToWishlist = "/products/{productId}/wishlist"
	RouteProductReview        = "/products/{productId}/reviews"

	// Account pages (gated)
	RouteDashboard = "/dashboard"
	RouteProfile   = "/profile"

	// Catalog management (gated)
	RouteProductAdd    = "/add-product"
	RouteProductEdit   = "/update-product/{productId}"
	RouteProductDelete = "/delete-product/{productId}"

	// Cart & wishlist (gated)
	RouteCart               = "/cart"
	RouteCartRemove         = "/cart/{productId}/remove"
	RouteCartCheckout       = "/cart/checkout"
	RouteWishlist           = "/wishlist"
	RouteWishlistRemove     = "/wishlist/{productId}/remove"
	RouteWishlistMoveToCart = "/wishlist/{productId}/move"

	// Orders & payment (gated)
	RouteOrders      = "/orders"
	RouteOrderDetail = "/orders/{orderId}"
	RouteOrderDelete = "/orders/{orderId}/delete"
	RoutePayment     = "/payment/{orderId}"

	// Admin (gated)
	RouteAllOrders       = "/orders-all"
	RouteShipments       = "/shipments"
	RouteShipmentShip    = "/shipments/{orderId}/ship"
	RouteShipmentDeliver = "/shipments/{orderId}/deliver"
	RouteAdminUsers      = "/admin/users"
	RouteAdminUser       = "/admin/users/{userId}"
	RouteAdminUserDelete = "/admin/users/{userId}/delete"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"

	// Everything else renders the not-found page
	RouteNotFound = "/"
)

// pathWith substitutes the single {param} segment of a route pattern.
func pathWith(pattern, value string) string {
	start := -1
	for i, c := range pattern {
		if c == '{' {
			start = i
		}
		if c == '}' && start >= 0 {
			return pattern[:start] + value + pattern[i+1:]
		}
	}
	return pattern
}
