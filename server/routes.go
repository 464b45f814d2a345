package server

import "net/http"

func (s *Server) initRoutes() {
	// Public pages
	s.page("GET "+RouteHome, s.HomeHandler())
	s.page("GET "+RouteLogin, s.LoginPageHandler())
	s.page("POST "+RouteLogin, s.LoginSubmissionHandler())
	s.page("GET "+RouteRegister, s.RegisterPageHandler())
	s.page("POST "+RouteRegister, s.RegisterSubmissionHandler())
	s.page("POST "+RouteLogout, s.LogoutHandler())
	s.page("GET "+RouteProducts, s.ProductListHandler())
	s.page("GET "+RouteProductDetails, s.ProductDetailsHandler())

	// Account
	s.gatedPage("GET "+RouteDashboard, s.DashboardHandler())
	s.gatedPage("GET "+RouteProfile, s.ProfilePageHandler())
	s.gatedPage("POST "+RouteProfile, s.ProfileSubmissionHandler())

	// Catalog management
	s.gatedPage("GET "+RouteProductAdd, s.ProductAddPageHandler())
	s.gatedPage("POST "+RouteProductAdd, s.ProductAddSubmissionHandler())
	s.gatedPage("GET "+RouteProductEdit, s.ProductEditPageHandler())
	s.gatedPage("POST "+RouteProductEdit, s.ProductEditSubmissionHandler())
	s.gatedPage("POST "+RouteProductDelete, s.ProductDeleteHandler())

	// Product actions
	s.gatedPage("POST "+RouteProductAddToCart, s.AddToCartHandler())
	s.gatedPage("POST "+RouteProductAddToWishlist, s.AddToWishlistHandler())
	s.gatedPage("POST "+RouteProductReview, s.SubmitReviewHandler())

	// Cart & wishlist
	s.gatedPage("GET "+RouteCart, s.CartHandler())
	s.gatedPage("POST "+RouteCartRemove, s.CartRemoveHandler())
	s.gatedPage("POST "+RouteCartCheckout, s.CheckoutHandler())
	s.gatedPage("GET "+RouteWishlist, s.WishlistHandler())
	s.gatedPage("POST "+RouteWishlistRemove, s.WishlistRemoveHandler())
	s.gatedPage("POST "+RouteWishlistMoveToCart, s.WishlistMoveHandler())

	// Orders & payment
	s.gatedPage("GET "+RouteOrders, s.OrdersHandler())
	s.gatedPage("GET "+RouteOrderDetail, s.OrderDetailHandler())
	s.gatedPage("POST "+RouteOrderDelete, s.OrderDeleteHandler())
	s.gatedPage("GET "+RoutePayment, s.PaymentPageHandler())
	s.gatedPage("POST "+RoutePayment, s.PaymentSubmissionHandler())

	// Admin
	s.gatedPage("GET "+RouteAllOrders, s.AllOrdersHandler())
	s.gatedPage("GET "+RouteShipments, s.ShipmentsHandler())
	s.gatedPage("POST "+RouteShipmentShip, s.ShipOrderHandler())
	s.gatedPage("POST "+RouteShipmentDeliver, s.DeliverOrderHandler())
	s.gatedPage("GET "+RouteAdminUsers, s.AdminUsersHandler())
	s.gatedPage("GET "+RouteAdminUser, s.AdminUserPageHandler())
	s.gatedPage("POST "+RouteAdminUser, s.AdminUserSubmissionHandler())
	s.gatedPage("POST "+RouteAdminUserDelete, s.AdminUserDeleteHandler())

	// Static assets
	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))

	// Anything unmatched
	s.page(RouteNotFound, s.NotFoundHandler())
}

func (s *Server) page(pattern string, handler http.HandlerFunc) {
	s.RegisterRouteHandler(pattern, ChainMiddleware(handler, s.HTMLMiddleWare()...))
}

// gatedPage registers a page that needs a logged-in session. This is the
// only place a route joins the gated set.
func (s *Server) gatedPage(pattern string, handler http.HandlerFunc) {
	s.gated = append(s.gated, pattern)
	s.RegisterRouteHandler(pattern, ChainMiddleware(handler, s.GatedMiddleWare()...))
}
