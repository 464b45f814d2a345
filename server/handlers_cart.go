package server

import (
	"net/http"

	"github.com/jrsteele09/go-storefront/session"
)

func (s *Server) CartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		cart, err := s.api.GetCart(r.Context(), sess.Token)
		if err != nil {
			s.renderFailure(w, r, "cart.html", "Cart", err)
			return
		}
		s.renderPage(w, r, "cart.html", "Cart", cart)
	}
}

func (s *Server) CartRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if _, err := s.api.RemoveFromCart(r.Context(), sess.Token, r.PathValue("productId")); err != nil {
			redirectWithError(w, r, RouteCart, failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, RouteCart, "Removed from cart")
	}
}

// CheckoutHandler turns the cart into an order and sends the user to pay for it.
func (s *Server) CheckoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		order, err := s.api.PlaceOrder(r.Context(), sess.Token)
		if err != nil {
			redirectWithError(w, r, RouteCart, failureMessage(r.Context(), err))
			return
		}
		if order.ID == "" {
			redirectWithMessage(w, r, RouteOrders, "Order placed")
			return
		}
		redirectWithMessage(w, r, pathWith(RoutePayment, order.ID.String()), "Order placed")
	}
}

func (s *Server) WishlistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		wishlist, err := s.api.GetWishlist(r.Context(), sess.Token)
		if err != nil {
			s.renderFailure(w, r, "wishlist.html", "Wishlist", err)
			return
		}
		s.renderPage(w, r, "wishlist.html", "Wishlist", wishlist)
	}
}

func (s *Server) WishlistRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if _, err := s.api.RemoveFromWishlist(r.Context(), sess.Token, r.PathValue("productId")); err != nil {
			redirectWithError(w, r, RouteWishlist, failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, RouteWishlist, "Removed from wishlist")
	}
}

// WishlistMoveHandler adds one of the product to the cart, then drops it from the wishlist.
func (s *Server) WishlistMoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		productID := r.PathValue("productId")

		if _, err := s.api.AddToCart(r.Context(), sess.Token, productID, 1); err != nil {
			redirectWithError(w, r, RouteWishlist, failureMessage(r.Context(), err))
			return
		}
		if _, err := s.api.RemoveFromWishlist(r.Context(), sess.Token, productID); err != nil {
			redirectWithError(w, r, RouteWishlist, "Added to cart, but it is still in your wishlist: "+failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, RouteWishlist, "Moved to cart")
	}
}
