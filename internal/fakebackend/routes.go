package fakebackend

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-storefront/models"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request, body []byte)

// handle records the call, applies overrides, then runs fn with b.mu held.
func (b *Backend) handle(mux *http.ServeMux, pattern string, fn handlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		body, answered := b.record(w, r)
		if answered {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		fn(w, r, body)
	})
}

// authed rejects anonymous callers the way the backend does.
func (b *Backend) authed(fn func(w http.ResponseWriter, r *http.Request, body []byte, caller *account)) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request, body []byte) {
		caller := b.caller(r)
		if caller == nil {
			detail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		fn(w, r, body, caller)
	}
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()

	// Auth
	b.handle(mux, "POST /auth/login", b.login)
	b.handle(mux, "POST /auth/register", b.register)
	b.handle(mux, "POST /auth/logout", b.authed(func(w http.ResponseWriter, _ *http.Request, _ []byte, _ *account) {
		writeJSON(w, http.StatusOK, models.Message{Message: "Successfully logged out"})
	}))

	// Users
	b.handle(mux, "GET /user/profile", b.authed(func(w http.ResponseWriter, _ *http.Request, _ []byte, caller *account) {
		writeJSON(w, http.StatusOK, caller.user)
	}))
	b.handle(mux, "PUT /user/profile", b.authed(b.updateProfile))
	b.handle(mux, "GET /user/{$}", b.authed(func(w http.ResponseWriter, _ *http.Request, _ []byte, _ *account) {
		users := make([]models.User, 0, len(b.accounts))
		for _, a := range b.accounts {
			users = append(users, a.user)
		}
		writeJSON(w, http.StatusOK, users)
	}))

	// Catalog
	b.handle(mux, "GET /product/products", func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		writeJSON(w, http.StatusOK, append([]models.Product{}, b.products...))
	})
	b.handle(mux, "GET /product/products/{id}", func(w http.ResponseWriter, r *http.Request, _ []byte) {
		p, ok := b.product(r.PathValue("id"))
		if !ok {
			detail(w, http.StatusNotFound, "Product not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
	b.handle(mux, "POST /product/products", b.authed(b.addProduct))

	// Cart & wishlist
	b.handle(mux, "POST /cart/cart", b.authed(b.addToCart))
	b.handle(mux, "GET /cart/cart", b.authed(func(w http.ResponseWriter, _ *http.Request, _ []byte, caller *account) {
		items := b.carts[caller.token]
		writeJSON(w, http.StatusOK, models.Cart{Items: items, Total: cartTotal(items)})
	}))
	b.handle(mux, "DELETE /cart/cart/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ []byte, caller *account) {
		items := b.carts[caller.token][:0]
		for _, item := range b.carts[caller.token] {
			if item.ProductID.String() != r.PathValue("id") {
				items = append(items, item)
			}
		}
		b.carts[caller.token] = items
		writeJSON(w, http.StatusOK, models.Message{Message: "Item removed from cart"})
	}))
	b.handle(mux, "POST /cart/wishlist", b.authed(b.addToWishlist))
	b.handle(mux, "GET /cart/wishlist", b.authed(func(w http.ResponseWriter, _ *http.Request, _ []byte, caller *account) {
		writeJSON(w, http.StatusOK, append([]models.WishlistItem{}, b.wishlists[caller.token]...))
	}))
	b.handle(mux, "DELETE /cart/wishlist/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ []byte, caller *account) {
		items := b.wishlists[caller.token][:0]
		for _, item := range b.wishlists[caller.token] {
			if item.ProductID.String() != r.PathValue("id") {
				items = append(items, item)
			}
		}
		b.wishlists[caller.token] = items
		writeJSON(w, http.StatusOK, models.Message{Message: "Item removed from wishlist"})
	}))

	// Orders, payment, shipment
	b.handle(mux, "POST /orders/orders/place", b.authed(b.placeOrder))
	b.handle(mux, "GET /orders/orders", b.authed(func(w http.ResponseWriter, _ *http.Request, _ []byte, caller *account) {
		mine := []models.Order{}
		for _, o := range b.orders {
			if o.UserID == caller.user.ID {
				mine = append(mine, o)
			}
		}
		writeJSON(w, http.StatusOK, mine)
	}))
	b.handle(mux, "GET /orders/orders-all", b.authed(func(w http.ResponseWriter, _ *http.Request, _ []byte, caller *account) {
		if !caller.user.Admin() {
			detail(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		writeJSON(w, http.StatusOK, append([]models.Order{}, b.orders...))
	}))
	b.handle(mux, "GET /orders/orders/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ []byte, _ *account) {
		if i := b.orderIndex(r.PathValue("id")); i >= 0 {
			writeJSON(w, http.StatusOK, b.orders[i])
			return
		}
		detail(w, http.StatusNotFound, "Order not found")
	}))
	b.handle(mux, "POST /payment/orders/{id}/pay", b.authed(func(w http.ResponseWriter, r *http.Request, _ []byte, _ *account) {
		i := b.orderIndex(r.PathValue("id"))
		if i < 0 {
			detail(w, http.StatusNotFound, "Order not found")
			return
		}
		if !b.orders[i].Payable() {
			detail(w, http.StatusBadRequest, "Order already paid")
			return
		}
		b.orders[i].Status = models.OrderPaid
		writeJSON(w, http.StatusOK, models.Message{Message: "Payment successful"})
	}))
	b.handle(mux, "PUT /shipment/orders/{id}/shipment", b.authed(b.shipmentUpdate(models.OrderShipped)))
	b.handle(mux, "PUT /shipment/orders/{id}/deliver", b.authed(b.shipmentUpdate(models.OrderDelivered)))

	// Reviews
	b.handle(mux, "POST /reviews", b.authed(func(w http.ResponseWriter, _ *http.Request, body []byte, _ *account) {
		var review models.Review
		if err := json.Unmarshal(body, &review); err != nil {
			detail(w, http.StatusUnprocessableEntity, "Invalid review")
			return
		}
		b.reviews = append(b.reviews, review)
		writeJSON(w, http.StatusCreated, models.Message{Message: "Review submitted successfully"})
	}))

	return mux
}
