package fakebackend

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-storefront/models"
)

func (b *Backend) login(w http.ResponseWriter, _ *http.Request, body []byte) {
	var creds models.Credentials
	if err := json.Unmarshal(body, &creds); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	a, ok := b.accounts[creds.Username]
	if !ok || a.password != creds.Password {
		detail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	user := a.user
	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: a.token, TokenType: "bearer", User: &user})
}

// register never issues a token, the new user has to log in.
func (b *Backend) register(w http.ResponseWriter, _ *http.Request, body []byte) {
	var req models.RegisterRequest
	if err := json.Unmarshal(body, &req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if _, exists := b.accounts[req.Username]; exists {
		detail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	user := models.User{ID: b.newID(), Username: req.Username, Email: req.Email, FullName: req.FullName, Role: models.RoleCustomer}
	b.accounts[req.Username] = &account{user: user, password: req.Password, token: "token-" + req.Username}
	writeJSON(w, http.StatusCreated, models.Message{Message: "User registered successfully"})
}

func (b *Backend) updateProfile(w http.ResponseWriter, _ *http.Request, body []byte, caller *account) {
	var update models.UserUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if update.Email != "" {
		caller.user.Email = update.Email
	}
	if update.FullName != "" {
		caller.user.FullName = update.FullName
	}
	if update.Phone != "" {
		caller.user.Phone = update.Phone
	}
	if update.Address != "" {
		caller.user.Address = update.Address
	}
	writeJSON(w, http.StatusOK, caller.user)
}

func (b *Backend) addProduct(w http.ResponseWriter, _ *http.Request, body []byte, caller *account) {
	if !caller.user.Vendor() {
		detail(w, http.StatusForbidden, "Not enough permissions")
		return
	}
	var input models.ProductInput
	if err := json.Unmarshal(body, &input); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	p := models.Product{
		ID:          b.newID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		OwnerID:     caller.user.ID,
	}
	b.products = append(b.products, p)
	writeJSON(w, http.StatusCreated, p)
}

type cartRequest struct {
	ProductID models.ID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (b *Backend) addToCart(w http.ResponseWriter, _ *http.Request, body []byte, caller *account) {
	var req cartRequest
	if err := json.Unmarshal(body, &req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	p, ok := b.product(req.ProductID.String())
	if !ok {
		detail(w, http.StatusNotFound, "Product not found")
		return
	}
	if req.Quantity > p.Stock {
		detail(w, http.StatusBadRequest, "Not enough stock")
		return
	}

	items := b.carts[caller.token]
	merged := false
	for i := range items {
		if items[i].ProductID == req.ProductID {
			items[i].Quantity += req.Quantity
			merged = true
		}
	}
	if !merged {
		items = append(items, models.CartItem{ProductID: p.ID, Quantity: req.Quantity, Name: p.Name, Price: p.Price})
	}
	b.carts[caller.token] = items
	writeJSON(w, http.StatusOK, models.Cart{Items: items, Total: cartTotal(items)})
}

func (b *Backend) addToWishlist(w http.ResponseWriter, _ *http.Request, body []byte, caller *account) {
	var req cartRequest
	if err := json.Unmarshal(body, &req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	p, ok := b.product(req.ProductID.String())
	if !ok {
		detail(w, http.StatusNotFound, "Product not found")
		return
	}
	b.wishlists[caller.token] = append(b.wishlists[caller.token], models.WishlistItem{ProductID: p.ID, Name: p.Name})
	writeJSON(w, http.StatusOK, models.Message{Message: "Added to wishlist"})
}

func (b *Backend) placeOrder(w http.ResponseWriter, _ *http.Request, _ []byte, caller *account) {
	items := b.carts[caller.token]
	if len(items) == 0 {
		detail(w, http.StatusBadRequest, "Cart is empty")
		return
	}
	order := models.Order{
		ID:          b.newID(),
		UserID:      caller.user.ID,
		Items:       items,
		TotalAmount: cartTotal(items),
		Status:      models.OrderPlaced,
	}
	b.orders = append(b.orders, order)
	delete(b.carts, caller.token)
	writeJSON(w, http.StatusCreated, order)
}

func (b *Backend) shipmentUpdate(status models.OrderStatus) func(http.ResponseWriter, *http.Request, []byte, *account) {
	return func(w http.ResponseWriter, r *http.Request, body []byte, caller *account) {
		if !caller.user.Admin() {
			detail(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		var update models.ShipmentUpdate
		if err := json.Unmarshal(body, &update); err != nil {
			detail(w, http.StatusUnprocessableEntity, "Invalid request body")
			return
		}
		i := b.orderIndex(r.PathValue("id"))
		if i < 0 {
			detail(w, http.StatusNotFound, "Order not found")
			return
		}
		b.orders[i].Status = status
		if update.TrackingID != "" {
			b.orders[i].TrackingID = update.TrackingID
		}
		writeJSON(w, http.StatusOK, models.Message{Message: "Order " + string(status)})
	}
}

// orderIndex returns -1 when no order has id; b.mu must be held.
func (b *Backend) orderIndex(id string) int {
	for i, o := range b.orders {
		if o.ID.String() == id {
			return i
		}
	}
	return -1
}
