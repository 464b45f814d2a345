// Package fakebackend is an in-memory stand-in for the storefront REST
// backend, served over httptest. It records every request it receives.
package fakebackend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/jrsteele09/go-storefront/models"
	"github.com/shopspring/decimal"
)

// Call is one request as the backend saw it.
type Call struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

type account struct {
	user     models.User
	password string
	token    string
}

type override struct {
	status int
	body   string
}

type Backend struct {
	server *httptest.Server

	mu        sync.Mutex
	calls     []Call
	accounts  map[string]*account // by username
	products  []models.Product
	carts     map[string][]models.CartItem     // by token
	wishlists map[string][]models.WishlistItem // by token
	orders    []models.Order
	reviews   []models.Review
	overrides map[string]override // "METHOD /path"
	nextID    int
}

// New starts a fake backend that is closed when the test ends.
func New(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		accounts:  make(map[string]*account),
		carts:     make(map[string][]models.CartItem),
		wishlists: make(map[string][]models.WishlistItem),
		overrides: make(map[string]override),
		nextID:    100,
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

// AddUser registers an account that can log in with password and is
// recognised by token.
func (b *Backend) AddUser(user models.User, password, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[user.Username] = &account{user: user, password: password, token: token}
}

func (b *Backend) AddProduct(p models.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = append(b.products, p)
}

func (b *Backend) AddOrder(o models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append(b.orders, o)
}

// Respond makes every request to "METHOD /path" return status and body verbatim.
func (b *Backend) Respond(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" "+path] = override{status: status, body: body}
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallsTo returns the recorded calls matching method and path.
func (b *Backend) CallsTo(method, path string) []Call {
	var matched []Call
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			matched = append(matched, c)
		}
	}
	return matched
}

func (b *Backend) Order(id string) (models.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if o.ID.String() == id {
			return o, true
		}
	}
	return models.Order{}, false
}

func (b *Backend) Reviews() []models.Review {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Review(nil), b.reviews...)
}

func (b *Backend) Cart(token string) []models.CartItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.CartItem(nil), b.carts[token]...)
}

func (b *Backend) Wishlist(token string) []models.WishlistItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.WishlistItem(nil), b.wishlists[token]...)
}

// record logs the call and applies any override. It reports whether the
// request was answered by an override.
func (b *Backend) record(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
	o, ok := b.overrides[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(o.status)
		_, _ = io.WriteString(w, o.body)
	}
	return body, ok
}

// caller resolves the bearer token to an account; b.mu must be held.
func (b *Backend) caller(r *http.Request) *account {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return nil
	}
	for _, a := range b.accounts {
		if a.token == token {
			return a
		}
	}
	return nil
}

func (b *Backend) newID() models.ID {
	b.nextID++
	return models.ID(strconv.Itoa(b.nextID))
}

func (b *Backend) product(id string) (models.Product, bool) {
	for _, p := range b.products {
		if p.ID.String() == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func cartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
