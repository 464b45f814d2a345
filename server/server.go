package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/models"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/rs/zerolog/log"
)

// API is the backend surface the storefront pages call. *apiclient.Client implements it.
type API interface {
	GetUserProfile(ctx context.Context, token string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, token string, update models.UserUpdate) (*models.User, error)
	GetAllUsers(ctx context.Context, token string) ([]models.User, error)
	GetUserByID(ctx context.Context, token, userID string) (*models.User, error)
	UpdateUserByID(ctx context.Context, token, userID string, update models.UserUpdate) (*models.User, error)
	DeleteUserByID(ctx context.Context, token, userID string) (*models.Message, error)

	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductDetails(ctx context.Context, token, productID string) (*models.Product, error)
	AddProduct(ctx context.Context, token string, input models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, input models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) (*models.Message, error)

	AddToCart(ctx context.Context, token, productID string, quantity int) (*models.Cart, error)
	GetCart(ctx context.Context, token string) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, token, productID string) (*models.Message, error)
	AddToWishlist(ctx context.Context, token, productID string) (*models.Message, error)
	GetWishlist(ctx context.Context, token string) (*models.Wishlist, error)
	RemoveFromWishlist(ctx context.Context, token, productID string) (*models.Message, error)

	PlaceOrder(ctx context.Context, token string) (*models.Order, error)
	GetOrderDetails(ctx context.Context, token, orderID string) (*models.Order, error)
	GetOrders(ctx context.Context, token string) ([]models.Order, error)
	GetAllOrders(ctx context.Context, token string) ([]models.Order, error)
	DeleteOrder(ctx context.Context, token, orderID string) (*models.Message, error)
	ProcessPayment(ctx context.Context, token, orderID string) (*models.Message, error)
	UpdateShipmentStatus(ctx context.Context, token, orderID, trackingID string) (*models.Message, error)
	UpdateDeliveryStatus(ctx context.Context, token, orderID, trackingID string) (*models.Message, error)
	SubmitReview(ctx context.Context, token, productID string, rating int, comment string) (*models.Message, error)
}

type Server struct {
	env          string // Environment (e.g., "DEV", "PROD")
	appName      string
	mux          *http.ServeMux
	routes       []string
	gated        []string // Patterns behind RequireSession
	api          API
	sessions     *session.Store
	pages        map[string]*template.Template
	cookieSecure bool
}

func New(config config.Config, api API, sessions *session.Store) (*Server, error) {
	if api == nil {
		return nil, fmt.Errorf("[Server New] api client is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("[Server New] session store is required")
	}

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:          config.GetEnv(),
		appName:      config.GetAppName(),
		mux:          http.NewServeMux(),
		api:          api,
		sessions:     sessions,
		pages:        pages,
		cookieSecure: config.GetCookieSecure(),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

// GatedRoutes lists the route patterns that require an authenticated session.
func (s *Server) GatedRoutes() []string {
	return append([]string(nil), s.gated...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
	log.Debug().Int("gated", len(s.gated)).Int("total", len(s.routes)).Msg("routes registered")
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
