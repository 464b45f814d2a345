package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token-123"

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

// fakeBackend records every request and replies with a fixed status and body.
type fakeBackend struct {
	server   *httptest.Server
	lock     sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func newFakeBackend(t *testing.T, status int, body string) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{status: status, body: body}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.lock.Lock()
		fb.requests = append(fb.requests, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.EscapedPath(),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		fb.lock.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fb.status)
		_, _ = io.WriteString(w, fb.body)
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) last(t *testing.T) recordedRequest {
	t.Helper()
	fb.lock.Lock()
	defer fb.lock.Unlock()
	require.NotEmpty(t, fb.requests)
	return fb.requests[len(fb.requests)-1]
}

type operation struct {
	name   string
	method string
	path   string
	call   func(c *apiclient.Client, token string) error
}

// responseBody returns a success body the operation can decode.
func (op operation) responseBody() string {
	switch op.name {
	case "GetAllUsers", "GetOrders", "GetAllOrders":
		return `[]`
	}
	return `{}`
}

func authenticatedOperations() []operation {
	ctx := context.Background()
	ignore := func(_ any, err error) error { return err }
	return []operation{
		{"Logout", http.MethodPost, "/auth/logout", func(c *apiclient.Client, tok string) error { return ignore(c.Logout(ctx, tok)) }},
		{"GetUserProfile", http.MethodGet, "/user/profile", func(c *apiclient.Client, tok string) error { return ignore(c.GetUserProfile(ctx, tok)) }},
		{"UpdateUserProfile", http.MethodPut, "/user/profile", func(c *apiclient.Client, tok string) error {
			return ignore(c.UpdateUserProfile(ctx, tok, models.UserUpdate{FullName: "Jane"}))
		}},
		{"GetAllUsers", http.MethodGet, "/user/", func(c *apiclient.Client, tok string) error { return ignore(c.GetAllUsers(ctx, tok)) }},
		{"GetUserByID", http.MethodGet, "/user/7", func(c *apiclient.Client, tok string) error { return ignore(c.GetUserByID(ctx, tok, "7")) }},
		{"UpdateUserByID", http.MethodPut, "/user/7", func(c *apiclient.Client, tok string) error {
			return ignore(c.UpdateUserByID(ctx, tok, "7", models.UserUpdate{Role: models.RoleVendor}))
		}},
		{"DeleteUserByID", http.MethodDelete, "/user/7", func(c *apiclient.Client, tok string) error { return ignore(c.DeleteUserByID(ctx, tok, "7")) }},
		{"GetProductDetails", http.MethodGet, "/product/products/5", func(c *apiclient.Client, tok string) error {
			return ignore(c.GetProductDetails(ctx, tok, "5"))
		}},
		{"AddProduct", http.MethodPost, "/product/products", func(c *apiclient.Client, tok string) error {
			return ignore(c.AddProduct(ctx, tok, models.ProductInput{Name: "Lamp", Price: decimal.NewFromInt(10)}))
		}},
		{"UpdateProduct", http.MethodPut, "/product/products/5", func(c *apiclient.Client, tok string) error {
			return ignore(c.UpdateProduct(ctx, tok, "5", models.ProductInput{Name: "Lamp"}))
		}},
		{"DeleteProduct", http.MethodDelete, "/product/products/5", func(c *apiclient.Client, tok string) error { return ignore(c.DeleteProduct(ctx, tok, "5")) }},
		{"AddToCart", http.MethodPost, "/cart/cart", func(c *apiclient.Client, tok string) error { return ignore(c.AddToCart(ctx, tok, "5", 1)) }},
		{"GetCart", http.MethodGet, "/cart/cart", func(c *apiclient.Client, tok string) error { return ignore(c.GetCart(ctx, tok)) }},
		{"RemoveFromCart", http.MethodDelete, "/cart/cart/5", func(c *apiclient.Client, tok string) error { return ignore(c.RemoveFromCart(ctx, tok, "5")) }},
		{"AddToWishlist", http.MethodPost, "/cart/wishlist", func(c *apiclient.Client, tok string) error { return ignore(c.AddToWishlist(ctx, tok, "5")) }},
		{"GetWishlist", http.MethodGet, "/cart/wishlist", func(c *apiclient.Client, tok string) error { return ignore(c.GetWishlist(ctx, tok)) }},
		{"RemoveFromWishlist", http.MethodDelete, "/cart/wishlist/5", func(c *apiclient.Client, tok string) error {
			return ignore(c.RemoveFromWishlist(ctx, tok, "5"))
		}},
		{"PlaceOrder", http.MethodPost, "/orders/orders/place", func(c *apiclient.Client, tok string) error { return ignore(c.PlaceOrder(ctx, tok)) }},
		{"GetOrderDetails", http.MethodGet, "/orders/orders/9", func(c *apiclient.Client, tok string) error { return ignore(c.GetOrderDetails(ctx, tok, "9")) }},
		{"GetOrders", http.MethodGet, "/orders/orders", func(c *apiclient.Client, tok string) error { return ignore(c.GetOrders(ctx, tok)) }},
		{"GetAllOrders", http.MethodGet, "/orders/orders-all", func(c *apiclient.Client, tok string) error { return ignore(c.GetAllOrders(ctx, tok)) }},
		{"DeleteOrder", http.MethodDelete, "/orders/orders/9", func(c *apiclient.Client, tok string) error { return ignore(c.DeleteOrder(ctx, tok, "9")) }},
		{"ProcessPayment", http.MethodPost, "/payment/orders/9/pay", func(c *apiclient.Client, tok string) error { return ignore(c.ProcessPayment(ctx, tok, "9")) }},
		{"UpdateShipmentStatus", http.MethodPut, "/shipment/orders/9/shipment", func(c *apiclient.Client, tok string) error {
			return ignore(c.UpdateShipmentStatus(ctx, tok, "9", "TRK1"))
		}},
		{"UpdateDeliveryStatus", http.MethodPut, "/shipment/orders/9/deliver", func(c *apiclient.Client, tok string) error {
			return ignore(c.UpdateDeliveryStatus(ctx, tok, "9", "TRK1"))
		}},
		{"SubmitReview", http.MethodPost, "/reviews", func(c *apiclient.Client, tok string) error {
			return ignore(c.SubmitReview(ctx, tok, "5", 4, "good"))
		}},
	}
}

func TestClient_BearerHeaderIffToken(t *testing.T) {
	for _, op := range authenticatedOperations() {
		t.Run(op.name+" with token", func(t *testing.T) {
			fb := newFakeBackend(t, http.StatusOK, op.responseBody())
			client := apiclient.New(fb.server.URL)

			require.NoError(t, op.call(client, testToken))
			req := fb.last(t)
			require.Equal(t, op.method, req.Method)
			require.Equal(t, op.path, req.Path)
			require.Equal(t, "Bearer "+testToken, req.Authorization)
		})

		t.Run(op.name+" without token", func(t *testing.T) {
			fb := newFakeBackend(t, http.StatusOK, op.responseBody())
			client := apiclient.New(fb.server.URL)

			require.NoError(t, op.call(client, ""))
			require.Empty(t, fb.last(t).Authorization)
		})
	}
}

func TestClient_AnonymousOperations(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusOK, `{"access_token":"abc","token_type":"bearer"}`)
		client := apiclient.New(fb.server.URL)

		resp, err := client.Login(context.Background(), "jdoe", "secret")
		require.NoError(t, err)
		require.Equal(t, "abc", resp.BearerToken())

		req := fb.last(t)
		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "/auth/login", req.Path)
		require.Empty(t, req.Authorization)
		require.JSONEq(t, `{"username":"jdoe","password":"secret"}`, string(req.Body))
	})

	t.Run("register", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusCreated, `{"message":"created"}`)
		client := apiclient.New(fb.server.URL)

		resp, err := client.Register(context.Background(), models.RegisterRequest{Username: "jdoe", Email: "j@example.com", Password: "pw"})
		require.NoError(t, err)
		require.Empty(t, resp.BearerToken())
		require.Equal(t, "/auth/register", fb.last(t).Path)
	})

	t.Run("products", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusOK, `[{"id":1,"name":"Lamp","price":"12.50","stock":3},{"id":"b2","name":"Desk","price":80}]`)
		client := apiclient.New(fb.server.URL + "/")

		products, err := client.GetProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 2)
		require.Equal(t, models.ID("1"), products[0].ID)
		require.True(t, products[0].Price.Equal(decimal.RequireFromString("12.5")))
		require.Equal(t, models.ID("b2"), products[1].ID)

		req := fb.last(t)
		require.Equal(t, "/product/products", req.Path)
		require.Empty(t, req.Authorization)
	})
}

func TestClient_AddToCart(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"items":[{"product_id":"42","quantity":2}]}`)
	client := apiclient.New(fb.server.URL)

	cart, err := client.AddToCart(context.Background(), testToken, "42", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, models.ID("42"), cart.Items[0].ProductID)

	req := fb.last(t)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/cart/cart", req.Path)
	require.Equal(t, "Bearer "+testToken, req.Authorization)
	require.Equal(t, "application/json", req.ContentType)
	require.JSONEq(t, `{"product_id":"42","quantity":2}`, string(req.Body))
}

func TestClient_RequestBodies(t *testing.T) {
	ctx := context.Background()

	t.Run("wishlist", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusOK, `{"message":"ok"}`)
		_, err := apiclient.New(fb.server.URL).AddToWishlist(ctx, testToken, "42")
		require.NoError(t, err)
		require.JSONEq(t, `{"product_id":"42"}`, string(fb.last(t).Body))
	})

	t.Run("shipment", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusOK, `{"message":"ok"}`)
		_, err := apiclient.New(fb.server.URL).UpdateShipmentStatus(ctx, testToken, "9", "TRK-1")
		require.NoError(t, err)
		require.JSONEq(t, `{"tracking_id":"TRK-1"}`, string(fb.last(t).Body))
	})

	t.Run("review", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusOK, `{"message":"ok"}`)
		_, err := apiclient.New(fb.server.URL).SubmitReview(ctx, testToken, "5", 5, "great")
		require.NoError(t, err)
		require.JSONEq(t, `{"product_id":"5","rating":5,"comment":"great"}`, string(fb.last(t).Body))
	})

	t.Run("path segments escaped", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusOK, `{}`)
		_, err := apiclient.New(fb.server.URL).GetOrderDetails(ctx, testToken, "a/b")
		require.NoError(t, err)
		require.Equal(t, "/orders/orders/a%2Fb", fb.last(t).Path)
	})
}

func TestClient_ErrorNormalization(t *testing.T) {
	ctx := context.Background()

	t.Run("structured body surfaced unchanged", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusBadRequest, `{"detail":"Invalid credentials"}`)
		_, err := apiclient.New(fb.server.URL).Login(ctx, "jdoe", "wrong")
		require.Error(t, err)

		apiErr, ok := apiclient.AsError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusBadRequest, apiErr.Status)
		require.JSONEq(t, `{"detail":"Invalid credentials"}`, string(apiErr.Body))
		require.Equal(t, "Invalid credentials", err.Error())
		require.False(t, errors.Is(err, apiclient.ErrUnauthorized))
	})

	t.Run("structured body without known fields", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusConflict, `{"code":17}`)
		_, err := apiclient.New(fb.server.URL).PlaceOrder(ctx, testToken)
		require.Error(t, err)
		require.Equal(t, `{"code":17}`, err.Error())
	})

	t.Run("validation list flattened", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"too short"}]}`)
		_, err := apiclient.New(fb.server.URL).Register(ctx, models.RegisterRequest{})
		require.Error(t, err)
		require.Equal(t, "field required; too short", err.Error())
	})

	t.Run("unstructured body yields fallback", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusInternalServerError, `<html>oops</html>`)
		_, err := apiclient.New(fb.server.URL).GetCart(ctx, testToken)
		require.Error(t, err)
		require.Equal(t, "Failed to fetch cart", err.Error())

		apiErr, ok := apiclient.AsError(err)
		require.True(t, ok)
		require.False(t, apiErr.Structured())
	})

	t.Run("empty body yields fallback", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusBadGateway, ``)
		_, err := apiclient.New(fb.server.URL).GetProducts(ctx)
		require.Error(t, err)
		require.Equal(t, "Failed to fetch products", err.Error())
	})

	t.Run("unauthorized is distinct", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`)
		_, err := apiclient.New(fb.server.URL).GetProductDetails(ctx, "expired", "5")
		require.Error(t, err)
		require.True(t, errors.Is(err, apiclient.ErrUnauthorized))
		require.Equal(t, "Could not validate credentials", err.Error())
	})

	t.Run("transport failure yields fallback", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusOK, `{}`)
		url := fb.server.URL
		fb.server.Close()

		_, err := apiclient.New(url).GetOrders(ctx, testToken)
		require.Error(t, err)
		require.Equal(t, "Failed to fetch orders", err.Error())

		apiErr, ok := apiclient.AsError(err)
		require.True(t, ok)
		require.Zero(t, apiErr.Status)
		require.NotNil(t, errors.Unwrap(err))
	})

	t.Run("undecodable success yields fallback", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusOK, `"not a list"`)
		_, err := apiclient.New(fb.server.URL).GetOrders(ctx, testToken)
		require.Error(t, err)
		require.Equal(t, "Failed to fetch orders", err.Error())
	})
}

func TestClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := apiclient.New(server.URL).GetProducts(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Equal(t, "Failed to fetch products", err.Error())
}

func TestClient_EmptySuccessBody(t *testing.T) {
	fb := newFakeBackend(t, http.StatusNoContent, ``)
	msg, err := apiclient.New(fb.server.URL).DeleteOrder(context.Background(), testToken, "9")
	require.NoError(t, err)
	require.Empty(t, msg.Text())
}

func TestClient_AcknowledgementBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bare string", body: `"Payment successful"`, want: "Payment successful"},
		{name: "detail is an object", body: `{"message":"Payment successful","detail":{"order_id":3,"status":"paid"}}`, want: "Payment successful"},
		{name: "only non-string detail", body: `{"detail":{"order_id":3}}`, want: ""},
		{name: "array", body: `[1,2,3]`, want: ""},
		{name: "plain text", body: `Payment successful`, want: "Payment successful"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend(t, http.StatusOK, tt.body)
			msg, err := apiclient.New(fb.server.URL).ProcessPayment(context.Background(), testToken, "3")
			require.NoError(t, err)
			require.Equal(t, tt.want, msg.Text())
		})
	}

	t.Run("every acknowledgement operation tolerates odd bodies", func(t *testing.T) {
		fb := newFakeBackend(t, http.StatusOK, `"done"`)
		client := apiclient.New(fb.server.URL)
		ctx := context.Background()

		acks := map[string]func() (*models.Message, error){
			"Logout":               func() (*models.Message, error) { return client.Logout(ctx, testToken) },
			"DeleteUserByID":       func() (*models.Message, error) { return client.DeleteUserByID(ctx, testToken, "7") },
			"DeleteProduct":        func() (*models.Message, error) { return client.DeleteProduct(ctx, testToken, "5") },
			"RemoveFromCart":       func() (*models.Message, error) { return client.RemoveFromCart(ctx, testToken, "5") },
			"AddToWishlist":        func() (*models.Message, error) { return client.AddToWishlist(ctx, testToken, "5") },
			"RemoveFromWishlist":   func() (*models.Message, error) { return client.RemoveFromWishlist(ctx, testToken, "5") },
			"DeleteOrder":          func() (*models.Message, error) { return client.DeleteOrder(ctx, testToken, "9") },
			"UpdateShipmentStatus": func() (*models.Message, error) { return client.UpdateShipmentStatus(ctx, testToken, "9", "TRK1") },
			"UpdateDeliveryStatus": func() (*models.Message, error) { return client.UpdateDeliveryStatus(ctx, testToken, "9", "TRK1") },
			"SubmitReview":         func() (*models.Message, error) { return client.SubmitReview(ctx, testToken, "5", 4, "good") },
		}
		for name, ack := range acks {
			msg, err := ack()
			require.NoError(t, err, name)
			require.Equal(t, "done", msg.Text(), name)
		}
	})
}

func TestWithTimeout_LeavesSharedClientUntouched(t *testing.T) {
	shared := &http.Client{}
	client := apiclient.New("http://backend", apiclient.WithHTTPClient(shared), apiclient.WithTimeout(5*time.Second))

	require.Zero(t, shared.Timeout)
	require.Equal(t, 5*time.Second, client.HTTPClient().Timeout)
	require.NotSame(t, shared, client.HTTPClient())
}

func TestError_DetailFromMessageField(t *testing.T) {
	apiErr := &apiclient.Error{Status: 400, Body: json.RawMessage(`{"message":"out of stock"}`), Message: "Failed to add to cart"}
	require.Equal(t, "out of stock", apiErr.Error())
	require.False(t, errors.Is(apiErr, apiclient.ErrUnauthorized))
}
