package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-storefront/models"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/shopspring/decimal"
)

// ProductForm backs both the add and the edit product pages.
type ProductForm struct {
	ProductID string // Empty when adding
	Input     models.ProductInput
}

func (f ProductForm) Editing() bool {
	return f.ProductID != ""
}

func (f ProductForm) Action() string {
	if f.Editing() {
		return pathWith(RouteProductEdit, f.ProductID)
	}
	return RouteProductAdd
}

func (s *Server) ProductListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := s.api.GetProducts(r.Context())
		if err != nil {
			s.renderFailure(w, r, "products.html", "Products", err)
			return
		}
		s.renderPage(w, r, "products.html", "Products", products)
	}
}

// ProductDetailsHandler works for guests too; the token is sent only when present.
func (s *Server) ProductDetailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		product, err := s.api.GetProductDetails(r.Context(), sess.Token, r.PathValue("productId"))
		if err != nil {
			s.renderFailure(w, r, "product.html", "Product", err)
			return
		}
		s.renderPage(w, r, "product.html", product.Name, product)
	}
}

func (s *Server) ProductAddPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, "product_form.html", "Add Product", ProductForm{})
	}
}

func (s *Server) ProductAddSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, problem := parseProductForm(r)
		if problem != "" {
			s.renderFormError(w, r, "product_form.html", "Add Product", http.StatusBadRequest, problem, ProductForm{Input: input})
			return
		}

		sess := session.FromContext(r.Context())
		product, err := s.api.AddProduct(r.Context(), sess.Token, input)
		if err != nil {
			status, msg, _ := apiFailure(r.Context(), err)
			s.renderFormError(w, r, "product_form.html", "Add Product", status, msg, ProductForm{Input: input})
			return
		}

		if product.ID == "" {
			redirectWithMessage(w, r, RouteProducts, "Product added")
			return
		}
		redirectWithMessage(w, r, pathWith(RouteProductDetails, product.ID.String()), "Product added")
	}
}

func (s *Server) ProductEditPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		productID := r.PathValue("productId")
		product, err := s.api.GetProductDetails(r.Context(), sess.Token, productID)
		if err != nil {
			s.renderFailure(w, r, "product_form.html", "Edit Product", err)
			return
		}
		s.renderPage(w, r, "product_form.html", "Edit Product", ProductForm{
			ProductID: productID,
			Input: models.ProductInput{
				Name:        product.Name,
				Description: product.Description,
				Price:       product.Price,
				Stock:       product.Stock,
				Category:    product.Category,
				ImageURL:    product.ImageURL,
			},
		})
	}
}

func (s *Server) ProductEditSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := r.PathValue("productId")
		input, problem := parseProductForm(r)
		if problem != "" {
			s.renderFormError(w, r, "product_form.html", "Edit Product", http.StatusBadRequest, problem, ProductForm{ProductID: productID, Input: input})
			return
		}

		sess := session.FromContext(r.Context())
		if _, err := s.api.UpdateProduct(r.Context(), sess.Token, productID, input); err != nil {
			status, msg, _ := apiFailure(r.Context(), err)
			s.renderFormError(w, r, "product_form.html", "Edit Product", status, msg, ProductForm{ProductID: productID, Input: input})
			return
		}
		redirectWithMessage(w, r, pathWith(RouteProductDetails, productID), "Product updated")
	}
}

func (s *Server) ProductDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := r.PathValue("productId")
		sess := session.FromContext(r.Context())
		if _, err := s.api.DeleteProduct(r.Context(), sess.Token, productID); err != nil {
			redirectWithError(w, r, pathWith(RouteProductEdit, productID), failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, RouteProducts, "Product deleted")
	}
}

func (s *Server) AddToCartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := r.PathValue("productId")
		back := pathWith(RouteProductDetails, productID)

		quantity := 1
		if q := strings.TrimSpace(r.PostFormValue("quantity")); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 1 {
				redirectWithError(w, r, back, "Quantity must be a whole number of at least 1")
				return
			}
			quantity = n
		}

		sess := session.FromContext(r.Context())
		if _, err := s.api.AddToCart(r.Context(), sess.Token, productID, quantity); err != nil {
			redirectWithError(w, r, back, failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, back, "Added to cart")
	}
}

func (s *Server) AddToWishlistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := r.PathValue("productId")
		back := pathWith(RouteProductDetails, productID)

		sess := session.FromContext(r.Context())
		if _, err := s.api.AddToWishlist(r.Context(), sess.Token, productID); err != nil {
			redirectWithError(w, r, back, failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, back, "Added to wishlist")
	}
}

func (s *Server) SubmitReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := r.PathValue("productId")
		back := pathWith(RouteProductDetails, productID)

		rating, err := strconv.Atoi(r.PostFormValue("rating"))
		if err != nil || rating < 1 || rating > 5 {
			redirectWithError(w, r, back, "Rating must be between 1 and 5")
			return
		}
		comment := strings.TrimSpace(r.PostFormValue("comment"))

		sess := session.FromContext(r.Context())
		resp, err := s.api.SubmitReview(r.Context(), sess.Token, productID, rating, comment)
		if err != nil {
			redirectWithError(w, r, back, failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, back, messageOr(resp.Text(), "Review submitted"))
	}
}

// parseProductForm returns whatever it could read alongside the first validation problem.
func parseProductForm(r *http.Request) (models.ProductInput, string) {
	if err := r.ParseForm(); err != nil {
		return models.ProductInput{}, "Invalid form submission"
	}
	input := models.ProductInput{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Category:    strings.TrimSpace(r.PostFormValue("category")),
		ImageURL:    strings.TrimSpace(r.PostFormValue("image_url")),
	}

	price, priceErr := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("price")))
	if priceErr == nil {
		input.Price = price
	}
	stock, stockErr := strconv.Atoi(strings.TrimSpace(r.PostFormValue("stock")))
	if stockErr == nil {
		input.Stock = stock
	}

	switch {
	case input.Name == "":
		return input, "Name is required"
	case priceErr != nil || price.IsNegative():
		return input, "Price must be a non-negative number"
	case stockErr != nil || stock < 0:
		return input, "Stock must be a non-negative whole number"
	}
	return input, ""
}

func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, page, title string, status int, msg string, form any) {
	pd := s.pageData(w, r, title, form)
	pd.Flash = ""
	pd.Error = msg
	pd.NeedsLogin = msg == msgSessionInvalid
	s.render(w, status, page, pd)
}
