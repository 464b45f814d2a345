package server

import (
	"net/http"

	"github.com/jrsteele09/go-storefront/models"
	"github.com/jrsteele09/go-storefront/session"
)

// HomeHandler renders the landing page with the current catalog.
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := s.api.GetProducts(r.Context())
		if err != nil {
			// The landing page still renders without products
			pd := s.pageData(w, r, "Home", []models.Product(nil))
			pd.Error, pd.NeedsLogin = failureMessage(r.Context(), err), false
			s.render(w, http.StatusOK, "home.html", pd)
			return
		}
		if len(products) > 8 {
			products = products[:8]
		}
		s.renderPage(w, r, "home.html", "Home", products)
	}
}

// DashboardHandler shows the logged-in user's account summary.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		user, err := s.api.GetUserProfile(r.Context(), sess.Token)
		if err != nil {
			s.renderFailure(w, r, "dashboard.html", "Dashboard", err)
			return
		}
		s.renderPage(w, r, "dashboard.html", "Dashboard", user)
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusNotFound, "notfound.html", s.pageData(w, r, "Page Not Found", r.URL.Path))
	}
}
