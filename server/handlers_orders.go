package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-storefront/session"
)

func (s *Server) OrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		orders, err := s.api.GetOrders(r.Context(), sess.Token)
		if err != nil {
			s.renderFailure(w, r, "orders.html", "My Orders", err)
			return
		}
		s.renderPage(w, r, "orders.html", "My Orders", orders)
	}
}

func (s *Server) OrderDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		order, err := s.api.GetOrderDetails(r.Context(), sess.Token, r.PathValue("orderId"))
		if err != nil {
			s.renderFailure(w, r, "order.html", "Order", err)
			return
		}
		s.renderPage(w, r, "order.html", "Order "+order.ID.String(), order)
	}
}

func (s *Server) OrderDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		orderID := r.PathValue("orderId")
		if _, err := s.api.DeleteOrder(r.Context(), sess.Token, orderID); err != nil {
			redirectWithError(w, r, pathWith(RouteOrderDetail, orderID), failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, RouteOrders, "Order deleted")
	}
}

func (s *Server) PaymentPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		order, err := s.api.GetOrderDetails(r.Context(), sess.Token, r.PathValue("orderId"))
		if err != nil {
			s.renderFailure(w, r, "payment.html", "Payment", err)
			return
		}
		s.renderPage(w, r, "payment.html", "Payment", order)
	}
}

func (s *Server) PaymentSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		orderID := r.PathValue("orderId")

		resp, err := s.api.ProcessPayment(r.Context(), sess.Token, orderID)
		if err != nil {
			redirectWithError(w, r, pathWith(RoutePayment, orderID), failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, pathWith(RouteOrderDetail, orderID), messageOr(resp.Text(), "Payment successful"))
	}
}

// AllOrdersHandler lists every customer's orders. The backend decides who may see them.
func (s *Server) AllOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		orders, err := s.api.GetAllOrders(r.Context(), sess.Token)
		if err != nil {
			s.renderFailure(w, r, "orders_all.html", "All Orders", err)
			return
		}
		s.renderPage(w, r, "orders_all.html", "All Orders", orders)
	}
}

func (s *Server) ShipmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		orders, err := s.api.GetAllOrders(r.Context(), sess.Token)
		if err != nil {
			s.renderFailure(w, r, "shipments.html", "Manage Shipments", err)
			return
		}
		s.renderPage(w, r, "shipments.html", "Manage Shipments", orders)
	}
}

func (s *Server) ShipOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackingID := strings.TrimSpace(r.PostFormValue("tracking_id"))
		if trackingID == "" {
			redirectWithError(w, r, RouteShipments, "Tracking ID is required")
			return
		}

		sess := session.FromContext(r.Context())
		resp, err := s.api.UpdateShipmentStatus(r.Context(), sess.Token, r.PathValue("orderId"), trackingID)
		if err != nil {
			redirectWithError(w, r, RouteShipments, failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, RouteShipments, messageOr(resp.Text(), "Shipment updated"))
	}
}

func (s *Server) DeliverOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackingID := strings.TrimSpace(r.PostFormValue("tracking_id"))

		sess := session.FromContext(r.Context())
		resp, err := s.api.UpdateDeliveryStatus(r.Context(), sess.Token, r.PathValue("orderId"), trackingID)
		if err != nil {
			redirectWithError(w, r, RouteShipments, failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, RouteShipments, messageOr(resp.Text(), "Order marked as delivered"))
	}
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
