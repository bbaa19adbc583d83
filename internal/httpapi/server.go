// Package httpapi exposes the storefront over HTTP. It owns request
// decoding and validation only; all semantics live in the service layer.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/service"
)

// AdminCheck is the external auth capability: given a token, is the caller
// an operator. Credential handling stays outside this system.
type AdminCheck func(token string) bool

type Server struct {
	carts    *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService
	catalog  port.ProductCatalog
	users    port.UserDirectory

	isAdmin  AdminCheck
	validate *validator.Validate
	logger   *slog.Logger
}

func NewServer(carts *service.CartService, checkout *service.CheckoutService, orders *service.OrderService,
	catalog port.ProductCatalog, users port.UserDirectory, isAdmin AdminCheck, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		carts:    carts,
		checkout: checkout,
		orders:   orders,
		catalog:  catalog,
		users:    users,
		isAdmin:  isAdmin,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", s.getCart)
		r.Post("/add", s.addCartItem)
		r.Post("/update", s.updateCartItem)
		r.Post("/remove", s.removeCartItem)
		r.Post("/clear", s.clearCart)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", s.placeOrder)
		r.Get("/{orderID}", s.getOrder)
		r.Get("/user/{userID}", s.listUserOrders)

		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Get("/", s.listAllOrders)
			r.Post("/status", s.updateOrderStatus)
		})
	})

	return r
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isAdmin(r.Header.Get("X-Admin-Token")) {
			respondMessage(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
