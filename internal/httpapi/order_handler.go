package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
)

type placeOrderResponse struct {
	OrderID     string        `json:"orderId"`
	Amount      moneyResponse `json:"amount"`
	CartCleared bool          `json:"cartCleared"`
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := bind(r, s.validate, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	checkedBill, err := req.CheckedBill.toDomain()
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	shippingFees, err := req.ShippingFees.toDomain()
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	result, err := s.checkout.PlaceOrder(r.Context(), service.CheckoutRequest{
		OwnerID:          req.UserID,
		CheckedBill:      checkedBill,
		ShippingFees:     shippingFees,
		Address:          req.Address.toDomain(),
		PaymentMethod:    domain.PaymentMethod(req.PaymentMethod),
		DeliveryDate:     req.DeliveryDate,
		DeliveryTimeSlot: req.DeliveryTimeSlot,
	})
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, placeOrderResponse{
		OrderID:     result.OrderID.String(),
		Amount:      mapMoney(result.Amount),
		CartCleared: result.CartCleared,
	})
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, s.logger, domain.ValidationError{Field: "orderID", Reason: "is not a valid UUID"})
		return
	}

	order, err := s.orders.Get(r.Context(), orderID)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, mapOrder(order))
}

func (s *Server) listUserOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, s.logger, domain.ValidationError{Field: "userID", Reason: "is required"})
		return
	}

	orders, err := s.orders.ListForOwner(r.Context(), userID)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, mapOrders(orders))
}

func (s *Server) listAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListAll(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, mapOrders(orders))
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := bind(r, s.validate, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	status, err := domain.ToOrderStatus(req.Status)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	order, err := s.orders.Transition(r.Context(), uuid.MustParse(req.OrderID), status)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, mapOrder(order))
}
