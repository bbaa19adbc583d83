package httpapi

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/nikolayk812/storefront/internal/domain"
)

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, s.logger, domain.ValidationError{Field: "userId", Reason: "is required"})
		return
	}

	if err := s.checkUser(r, userID); err != nil {
		respondError(w, s.logger, err)
		return
	}

	cart, err := s.carts.Snapshot(r.Context(), userID)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, mapCart(cart))
}

// addCartItem resolves the catalog snapshot here, so the ledger itself never
// talks to the catalog and a later price change cannot leak into the line.
func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := bind(r, s.validate, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	if err := s.checkUser(r, req.UserID); err != nil {
		respondError(w, s.logger, err)
		return
	}

	productID := uuid.MustParse(req.ProductID)

	product, err := s.catalog.Lookup(r.Context(), productID)
	if err != nil {
		respondError(w, s.logger, fmt.Errorf("catalog.Lookup: %w", err))
		return
	}

	cart, err := s.carts.AddItem(r.Context(), req.UserID, domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  req.Quantity,
		Color:     req.Color,
		Image:     product.Image,
	})
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, mapCart(cart))
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := bind(r, s.validate, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	if err := s.checkUser(r, req.UserID); err != nil {
		respondError(w, s.logger, err)
		return
	}

	cart, err := s.carts.SetQuantity(r.Context(), req.UserID, uuid.MustParse(req.ProductID), req.Color, req.Quantity)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, mapCart(cart))
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	var req removeCartItemRequest
	if err := bind(r, s.validate, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	if err := s.checkUser(r, req.UserID); err != nil {
		respondError(w, s.logger, err)
		return
	}

	cart, err := s.carts.RemoveItem(r.Context(), req.UserID, uuid.MustParse(req.ProductID), req.Color)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, mapCart(cart))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	var req clearCartRequest
	if err := bind(r, s.validate, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	if err := s.checkUser(r, req.UserID); err != nil {
		respondError(w, s.logger, err)
		return
	}

	if err := s.carts.Clear(r.Context(), req.UserID); err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, mapCart(domain.Cart{OwnerID: req.UserID}))
}

// checkUser verifies the owner exists upstream before any cart mutation.
func (s *Server) checkUser(r *http.Request, userID string) error {
	if _, err := s.users.FindByID(r.Context(), userID); err != nil {
		return fmt.Errorf("users.FindByID: %w", err)
	}
	return nil
}
