package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/storefront/internal/domain"
)

type errorResponse struct {
	Message    string              `json:"message"`
	Field      string              `json:"field,omitempty"`
	Shortfalls []shortfallResponse `json:"shortfalls,omitempty"`
}

type shortfallResponse struct {
	ProductID string `json:"productId"`
	Requested int32  `json:"requested"`
	Available int32  `json:"available"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondError maps the domain error taxonomy onto HTTP statuses without
// downgrading any kind: callers get enough structure to render a precise
// message, stock shortfalls included.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		validationErr domain.ValidationError
		notFoundErr   domain.NotFoundError
		stockErr      domain.InsufficientStockError
		conflictErr   domain.StateConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Message: validationErr.Reason,
			Field:   validationErr.Field,
		})
	case errors.As(err, &notFoundErr):
		respondMessage(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &stockErr):
		shortfalls := make([]shortfallResponse, 0, len(stockErr.Shortfalls))
		for _, s := range stockErr.Shortfalls {
			shortfalls = append(shortfalls, shortfallResponse{
				ProductID: s.ProductID.String(),
				Requested: s.Requested,
				Available: s.Available,
			})
		}
		respondJSON(w, http.StatusConflict, errorResponse{
			Message:    "insufficient stock",
			Shortfalls: shortfalls,
		})
	case errors.As(err, &conflictErr):
		respondMessage(w, http.StatusConflict, conflictErr.Error())
	default:
		logger.Error("request failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
