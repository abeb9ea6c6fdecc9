package initiatepayment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dineeasy/order-svc/internal/service/services/paymentsvc"
	"github.com/dineeasy/order-svc/internal/transport/http/middleware/authmw"
)

// service is an interface for the service layer.
type service interface {
	InitiatePayment(ctx context.Context, customerID, orderID int64) (*paymentsvc.CheckoutPayload, error)
}

// initiatePaymentRequest represents an initiate payment request.
type initiatePaymentRequest struct {
	OrderID int64 `json:"orderId" validate:"gt=0"`
}

// Validate validates the initiate payment request.
func (r *initiatePaymentRequest) Validate() error {
	return validator.New().Struct(r)
}

// InitiatePayment handles the initiate payment request.
func InitiatePayment(w http.ResponseWriter, r *http.Request, service service) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)

		return
	}

	req := initiatePaymentRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for initiate payment", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	payload, err := service.InitiatePayment(r.Context(), claims.UserID, req.OrderID)
	if err != nil {
		if errors.Is(err, paymentsvc.ErrOrderNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)

			return
		}

		http.Error(w, "failed to initiate payment", http.StatusInternalServerError)
		slog.Error("Error initiating payment", "orderId", req.OrderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Error encoding initiate payment response", "error", err)
	}
}
