package paymentcallback

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dineeasy/order-svc/internal/payhere"
	"github.com/dineeasy/order-svc/internal/service/services/paymentsvc"
)

// service is an interface for the service layer.
type service interface {
	HandleCallback(ctx context.Context, cb *payhere.Callback) (*paymentsvc.CallbackResult, error)
}

// Callback handles the PayHere server-to-server notification. PayHere posts
// form-encoded fields; responses stay generic so the body never leaks order
// or payment state to the gateway.
func Callback(w http.ResponseWriter, r *http.Request, service service) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed callback", http.StatusBadRequest)

		return
	}

	cb := &payhere.Callback{
		MerchantID: r.PostFormValue("merchant_id"),
		OrderRef:   r.PostFormValue("order_id"),
		PaymentID:  r.PostFormValue("payment_id"),
		Amount:     r.PostFormValue("payhere_amount"),
		Currency:   r.PostFormValue("payhere_currency"),
		StatusCode: r.PostFormValue("status_code"),
		Signature:  r.PostFormValue("md5sig"),
	}

	result, err := service.HandleCallback(r.Context(), cb)
	if err != nil {
		switch {
		case errors.Is(err, paymentsvc.ErrMalformedCallback):
			http.Error(w, "malformed callback", http.StatusBadRequest)
		case errors.Is(err, paymentsvc.ErrInvalidSignature):
			slog.Warn("Payment callback with invalid signature", "orderRef", cb.OrderRef)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
		case errors.Is(err, paymentsvc.ErrOrderNotFound):
			http.Error(w, "order not found", http.StatusNotFound)
		default:
			http.Error(w, "callback processing failed", http.StatusInternalServerError)
			slog.Error("Error processing payment callback", "orderRef", cb.OrderRef, "error", err)
		}

		return
	}

	slog.Info("Payment callback processed",
		"orderId", result.OrderID, "verdict", result.Verdict.String())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "received"}); err != nil {
		slog.Error("Error encoding payment callback response", "error", err)
	}
}
