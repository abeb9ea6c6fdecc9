package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/services/ordersvc"
	"github.com/dineeasy/order-svc/internal/transport/http/middleware/authmw"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, model ordersvc.PlaceOrderModel) (*order.Order, error)
}

// itemInPlaceOrderRequest represents an item in a place order request.
type itemInPlaceOrderRequest struct {
	MenuItemID int64  `json:"menuItemId" validate:"gt=0"`
	Quantity   int    `json:"quantity"   validate:"gt=0"`
	Note       string `json:"note"       validate:"max=500"`
}

// placeOrderRequest represents a place order request.
type placeOrderRequest struct {
	TableID *int64                    `json:"tableId"`
	Note    string                    `json:"note"  validate:"max=500"`
	Items   []itemInPlaceOrderRequest `json:"items" validate:"required,min=1,dive"`
}

// Validate validates the place order request.
func (r *placeOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts placeOrderRequest to ordersvc.PlaceOrderModel.
func (r *placeOrderRequest) toModel(customerID int64) ordersvc.PlaceOrderModel {
	items := make([]ordersvc.PlaceOrderItemModel, len(r.Items))
	for i, item := range r.Items {
		items[i] = ordersvc.PlaceOrderItemModel{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Note:       item.Note,
		}
	}

	return ordersvc.PlaceOrderModel{
		CustomerID: customerID,
		TableID:    r.TableID,
		Note:       r.Note,
		Items:      items,
	}
}

// PlaceOrder handles the place order request.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)

		return
	}

	req := placeOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for place order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for place order", "error", err)

		return
	}

	ord, err := service.PlaceOrder(r.Context(), req.toModel(claims.UserID))
	if err != nil {
		switch {
		case errors.Is(err, ordersvc.ErrEmptyOrder),
			errors.Is(err, ordersvc.ErrMenuItemUnavailable):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ordersvc.ErrCustomerNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "failed to place order", http.StatusInternalServerError)
			slog.Error("Error placing order", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ord); err != nil {
		slog.Error("Error encoding place order response", "error", err)
	}
}
