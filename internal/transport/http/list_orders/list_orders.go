package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dineeasy/order-svc/internal/service/models/order"
)

// service is an interface for the service layer.
type service interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// parseFilter builds the query filter from URL parameters. Unknown status
// values are rejected rather than silently ignored.
func parseFilter(r *http.Request) (*order.QueryOrdersModel, error) {
	filter := &order.QueryOrdersModel{}

	for _, raw := range r.URL.Query()["status"] {
		status, err := order.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if raw := r.URL.Query().Get("customerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		filter.CustomerIds = []int64{id}
	}

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		filter.CreatedFrom = from
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		filter.CreatedTo = to
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			return nil, strconv.ErrSyntax
		}
		page = p
	}

	pageSize := defaultPageSize
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		ps, err := strconv.Atoi(raw)
		if err != nil || ps < 1 {
			return nil, strconv.ErrSyntax
		}
		if ps > maxPageSize {
			ps = maxPageSize
		}
		pageSize = ps
	}

	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	return filter, nil
}

// ListOrders handles the list orders request.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, "invalid filter: "+err.Error(), http.StatusBadRequest)

		return
	}

	orders, err := service.GetOrders(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		slog.Error("Error listing orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"orders": orders}); err != nil {
		slog.Error("Error encoding list orders response", "error", err)
	}
}
