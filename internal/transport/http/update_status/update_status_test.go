package updatestatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/services/ordersvc"
)

// mockService implements the service interface for testing.
type mockService struct {
	Order  *order.Order
	Err    error
	GotID  int64
	Target order.Status
}

func (m *mockService) Transition(_ context.Context, id int64, target order.Status) (*order.Order, error) {
	m.GotID = id
	m.Target = target

	return m.Order, m.Err
}

func newTestRouter(svc *mockService) *chi.Mux {
	router := chi.NewRouter()
	router.Patch("/api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		UpdateStatus(w, r, svc)
	})

	return router
}

func patchStatus(t *testing.T, router *chi.Mux, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestUpdateStatus(t *testing.T) {
	svc := &mockService{Order: &order.Order{ID: 42, Status: order.StatusPreparing}}
	router := newTestRouter(svc)

	rec := patchStatus(t, router, "/api/orders/42/status", `{"status":"preparing"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), svc.GotID)
	assert.Equal(t, order.StatusPreparing, svc.Target)
	assert.Contains(t, rec.Body.String(), `"preparing"`)
}

func TestUpdateStatus_UnknownStatusValue(t *testing.T) {
	svc := &mockService{}
	router := newTestRouter(svc)

	rec := patchStatus(t, router, "/api/orders/42/status", `{"status":"shipped"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.GotID, "service must not be called for vocabulary errors")
}

func TestUpdateStatus_MissingStatus(t *testing.T) {
	svc := &mockService{}
	router := newTestRouter(svc)

	rec := patchStatus(t, router, "/api/orders/42/status", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_InvalidID(t *testing.T) {
	svc := &mockService{}
	router := newTestRouter(svc)

	rec := patchStatus(t, router, "/api/orders/abc/status", `{"status":"preparing"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := &mockService{Err: ordersvc.ErrOrderNotFound}
	router := newTestRouter(svc)

	rec := patchStatus(t, router, "/api/orders/42/status", `{"status":"preparing"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	svc := &mockService{Err: ordersvc.ErrInvalidTransition}
	router := newTestRouter(svc)

	rec := patchStatus(t, router, "/api/orders/42/status", `{"status":"completed"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
