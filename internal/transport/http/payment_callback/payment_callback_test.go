package paymentcallback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineeasy/order-svc/internal/payhere"
	"github.com/dineeasy/order-svc/internal/service/services/paymentsvc"
)

// mockService implements the service interface for testing.
type mockService struct {
	Result *paymentsvc.CallbackResult
	Err    error
	Got    *payhere.Callback
}

func (m *mockService) HandleCallback(_ context.Context, cb *payhere.Callback) (*paymentsvc.CallbackResult, error) {
	m.Got = cb

	return m.Result, m.Err
}

func postCallback(svc *mockService, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/payhere/callback",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	Callback(rec, req, svc)

	return rec
}

func validForm() url.Values {
	return url.Values{
		"merchant_id":      {"1221149"},
		"order_id":         {"42"},
		"payment_id":       {"320032640"},
		"payhere_amount":   {"3190.00"},
		"payhere_currency": {"LKR"},
		"status_code":      {"2"},
		"md5sig":           {"EEB302885419CAC270C2464E2B4107B5"},
	}
}

func TestCallback(t *testing.T) {
	svc := &mockService{Result: &paymentsvc.CallbackResult{Verdict: payhere.StatusPaid, OrderID: 42}}

	rec := postCallback(svc, validForm())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"received"}`, rec.Body.String())

	require.NotNil(t, svc.Got)
	assert.Equal(t, "1221149", svc.Got.MerchantID)
	assert.Equal(t, "42", svc.Got.OrderRef)
	assert.Equal(t, "320032640", svc.Got.PaymentID)
	assert.Equal(t, "3190.00", svc.Got.Amount)
	assert.Equal(t, "LKR", svc.Got.Currency)
	assert.Equal(t, "2", svc.Got.StatusCode)
	assert.Equal(t, "EEB302885419CAC270C2464E2B4107B5", svc.Got.Signature)
}

func TestCallback_ResponseHidesVerdict(t *testing.T) {
	svc := &mockService{Result: &paymentsvc.CallbackResult{Verdict: payhere.StatusFailed, OrderID: 42}}

	rec := postCallback(svc, validForm())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"received"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "failed")
}

func TestCallback_Malformed(t *testing.T) {
	svc := &mockService{Err: paymentsvc.ErrMalformedCallback}

	rec := postCallback(svc, url.Values{"merchant_id": {"1221149"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallback_InvalidSignature(t *testing.T) {
	svc := &mockService{Err: paymentsvc.ErrInvalidSignature}

	rec := postCallback(svc, validForm())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallback_UnknownOrder(t *testing.T) {
	svc := &mockService{Err: paymentsvc.ErrOrderNotFound}

	rec := postCallback(svc, validForm())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallback_InternalError(t *testing.T) {
	svc := &mockService{Err: assert.AnError}

	rec := postCallback(svc, validForm())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
