package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/dineeasy/order-svc/internal/auth"
	"github.com/dineeasy/order-svc/internal/payhere"
	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/services/ordersvc"
	"github.com/dineeasy/order-svc/internal/service/services/paymentsvc"
	createorder "github.com/dineeasy/order-svc/internal/transport/http/create_order"
	getorder "github.com/dineeasy/order-svc/internal/transport/http/get_order"
	initiatepayment "github.com/dineeasy/order-svc/internal/transport/http/initiate_payment"
	listorders "github.com/dineeasy/order-svc/internal/transport/http/list_orders"
	"github.com/dineeasy/order-svc/internal/transport/http/middleware/authmw"
	paymentcallback "github.com/dineeasy/order-svc/internal/transport/http/payment_callback"
	updatestatus "github.com/dineeasy/order-svc/internal/transport/http/update_status"
	"github.com/dineeasy/order-svc/pkg/http/middleware/trace"
	"github.com/dineeasy/order-svc/pkg/logger"
)

type orderService interface {
	PlaceOrder(ctx context.Context, model ordersvc.PlaceOrderModel) (*order.Order, error)
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	Transition(ctx context.Context, id int64, target order.Status) (*order.Order, error)
}

type paymentService interface {
	InitiatePayment(ctx context.Context, customerID, orderID int64) (*paymentsvc.CheckoutPayload, error)
	HandleCallback(ctx context.Context, cb *payhere.Callback) (*paymentsvc.CallbackResult, error)
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	orders   orderService
	payments paymentService
	tokens   *auth.TokenManager
}

func NewHTTPTransport(orders orderService, payments paymentService, tokens *auth.TokenManager) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		orders:   orders,
		payments: payments,
		tokens:   tokens,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	staffOnly := authmw.Require(h.tokens, auth.RoleStaff)
	customerOnly := authmw.Require(h.tokens, auth.RoleCustomer)

	h.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(customerOnly)
			r.Post("/orders", h.placeOrder)
			r.Post("/payments/payhere", h.initiatePayment)
		})

		r.Group(func(r chi.Router) {
			r.Use(staffOnly)
			r.Get("/orders", h.listOrders)
			r.Get("/orders/{id}", h.getOrder)
			r.Patch("/orders/{id}/status", h.updateStatus)
		})

		// PayHere calls this server to server; it is authenticated by the
		// md5sig field, not a session.
		r.Post("/payments/payhere/callback", h.paymentCallback)
	})
}

func (h *HTTPTransport) placeOrder(w http.ResponseWriter, r *http.Request) {
	createorder.PlaceOrder(w, r, h.orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orders)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.orders)
}

func (h *HTTPTransport) initiatePayment(w http.ResponseWriter, r *http.Request) {
	initiatepayment.InitiatePayment(w, r, h.payments)
}

func (h *HTTPTransport) paymentCallback(w http.ResponseWriter, r *http.Request) {
	paymentcallback.Callback(w, r, h.payments)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
