package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/dineeasy/order-svc/internal/auth"
	"github.com/dineeasy/order-svc/internal/dal/notifylk"
	"github.com/dineeasy/order-svc/internal/dal/postgres"
	"github.com/dineeasy/order-svc/internal/dal/rabbitmq"
	customerrepo "github.com/dineeasy/order-svc/internal/dal/repositories/customer/postgres"
	menuitemrepo "github.com/dineeasy/order-svc/internal/dal/repositories/menuitem/postgres"
	orderrepo "github.com/dineeasy/order-svc/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/dineeasy/order-svc/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/dineeasy/order-svc/internal/dal/repositories/outbox/postgres"
	paymentrepo "github.com/dineeasy/order-svc/internal/dal/repositories/payment/postgres"
	smslogrepo "github.com/dineeasy/order-svc/internal/dal/repositories/smslog/postgres"
	"github.com/dineeasy/order-svc/internal/otel"
	"github.com/dineeasy/order-svc/internal/payhere"
	"github.com/dineeasy/order-svc/internal/service/services/ordersvc"
	"github.com/dineeasy/order-svc/internal/service/services/paymentsvc"
	httptransport "github.com/dineeasy/order-svc/internal/transport/http"
	"github.com/dineeasy/order-svc/internal/worker/notifier"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	paymentSvc     *paymentsvc.PaymentService
	transport      *httptransport.HTTPTransport
	notifierWorker *notifier.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    notifier.StatusQueueName,
		Durable: true,
	}); err != nil {
		panic("failed to declare status queue: " + err.Error())
	}

	pool := postgresClient.Pool()
	orderRepository := orderrepo.NewPostgresOrderRepository(pool)
	orderItemRepository := orderitemrepo.NewPostgresOrderItemRepository(pool)
	menuItemRepository := menuitemrepo.NewPostgresMenuItemRepository(pool)
	customerRepository := customerrepo.NewPostgresCustomerRepository(pool)
	paymentRepository := paymentrepo.NewPostgresPaymentRepository(pool)
	outboxRepository := outboxrepo.NewOutboxRepository(pool)
	smsLogRepository := smslogrepo.NewPostgresSMSLogRepository(pool)

	tokens := auth.NewTokenManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
		4*time.Hour,
	)

	signer := payhere.NewSigner(
		os.Getenv("PAYHERE_MERCHANT_ID"),
		os.Getenv("PAYHERE_MERCHANT_SECRET"),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithOrderRepository(orderRepository),
		ordersvc.WithOrderItemRepository(orderItemRepository),
		ordersvc.WithMenuItemRepository(menuItemRepository),
		ordersvc.WithCustomerRepository(customerRepository),
		ordersvc.WithOutboxRepository(outboxRepository),
	)

	paymentSvc := paymentsvc.MustNewPaymentService(
		paymentsvc.WithOrderRepository(orderRepository),
		paymentsvc.WithPaymentRepository(paymentRepository),
		paymentsvc.WithCustomerRepository(customerRepository),
		paymentsvc.WithOutboxRepository(outboxRepository),
		paymentsvc.WithOrderLifecycle(orderSvc),
		paymentsvc.WithSigner(signer),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, paymentSvc, tokens)
	transport.RegisterRoutes()

	notifierWorker := notifier.NewWorker(
		outboxRepository,
		smsLogRepository,
		notifylk.NewClient(),
		rabbitClient,
	)

	return &App{
		orderSvc:       orderSvc,
		paymentSvc:     paymentSvc,
		transport:      transport,
		notifierWorker: notifierWorker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.notifierWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	cancelWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
