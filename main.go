package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/auth"
	appCart "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/cart"
	appCatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/catalog"
	appFeedback "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/feedback"
	appInventory "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/inventory"
	appOrder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/order"
	appPayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/payment"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/config"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/id"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/keylock"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/observability/telemetry"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/observability/zaplogger"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/outbox"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/persistence"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/security"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/pkg/logging"
	httppresentation "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/presentation/http"
	workerpresentation "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/presentation/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	baseLogger := logging.MustNewLogger(logging.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := zaplogger.New(logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID))

	if err := run(cfg, baseLogger, systemLogger); err != nil {
		systemLogger.Error("service_exit", observability.F("error", err.Error()))
		_ = baseLogger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, baseLogger *zap.Logger, systemLogger observability.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tel := telemetry.New(cfg.ServiceName, zaplogger.New(baseLogger), reg)

	store, err := openStore(ctx, cfg.Store, systemLogger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.shutdown(closeCtx); err != nil {
			systemLogger.Warn("store_close_failed", observability.F("error", err.Error()))
		}
	}()

	bus := outbox.NewBus(tel)
	subscriber := workerpresentation.Instrument(bus, tel)

	sink, err := openSink(cfg.Events)
	if err != nil {
		return err
	}
	if sink != nil {
		defer func() { _ = sink.Close() }()
		outbox.Forward(subscriber, sink, cfg.Events.Driver, tel, domorder.EventNames()...)
		systemLogger.Info("event_forwarder_started", observability.F("driver", cfg.Events.Driver))
	}

	ids := id.NewUUIDGenerator()
	orders := persistence.NewOrderRepository(store)
	payments := persistence.NewPaymentRepository(store)
	carts := persistence.NewCartRepository(store)

	products := persistence.NewProductRepository(store)
	catalogService := appCatalog.NewService(persistence.NewCategoryRepository(store), products, ids, tel)

	orderOpts := []appOrder.Option{
		appOrder.WithPublisher(bus),
		appOrder.WithLocker(keylock.New()),
		appOrder.WithCancelDelivered(cfg.AllowCancelDelivered),
	}
	if store.tx != nil {
		orderOpts = append(orderOpts, appOrder.WithTxRunner(persistence.NewTxRunner(store.tx)))
	}
	orderService := appOrder.NewService(orders, payments, catalogService, ids, tel, orderOpts...)

	tokens, err := security.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}

	reconcileWorker := appOrder.NewWorker(orderService, subscriber, tel)
	reconcileWorker.Start()
	if cfg.TrackStock {
		stock := appInventory.NewService(products, persistence.NewReservationRepository(store), tel)
		appInventory.NewWorker(stock, subscriber, tel).Start()
	}
	bus.Start(ctx)

	handler := httppresentation.NewHandler(httppresentation.Services{
		Orders:   orderService,
		Checkout: appOrder.NewCheckoutUseCase(carts, orderService, tel),
		Payments: appPayment.NewService(payments, tel),
		Catalog:  catalogService,
		Cart:     appCart.NewService(carts, catalogService, ids, tel),
		Feedback: appFeedback.NewService(persistence.NewFeedbackRepository(store), ids, tel),
		Auth: auth.NewService(persistence.NewUserRepository(store), security.NewBcryptHasher(cfg.Auth.BcryptCost),
			tokens, ids, cfg.Auth.AdminEmails, tel),
		Tokens: tokens,
	}, tel,
		httppresentation.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		httppresentation.WithRateLimit(httppresentation.RateLimit{RPS: cfg.HTTP.RateLimitRPS, Burst: cfg.HTTP.RateLimitBurst}),
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		systemLogger.Info("http_server_start",
			observability.F("addr", server.Addr),
			observability.F("store", cfg.Store.Driver),
			observability.F("events", cfg.Events.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error", observability.F("error", err.Error()))
	} else {
		systemLogger.Info("http_server_stopped")
	}
	bus.Stop(shutdownCtx)
	return nil
}
