package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"china-one/internal/account"
	accountcontroller "china-one/internal/account/controller"
	accountrepo "china-one/internal/account/repository"
	"china-one/internal/cart"
	cartcontroller "china-one/internal/cart/controller"
	"china-one/internal/catalog"
	"china-one/internal/checkout"
	checkoutcontroller "china-one/internal/checkout/controller"
	"china-one/internal/commons"
	"china-one/internal/config"
	"china-one/internal/feed"
	"china-one/internal/infrastructure/logger"
	"china-one/internal/infrastructure/mysql"
	"china-one/internal/infrastructure/rabbitmq"
	"china-one/internal/order"
	"china-one/internal/reporting"
	reportingcontroller "china-one/internal/reporting/controller"
	"china-one/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	profile, err := commons.LoadProfile(cfg.Restaurant.ProfilePath)
	if err != nil {
		zapLogger.Fatal("loading restaurant profile", zap.Error(err))
	}

	location, err := time.LoadLocation(cfg.Restaurant.Timezone)
	if err != nil {
		zapLogger.Fatal("loading restaurant timezone", zap.Error(err))
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	broker, err := rabbitmq.New(cfg.RabbitMQ, zapLogger)
	if err != nil {
		zapLogger.Fatal("connecting to rabbitmq", zap.Error(err))
	}
	defer broker.Close()
	zapLogger.Info("rabbitmq connected")

	publisher := feed.NewPublisher(broker, zapLogger)
	hub := feed.NewHub()
	subscriber := feed.NewSubscriber(broker, hub, zapLogger)

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	go func() {
		if err := subscriber.Run(feedCtx); err != nil && feedCtx.Err() == nil {
			zapLogger.Error("change feed subscriber stopped", zap.Error(err))
		}
	}()

	customerRepo := accountrepo.NewMySQLCustomerRepository(db)
	adminRepo := accountrepo.NewMySQLAdminRepository(db)
	accounts := account.NewService(customerRepo, adminRepo, cfg.Session.TTL, zapLogger)

	carts := cart.NewStore(cart.BasePricer{})

	catalogModule := catalog.NewModule(db, publisher, zapLogger)
	orderModule := order.NewModule(db, accounts, publisher, hub, zapLogger)

	checkoutSvc := checkout.NewService(
		mysql.NewTxRunner(db),
		orderModule.Orders,
		orderModule.OrderItems,
		accounts,
		publisher,
		checkout.Rates{TaxRate: profile.TaxRate, DeliveryFee: profile.DeliveryFee},
		zapLogger,
	)

	reports := reporting.NewService(orderModule.Orders, orderModule.OrderItems, customerRepo, location, zapLogger)

	router := server.NewRouter(
		catalogModule.Controller,
		cartcontroller.NewCartController(carts, catalogModule.Service, zapLogger),
		checkoutcontroller.NewCheckoutController(checkoutSvc, carts, zapLogger),
		orderModule.Controller,
		accountcontroller.NewAuthController(accounts, carts, zapLogger),
		reportingcontroller.NewReportingController(reports, accounts, zapLogger),
		zapLogger,
	)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	zapLogger.Info("storefront ready", zap.String("restaurant", profile.Name))

	<-quit
	zapLogger.Info("received shutdown signal")

	stopFeed()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
