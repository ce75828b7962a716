package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-api/internal/config"
	"storefront-api/internal/db"
	"storefront-api/internal/httpserver"
	"storefront-api/internal/mail"
	cartrepo "storefront-api/internal/repository/cart"
	categoryrepo "storefront-api/internal/repository/category"
	couponrepo "storefront-api/internal/repository/coupon"
	orderrepo "storefront-api/internal/repository/order"
	productrepo "storefront-api/internal/repository/product"
	cartsvc "storefront-api/internal/service/cart"
	categorysvc "storefront-api/internal/service/category"
	couponsvc "storefront-api/internal/service/coupon"
	"storefront-api/internal/service/inventory"
	ordersvc "storefront-api/internal/service/order"
	productsvc "storefront-api/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	categoryService := categorysvc.New(categoryRepo)
	couponRepo := couponrepo.NewPostgres(dbpool, logger)
	couponService := couponsvc.New(couponRepo)
	cartRepo := cartrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(cartRepo, couponService)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	adjuster := inventory.New(productRepo, logger)

	var mailer ordersvc.Mailer
	if m := mail.New(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.SiteName); m != nil {
		mailer = m
	} else {
		logger.Printf("email disabled: SENDGRID_API_KEY or EMAIL_FROM not set")
	}
	orderService := ordersvc.New(orderRepo, productRepo, couponRepo, adjuster, mailer, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:  productService,
		CategorySvc: categoryService,
		CouponSvc:   couponService,
		CartSvc:     cartService,
		OrderSvc:    orderService,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
