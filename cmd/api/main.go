package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loomcart/internal/config"
	"loomcart/internal/database"
	"loomcart/internal/handler"
	"loomcart/internal/media"
	"loomcart/internal/notify"
	"loomcart/internal/payment"
	"loomcart/internal/repository"
	"loomcart/internal/router"
	"loomcart/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting loomcart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize the notification hub, relayed to AMQP when enabled
	hub := notify.NewHub(logger)
	var broadcaster notify.Broadcaster = hub

	if cfg.AMQP.Enabled {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise AMQP publisher, continuing with in-process events only")
		} else {
			defer amqpPublisher.Close()
			broadcaster = notify.Multi{hub, amqpPublisher}
		}
	}

	// Initialize media storage with S3 and local fallback
	var mediaStore media.Store
	mediaDir := ""

	if cfg.Media.S3Enabled {
		mediaStore, err = media.NewS3Store(ctx, cfg.Media.Bucket, cfg.Media.Region, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 media store: %w", err)
		}
	} else {
		mediaStore, err = media.NewLocalStore(cfg.Media.LocalDir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize local media store: %w", err)
		}
		mediaDir = cfg.Media.LocalDir
		logger.Info().Str("dir", mediaDir).Msg("using local file system for product images (S3 disabled)")
	}

	// Initialize payment gateway
	gateway := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, broadcaster, cfg.Razorpay.WebhookSecret, logger)
	checkoutService := service.NewCheckoutService(productRepo, gateway, cfg.Razorpay.CallbackURL, logger)
	userService := service.NewUserService(userRepo, productRepo, logger)

	// Initialize HTTP handlers
	tokenTTL := time.Duration(cfg.Auth.TokenTTLDays) * 24 * time.Hour
	productHandler := handler.NewProductHandler(productService, mediaStore, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	webhookHandler := handler.NewWebhookHandler(orderService, logger)
	authHandler := handler.NewAuthHandler(userService, cfg.Auth.JWTSecret, tokenTTL, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	// Initialize router
	mux := router.New(
		productHandler,
		categoryHandler,
		orderHandler,
		checkoutHandler,
		webhookHandler,
		authHandler,
		userHandler,
		hub,
		cfg.Auth.JWTSecret,
		mediaDir,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
