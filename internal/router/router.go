package router

import (
	"net/http"
	"strings"

	"loomcart/internal/handler"
	"loomcart/internal/middleware"
	"loomcart/internal/model"
	"loomcart/internal/notify"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// mediaDir, when non-empty, is served under /media/ for locally stored
// product images.
func New(
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	orderHandler *handler.OrderHandler,
	checkoutHandler *handler.CheckoutHandler,
	webhookHandler *handler.WebhookHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	hub *notify.Hub,
	jwtSecret string,
	mediaDir string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	identify := middleware.Identify(jwtSecret)
	authed := middleware.JWTAuth(jwtSecret, logger)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(model.RoleAdmin, logger)(h))
	}
	superadminOnly := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(model.RoleSuperadmin, logger)(h))
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Payment routes
	mux.HandleFunc("/api/payment/webhook", webhookHandler.Handle)
	mux.HandleFunc("/api/payment/payment-link", checkoutHandler.CreatePaymentLink)

	// Product routes: reads are public, writes are admin only
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
				identify(http.HandlerFunc(productHandler.GetByID)).ServeHTTP(w, r)
				return
			}
			identify(http.HandlerFunc(productHandler.GetAll)).ServeHTTP(w, r)
		case http.MethodPost:
			if strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/upload") {
				adminOnly(productHandler.Upload).ServeHTTP(w, r)
				return
			}
			adminOnly(productHandler.Create).ServeHTTP(w, r)
		case http.MethodPut:
			adminOnly(productHandler.Update).ServeHTTP(w, r)
		case http.MethodDelete:
			adminOnly(productHandler.Delete).ServeHTTP(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Category routes
	categoryRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			categoryHandler.GetAll(w, r)
		case http.MethodPost:
			adminOnly(categoryHandler.Create).ServeHTTP(w, r)
		case http.MethodDelete:
			adminOnly(categoryHandler.Delete).ServeHTTP(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/categories", categoryRouteHandler)
	mux.HandleFunc("/api/categories/", categoryRouteHandler)

	// Order routes
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && (r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/") {
			authed(http.HandlerFunc(orderHandler.List)).ServeHTTP(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/" {
			if r.Method == http.MethodPut && strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/status") {
				adminOnly(orderHandler.UpdateStatus).ServeHTTP(w, r)
				return
			}
			authed(http.HandlerFunc(orderHandler.GetByID)).ServeHTTP(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Auth routes
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/logout", authHandler.Logout)
	mux.Handle("/api/auth/me", authed(http.HandlerFunc(authHandler.Me)))

	// Cart, wishlist and role routes
	mux.Handle("/api/users/cart", authed(http.HandlerFunc(userHandler.Cart)))
	mux.Handle("/api/users/wishlist", authed(http.HandlerFunc(userHandler.Wishlist)))
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/role") {
			superadminOnly(userHandler.UpdateRole).ServeHTTP(w, r)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})

	// Admin event stream
	mux.Handle("/api/events", adminOnly(hub.ServeHTTP))

	// Locally stored product images
	if mediaDir != "" {
		mux.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(mediaDir))))
	}

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
