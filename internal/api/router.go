package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/fashion-catalog/internal/api/middleware"
	"github.com/example/fashion-catalog/internal/auth"
)

// RouterConfig carries the optional parts of the router
type RouterConfig struct {
	// UploadDir is served under UploadPrefix when set
	UploadDir    string
	UploadPrefix string
	// Metrics instruments every route; MetricsHandler is mounted at /metrics
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
}

func NewRouter(handlers *Handlers, authHandlers *AuthHandlers, jwtService *auth.JWTService, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	admin := middleware.AdminOnly(jwtService)
	protect := func(h http.HandlerFunc) http.Handler { return admin(h) }

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	// Products
	mux.HandleFunc("GET /api/products", handlers.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", handlers.GetProduct)
	mux.Handle("POST /api/products", protect(handlers.CreateProduct))
	mux.Handle("PUT /api/products/{id}", protect(handlers.UpdateProduct))
	mux.Handle("DELETE /api/products/{id}", protect(handlers.DeleteProduct))

	// Categories
	mux.HandleFunc("GET /api/categories", handlers.ListCategories)
	mux.HandleFunc("GET /api/categories/{id}", handlers.GetCategory)
	mux.Handle("POST /api/categories", protect(handlers.CreateCategory))
	mux.Handle("PUT /api/categories/{id}", protect(handlers.UpdateCategory))
	mux.Handle("DELETE /api/categories/{id}", protect(handlers.DeleteCategory))

	// Brands
	mux.HandleFunc("GET /api/brands", handlers.ListBrands)
	mux.HandleFunc("GET /api/brands/{id}", handlers.GetBrand)
	mux.Handle("POST /api/brands", protect(handlers.CreateBrand))
	mux.Handle("PUT /api/brands/{id}", protect(handlers.UpdateBrand))
	mux.Handle("DELETE /api/brands/{id}", protect(handlers.DeleteBrand))

	// Settings
	mux.HandleFunc("GET /api/settings", handlers.GetSettings)
	mux.Handle("PUT /api/settings", protect(handlers.UpdateSettings))

	// Uploads
	mux.Handle("POST /api/upload", protect(handlers.UploadImages))
	if cfg.UploadDir != "" {
		prefix := cfg.UploadPrefix
		if prefix == "" {
			prefix = "/uploads/"
		}
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.UploadDir))))
	}

	// Admin session
	mux.HandleFunc("POST /api/admin/login", authHandlers.Login)
	mux.HandleFunc("POST /api/admin/logout", authHandlers.Logout)
	mux.Handle("GET /api/admin/me", protect(authHandlers.Me))

	var handler http.Handler = mux
	if cfg.Metrics != nil {
		handler = cfg.Metrics.Middleware(handler)
	}
	return withLogging(handler)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[API] %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}
