package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartkop/admin"
	"smartkop/assets"
	"smartkop/auth"
	"smartkop/config"
	"smartkop/db"
	"smartkop/mail"
	"smartkop/middleware"
	"smartkop/mq"
	"smartkop/orders"
	"smartkop/pipeline"
	"smartkop/products"
	"smartkop/profile"
	"smartkop/ratelim"
	"smartkop/rdx"
	"smartkop/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(cfg config.Config, store *db.Store, emitter *mq.Emitter, host assets.Host, mailer mail.Mailer, rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)
	router.ServeFiles("/uploads/*filepath", http.Dir(cfg.AssetDir))

	renderer := &pipeline.Renderer{Verbose: cfg.IsDev()}
	mw := &middleware.Auth{Store: store, Secret: cfg.JwtSecret, CookieName: cfg.CookieName}

	routes.AddAuthRoutes(router, renderer, mw, rateLimiter,
		&auth.Handler{Store: store, Mail: mailer, Assets: host, Cfg: cfg})
	routes.AddProfileRoutes(router, renderer, mw,
		&profile.Handler{Store: store, Assets: host, Cfg: cfg})
	routes.AddProductRoutes(router, renderer, mw,
		&products.Handler{Store: store, Assets: host, MQ: emitter})
	routes.AddOrderRoutes(router, renderer, mw,
		&orders.Handler{Store: store, Mail: mailer, MQ: emitter, Cfg: cfg})
	routes.AddAdminRoutes(router, renderer, mw,
		&admin.Handler{Store: store, Assets: host, Cfg: cfg})

	return router
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := db.New(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("❌ Mongo connection failed: %v", err)
	}

	// Events are best-effort: a missing broker downgrades to a no-op emitter.
	emitter := &mq.Emitter{}
	if conn, err := rdx.New(context.Background(), cfg.RedisAddr); err != nil {
		log.Printf("Redis unavailable, catalog events disabled: %v", err)
	} else {
		emitter.Conn = conn
	}

	host := &assets.LocalHost{Dir: cfg.AssetDir, BaseURL: "/uploads"}
	mailer := &mail.SMTPMailer{Cfg: cfg.SMTP}
	rateLimiter := ratelim.NewRateLimiter()

	router := setupRouter(cfg, store, emitter, host, mailer, rateLimiter)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	if err := store.Close(context.Background()); err != nil {
		log.Printf("Mongo close: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
