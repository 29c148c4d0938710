package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"

	"kingtires/internal/config"
	"kingtires/internal/database"
	"kingtires/internal/handlers"
	"kingtires/internal/metrics"
	"kingtires/internal/middleware"
	"kingtires/internal/notifications"
	"kingtires/internal/repositories"
	"kingtires/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(database.Config{URL: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repositories.NewUserRepository(db.DB)
	productRepo := repositories.NewProductRepository(db.DB)
	cartRepo := repositories.NewCartRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)

	var notifier services.StockNotifier = notifications.NoopPublisher{}
	if cfg.AMQP.URL != "" {
		publisher, err := notifications.NewAMQPPublisher(cfg.AMQP.URL)
		if err != nil {
			log.Fatalf("Failed to connect to broker: %v", err)
		}
		defer publisher.Close()
		notifier = publisher
	}

	checkoutMetrics := metrics.NewCheckoutMetrics()

	authService := services.NewAuthService(userRepo, cartRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	productService := services.NewProductService(productRepo, notifier)
	cartService := services.NewCartService(cartRepo, userRepo)
	ticketService := services.NewTicketService(ticketRepo)
	checkoutService := services.NewCheckoutService(userRepo, cartRepo, productRepo, ticketRepo, notifier, checkoutMetrics)

	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.Server.IsProduction()
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	router := &handlers.Router{
		Products:    handlers.NewProductHandler(productService),
		Carts:       handlers.NewCartHandler(cartService, checkoutService, sessionStore),
		Sessions:    handlers.NewSessionHandler(authService, cfg.Auth.TokenTTL, cfg.Server.IsProduction()),
		Tickets:     handlers.NewTicketHandler(ticketService),
		Auth:        middleware.NewAuthMiddleware(authService),
		Metrics:     metrics.Handler(),
		Healthcheck: db.Ping,
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped")
}
