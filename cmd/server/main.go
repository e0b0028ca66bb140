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

	"vyapar-backend/internal/auth"
	"vyapar-backend/internal/cache"
	"vyapar-backend/internal/config"
	"vyapar-backend/internal/database"
	"vyapar-backend/internal/db"
	"vyapar-backend/internal/handlers"
	"vyapar-backend/internal/health"
	apphttp "vyapar-backend/internal/http"
	"vyapar-backend/internal/repositories"
	"vyapar-backend/internal/services"
	"vyapar-backend/internal/storage"
	"vyapar-backend/migrations"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	if err := database.Migrate(context.Background(), pool, migrations.FS); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	cache.Init()

	r2, err := storage.NewR2Client(cfg)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpirationHours, cfg.JWT.Issuer)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	partyRepo := repositories.NewPartyRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)

	// Services
	ledgerService := services.NewLedgerService(partyRepo, invoiceRepo, paymentRepo)
	userService := services.NewUserService(userRepo, jwtManager)
	partyService := services.NewPartyService(partyRepo, ledgerService)
	invoiceService := services.NewInvoiceService(cfg, invoiceRepo, paymentRepo, partyRepo, ledgerService)
	paymentService := services.NewPaymentService(paymentRepo, invoiceRepo, partyRepo, ledgerService)
	reportService := services.NewReportService(cfg, ledgerService, partyService, r2)
	razorpayService := services.NewRazorpayService(cfg, invoiceService, paymentService, partyService)

	router := apphttp.NewRouter(cfg, jwtManager, apphttp.Handlers{
		Auth:     handlers.NewAuthHandler(userService),
		Party:    handlers.NewPartyHandler(partyService, ledgerService),
		Invoice:  handlers.NewInvoiceHandler(invoiceService),
		Payment:  handlers.NewPaymentHandler(paymentService),
		Ledger:   handlers.NewLedgerHandler(ledgerService),
		Report:   handlers.NewReportHandler(reportService),
		Razorpay: handlers.NewRazorpayHandler(razorpayService),
		Health:   health.NewHealthChecker(pool),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // bulk report downloads take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] listening on :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("[Server] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[Server] shutdown error: %v", err)
	}
}
