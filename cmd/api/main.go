package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"edukaster/internal/config"
	"edukaster/internal/database"
	"edukaster/internal/filestore"
	"edukaster/internal/middleware"
	"edukaster/internal/modules/admin"
	"edukaster/internal/modules/availability"
	"edukaster/internal/modules/booking"
	"edukaster/internal/modules/payment"
	"edukaster/internal/modules/session"
	"edukaster/internal/modules/wallet"
	"edukaster/internal/notification"
	jwtsvc "edukaster/internal/pkg/jwt"
	"edukaster/internal/pkg/logging"
	"edukaster/internal/repository"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "err", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	intentRepo := repository.NewPaymentIntentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	txr := repository.NewTxRunner(db)

	j := jwtsvc.New(cfg.JWTSecret, time.Duration(cfg.JWTExpireMin)*time.Minute)
	gateway := payment.NewPaystack(cfg.PaystackSecretKey, cfg.PaystackBaseURL)

	var emailer notification.Emailer
	if cfg.SMTPHost != "" {
		emailer = notification.NewSMTPEmailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	}
	notifier := notification.NewService(notificationRepo, notification.NewExpoPusher(cfg.ExpoPushURL), emailer)
	scheduler := notification.NewScheduler()

	availabilitySvc := availability.NewService(availabilityRepo, bookingRepo, cfg.SlotMinutes)
	bookingSvc := booking.NewService(bookingRepo, sessionRepo, walletRepo, userRepo, intentRepo, gateway, notifier, txr, cfg.CallbackBaseURL)
	sessionSvc := session.NewService(bookingRepo, sessionRepo, walletRepo, userRepo, txr)
	adminSvc := admin.NewService(bookingRepo, userRepo, userRepo, notifier, scheduler, txr, cfg.ReminderLeadMin)
	walletSvc := wallet.NewService(walletRepo, userRepo, intentRepo, notifier, gateway, txr, cfg.CallbackBaseURL)

	availabilityHandler := availability.NewHandler(availabilitySvc, cfg.AvailabilityDays)
	bookingHandler := booking.NewHandler(bookingSvc)
	sessionHandler := session.NewHandler(sessionSvc)
	adminHandler := admin.NewHandler(adminSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	notificationHandler := notification.NewHandler(notificationRepo)
	uploadHandler := filestore.NewHandler(filestore.New(cfg.UploadDir))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.CORS())
	r.Static("/static/uploads", cfg.UploadDir)

	api := r.Group("/api")
	{
		// public: gateway callbacks and tutor browsing
		availabilityHandler.RegisterRoutes(api)
		bookingHandler.RegisterPublicRoutes(api)
		walletHandler.RegisterPublicRoutes(api)

		authed := api.Group("/")
		authed.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(authed)
			sessionHandler.RegisterRoutes(authed)
			walletHandler.RegisterRoutes(authed)
			notificationHandler.RegisterRoutes(authed)
			uploadHandler.RegisterRoutes(authed)

			tutors := authed.Group("/")
			tutors.Use(middleware.RequireRole("tutor"))
			availabilityHandler.RegisterTutorRoutes(tutors)
		}

		adm := api.Group("/admin")
		adm.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adm)
			bookingHandler.RegisterAdminRoutes(adm)
			sessionHandler.RegisterAdminRoutes(adm)
			walletHandler.RegisterAdminRoutes(adm)
		}
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "err", err)
	}
}
