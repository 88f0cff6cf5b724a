package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"homeclean-backend/internal/cache"
	"homeclean-backend/internal/config"
	"homeclean-backend/internal/email"
	"homeclean-backend/internal/geocode"
	"homeclean-backend/internal/handlers"
	"homeclean-backend/internal/jobs"
	"homeclean-backend/internal/payments"
	"homeclean-backend/internal/services"
	"homeclean-backend/internal/supabase"
)

const shutdownTimeout = 15 * time.Second

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to serve")
	}

	if err := migrate(ctx, cfg.DatabaseURL, logger); err != nil {
		logger.Warn("migrations not applied", zap.Error(err))
	}

	db, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize supabase client: %w", err)
	}
	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.StorageKey(), cfg.SupabaseStorageBucket)
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}
	realtimeClient := supabase.NewRealtimeClient(cfg.SupabaseURL, cfg.StorageKey())

	store := cache.Open(cfg.ValkeyAddress, "homeclean:", logger)
	defer store.Close()

	// A nil interface, not a typed nil, keeps the geocode endpoint answering 503.
	var geocoder services.Geocoder
	geocodeClient := geocode.NewClient(cfg.GeocodeAPIBaseURL, cfg.GoogleMapsAPIKey, cfg.GeocodeRegion,
		geocode.WithCache(store),
		geocode.WithLogger(logger.Named("geocode")),
	)
	if geocodeClient.Configured() {
		geocoder = geocodeClient
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, addresses will not be geocoded")
	}

	emailClient := email.NewClient(cfg.PostmarkServerToken, cfg.EmailFrom)
	stripeClient := payments.NewClient(payments.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
	})

	notificationService := services.NewNotificationService(emailClient, db, logger)
	paymentService := services.NewPaymentService(stripeClient, db, cfg.DefaultCurrency, logger)
	taskService := services.NewTaskService(db, geocoder, realtimeClient, notificationService, storageClient, logger)

	router := handlers.NewRouter(cfg, handlers.Handlers{
		Health:        handlers.NewHealthHandler(db),
		Tasks:         handlers.NewTasksHandler(taskService),
		Properties:    handlers.NewPropertiesHandler(services.NewPropertyService(db, geocoder, logger)),
		Profiles:      handlers.NewProfilesHandler(supabaseClient, services.NewAccountService(db, logger)),
		Photos:        handlers.NewPhotosHandler(services.NewPhotoService(db, storageClient, logger)),
		Payments:      handlers.NewPaymentsHandler(paymentService),
		Webhook:       handlers.NewWebhookHandler(stripeClient, paymentService),
		Geocode:       handlers.NewGeocodeHandler(geocoder),
		Notifications: handlers.NewNotificationsHandler(notificationService),
	}, logger)

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.AddJob(jobs.NewExpireStaleTasksJob(db, logger)); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
