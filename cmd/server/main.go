package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mealbridge/api/internal/config"
	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/handler"
	"github.com/mealbridge/api/internal/jobs"
	"github.com/mealbridge/api/internal/middleware"
	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/repository"
	"github.com/mealbridge/api/internal/service"
	"github.com/mealbridge/api/pkg/jwt"
)

const version = "0.3.0"

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	requestRepo := repository.NewEventRequestRepository(db)
	hostRepo := repository.NewHostRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	onboardingRepo := repository.NewOnboardingRepository(db)
	supportRepo := repository.NewSupportRepository(db)

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:  userRepo,
		TokenRepo: tokenRepo,
		JWTSvc:    jwtService,
	})

	mailer := service.NewMailer(cfg.Mail, logger)

	availabilityService := service.NewAvailabilityService(availabilityRepo)

	requestService := service.NewEventRequestService(service.EventRequestServiceConfig{
		RequestRepo:  requestRepo,
		UserRepo:     userRepo,
		Availability: availabilityService,
		Mailer:       mailer,
		Logger:       logger,
	})

	hostService := service.NewHostService(hostRepo, collectionRepo)
	recipientService := service.NewRecipientService(recipientRepo)

	collectionService := service.NewCollectionService(service.CollectionServiceConfig{
		CollectionRepo: collectionRepo,
		HostRepo:       hostRepo,
	})

	importService := service.NewImportService(service.ImportServiceConfig{
		CollectionRepo: collectionRepo,
		HostRepo:       hostRepo,
	})

	taskService := service.NewTaskService(service.TaskServiceConfig{
		TaskRepo: taskRepo,
		UserRepo: userRepo,
	})

	messageService := service.NewMessageService(service.MessageServiceConfig{
		MessageRepo: messageRepo,
		UserRepo:    userRepo,
	})

	onboardingService := service.NewOnboardingService(onboardingRepo)
	supportService := service.NewSupportService(supportRepo)

	routeService := service.NewRouteService(service.RouteServiceConfig{
		Hosts:      hostRepo,
		Recipients: recipientRepo,
	})

	flagService, err := service.NewFlagService(cfg.Flags.Path, logger)
	if err != nil {
		slog.Error("failed to load feature flags", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = flagService.Close() }()
	if cfg.Flags.Watch {
		if err := flagService.Watch(); err != nil {
			slog.Warn("flag file watching disabled", slog.String("error", err.Error()))
		}
	}

	// Expired refresh tokens pile up between restarts; sweep once on boot
	if err := authService.CleanupExpiredTokens(ctx); err != nil {
		slog.Warn("token cleanup failed", slog.String("error", err.Error()))
	}

	// Initialize background jobs
	reminderProcessor := jobs.NewReminderProcessor(jobs.ReminderProcessorConfig{
		Requests:  requestRepo,
		Messenger: messageService,
		Users:     userRepo,
		Mailer:    mailer,
		Logger:    logger,
		Interval:  cfg.Jobs.ReminderInterval,
	})
	reminderProcessor.Start()
	defer reminderProcessor.Stop()

	weeklyDigest := jobs.NewWeeklyDigest(jobs.WeeklyDigestConfig{
		Stats:    collectionService,
		Staff:    authService,
		Mailer:   mailer,
		Logger:   logger,
		Interval: cfg.Jobs.DigestInterval,
	})
	weeklyDigest.Start()
	defer weeklyDigest.Stop()

	// Initialize handlers
	systemHandler := handler.NewSystemHandler(db, version)
	authHandler := handler.NewAuthHandler(authService)
	requestHandler, err := handler.NewEventRequestHandler(requestService)
	if err != nil {
		slog.Error("failed to initialize request handler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	hostHandler := handler.NewHostHandler(hostService)
	recipientHandler := handler.NewRecipientHandler(recipientService)
	collectionHandler := handler.NewCollectionHandler(collectionService, importService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	taskHandler := handler.NewTaskHandler(taskService)
	messageHandler := handler.NewMessageHandler(messageService)
	onboardingHandler := handler.NewOnboardingHandler(onboardingService)
	supportHandler := handler.NewSupportHandler(supportService)
	routeHandler := handler.NewRouteHandler(routeService)
	flagHandler := handler.NewFlagHandler(flagService)

	// Initialize middleware stores
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100,
		Window: time.Minute,
		Burst:  20,
	})
	defer rateLimiter.Stop()

	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL: 24 * time.Hour,
	})
	defer idempotencyStore.Stop()

	authMiddleware := middleware.Auth(authService)
	coordinatorOnly := func(h http.Handler) http.Handler {
		return authMiddleware(middleware.RequireRole(model.RoleCoordinator)(h))
	}
	adminOnly := func(h http.Handler) http.Handler {
		return authMiddleware(middleware.RequireRole(model.RoleAdmin)(h))
	}

	mux := http.NewServeMux()

	// System endpoints
	mux.HandleFunc("GET /healthz", systemHandler.Health)
	mux.HandleFunc("GET /readyz", systemHandler.Ready)

	// Auth endpoints
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /v1/auth/refresh", authHandler.Refresh)
	mux.Handle("POST /v1/auth/logout", authMiddleware(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /v1/me", authMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /v1/users/staff", coordinatorOnly(http.HandlerFunc(authHandler.ListStaff)))
	mux.Handle("PUT /v1/users/{userId}/role", adminOnly(http.HandlerFunc(authHandler.SetRole)))

	// Event request endpoints. Intake is the public form, everything else is staff
	mux.HandleFunc("POST /v1/intake/requests", requestHandler.Intake)
	mux.Handle("POST /v1/requests", coordinatorOnly(http.HandlerFunc(requestHandler.Create)))
	mux.Handle("GET /v1/requests", authMiddleware(http.HandlerFunc(requestHandler.List)))
	mux.Handle("GET /v1/requests/{requestId}", authMiddleware(http.HandlerFunc(requestHandler.Get)))
	mux.Handle("PATCH /v1/requests/{requestId}", authMiddleware(http.HandlerFunc(requestHandler.Update)))
	mux.Handle("DELETE /v1/requests/{requestId}", authMiddleware(http.HandlerFunc(requestHandler.Delete)))
	mux.Handle("POST /v1/requests/{requestId}/transition", coordinatorOnly(http.HandlerFunc(requestHandler.Transition)))
	mux.Handle("PUT /v1/requests/{requestId}/liaison", coordinatorOnly(http.HandlerFunc(requestHandler.AssignLiaison)))
	mux.Handle("POST /v1/requests/{requestId}/staff", authMiddleware(http.HandlerFunc(requestHandler.AddStaff)))
	mux.Handle("GET /v1/requests/{requestId}/staff", authMiddleware(http.HandlerFunc(requestHandler.ListStaff)))
	mux.Handle("DELETE /v1/requests/{requestId}/staff/{assignmentId}", coordinatorOnly(http.HandlerFunc(requestHandler.RemoveStaff)))

	// Host endpoints
	mux.Handle("POST /v1/hosts", coordinatorOnly(http.HandlerFunc(hostHandler.Create)))
	mux.Handle("GET /v1/hosts", authMiddleware(http.HandlerFunc(hostHandler.List)))
	mux.Handle("GET /v1/hosts/{hostId}", authMiddleware(http.HandlerFunc(hostHandler.Get)))
	mux.Handle("PATCH /v1/hosts/{hostId}", coordinatorOnly(http.HandlerFunc(hostHandler.Update)))
	mux.Handle("DELETE /v1/hosts/{hostId}", coordinatorOnly(http.HandlerFunc(hostHandler.Delete)))
	mux.Handle("POST /v1/hosts/{hostId}/contacts", coordinatorOnly(http.HandlerFunc(hostHandler.AddContact)))
	mux.Handle("DELETE /v1/hosts/{hostId}/contacts/{contactId}", coordinatorOnly(http.HandlerFunc(hostHandler.RemoveContact)))

	// Recipient endpoints
	mux.Handle("POST /v1/recipients", coordinatorOnly(http.HandlerFunc(recipientHandler.Create)))
	mux.Handle("GET /v1/recipients", authMiddleware(http.HandlerFunc(recipientHandler.List)))
	mux.Handle("GET /v1/recipients/{recipientId}", authMiddleware(http.HandlerFunc(recipientHandler.Get)))
	mux.Handle("PATCH /v1/recipients/{recipientId}", coordinatorOnly(http.HandlerFunc(recipientHandler.Update)))

	// Collection endpoints
	mux.Handle("POST /v1/collections", authMiddleware(http.HandlerFunc(collectionHandler.Create)))
	mux.Handle("GET /v1/collections", authMiddleware(http.HandlerFunc(collectionHandler.List)))
	mux.Handle("GET /v1/collections/stats", authMiddleware(http.HandlerFunc(collectionHandler.Stats)))
	mux.Handle("GET /v1/collections/duplicates", coordinatorOnly(http.HandlerFunc(collectionHandler.Duplicates)))
	mux.Handle("POST /v1/collections/duplicates/resolve", adminOnly(http.HandlerFunc(collectionHandler.ResolveDuplicates)))
	mux.Handle("POST /v1/collections/import", coordinatorOnly(http.HandlerFunc(collectionHandler.Import)))
	mux.Handle("DELETE /v1/collections/import/{batchId}", coordinatorOnly(http.HandlerFunc(collectionHandler.DeleteBatch)))
	mux.Handle("GET /v1/collections/{collectionId}", authMiddleware(http.HandlerFunc(collectionHandler.Get)))
	mux.Handle("PATCH /v1/collections/{collectionId}", authMiddleware(http.HandlerFunc(collectionHandler.Update)))
	mux.Handle("DELETE /v1/collections/{collectionId}", authMiddleware(http.HandlerFunc(collectionHandler.Delete)))

	// Availability endpoints
	mux.Handle("POST /v1/availability", authMiddleware(http.HandlerFunc(availabilityHandler.Create)))
	mux.Handle("GET /v1/availability", authMiddleware(http.HandlerFunc(availabilityHandler.List)))
	mux.Handle("GET /v1/availability/search", coordinatorOnly(http.HandlerFunc(availabilityHandler.Search)))
	mux.Handle("DELETE /v1/availability/{slotId}", authMiddleware(http.HandlerFunc(availabilityHandler.Delete)))

	// Task endpoints
	mux.Handle("POST /v1/tasks", authMiddleware(http.HandlerFunc(taskHandler.Create)))
	mux.Handle("GET /v1/tasks", authMiddleware(http.HandlerFunc(taskHandler.List)))
	mux.Handle("GET /v1/tasks/{taskId}", authMiddleware(http.HandlerFunc(taskHandler.Get)))
	mux.Handle("PATCH /v1/tasks/{taskId}", authMiddleware(http.HandlerFunc(taskHandler.Update)))
	mux.Handle("DELETE /v1/tasks/{taskId}", authMiddleware(http.HandlerFunc(taskHandler.Delete)))

	// Messaging endpoints
	mux.Handle("POST /v1/conversations", authMiddleware(http.HandlerFunc(messageHandler.CreateConversation)))
	mux.Handle("GET /v1/conversations", authMiddleware(http.HandlerFunc(messageHandler.ListConversations)))
	mux.Handle("GET /v1/conversations/{conversationId}", authMiddleware(http.HandlerFunc(messageHandler.GetConversation)))
	mux.Handle("POST /v1/conversations/{conversationId}/messages", authMiddleware(http.HandlerFunc(messageHandler.PostMessage)))
	mux.Handle("GET /v1/conversations/{conversationId}/messages", authMiddleware(http.HandlerFunc(messageHandler.ListMessages)))
	mux.Handle("DELETE /v1/messages/{messageId}", authMiddleware(http.HandlerFunc(messageHandler.DeleteMessage)))

	// Onboarding endpoints
	mux.Handle("POST /v1/onboarding/challenges", coordinatorOnly(http.HandlerFunc(onboardingHandler.CreateChallenge)))
	mux.Handle("GET /v1/onboarding/challenges", authMiddleware(http.HandlerFunc(onboardingHandler.ListChallenges)))
	mux.Handle("DELETE /v1/onboarding/challenges/{challengeId}", coordinatorOnly(http.HandlerFunc(onboardingHandler.DeactivateChallenge)))
	mux.Handle("POST /v1/onboarding/challenges/{challengeId}/complete", authMiddleware(http.HandlerFunc(onboardingHandler.Complete)))
	mux.Handle("GET /v1/onboarding/progress", authMiddleware(http.HandlerFunc(onboardingHandler.Progress)))

	// Wishlist endpoints
	mux.Handle("POST /v1/wishlist", authMiddleware(http.HandlerFunc(supportHandler.SuggestItem)))
	mux.Handle("GET /v1/wishlist", authMiddleware(http.HandlerFunc(supportHandler.ListSuggestions)))
	mux.Handle("POST /v1/wishlist/{suggestionId}/vote", authMiddleware(http.HandlerFunc(supportHandler.Vote)))
	mux.Handle("DELETE /v1/wishlist/{suggestionId}", authMiddleware(http.HandlerFunc(supportHandler.DeleteSuggestion)))

	// Cooler endpoints
	mux.Handle("POST /v1/coolers", coordinatorOnly(http.HandlerFunc(supportHandler.AddCooler)))
	mux.Handle("GET /v1/coolers", authMiddleware(http.HandlerFunc(supportHandler.ListCoolers)))
	mux.Handle("POST /v1/coolers/{coolerId}/checkout", authMiddleware(http.HandlerFunc(supportHandler.CheckOutCooler)))
	mux.Handle("POST /v1/coolers/{coolerId}/return", authMiddleware(http.HandlerFunc(supportHandler.ReturnCooler)))
	mux.Handle("PUT /v1/coolers/{coolerId}/status", coordinatorOnly(http.HandlerFunc(supportHandler.SetCoolerStatus)))

	// Promotion endpoints
	mux.Handle("POST /v1/promotions", authMiddleware(http.HandlerFunc(supportHandler.AddPromotion)))
	mux.Handle("GET /v1/promotions", authMiddleware(http.HandlerFunc(supportHandler.ListPromotions)))
	mux.Handle("POST /v1/promotions/{promotionId}/approve", coordinatorOnly(http.HandlerFunc(supportHandler.ApprovePromotion)))

	// Route planning endpoints
	mux.Handle("POST /v1/routes/plan", coordinatorOnly(http.HandlerFunc(routeHandler.Plan)))

	// Feature flag endpoints
	mux.Handle("GET /v1/flags", adminOnly(http.HandlerFunc(flagHandler.List)))
	mux.Handle("GET /v1/flags/{flagName}", authMiddleware(http.HandlerFunc(flagHandler.Check)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("version", version),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
