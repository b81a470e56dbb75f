package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"softball-scorebook/internal/application/command"
	"softball-scorebook/internal/application/query"
	"softball-scorebook/internal/application/services"
	"softball-scorebook/internal/config"
	"softball-scorebook/internal/domain/aggregate"
	"softball-scorebook/internal/domain/repository"
	"softball-scorebook/internal/infrastructure/auth"
	"softball-scorebook/internal/infrastructure/bus"
	"softball-scorebook/internal/infrastructure/eventstore"
	httpHandler "softball-scorebook/internal/infrastructure/http"
	"softball-scorebook/internal/infrastructure/logging"
	"softball-scorebook/internal/infrastructure/mongo"
	"softball-scorebook/internal/infrastructure/notification"
	"softball-scorebook/internal/infrastructure/projection"
	jwtutil "softball-scorebook/pkg/jwt"
	"softball-scorebook/pkg/middleware"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	appLogger, err := logging.NewZapLogger(cfg.DevLogging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()
	zapLogger := appLogger.Unwrap()

	zapLogger.Info("starting softball scorebook API")

	// MongoDB backs the projections; the event store is selectable.
	mongoClient, err := mongo.NewMongoClient(&mongo.MongoConfig{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
		Timeout:  cfg.MongoTimeout,
	})
	if err != nil {
		zapLogger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Close(); err != nil {
			zapLogger.Error("error closing MongoDB connection", zap.Error(err))
		}
	}()

	if err := mongoClient.Ping(); err != nil {
		zapLogger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	database := mongoClient.GetDatabase()

	var store repository.EventStore
	if cfg.InMemoryStore {
		zapLogger.Info("using in-memory event store")
		store = eventstore.NewInMemoryEventStore()
	} else {
		mongoStore, err := mongo.NewMongoEventStore(database)
		if err != nil {
			zapLogger.Fatal("failed to initialize event store", zap.Error(err))
		}
		store = mongoStore
	}

	// Repositories over the event store
	gameRepo := eventstore.NewGameRepository(store)
	lineupRepo := eventstore.NewTeamLineupRepository(store)
	inningRepo := eventstore.NewInningRepository(store)

	// Event bus and projections
	eventBus := bus.NewAsyncEventBus(zapLogger)
	scoreboardProjection := projection.NewMongoScoreboardProjection(database)
	lineupProjection := projection.NewMongoLineupProjection(database)

	if err := projection.RegisterScoreboardProjection(eventBus, scoreboardProjection); err != nil {
		zapLogger.Fatal("failed to register scoreboard projection", zap.Error(err))
	}
	if err := projection.RegisterLineupProjection(eventBus, lineupProjection); err != nil {
		zapLogger.Fatal("failed to register lineup projection", zap.Error(err))
	}

	// Command handlers
	rules := aggregate.DefaultSoftballRules()
	history := command.NewActionHistory()
	startGameHandler := command.NewStartNewGameHandler(gameRepo, lineupRepo, inningRepo, eventBus, rules, zapLogger)
	recordAtBatHandler := command.NewRecordAtBatHandler(gameRepo, lineupRepo, inningRepo, history, eventBus, zapLogger)
	substituteHandler := command.NewSubstitutePlayerHandler(lineupRepo, history, eventBus, rules, zapLogger)
	changePositionHandler := command.NewChangePositionHandler(lineupRepo, eventBus, zapLogger)
	endInningHandler := command.NewEndInningHandler(gameRepo, inningRepo, history, eventBus, rules, zapLogger)
	undoHandler := command.NewUndoLastActionHandler(history, zapLogger)
	redoHandler := command.NewRedoLastActionHandler(history, zapLogger)

	// Query handlers
	getScoreboardHandler := query.NewGetScoreboardHandler(scoreboardProjection)
	listActiveGamesHandler := query.NewListActiveGamesHandler(scoreboardProjection)
	getLineupHandler := query.NewGetLineupHandler(lineupProjection)
	getGameLineupHandler := query.NewGetGameLineupHandler(lineupProjection)

	// Auth
	scorerStore := auth.NewScorerStore()
	jwtManager := jwtutil.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authService := auth.NewContextAuthService(scorerStore)

	// Workflow service
	notificationService := notification.NewLogNotificationService(zapLogger)
	workflow := services.NewGameWorkflowService(
		startGameHandler,
		recordAtBatHandler,
		substituteHandler,
		endInningHandler,
		undoHandler,
		redoHandler,
		appLogger,
		notificationService,
		authService,
	)

	// Start event bus
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := eventBus.Start(ctx); err != nil {
		zapLogger.Fatal("failed to start event bus", zap.Error(err))
	}

	// Controllers
	gameController := httpHandler.NewGameController(
		workflow, startGameHandler, endInningHandler, getScoreboardHandler, listActiveGamesHandler)
	lineupController := httpHandler.NewLineupController(
		substituteHandler, changePositionHandler, getLineupHandler, getGameLineupHandler)
	authController := httpHandler.NewAuthController(scorerStore, jwtManager)

	// Router
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))
	r.Use(rateLimiter.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"softball-scorebook"}`))
	})

	r.Post("/auth/register", authController.Register)
	r.Post("/auth/login", authController.Login)

	// Read endpoints, any authenticated account
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuthMiddleware(jwtManager))
		r.Use(middleware.RequireViewer)

		r.Get("/games", gameController.ListActiveGames)
		r.Get("/games/{gameID}/scoreboard", gameController.GetScoreboard)
		r.Get("/games/{gameID}/lineups/{side}", lineupController.GetGameLineup)
		r.Get("/lineups/{lineupID}", lineupController.GetLineup)
	})

	// Scoring endpoints require the scorer role
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuthMiddleware(jwtManager))
		r.Use(middleware.RequireScorer)

		r.Post("/games", gameController.StartGame)
		r.Post("/games/{gameID}/at-bats", gameController.RecordAtBat)
		r.Post("/games/{gameID}/innings/end", gameController.EndInning)
		r.Post("/games/{gameID}/undo", gameController.UndoLastAction)
		r.Post("/games/{gameID}/redo", gameController.RedoLastAction)
		r.Post("/games/{gameID}/substitutions", lineupController.SubstitutePlayer)
		r.Post("/games/{gameID}/positions", lineupController.ChangePosition)
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zapLogger.Info("server starting", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown error", zap.Error(err))
	}

	eventBus.Stop()
	zapLogger.Info("server stopped")
}
