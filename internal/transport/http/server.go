package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"climbtracker/internal/cache"
	"climbtracker/internal/config"
	"climbtracker/internal/database"
	"climbtracker/internal/handler"
	"climbtracker/internal/logging"
	"climbtracker/internal/queue"
	"climbtracker/internal/redis"
	"climbtracker/internal/repository"
	"climbtracker/internal/service"
	"climbtracker/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database and apply the schema
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Repositories
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	climbRepo := repository.NewClimbRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	txRunner := database.NewTxRunner(db)

	// 4. Optional Redis: feed cache, activity stream and workers
	var (
		feedCache cache.FeedCache
		publisher queue.Publisher
		manager   *worker.Manager
	)
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()

		feedCache = cache.NewFeedCache(rdb.Client)
		publisher = queue.NewPublisher(rdb.Client)

		eventHandler := worker.NewHandler(feedCache, friendshipRepo)
		managerCfg := worker.DefaultManagerConfig()
		managerCfg.WorkerCount = cfg.WorkerCount
		manager = worker.NewManager(queue.NewConsumer(rdb.Client), eventHandler, managerCfg)
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
	} else {
		log.Warn().Msg("REDIS_URL not set, feed served from Postgres and activity events disabled")
	}

	// 5. Services and handlers
	userService := service.NewUserService(userRepo)
	locationService := service.NewLocationService(locationRepo)
	sessionService := service.NewSessionService(txRunner, sessionRepo, climbRepo, userRepo, locationRepo, publisher)
	progressService := service.NewProgressService(sessionRepo, climbRepo)
	friendshipService := service.NewFriendshipService(txRunner, friendshipRepo, userRepo, publisher)
	feedService := service.NewFeedService(feedCache, sessionRepo, friendshipRepo, userRepo)
	interactionService := service.NewInteractionService(txRunner, commentRepo, likeRepo, sessionRepo, userRepo, publisher)

	routerCfg := RouterConfig{
		UserHandler:        handler.NewUserHandler(userService, progressService),
		SessionHandler:     handler.NewSessionHandler(sessionService),
		LocationHandler:    handler.NewLocationHandler(locationService),
		FriendshipHandler:  handler.NewFriendshipHandler(friendshipService),
		FeedHandler:        handler.NewFeedHandler(feedService),
		InteractionHandler: handler.NewInteractionHandler(interactionService),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRequests:  cfg.RateLimitRequests,
		RateLimitWindow:    cfg.RateLimitWindow,
	}

	if cfg.MediaEnabled() {
		mediaService, err := service.NewMediaService(ctx, cfg, sessionRepo)
		if err != nil {
			return fmt.Errorf("failed to init media service: %w", err)
		}
		routerCfg.MediaHandler = handler.NewMediaHandler(mediaService)
	} else {
		log.Info().Msg("Object storage not configured, media uploads disabled")
	}

	// 6. Serve until a shutdown signal arrives
	srv := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      NewRouter(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			stopWorkers(manager)
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	stopWorkers(manager)

	log.Info().Msg("Server exited")
	return nil
}

func stopWorkers(m *worker.Manager) {
	if m != nil {
		m.Stop()
	}
}
