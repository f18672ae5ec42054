package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "github.com/MohamedEssam200/cryptochat-relay/cmd/relay/router/v1"
	cacheadapter "github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/cache/adapter"
	cacheport "github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/cache/port"
	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/config"
	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/database"
	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/realtime"
	scheduleradapter "github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/scheduler/adapter"
	schedulerport "github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/scheduler/port"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/usecase"
	adapter "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/persistence/repository/adapter"
	repository "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/persistence/repository/port"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presence"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presentation/controller"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presentation/sink"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: .env file not found or could not be loaded: %v\n", err)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Conversation store: in-memory by default, Postgres when DB_URL is set.
	var repo repository.MessageRepository = adapter.NewMemoryMessageRepository()
	if os.Getenv("DB_URL") != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err := database.NewPoolFromEnv(connectCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		repo = adapter.NewPgMessageRepository(pool)
		log.Info("using postgres conversation store")
	}

	// Cache: backs the SecureVault demo. Redis when available, else in-process.
	var cache cacheport.Cache = cacheadapter.NewMemoryAdapter()
	if os.Getenv("REDIS_URL") != "" {
		redisCache, err := cacheadapter.NewRedisAdapter()
		if err != nil {
			return err
		}
		cache = redisCache
		log.Info("using redis cache")
	}
	defer cache.Close()

	registry := presence.NewRegistry()
	rtRouter := realtime.NewRouter()
	defer rtRouter.Close()
	events := sink.NewWebsocketSink(log, rtRouter)

	destroyUC := usecase.NewDestroyMessageUseCase(registry, repo, events)

	var scheduler schedulerport.Scheduler
	switch cfg.Scheduler {
	case "asynq":
		client, err := scheduleradapter.NewAsynqSchedulerFromEnv()
		if err != nil {
			return err
		}
		defer client.Close()
		server, err := scheduleradapter.NewAsynqExpiryServer(log, destroyUC.Execute)
		if err != nil {
			return err
		}
		go func() {
			if err := server.Run(ctx); err != nil {
				log.Error("asynq expiry server stopped", "error", err)
			}
		}()
		scheduler = client
		log.Info("using asynq self-destruct scheduler")
	default:
		scheduler = scheduleradapter.NewTimerScheduler(log, destroyUC.Execute)
	}

	ucs := controller.UseCases{
		Register:   usecase.NewRegisterParticipantUseCase(registry, repo, events),
		Send:       usecase.NewSendMessageUseCase(registry, repo, scheduler, events),
		Status:     usecase.NewUpdateStatusUseCase(registry, events),
		Typing:     usecase.NewTypingSignalUseCase(registry, events),
		Disconnect: usecase.NewDisconnectUseCase(registry, events),
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, v1.Deps{
		Log:        log,
		Router:     rtRouter,
		UseCases:   ucs,
		Cache:      cache,
		SendBuffer: cfg.SendBuffer,
		WSEndpoint: cfg.WSEndpoint,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	errChan := make(chan error, 1)
	go func() {
		log.Info("starting relay", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
