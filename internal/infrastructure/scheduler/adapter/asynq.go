package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/scheduler/port"
)

// DestroyMessageTaskType is the queue task name for a deferred message expiry.
const DestroyMessageTaskType = "relay:destroy_message"

type destroyMessagePayload struct {
	MessageID string `json:"message_id"`
}

// ===================== Client =====================

// AsynqScheduler implements port.Scheduler using github.com/hibiken/asynq and
// Redis as the backing store. Unlike TimerScheduler, armed expirations survive
// a relay restart and can fire on any worker consuming the queue. Useful only
// when the conversation store is shared (Postgres), since an in-memory store
// dies with the process anyway.
type AsynqScheduler struct {
	client *asynq.Client
}

// NewAsynqSchedulerFromEnv constructs a client using the REDIS_URL env var.
func NewAsynqSchedulerFromEnv() (*AsynqScheduler, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, errors.New("asynq: REDIS_URL environment variable is not set")
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse REDIS_URL: %w", err)
	}
	return &AsynqScheduler{client: asynq.NewClient(opt)}, nil
}

// Ensure interface is satisfied
var _ port.Scheduler = (*AsynqScheduler)(nil)

func (s *AsynqScheduler) Schedule(ctx context.Context, messageID string, delay time.Duration) error {
	payload, err := json.Marshal(destroyMessagePayload{MessageID: messageID})
	if err != nil {
		return fmt.Errorf("asynq: marshal payload: %w", err)
	}
	task := asynq.NewTask(DestroyMessageTaskType, payload)
	_, err = s.client.EnqueueContext(ctx, task, asynq.ProcessIn(delay), asynq.MaxRetry(0))
	return err
}

func (s *AsynqScheduler) Close() error {
	return s.client.Close()
}

// ===================== Server =====================

// AsynqExpiryServer consumes deferred expiry tasks and hands them to the
// Expirer. Concurrency is tunable via ASYNQ_CONCURRENCY (default 10).
type AsynqExpiryServer struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewAsynqExpiryServer(log *slog.Logger, expire port.Expirer) (*AsynqExpiryServer, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, errors.New("asynq: REDIS_URL environment variable is not set")
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse REDIS_URL: %w", err)
	}

	concurrency := 10
	if v := strings.TrimSpace(os.Getenv("ASYNQ_CONCURRENCY")); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			concurrency = i
		}
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			// Expirer failures are logged and swallowed; no retry, no client impact.
			log.Error("asynq expiry task failed", "type", task.Type(), "error", err)
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(DestroyMessageTaskType, func(ctx context.Context, t *asynq.Task) error {
		var p destroyMessagePayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		return expire(ctx, p.MessageID)
	})

	return &AsynqExpiryServer{server: srv, mux: mux}, nil
}

// Run starts the server and blocks until the context is canceled, then
// gracefully shuts down.
func (s *AsynqExpiryServer) Run(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}
