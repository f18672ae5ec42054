package adapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/scheduler/port"
)

// TimerScheduler arms expirations as in-process timers. It is the default
// backend: no external dependencies, timers lost on process exit, which
// matches the relay's in-memory store.
type TimerScheduler struct {
	expire port.Expirer
	log    *slog.Logger
}

func NewTimerScheduler(log *slog.Logger, expire port.Expirer) *TimerScheduler {
	return &TimerScheduler{expire: expire, log: log}
}

// Ensure interface is satisfied
var _ port.Scheduler = (*TimerScheduler)(nil)

func (s *TimerScheduler) Schedule(_ context.Context, messageID string, delay time.Duration) error {
	time.AfterFunc(delay, func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("self-destruct expirer panicked",
					"message_id", messageID,
					"panic", rec)
			}
		}()
		if err := s.expire(context.Background(), messageID); err != nil {
			s.log.Error("self-destruct expirer failed",
				"message_id", messageID,
				"error", err)
		}
	})
	return nil
}
