package port

import (
	"context"
	"time"
)

// Expirer handles a fired self-destruct timer for one message. Implementations
// must be idempotent: a timer may fire after the message was already removed.
type Expirer func(ctx context.Context, messageID string) error

// Scheduler arms one-shot deferred expirations. Scheduling is fire-and-forget:
// Schedule returns as soon as the timer is armed, and the expiration runs
// asynchronously no earlier than delay after the call. There is no cancel path;
// an armed timer always fires unless the process exits first.
//
// An Expirer failure is an internal fault: adapters log it and move on. It must
// never propagate to a client connection or disturb other armed timers.
type Scheduler interface {
	Schedule(ctx context.Context, messageID string, delay time.Duration) error
}
