package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Settings is the relay's environment-driven configuration, loaded from
// RELAY_* variables. Connection strings (DB_URL, REDIS_URL) stay with the
// infrastructure adapters that consume them.
type Settings struct {
	Addr       string `default:":3001"`
	LogLevel   string `default:"info" split_words:"true"`
	SendBuffer int    `default:"128" split_words:"true"`

	// Scheduler selects the self-destruct backend: "timer" (in-process) or
	// "asynq" (Redis-backed delayed tasks, needs REDIS_URL).
	Scheduler string `default:"timer"`

	// WSEndpoint is the externally visible websocket URL advertised by the
	// status endpoint.
	WSEndpoint string `default:"ws://localhost:3001/api/v1/cryptochat/ws" split_words:"true"`
}

// Load reads RELAY_* environment variables into a Settings value.
func Load() (Settings, error) {
	var s Settings
	if err := envconfig.Process("relay", &s); err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	if s.Scheduler != "timer" && s.Scheduler != "asynq" {
		return Settings{}, fmt.Errorf("config: unknown scheduler backend %q", s.Scheduler)
	}
	return s, nil
}
