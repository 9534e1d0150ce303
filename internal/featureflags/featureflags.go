package featureflags

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rollout/rox-go/v5/server"
)

// Container holds every flag the catalog service reads
type Container struct {
	Offline  server.RoxFlag
	LogLevel server.RoxString
}

// ErrNoAPIKey is returned by Init when no Rollout key is configured; flags keep their defaults
var ErrNoAPIKey = errors.New("featureflags: no api key, using defaults")

var (
	values = &Container{
		Offline:  server.NewRoxFlag(false),
		LogLevel: server.NewRoxString("info", []string{"debug", "info", "warn", "error"}),
	}

	mu  sync.Mutex
	rox *server.Rox
)

// Values returns the registered flag container
func Values() *Container {
	return values
}

// Init registers the flags and waits for the first configuration fetch or ctx expiry
func Init(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return ErrNoAPIKey
	}

	mu.Lock()
	defer mu.Unlock()
	if rox != nil {
		return nil
	}

	r := server.NewRox()
	r.Register("catalog", values)
	ready := r.Setup(apiKey, server.NewRoxOptions(server.RoxOptionsBuilder{}))
	rox = r

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("featureflags setup: %w", ctx.Err())
	}
}

// Shutdown stops the Rollout client if Init started one
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if rox == nil {
		return
	}
	rox.Shutdown()
	rox = nil
}
