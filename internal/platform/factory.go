package platform

import (
	"context"
	"os/exec"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Timeout for shell integration commands
const commandTimeout = 10 * time.Second

// Runner executes an external command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// New creates the Services appropriate for the current operating system.
// When enabled is false, or nothing is available, a no-op adapter is returned.
func New(logger log.Logger, enabled bool) Services {
	if !enabled {
		level.Debug(logger).Log("event", "platform.disabled")
		return Noop{}
	}
	services := native(logger)
	level.Debug(logger).Log("event", "platform.selected", "os", Detect(), "adapter", services.Name())
	return services
}
