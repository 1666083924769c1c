package watchdog

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ServiceController is the external control interface used to forcefully
// recreate the monitored service instance. The call is synchronous and may
// take tens of seconds.
type ServiceController interface {
	Recreate(ctx context.Context, serviceName string) error
}

type execController struct {
	command []string
	timeout time.Duration
	logger  *zap.Logger
}

// NewExecController builds a controller that shells out to the configured
// recreate command (e.g. "docker compose up -d --force-recreate") with the
// service name appended.
func NewExecController(command string, timeout time.Duration, logger *zap.Logger) (ServiceController, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("NewExecController: empty recreate command")
	}
	return &execController{
		command: fields,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (c *execController) Recreate(ctx context.Context, serviceName string) error {
	// A recreation that has started must run to completion even through a
	// daemon shutdown; killing it halfway can leave the service in a worse
	// state than the failure that triggered it. Only the timeout bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	args := append(append([]string{}, c.command[1:]...), serviceName)
	c.logger.Info("recreating service",
		zap.String("command", strings.Join(c.command, " ")),
		zap.String("service", serviceName))

	cmd := exec.CommandContext(ctx, c.command[0], args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("execController.Recreate: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
