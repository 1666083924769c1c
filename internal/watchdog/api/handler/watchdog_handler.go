package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"service-watchdog/internal/watchdog"
	"service-watchdog/internal/watchdog/api/dto/request"
)

// Supervisor is the slice of the running daemon the admin API needs.
type Supervisor interface {
	Snapshot() watchdog.StatusSnapshot
	TriggerRecovery(ctx context.Context) (watchdog.RecoveryAttempt, error)
}

type WatchdogHandler interface {
	GetHealthz() gin.HandlerFunc
	GetStatus() gin.HandlerFunc
	TestRecovery() gin.HandlerFunc
}

type watchdogHandler struct {
	logger     *zap.Logger
	supervisor Supervisor
}

func NewWatchdogHandler(supervisor Supervisor, logger *zap.Logger) WatchdogHandler {
	return &watchdogHandler{
		logger:     logger,
		supervisor: supervisor,
	}
}

func (*watchdogHandler) formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", err.Field())
	default:
		return fmt.Sprintf("Validation failed for %s with tag %s.", err.Field(), err.Tag())
	}
}

// GetHealthz reports liveness of the watchdog daemon itself, not of the
// monitored service.
func (h *watchdogHandler) GetHealthz() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (h *watchdogHandler) GetStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, h.supervisor.Snapshot())
	}
}

func (h *watchdogHandler) TestRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req request.TestRecoveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				c.JSON(http.StatusBadRequest, gin.H{"error": h.formatValidationError(validationErrors[0])})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		service := h.supervisor.Snapshot().Service
		if req.Confirm != service {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("confirm must match the monitored service name %q", service),
			})
			return
		}

		h.logger.Warn("manual recovery requested via admin api", zap.String("service", service))
		attempt, err := h.supervisor.TriggerRecovery(c.Request.Context())
		if err != nil {
			err = fmt.Errorf("WatchdogHandler.TestRecovery: %w", err)
			h.logger.Error("manual recovery failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "recovery was not executed"})
			return
		}
		status := http.StatusOK
		if attempt.Outcome != watchdog.RecoverySucceeded {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"outcome":     attempt.Outcome,
			"started_at":  attempt.StartedAt,
			"duration_ms": attempt.Duration.Milliseconds(),
		})
	}
}
