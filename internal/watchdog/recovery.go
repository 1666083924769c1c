package watchdog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type RecoveryOutcome string

const (
	RecoverySucceeded          RecoveryOutcome = "succeeded"
	RecoveryFailedAction       RecoveryOutcome = "failed-action"
	RecoveryFailedConfirmation RecoveryOutcome = "failed-confirmation"
	RecoverySkippedCooldown    RecoveryOutcome = "skipped-cooldown"
	RecoveryAborted            RecoveryOutcome = "aborted"
)

// RecoveryAttempt records one invocation of the recovery path.
// ConfirmingProbe carries the healthy result that confirmed a succeeded
// recovery, nil for every other outcome.
type RecoveryAttempt struct {
	StartedAt       time.Time
	Outcome         RecoveryOutcome
	Duration        time.Duration
	ConfirmingProbe *ProbeResult
}

// RecoveryController owns the bounded, rate-limited self-healing action:
// cooldown gate, forced recreation of the service, then polling the primary
// probe until health is confirmed or the window runs out.
type RecoveryController struct {
	cfg        MonitorConfig
	state      *MonitorState
	prober     Prober
	controller ServiceController
	notifier   Notifier
	logger     *zap.Logger
}

func NewRecoveryController(cfg MonitorConfig, state *MonitorState, prober Prober,
	controller ServiceController, notifier Notifier, logger *zap.Logger) *RecoveryController {
	return &RecoveryController{
		cfg:        cfg,
		state:      state,
		prober:     prober,
		controller: controller,
		notifier:   notifier,
		logger:     logger,
	}
}

// Attempt runs one recovery cycle. localHealthy reports whether the direct,
// non-proxied check passed in the same cycle; a healthy local service means
// the failure likely sits in an intermediary layer, so the recreation still
// proceeds but is flagged as a lower-confidence trigger.
func (r *RecoveryController) Attempt(ctx context.Context, localHealthy bool) RecoveryAttempt {
	start := time.Now()
	attempt := RecoveryAttempt{StartedAt: start}

	// Probes, the recreate action and notifications run detached from ctx
	// and are bounded by their own timeouts; ctx only interrupts the wait
	// between confirmation polls, so shutdown never aborts work already
	// underway.
	detached := context.WithoutCancel(ctx)

	if r.state.CoolingDown(start, r.cfg.RecoveryCooldown) {
		last, _ := r.state.LastRecovery()
		remaining := r.cfg.RecoveryCooldown - start.Sub(last)
		r.logger.Warn("recovery skipped, cooldown active",
			zap.String("service", r.cfg.ServiceName),
			zap.Duration("remaining", remaining))
		r.notifier.Notify(detached, NewEvent(
			"recovery skipped",
			fmt.Sprintf("service %s is still failing but the recovery cooldown has %s remaining", r.cfg.ServiceName, remaining.Round(time.Second)),
			SeverityWarning, r.cfg.ServiceName))
		attempt.Outcome = RecoverySkippedCooldown
		attempt.Duration = time.Since(start)
		return attempt
	}

	confidence := "service appears down"
	if localHealthy {
		confidence = "direct check is healthy, failure likely in an intermediary layer"
	}
	r.logger.Warn("starting recovery",
		zap.String("service", r.cfg.ServiceName),
		zap.Bool("local_healthy", localHealthy))
	r.notifier.Notify(detached, NewEvent(
		"recovery started",
		fmt.Sprintf("recreating service %s (%s)", r.cfg.ServiceName, confidence),
		SeverityWarning, r.cfg.ServiceName))

	if err := r.controller.Recreate(detached, r.cfg.ServiceName); err != nil {
		err = fmt.Errorf("RecoveryController.Attempt: %w", err)
		r.logger.Error("recovery action failed", zap.Error(err))
		r.notifier.Notify(detached, NewEvent(
			"recovery action failed",
			fmt.Sprintf("failed to recreate service %s: %v", r.cfg.ServiceName, err),
			SeverityCritical, r.cfg.ServiceName))
		attempt.Outcome = RecoveryFailedAction
		attempt.Duration = time.Since(start)
		return attempt
	}

	switch outcome, res := r.confirm(ctx); outcome {
	case confirmHealthy:
		elapsed := time.Since(start)
		r.state.RecordRecovery(time.Now())
		r.logger.Info("recovery confirmed",
			zap.String("service", r.cfg.ServiceName),
			zap.Duration("elapsed", elapsed),
			zap.Int("total_recoveries", r.state.TotalRecoveries()))
		r.notifier.Notify(detached, NewEvent(
			"recovery succeeded",
			fmt.Sprintf("service %s healthy again after %s (recovery #%d)",
				r.cfg.ServiceName, elapsed.Round(time.Second), r.state.TotalRecoveries()),
			SeverityInfo, r.cfg.ServiceName))
		attempt.Outcome = RecoverySucceeded
		attempt.Duration = elapsed
		attempt.ConfirmingProbe = &res
		return attempt
	case confirmInterrupted:
		// Daemon is shutting down. The confirmation never ran to its end,
		// so neither the failure counters nor the cooldown clock move and
		// no operator alert is raised.
		r.logger.Info("recovery confirmation interrupted by shutdown",
			zap.String("service", r.cfg.ServiceName))
		attempt.Outcome = RecoveryAborted
		attempt.Duration = time.Since(start)
		return attempt
	}

	// Cooldown still applies after a failed confirmation so a restart that
	// did not help is not immediately repeated.
	r.state.RecordFailedRecovery(time.Now())
	r.logger.Error("recovery not confirmed within window",
		zap.String("service", r.cfg.ServiceName),
		zap.Duration("window", r.cfg.ConfirmWindow))
	r.notifier.Notify(detached, NewEvent(
		"recovery failed, manual intervention required",
		fmt.Sprintf("service %s was recreated but did not become healthy within %s", r.cfg.ServiceName, r.cfg.ConfirmWindow),
		SeverityCritical, r.cfg.ServiceName))
	attempt.Outcome = RecoveryFailedConfirmation
	attempt.Duration = time.Since(start)
	return attempt
}

type confirmOutcome int

const (
	confirmHealthy confirmOutcome = iota
	confirmExhausted
	confirmInterrupted
)

// confirm polls the primary probe until the first healthy result, until the
// confirmation window closes, or until ctx is cancelled. Cancellation is
// reported separately from exhaustion: an interrupted confirmation says
// nothing about whether the recreation helped.
func (r *RecoveryController) confirm(ctx context.Context) (confirmOutcome, ProbeResult) {
	probeCtx := context.WithoutCancel(ctx)
	deadline := time.Now().Add(r.cfg.ConfirmWindow)
	ticker := time.NewTicker(r.cfg.ConfirmPollInterval)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return confirmInterrupted, ProbeResult{}
		case <-ticker.C:
			res := r.prober.Check(probeCtx)
			if res.Healthy() {
				return confirmHealthy, res
			}
			r.logger.Debug("recovery confirmation probe failed",
				zap.String("status", string(res.Status)),
				zap.String("reason", string(res.Reason)))
		}
	}
	return confirmExhausted, ProbeResult{}
}
