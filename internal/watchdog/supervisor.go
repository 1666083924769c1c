package watchdog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type LoopState string

const (
	StateStarting   LoopState = "starting"
	StateHealthy    LoopState = "healthy"
	StateDegraded   LoopState = "degraded"
	StateRecovering LoopState = "recovering"
	StateCritical   LoopState = "critical"
)

const recentEventCap = 32

// ProbeSummary is the operator-facing view of the last probe outcome.
type ProbeSummary struct {
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	LatencyMs  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
	Error      string    `json:"error,omitempty"`
}

// StatusSnapshot is a consistent copy of the watchdog state, rebuilt by the
// monitoring loop after every iteration and served read-only to the admin
// API.
type StatusSnapshot struct {
	State               LoopState     `json:"state"`
	Service             string        `json:"service"`
	TargetURL           string        `json:"target_url"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	TotalRecoveries     int           `json:"total_recoveries"`
	LastRecovery        *time.Time    `json:"last_recovery,omitempty"`
	StartedAt           time.Time     `json:"started_at"`
	UptimeSeconds       int64         `json:"uptime_seconds"`
	LastProbe           *ProbeSummary `json:"last_probe,omitempty"`
	RecentEvents        []Event       `json:"recent_events"`
}

type manualRequest struct {
	reply chan RecoveryAttempt
}

// Supervisor drives the monitoring loop: probe, track, recover, notify.
// Every mutation of MonitorState happens on the loop goroutine; manual
// recovery triggers from the admin API are funneled onto the same goroutine
// through a channel, so there is never more than one writer.
type Supervisor struct {
	cfg       AppConfig
	logger    *zap.Logger
	prober    Prober
	state     *MonitorState
	recovery  *RecoveryController
	notifier  Notifier
	publisher ResultPublisher

	loopState LoopState
	lastProbe *ProbeResult
	ring      *eventRing
	manualCh  chan manualRequest

	snapMu sync.RWMutex
	snap   StatusSnapshot
}

func NewSupervisor(cfg AppConfig, prober Prober, controller ServiceController,
	notifier Notifier, publisher ResultPublisher, logger *zap.Logger) *Supervisor {
	state := NewMonitorState()
	ring := newEventRing(recentEventCap)
	recording := &recordingNotifier{ring: ring, next: notifier}
	s := &Supervisor{
		cfg:       cfg,
		logger:    logger,
		prober:    prober,
		state:     state,
		notifier:  recording,
		publisher: publisher,
		loopState: StateStarting,
		ring:      ring,
		manualCh:  make(chan manualRequest),
	}
	s.recovery = NewRecoveryController(cfg.Monitor, state, prober, controller, recording, logger)
	s.updateSnapshot()
	return s
}

// Run blocks until ctx is cancelled. The wait between iterations is
// interruptible; an iteration already underway finishes naturally since all
// of its blocking calls carry their own bounds.
func (s *Supervisor) Run(ctx context.Context) error {
	s.logger.Info("watchdog started",
		zap.String("service", s.cfg.Monitor.ServiceName),
		zap.String("target", s.cfg.Target.URL),
		zap.Duration("interval", s.cfg.Monitor.CheckInterval))

	s.iterate(ctx)
	timer := time.NewTimer(s.cfg.Monitor.CheckInterval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("watchdog stopping")
			return nil
		case req := <-s.manualCh:
			req.reply <- s.runManual(ctx)
		case <-timer.C:
			s.iterate(ctx)
			timer.Reset(s.cfg.Monitor.CheckInterval)
		}
	}
}

// Snapshot returns the state as of the end of the last iteration.
func (s *Supervisor) Snapshot() StatusSnapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

// TriggerRecovery hands a manual recovery request to the loop goroutine and
// waits for the outcome. Cooldown accounting is shared with automatic
// recoveries.
func (s *Supervisor) TriggerRecovery(ctx context.Context) (RecoveryAttempt, error) {
	req := manualRequest{reply: make(chan RecoveryAttempt, 1)}
	select {
	case s.manualCh <- req:
	case <-ctx.Done():
		return RecoveryAttempt{}, ctx.Err()
	}
	select {
	case attempt := <-req.reply:
		return attempt, nil
	case <-ctx.Done():
		return RecoveryAttempt{}, ctx.Err()
	}
}

func (s *Supervisor) iterate(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("monitoring iteration panicked", zap.Any("panic", r))
		}
		s.updateSnapshot()
	}()

	// Probes, publishes and notifications are bounded by their own timeouts
	// and run detached from ctx: a shutdown signal mid-iteration must not
	// turn an in-flight probe into a recorded failure. ctx itself still
	// reaches the recovery controller so its confirmation wait stays
	// interruptible.
	workCtx := context.WithoutCancel(ctx)

	res := s.prober.Check(workCtx)
	s.lastProbe = &res
	s.publisher.Publish(workCtx, s.cfg.Monitor.ServiceName, res)

	recoveredNaturally := s.state.Observe(res)
	if res.Healthy() {
		if recoveredNaturally {
			s.logger.Info("service recovered naturally", zap.String("service", s.cfg.Monitor.ServiceName))
			s.notifier.Notify(workCtx, NewEvent(
				"service recovered",
				"service "+s.cfg.Monitor.ServiceName+" is healthy again without intervention",
				SeverityInfo, s.cfg.Monitor.ServiceName))
		}
		s.loopState = StateHealthy
		s.logger.Debug("probe healthy", zap.Duration("latency", res.Latency))
		return
	}

	s.logger.Warn("probe failed",
		zap.String("status", string(res.Status)),
		zap.String("reason", string(res.Reason)),
		zap.Int("status_code", res.StatusCode),
		zap.Int("consecutive_failures", s.state.ConsecutiveFailures()),
		zap.Error(res.Err))

	prev := s.loopState
	s.loopState = StateDegraded

	localHealthy := false
	localChecked := false
	if s.cfg.Target.LocalURL != "" {
		local := s.prober.CheckLocal(workCtx)
		localChecked = true
		localHealthy = local.Healthy()
		if !localHealthy {
			// Both the proxied and the direct check failed in the same
			// cycle: the monitored process itself appears down.
			s.loopState = StateCritical
			s.logger.Error("primary and local checks both failing",
				zap.String("local_status", string(local.Status)),
				zap.Error(local.Err))
			if prev != StateCritical {
				s.notifier.Notify(workCtx, NewEvent(
					"service down",
					"service "+s.cfg.Monitor.ServiceName+" is failing both the proxied and the direct health check",
					SeverityCritical, s.cfg.Monitor.ServiceName))
			}
		}
	}

	if !s.state.ShouldAttemptRecovery(s.cfg.Monitor.FailureThreshold) {
		return
	}

	s.loopState = StateRecovering
	attempt := s.recovery.Attempt(ctx, localChecked && localHealthy)
	switch attempt.Outcome {
	case RecoverySucceeded:
		s.loopState = StateHealthy
		// The confirming result supersedes the failed probe that started
		// this iteration, keeping the snapshot self-consistent.
		s.lastProbe = attempt.ConfirmingProbe
	case RecoveryFailedAction, RecoveryFailedConfirmation:
		s.loopState = StateCritical
	case RecoverySkippedCooldown:
		if localChecked && !localHealthy {
			s.loopState = StateCritical
		} else {
			s.loopState = StateDegraded
		}
	case RecoveryAborted:
		// Shutdown interrupted the confirmation; report the state as
		// observed before the attempt, the loop is about to exit.
		if localChecked && !localHealthy {
			s.loopState = StateCritical
		} else {
			s.loopState = StateDegraded
		}
	}
}

func (s *Supervisor) runManual(ctx context.Context) RecoveryAttempt {
	defer s.updateSnapshot()

	s.logger.Info("manual recovery triggered", zap.String("service", s.cfg.Monitor.ServiceName))
	localHealthy := false
	if s.cfg.Target.LocalURL != "" {
		localHealthy = s.prober.CheckLocal(context.WithoutCancel(ctx)).Healthy()
	}
	s.loopState = StateRecovering
	attempt := s.recovery.Attempt(ctx, localHealthy)
	switch attempt.Outcome {
	case RecoverySucceeded:
		s.loopState = StateHealthy
		s.lastProbe = attempt.ConfirmingProbe
	case RecoveryFailedAction, RecoveryFailedConfirmation:
		s.loopState = StateCritical
	case RecoverySkippedCooldown, RecoveryAborted:
		if s.state.Degraded() {
			s.loopState = StateDegraded
		} else {
			s.loopState = StateHealthy
		}
	}
	return attempt
}

func (s *Supervisor) updateSnapshot() {
	now := time.Now()
	snap := StatusSnapshot{
		State:               s.loopState,
		Service:             s.cfg.Monitor.ServiceName,
		TargetURL:           s.cfg.Target.URL,
		ConsecutiveFailures: s.state.ConsecutiveFailures(),
		TotalRecoveries:     s.state.TotalRecoveries(),
		StartedAt:           s.state.StartedAt(),
		UptimeSeconds:       int64(s.state.Uptime(now).Seconds()),
		RecentEvents:        s.ring.Events(),
	}
	if last, ok := s.state.LastRecovery(); ok {
		snap.LastRecovery = &last
	}
	if s.lastProbe != nil {
		summary := ProbeSummary{
			Status:     string(s.lastProbe.Status),
			Reason:     string(s.lastProbe.Reason),
			StatusCode: s.lastProbe.StatusCode,
			LatencyMs:  s.lastProbe.Latency.Milliseconds(),
			Timestamp:  s.lastProbe.Timestamp,
		}
		if s.lastProbe.Err != nil {
			summary.Error = s.lastProbe.Err.Error()
		}
		snap.LastProbe = &summary
	}
	s.snapMu.Lock()
	s.snap = snap
	s.snapMu.Unlock()
}

// eventRing keeps the most recent state-change events for status reports.
// It is only written from the loop goroutine.
type eventRing struct {
	cap    int
	events []Event
}

func newEventRing(capacity int) *eventRing {
	return &eventRing{cap: capacity}
}

func (r *eventRing) Record(event Event) {
	r.events = append(r.events, event)
	if len(r.events) > r.cap {
		r.events = r.events[len(r.events)-r.cap:]
	}
}

func (r *eventRing) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// recordingNotifier keeps every emitted event in the ring before handing it
// to the real sinks.
type recordingNotifier struct {
	ring *eventRing
	next Notifier
}

func (n *recordingNotifier) Notify(ctx context.Context, event Event) {
	n.ring.Record(event)
	n.next.Notify(ctx, event)
}
