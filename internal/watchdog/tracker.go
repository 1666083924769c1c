package watchdog

import "time"

// MonitorState holds the counters the watchdog keeps across probe cycles.
// It is only ever touched by the single monitoring loop (the supervisor
// serializes manual recovery triggers onto the same path), so it carries no
// locking of its own.
type MonitorState struct {
	consecutiveFailures int
	lastRecovery        time.Time
	totalRecoveries     int
	startedAt           time.Time
}

func NewMonitorState() *MonitorState {
	return &MonitorState{startedAt: time.Now()}
}

// Observe applies one probe outcome. It reports whether the target
// recovered naturally, i.e. a healthy probe ended a run of failures
// without any recovery action.
func (s *MonitorState) Observe(res ProbeResult) (recoveredNaturally bool) {
	if res.Healthy() {
		recoveredNaturally = s.consecutiveFailures > 0
		s.consecutiveFailures = 0
		return recoveredNaturally
	}
	s.consecutiveFailures++
	return false
}

func (s *MonitorState) Degraded() bool {
	return s.consecutiveFailures > 0
}

func (s *MonitorState) ShouldAttemptRecovery(threshold int) bool {
	return s.consecutiveFailures >= threshold
}

// CoolingDown reports whether a completed recovery action happened less
// than cooldown ago.
func (s *MonitorState) CoolingDown(now time.Time, cooldown time.Duration) bool {
	return !s.lastRecovery.IsZero() && now.Sub(s.lastRecovery) < cooldown
}

// RecordRecovery marks a confirmed successful recovery: failures reset,
// the cooldown clock restarts and the lifetime counter advances.
func (s *MonitorState) RecordRecovery(now time.Time) {
	s.consecutiveFailures = 0
	s.lastRecovery = now
	s.totalRecoveries++
}

// RecordFailedRecovery restarts the cooldown clock without touching the
// failure count. A restart that did not restore health points at a deeper
// problem that an immediate second restart will not fix.
func (s *MonitorState) RecordFailedRecovery(now time.Time) {
	s.lastRecovery = now
}

func (s *MonitorState) ConsecutiveFailures() int { return s.consecutiveFailures }

func (s *MonitorState) TotalRecoveries() int { return s.totalRecoveries }

// LastRecovery returns the time of the last completed recovery action and
// whether one has happened at all.
func (s *MonitorState) LastRecovery() (time.Time, bool) {
	return s.lastRecovery, !s.lastRecovery.IsZero()
}

func (s *MonitorState) StartedAt() time.Time { return s.startedAt }

func (s *MonitorState) Uptime(now time.Time) time.Duration {
	return now.Sub(s.startedAt)
}
