package request

// TestRecoveryRequest guards the manual recovery endpoint: the caller must
// spell out the monitored service's name to confirm a destructive action.
type TestRecoveryRequest struct {
	Confirm string `json:"confirm" binding:"required"`
}
