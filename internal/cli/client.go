package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"service-watchdog/internal/watchdog"
)

// adminClient talks to the running daemon's loopback admin API.
type adminClient struct {
	base   string
	client *http.Client
}

func newAdminClient(addr string, timeout time.Duration) *adminClient {
	return &adminClient{
		base:   "http://" + addr,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *adminClient) Status(ctx context.Context) (watchdog.StatusSnapshot, error) {
	var snap watchdog.StatusSnapshot
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/status", nil)
	if err != nil {
		return snap, fmt.Errorf("adminClient.Status: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return snap, fmt.Errorf("adminClient.Status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return snap, fmt.Errorf("adminClient.Status: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return snap, fmt.Errorf("adminClient.Status: %w", err)
	}
	return snap, nil
}

type recoveryResponse struct {
	Outcome    watchdog.RecoveryOutcome `json:"outcome"`
	StartedAt  time.Time                `json:"started_at"`
	DurationMs int64                    `json:"duration_ms"`
	Error      string                   `json:"error"`
}

func (c *adminClient) TestRecovery(ctx context.Context, serviceName string) (recoveryResponse, error) {
	var out recoveryResponse
	body, err := json.Marshal(map[string]string{"confirm": serviceName})
	if err != nil {
		return out, fmt.Errorf("adminClient.TestRecovery: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/recovery/test", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("adminClient.TestRecovery: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("adminClient.TestRecovery: %w", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("adminClient.TestRecovery: %w", err)
	}
	if out.Error != "" {
		return out, fmt.Errorf("adminClient.TestRecovery: %s", out.Error)
	}
	return out, nil
}
