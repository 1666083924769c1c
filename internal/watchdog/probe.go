package watchdog

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

type ProbeStatus string

const (
	ProbeStatusHealthy     ProbeStatus = "healthy"
	ProbeStatusUnhealthy   ProbeStatus = "unhealthy"
	ProbeStatusUnreachable ProbeStatus = "unreachable"
)

type ProbeReason string

const (
	ReasonNone             ProbeReason = ""
	ReasonGatewayTimeout   ProbeReason = "gateway_timeout"
	ReasonUnexpectedStatus ProbeReason = "unexpected_status"
	ReasonMissingMarker    ProbeReason = "missing_marker"
	ReasonTimeout          ProbeReason = "timeout"
	ReasonConnection       ProbeReason = "connection_failure"
)

// ProbeResult is the classified outcome of a single health check.
// Transport errors are folded into the result, never returned, so a probe
// can never take down the monitoring loop.
type ProbeResult struct {
	Status     ProbeStatus
	Reason     ProbeReason
	StatusCode int
	Err        error
	Latency    time.Duration
	Timestamp  time.Time
}

func (r ProbeResult) Healthy() bool {
	return r.Status == ProbeStatusHealthy
}

type Prober interface {
	Check(ctx context.Context) ProbeResult
	CheckLocal(ctx context.Context) ProbeResult
}

type httpProber struct {
	targetURL    string
	localURL     string
	healthMarker string
	client       *http.Client
	localClient  *http.Client
}

func NewHTTPProber(cfg TargetConfig) Prober {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	return &httpProber{
		targetURL:    cfg.URL,
		localURL:     cfg.LocalURL,
		healthMarker: cfg.HealthMarker,
		client: &http.Client{
			Timeout: cfg.ProbeTimeout,
			Transport: &http.Transport{
				DialContext:       dialer.DialContext,
				DisableKeepAlives: true,
			},
		},
		localClient: &http.Client{
			Timeout: cfg.LocalProbeTimeout,
			Transport: &http.Transport{
				DialContext:       dialer.DialContext,
				DisableKeepAlives: true,
			},
		},
	}
}

func (p *httpProber) Check(ctx context.Context) ProbeResult {
	return p.probe(ctx, p.client, p.targetURL)
}

// CheckLocal probes the monitored service directly, bypassing any proxy in
// front of it. It only informs the recovery decision and diagnostics; the
// primary Check result alone decides pass/fail.
func (p *httpProber) CheckLocal(ctx context.Context) ProbeResult {
	if p.localURL == "" {
		return ProbeResult{Status: ProbeStatusUnreachable, Reason: ReasonConnection, Err: errors.New("no local url configured"), Timestamp: time.Now()}
	}
	return p.probe(ctx, p.localClient, p.localURL)
}

func (p *httpProber) probe(ctx context.Context, client *http.Client, url string) ProbeResult {
	start := time.Now()
	res := ProbeResult{Timestamp: start}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Status = ProbeStatusUnreachable
		res.Reason = ReasonConnection
		res.Err = err
		return res
	}
	resp, err := client.Do(req)
	res.Latency = time.Since(start)
	if err != nil {
		res.Status = ProbeStatusUnreachable
		res.Err = err
		if isTimeout(err) {
			res.Reason = ReasonTimeout
		} else {
			res.Reason = ReasonConnection
		}
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil || !strings.Contains(string(body), p.healthMarker) {
			res.Status = ProbeStatusUnhealthy
			res.Reason = ReasonMissingMarker
			res.Err = err
			return res
		}
		res.Status = ProbeStatusHealthy
	case resp.StatusCode == http.StatusGatewayTimeout:
		// 504 means an intermediary answered on the service's behalf,
		// a stronger restart signal than plain unreachability.
		res.Status = ProbeStatusUnhealthy
		res.Reason = ReasonGatewayTimeout
	default:
		res.Status = ProbeStatusUnhealthy
		res.Reason = ReasonUnexpectedStatus
	}
	return res
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
}
