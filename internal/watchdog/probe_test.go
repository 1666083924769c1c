package watchdog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProber_Check(t *testing.T) {
	testCases := []struct {
		name           string
		handler        http.HandlerFunc
		expectedStatus ProbeStatus
		expectedReason ProbeReason
	}{
		{
			name: "healthy on 200 with marker",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"status":"ok"}`))
			},
			expectedStatus: ProbeStatusHealthy,
			expectedReason: ReasonNone,
		},
		{
			name: "unhealthy on 200 without marker",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`starting up`))
			},
			expectedStatus: ProbeStatusUnhealthy,
			expectedReason: ReasonMissingMarker,
		},
		{
			name: "unhealthy on gateway timeout",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusGatewayTimeout)
			},
			expectedStatus: ProbeStatusUnhealthy,
			expectedReason: ReasonGatewayTimeout,
		},
		{
			name: "unhealthy on unexpected status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedStatus: ProbeStatusUnhealthy,
			expectedReason: ReasonUnexpectedStatus,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			prober := NewHTTPProber(TargetConfig{
				URL:            srv.URL,
				HealthMarker:   "ok",
				ProbeTimeout:   2 * time.Second,
				ConnectTimeout: time.Second,
			})
			res := prober.Check(context.Background())

			assert.Equal(t, tc.expectedStatus, res.Status)
			assert.Equal(t, tc.expectedReason, res.Reason)
			assert.False(t, res.Timestamp.IsZero())
		})
	}
}

func TestHTTPProber_Check_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := srv.URL
	srv.Close()

	prober := NewHTTPProber(TargetConfig{
		URL:            url,
		HealthMarker:   "ok",
		ProbeTimeout:   2 * time.Second,
		ConnectTimeout: time.Second,
	})
	res := prober.Check(context.Background())

	require.Equal(t, ProbeStatusUnreachable, res.Status)
	assert.Equal(t, ReasonConnection, res.Reason)
	assert.Error(t, res.Err)
}

func TestHTTPProber_Check_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	prober := NewHTTPProber(TargetConfig{
		URL:            srv.URL,
		HealthMarker:   "ok",
		ProbeTimeout:   50 * time.Millisecond,
		ConnectTimeout: time.Second,
	})
	res := prober.Check(context.Background())

	require.Equal(t, ProbeStatusUnreachable, res.Status)
	assert.Equal(t, ReasonTimeout, res.Reason)
}

func TestHTTPProber_CheckLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	t.Run("uses the direct address", func(t *testing.T) {
		prober := NewHTTPProber(TargetConfig{
			URL:               "http://127.0.0.1:1", // primary must not be used
			LocalURL:          srv.URL,
			HealthMarker:      "ok",
			ProbeTimeout:      2 * time.Second,
			ConnectTimeout:    time.Second,
			LocalProbeTimeout: time.Second,
		})
		res := prober.CheckLocal(context.Background())
		assert.Equal(t, ProbeStatusHealthy, res.Status)
	})

	t.Run("unreachable when not configured", func(t *testing.T) {
		prober := NewHTTPProber(TargetConfig{
			URL:            srv.URL,
			HealthMarker:   "ok",
			ProbeTimeout:   2 * time.Second,
			ConnectTimeout: time.Second,
		})
		res := prober.CheckLocal(context.Background())
		assert.Equal(t, ProbeStatusUnreachable, res.Status)
	})
}
