package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"service-watchdog/internal/watchdog"
)

func setupRouter(h WatchdogHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", h.GetHealthz())
	r.GET("/status", h.GetStatus())
	r.POST("/recovery/test", h.TestRecovery())
	return r
}

func TestWatchdogHandler_GetHealthz(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := setupRouter(NewWatchdogHandler(NewMockSupervisor(ctrl), zap.NewNop()))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWatchdogHandler_GetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSupervisor := NewMockSupervisor(ctrl)
	mockSupervisor.EXPECT().Snapshot().Return(watchdog.StatusSnapshot{
		State:               watchdog.StateDegraded,
		Service:             "app",
		ConsecutiveFailures: 1,
		TotalRecoveries:     2,
	})

	r := setupRouter(NewWatchdogHandler(mockSupervisor, zap.NewNop()))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/status", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var snap watchdog.StatusSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, watchdog.StateDegraded, snap.State)
	assert.Equal(t, "app", snap.Service)
	assert.Equal(t, 1, snap.ConsecutiveFailures)
	assert.Equal(t, 2, snap.TotalRecoveries)
}

func TestWatchdogHandler_TestRecovery(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		setupMocks     func(m *MockSupervisor)
		expectedStatus int
	}{
		{
			name: "missing confirm field",
			body: `{}`,
			setupMocks: func(m *MockSupervisor) {
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "confirm does not match service",
			body: `{"confirm":"other"}`,
			setupMocks: func(m *MockSupervisor) {
				m.EXPECT().Snapshot().Return(watchdog.StatusSnapshot{Service: "app"})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "recovery succeeds",
			body: `{"confirm":"app"}`,
			setupMocks: func(m *MockSupervisor) {
				m.EXPECT().Snapshot().Return(watchdog.StatusSnapshot{Service: "app"})
				m.EXPECT().TriggerRecovery(gomock.Any()).Return(watchdog.RecoveryAttempt{
					StartedAt: time.Now(),
					Outcome:   watchdog.RecoverySucceeded,
					Duration:  3 * time.Second,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "recovery skipped by cooldown",
			body: `{"confirm":"app"}`,
			setupMocks: func(m *MockSupervisor) {
				m.EXPECT().Snapshot().Return(watchdog.StatusSnapshot{Service: "app"})
				m.EXPECT().TriggerRecovery(gomock.Any()).Return(watchdog.RecoveryAttempt{
					Outcome: watchdog.RecoverySkippedCooldown,
				}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "trigger error",
			body: `{"confirm":"app"}`,
			setupMocks: func(m *MockSupervisor) {
				m.EXPECT().Snapshot().Return(watchdog.StatusSnapshot{Service: "app"})
				m.EXPECT().TriggerRecovery(gomock.Any()).Return(watchdog.RecoveryAttempt{}, errors.New("daemon stopping"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSupervisor := NewMockSupervisor(ctrl)
			tc.setupMocks(mockSupervisor)

			r := setupRouter(NewWatchdogHandler(mockSupervisor, zap.NewNop()))
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/recovery/test", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}
