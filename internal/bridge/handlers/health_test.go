package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// TestHandleHealth tests the health handler response
func TestHandleHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		stats      Stats
		wantStatus string
		wantBroker string
	}{
		{
			name:       "broker connected",
			stats:      Stats{Sessions: 3, BrokerConnected: true},
			wantStatus: "healthy",
			wantBroker: "connected",
		},
		{
			name:       "broker lost",
			stats:      Stats{Sessions: 0, BrokerConnected: false},
			wantStatus: "degraded",
			wantBroker: "disconnected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version := "1.0.0"
			startTime := time.Now().Add(-30 * time.Minute) // 30 minutes ago

			handler := HandleHealth(version, startTime, func() Stats { return tt.stats })

			router := gin.New()
			router.GET("/health", handler)

			req := httptest.NewRequest("GET", "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("HandleHealth() status = %d, want %d", w.Code, http.StatusOK)
			}

			var response HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}

			if response.Status != tt.wantStatus {
				t.Errorf("HandleHealth() status = %q, want %q", response.Status, tt.wantStatus)
			}
			if response.Broker != tt.wantBroker {
				t.Errorf("HandleHealth() broker = %q, want %q", response.Broker, tt.wantBroker)
			}
			if response.Sessions != tt.stats.Sessions {
				t.Errorf("HandleHealth() sessions = %d, want %d", response.Sessions, tt.stats.Sessions)
			}
			if response.Version != version {
				t.Errorf("HandleHealth() version = %q, want %q", response.Version, version)
			}
			if time.Since(response.Timestamp) > 5*time.Second {
				t.Error("HandleHealth() timestamp is not recent")
			}
			if !response.StartedAt.Equal(startTime) {
				t.Errorf("HandleHealth() startedAt = %v, want %v", response.StartedAt, startTime)
			}
			if response.Uptime != "30m0s" {
				t.Errorf("HandleHealth() uptime = %q, want 30m0s", response.Uptime)
			}
		})
	}
}
