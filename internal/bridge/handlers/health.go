// Package handlers holds the bridge's plain HTTP handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Stats is a point-in-time view of the bridge reported by the health endpoint.
type Stats struct {
	Sessions        int
	BrokerConnected bool
}

// Represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	StartedAt time.Time `json:"startedAt"`
	Sessions  int       `json:"sessions"`
	Broker    string    `json:"broker"`
}

// HandleHealth returns the health status of the bridge. The status is
// "degraded" once the broker connection has been lost.
func HandleHealth(version string, startTime time.Time, stats func() Stats) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := stats()

		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			StartedAt: startTime,
			Sessions:  st.Sessions,
			Broker:    "connected",
		}
		if !st.BrokerConnected {
			response.Status = "degraded"
			response.Broker = "disconnected"
		}

		c.JSON(http.StatusOK, response)
	}
}
