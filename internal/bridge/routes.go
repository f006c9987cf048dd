package bridge

import (
	"github.com/gin-gonic/gin"
)

// Configures all bridge routes
func (s *Server) setupRoutes(router *gin.Engine) {
	// API version prefix
	v1 := router.Group("/api/v1")
	v1.GET("/health", s.handleHealth)

	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Websocket stream: /ws?exchange=<name>&routing_key=<key>
	router.GET("/ws", s.handleStream)
}
