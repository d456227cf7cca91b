// Package http exposes the host over HTTP: websocket play, health and a
// listing of live sessions.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connectfour/internal/service/host"
	"github.com/iamasit07/connectfour/internal/transport/websocket"
	"go.uber.org/zap"
)

func NewRouter(srv *host.Server, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(log), gin.Recovery())

	sessions := NewSessionsHandler(srv.Registry())
	ws := websocket.NewHandler(func(r *http.Request, conn *websocket.Conn) {
		srv.Serve(r.Context(), conn)
	}, log)

	router.GET("/healthz", sessions.Health)
	router.GET("/api/sessions", sessions.GetLiveSessions)
	router.GET("/ws", gin.WrapF(ws.HandleWebSocket))

	return router
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", c.ClientIP()),
		)
	}
}
