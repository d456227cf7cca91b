package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connectfour/internal/service/host"
)

type SessionsHandler struct {
	Registry *host.Registry
}

func NewSessionsHandler(r *host.Registry) *SessionsHandler {
	return &SessionsHandler{Registry: r}
}

type liveSessionResponse struct {
	SessionID  string  `json:"sessionId"`
	Username   string  `json:"username"`
	Columns    int     `json:"columns"`
	Rows       int     `json:"rows"`
	MoveCount  int     `json:"moveCount"`
	Turn       string  `json:"turn"`
	Board      [][]int `json:"board"`
	StartedAt  string  `json:"startedAt"`
	LastActive string  `json:"lastActive"`
}

// GetLiveSessions lists the games the host is currently playing.
func (h *SessionsHandler) GetLiveSessions(c *gin.Context) {
	sessions := h.Registry.Sessions()

	response := make([]liveSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		game := s.Game()
		board := game.Board()
		response = append(response, liveSessionResponse{
			SessionID:  s.ID,
			Username:   s.Username(),
			Columns:    board.Columns(),
			Rows:       board.Rows(),
			MoveCount:  game.MoveCount(),
			Turn:       game.Turn().String(),
			Board:      board.Grid(),
			StartedAt:  s.CreatedAt.Format(time.RFC3339),
			LastActive: s.LastActive().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}

// Health reports liveness and the number of active sessions.
func (h *SessionsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.Registry.Count()})
}
