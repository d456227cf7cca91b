package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ServeFunc runs one game over an upgraded connection. The handler closes
// the connection once it returns.
type ServeFunc func(r *http.Request, conn *Conn)

// Handler upgrades HTTP requests and hands each connection to a ServeFunc.
type Handler struct {
	Upgrader websocket.Upgrader
	serve    ServeFunc
	log      *zap.Logger
}

func NewHandler(serve ServeFunc, log *zap.Logger) *Handler {
	return &Handler{
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		serve: serve,
		log:   log.Named("ws"),
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	conn := NewConn(ws)
	defer conn.Close()
	conn.KeepAlive()

	h.log.Debug("connection opened", zap.String("remote", conn.RemoteAddr()))
	h.serve(r, conn)
	h.log.Debug("connection closed", zap.String("remote", conn.RemoteAddr()))
}
