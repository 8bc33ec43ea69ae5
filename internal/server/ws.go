package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveWS attaches a client to its session for state pushes. Plays go
// through the REST endpoints; the socket carries state and events back,
// plus on-demand snapshots.
func (h *Handler) serveWS(c echo.Context) error {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.Log.Debug("ws upgrade failed", zap.Error(err))
		return nil
	}
	defer conn.Close()

	// All replies go through the session's locked write path so they
	// never interleave with pushes from the REST handlers.
	s.attach(conn)
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return nil
		}
		switch msg.Type {
		case "request_state":
			s.sendSnapshot()
		case "clear_trick":
			s.clearTrickAndSend()
		default:
			s.sendError("unknown_type", "unknown message type")
		}
	}
}

type clientMessage struct {
	Type string `json:"type"`
}
