package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/auth"
	"github.com/handsnminds/platform/internal/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type SessionWS struct {
	Notifier *auth.Notifier
}

// Stream pushes the caller's session transitions over a websocket. On
// connect the current snapshot is sent first so a late subscriber starts
// from known state. Events belonging to other users never cross the wire,
// and token fields are never serialized.
func (h *SessionWS) Stream(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "session_stream")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("session_stream_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		l.Warn("ws_upgrade_failed", "error", err)
		return nil
	}
	defer conn.Close()

	events, cancel := h.Notifier.Subscribe()
	defer cancel()

	// active tracks whether the last event forwarded established the
	// caller's session; only then does a clear concern this client.
	active := false
	snapshot := auth.SessionEvent{Type: auth.SessionCleared, At: time.Now().UTC()}
	if current := h.Notifier.Current(); current != nil && current.UserID == userID {
		snapshot = auth.SessionEvent{Type: auth.SessionEstablished, Session: current, At: time.Now().UTC()}
		active = true
	}
	if err := conn.WriteJSON(snapshot); err != nil {
		return nil
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Type {
			case auth.SessionEstablished:
				if ev.Session == nil || ev.Session.UserID != userID {
					continue
				}
				active = true
			case auth.SessionCleared:
				if !active {
					continue
				}
				active = false
			}
			if err := conn.WriteJSON(ev); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
