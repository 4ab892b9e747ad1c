package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// wsMessage is one client frame. Type "restart" restarts the order;
// anything else is treated as a chat message.
type wsMessage struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

// wsConn pumps one session's chat over a websocket. Turns are processed
// in the read loop, so a connection never has two turns in flight.
type wsConn struct {
	srv  *Server
	id   string
	conn *websocket.Conn
	send chan []byte
}

func (s *Server) handleWebSocket(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.asst.Session(c.Request.Context(), id); err != nil {
		s.sessionError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("ws: upgrade failed for %s: %v", id, err)
		return
	}

	ws := &wsConn{srv: s, id: id, conn: conn, send: make(chan []byte, 16)}
	go ws.writePump()
	go ws.readPump()
	s.log.Debug("ws: session %s connected", id)
}

func (w *wsConn) readPump() {
	defer func() {
		close(w.send)
		w.srv.log.Debug("ws: session %s disconnected", w.id)
	}()

	w.conn.SetReadLimit(wsReadLimit)
	w.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, raw, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.srv.log.Warn("ws: session %s read error: %v", w.id, err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			w.push(errorResponse{Error: "invalid message"})
			continue
		}
		if !w.handle(msg) {
			return
		}
	}
}

// handle runs one turn and queues the reply. It returns false when the
// session is gone and the connection should close.
func (w *wsConn) handle(msg wsMessage) bool {
	ctx, cancel := context.WithTimeout(context.Background(), w.srv.turnTimeout)
	defer cancel()

	var (
		res *domain.TurnResult
		err error
	)
	if msg.Type == "restart" {
		res, err = w.srv.asst.Restart(ctx, w.id)
	} else {
		res, err = w.srv.asst.Chat(ctx, w.id, msg.Message)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			w.push(errorResponse{Error: "session not found"})
			return false
		}
		w.srv.log.Error("ws: session %s turn: %v", w.id, err)
		w.push(errorResponse{Error: "internal error"})
		return true
	}
	w.push(w.srv.newTurnResponse(w.id, res))
	return true
}

func (w *wsConn) push(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.srv.log.Error("ws: marshal: %v", err)
		return
	}
	select {
	case w.send <- data:
	default:
		w.srv.log.Warn("ws: session %s send buffer full, dropping frame", w.id)
	}
}

func (w *wsConn) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		w.conn.Close()
	}()

	for {
		select {
		case data, ok := <-w.send:
			w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
