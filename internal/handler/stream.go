package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"netmap/internal/hub"
	"netmap/internal/service"
	"netmap/internal/view"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsWriteWait  = 10 * time.Second
)

// Client message types
const (
	MsgPointer      = "pointer"
	MsgResize       = "resize"
	MsgFit          = "fit"
	MsgSelect       = "select"
	MsgCloseSidebar = "close-sidebar"
	MsgScope        = "scope"
	MsgError        = "error"
)

// StreamRequest is one message a WebSocket client sends
type StreamRequest struct {
	Type    string                `json:"type"`
	Pointer *service.PointerInput `json:"pointer,omitempty"`
	Resize  *service.ResizeInput  `json:"resize,omitempty"`
	Pane    view.PaneID           `json:"pane,omitempty"`
	ID      string                `json:"id,omitempty"`
	Scope   string                `json:"scope,omitempty"`
}

// Stream upgrades to a WebSocket that carries pointer, resize and selection
// input in and the session's frames and selection changes out
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Str("origin", r.Header.Get("Origin")).
			Msg("Failed to upgrade to WebSocket")
		return
	}
	defer conn.Close()

	client, ok := s.Hub().Subscribe()
	if !ok {
		_ = conn.WriteJSON(hub.Message{Type: MsgError, Data: errorData("session closed")})
		return
	}
	defer s.Hub().Unsubscribe(client)

	log := h.log.With().Str("session_id", s.ID()).Str("client_id", client.ID()).Logger()
	log.Debug().Str("remote_addr", r.RemoteAddr).Msg("WebSocket connection established")
	start := time.Now()
	defer func() {
		log.Debug().Dur("duration", time.Since(start)).Msg("WebSocket connection closed")
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	replies := make(chan hub.Message, 8)
	go h.readMessages(ctx, cancel, conn, s, replies)

	// Initial frame so the client can paint before the first tick
	if err := writeMessage(conn, hub.EventFrame, s.Frame()); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client.Events():
			if !ok {
				_ = writeMessage(conn, hub.EventClosed, struct{}{})
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case msg := <-replies:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

// readMessages applies client input until the connection drops
func (h *SessionHandler) readMessages(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, s *service.Session, replies chan<- hub.Message) {
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var req StreamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("session_id", s.ID()).Msg("WebSocket read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		if err := apply(s, req); err != nil {
			select {
			case replies <- hub.Message{Type: MsgError, Data: errorData(err.Error())}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func apply(s *service.Session, req StreamRequest) error {
	switch req.Type {
	case MsgPointer:
		if req.Pointer == nil {
			return fmt.Errorf("%w: pointer message without pointer", service.ErrInvalidInput)
		}
		_, err := s.Pointer(*req.Pointer)
		return err
	case MsgResize:
		if req.Resize == nil {
			return fmt.Errorf("%w: resize message without size", service.ErrInvalidInput)
		}
		return s.Resize(*req.Resize)
	case MsgFit:
		pane := req.Pane
		if pane == "" {
			pane = view.PaneMain
		}
		return s.FitView(pane)
	case MsgSelect:
		return s.Select(req.ID)
	case MsgCloseSidebar:
		s.CloseSidebar()
		return nil
	case MsgScope:
		return s.SetScope(req.Scope)
	default:
		return fmt.Errorf("%w: unknown message type %q", service.ErrInvalidInput, req.Type)
	}
}

func writeMessage(conn *websocket.Conn, eventType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(hub.Message{Type: eventType, Data: raw})
}

func errorData(msg string) json.RawMessage {
	raw, _ := json.Marshal(ErrorResponse{Error: msg})
	return raw
}
