package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
)

// errorReply is sent as a text message when a frame cannot be rendered.
type errorReply struct {
	Error string `json:"error"`
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept", "err", err)
		return
	}
	defer c.CloseNow()

	s.logger.Info("websocket connected", "remote", r.RemoteAddr)
	err = s.serveFrames(r.Context(), c)

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure, status == websocket.StatusGoingAway:
		c.Close(websocket.StatusNormalClosure, "")
	case errors.Is(err, context.Canceled):
	default:
		s.logger.Warn("websocket closed", "remote", r.RemoteAddr, "err", err)
		c.Close(websocket.StatusInternalError, "render loop failed")
	}
}

// serveFrames answers each request message with a PNG frame until the
// peer goes away.
func (s *Server) serveFrames(ctx context.Context, c *websocket.Conn) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			if err := s.writeError(ctx, c, "expected a JSON text message"); err != nil {
				return err
			}
			continue
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			if err := s.writeError(ctx, c, "bad request: "+err.Error()); err != nil {
				return err
			}
			continue
		}

		png, err := s.render(ctx, req)
		if err != nil {
			if err := s.writeError(ctx, c, err.Error()); err != nil {
				return err
			}
			continue
		}
		if err := c.Write(ctx, websocket.MessageBinary, png); err != nil {
			return err
		}
	}
}

func (s *Server) writeError(ctx context.Context, c *websocket.Conn, msg string) error {
	data, err := json.Marshal(errorReply{Error: msg})
	if err != nil {
		return err
	}
	return c.Write(ctx, websocket.MessageText, data)
}
