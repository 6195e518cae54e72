package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/jigsaw-server/internal/jigsaw"
	"github.com/vancomm/jigsaw-server/internal/session"
)

var errSessionEnded = errors.New("session ended")

// ConnectWS accepts newline separated commands and answers each message
// with the resulting state. Changes made by timers or by other clients are
// pushed as they happen.
func (h SessionHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	log := h.log.WithField("session", s.ID)
	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	replies := make(chan any)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		defer c.Close()
		return h.writeLoop(ctx, c, s, updates, replies)
	})
	g.Go(func() error {
		return h.readLoop(ctx, c, s, replies)
	})

	err = g.Wait()
	switch {
	case errors.Is(err, errSessionEnded):
		log.Debug("ws closed by session end")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		log.Debug("ws closed by client")
	case err != nil:
		log.WithError(err).Warn("abnormal ws break")
	}
}

func (h SessionHandler) readLoop(ctx context.Context, c *websocket.Conn, s *session.Session, replies chan<- any) error {
	c.SetReadLimit(h.ws.ReadLimit)
	_ = c.SetReadDeadline(time.Now().Add(h.ws.PongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(h.ws.PongWait))
	})

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return errors.New("unexpected binary message")
		}

		text := strings.TrimSpace(string(message))
		var cmdErr error
		snap, err := s.Do(func(g *jigsaw.Game) {
			for _, cmd := range iterBySep(text, "\n") {
				if cmdErr = executeCommand(g, cmd); cmdErr != nil {
					return
				}
			}
		})
		if err != nil {
			return errSessionEnded
		}

		var reply any = NewSessionDTO(s, snap)
		if cmdErr != nil {
			reply = wrapError(cmdErr)
		}
		select {
		case replies <- reply:
		case <-ctx.Done():
			return nil
		}
	}
}

// writeLoop is the connection's only writer.
func (h SessionHandler) writeLoop(
	ctx context.Context,
	c *websocket.Conn,
	s *session.Session,
	updates <-chan jigsaw.Snapshot,
	replies <-chan any,
) error {
	ticker := time.NewTicker(h.ws.PingPeriod)
	defer ticker.Stop()

	write := func(v any) error {
		_ = c.SetWriteDeadline(time.Now().Add(h.ws.WriteWait))
		return c.WriteJSON(v)
	}
	if err := write(NewSessionDTO(s, s.Snapshot())); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-updates:
			if !ok {
				_ = c.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
					time.Now().Add(h.ws.WriteWait),
				)
				return errSessionEnded
			}
			if err := write(NewSessionDTO(s, snap)); err != nil {
				return err
			}
		case reply := <-replies:
			if err := write(reply); err != nil {
				return err
			}
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.ws.WriteWait)); err != nil {
				return err
			}
		}
	}
}
