package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lobby/internal/adapters/errcode"
	"github.com/dkeye/Lobby/internal/core"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, s *session) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(s.sid)).Int64("room", int64(s.roomID)).Msg("readPump closing")
		cancel()
		ctl.chat.Prune()
		ctl.Orch.Disconnect(s.roomID, s.sid)
		s.conn.Close()
	}()

	pongWait := ctl.opts.PingPeriod * 10 / 9
	_ = s.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.conn.SetPongHandler(func(string) error {
		return s.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := s.conn.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump read error")
				}
				return
			}
			if err := ctl.dispatch(s, data); err != nil {
				ctl.sendError(s.conn, err)
			}
		}
	}
}

// dispatch routes one inbound frame through the event table.
func (ctl *SignalWSController) dispatch(s *session, data []byte) error {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %v", errcode.ErrBadPayload, err)
	}
	h, ok := ctl.handlers[env.Type]
	if !ok {
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		return fmt.Errorf("%w: %q", errcode.ErrUnknownEvent, env.Type)
	}
	return h(s, data)
}

// decode unmarshals and validates an event payload.
func (ctl *SignalWSController) decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errcode.ErrBadPayload, err)
	}
	if err := ctl.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errcode.ErrBadPayload, err)
	}
	return nil
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, err error) {
	frame, ferr := errorFrame(err)
	if ferr != nil {
		log.Error().Err(ferr).Str("module", "signal").Msg("encode error frame")
		return
	}
	_ = c.TrySend(frame)
}

func errorFrame(err error) (core.Frame, error) {
	return json.Marshal(struct {
		Type string         `json:"type"`
		Data errcode.Status `json:"data"`
	}{
		Type: "error",
		Data: errcode.Of(err),
	})
}
