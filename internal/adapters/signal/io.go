package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/vkoval/watchparty/internal/core"
	"github.com/vkoval/watchparty/internal/domain"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Closing the socket unblocks the read pump, which runs
			// the disconnect cleanup exactly once.
			c.Close()
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid core.SessionID, c *WsConn) {
	defer func() {
		// A fault in one connection's handling must not take the
		// process down with it; the session still gets cleaned up.
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("module", "signal").Str("sid", string(sid)).Msg("recovered in readPump")
		}
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		c.Close()
		ctl.disconnect(sid)
	}()

	pongWait := ctl.cfg.PingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleMessage(sid, c, data)
		}
	}
}

// handleMessage dispatches one inbound frame by its type tag.
func (ctl *Controller) handleMessage(sid core.SessionID, reply core.SignalConnection, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendJSON(reply, ErrorEvent{Type: EventError, Error: "bad_payload"})
		return
	}

	switch env.Type {
	case EventJoinRoom:
		ctl.handleJoin(sid, reply, data)
	case EventVideoAction:
		ctl.handleVideoAction(sid, reply, data)
	case EventPing:
		ctl.sendJSON(reply, PongEvent{Type: EventPong})
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

// disconnect tears down the session. Safe to run twice: every step is a
// no-op once the session is gone.
func (ctl *Controller) disconnect(sid core.SessionID) {
	if res, ok := ctl.Orch.Leave(sid); ok && !res.RoomGone {
		ctl.broadcastJSON(res.RoomID, sid, UserLeftEvent{
			Type:         EventUserLeft,
			UserName:     res.Name,
			Participants: res.Remaining,
		})
	}
	ctl.Orch.Sessions.Cancel(sid)
	ctl.Orch.Sessions.Unbind(sid)
}

func (ctl *Controller) sendJSON(sc core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = sc.TrySend(b)
}

func (ctl *Controller) broadcastJSON(roomID domain.RoomID, from core.SessionID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	ctl.Orch.Broadcast(roomID, from, b)
}
