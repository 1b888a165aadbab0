package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vkoval/watchparty/internal/core"
	"github.com/vkoval/watchparty/internal/domain"
)

func (ctl *Controller) handleVideoAction(sid core.SessionID, reply core.SignalConnection, data []byte) {
	type actionPayload struct {
		Type   string  `json:"type"`
		Action string  `json:"action"`
		Time   float64 `json:"time"`
		RoomID string  `json:"roomId"`
	}
	var p actionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad video-action payload")
		ctl.sendJSON(reply, ErrorEvent{Type: EventError, Error: "bad_payload"})
		return
	}
	if p.RoomID == "" {
		return
	}

	// Actions for rooms that don't exist are dropped without a reply;
	// the sync channel is lossy by contract.
	if _, ok := ctl.Orch.ApplyAction(domain.RoomID(p.RoomID), domain.Action(p.Action), p.Time); !ok {
		return
	}

	from := "guest"
	if sess, ok := ctl.Orch.Sessions.Get(sid); ok {
		from = sess.Meta().Name
	}

	ctl.broadcastJSON(domain.RoomID(p.RoomID), sid, SyncVideoEvent{
		Type:      EventSyncVideo,
		Action:    p.Action,
		Time:      p.Time,
		Timestamp: time.Now().UnixMilli(),
		From:      from,
	})
	log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Str("action", p.Action).Float64("time", p.Time).Msg("video action")
}
