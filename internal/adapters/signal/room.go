package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/vkoval/watchparty/internal/core"
	"github.com/vkoval/watchparty/internal/domain"
)

func (ctl *Controller) handleJoin(sid core.SessionID, reply core.SignalConnection, data []byte) {
	type joinPayload struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		UserName string `json:"userName"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(reply, ErrorEvent{Type: EventError, Error: "bad_payload"})
		return
	}

	sess, ok := ctl.Orch.Sessions.Get(sid)
	if !ok {
		return
	}
	if err := domain.ValidateName(p.UserName); err != nil {
		ctl.sendJSON(reply, ErrorEvent{Type: EventError, Error: "invalid_name"})
		return
	}

	// One room at a time: departing the old room notifies whoever stays.
	// The rename waits until after this broadcast so the old room says
	// goodbye to the name it knew.
	if prior, ok := ctl.Orch.Leave(sid); ok && !prior.RoomGone {
		ctl.broadcastJSON(prior.RoomID, sid, UserLeftEvent{
			Type:         EventUserLeft,
			UserName:     prior.Name,
			Participants: prior.Remaining,
		})
	}
	_ = sess.Meta().SetName(p.UserName)

	snap, ok := ctl.Orch.Join(sid, domain.RoomID(p.RoomID))
	if !ok {
		return
	}

	ctl.sendJSON(reply, RoomStateEvent{
		Type:         EventRoomState,
		Participants: snap.Participants,
		VideoState:   snap.Playback,
	})

	ctl.broadcastJSON(snap.RoomID, sid, UserJoinedEvent{
		Type:         EventUserJoined,
		UserName:     p.UserName,
		Participants: snap.Participants,
	})
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Str("name", p.UserName).Msg("join")
}
