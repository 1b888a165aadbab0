package app

import (
	"github.com/rs/zerolog/log"

	"github.com/vkoval/watchparty/internal/core"
	"github.com/vkoval/watchparty/internal/domain"
)

// Orchestrator applies room lifecycle and playback transitions against the
// registries. Event encoding stays in the adapters; this layer only moves
// state and fans frames out.
type Orchestrator struct {
	Sessions *Registry
	Rooms    core.RoomRegistry
	Policy   Policy
}

// RoomSnapshot is what a fresh joiner sees: the full participant list and
// the room's canonical playback state.
type RoomSnapshot struct {
	RoomID       domain.RoomID
	Participants []domain.Participant
	Playback     domain.PlaybackState
}

// LeaveResult carries what remains of the departed room so the caller can
// notify it. RoomGone is set when the leaver was the last participant and
// the room has been dropped from the registry.
type LeaveResult struct {
	RoomID    domain.RoomID
	Name      string
	Remaining []domain.Participant
	RoomGone  bool
}

// Join registers the session in the room, creating it on first join.
// The caller must Leave any previous room first; a session holds at most
// one membership at a time.
func (o *Orchestrator) Join(sid core.SessionID, roomID domain.RoomID) (RoomSnapshot, bool) {
	sess, ok := o.Sessions.Get(sid)
	if !ok {
		return RoomSnapshot{}, false
	}
	room := o.Rooms.JoinRoom(roomID, sid, sess)
	o.Sessions.UpdateRoom(sid, roomID)
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", string(roomID)).Msg("joined room")
	return RoomSnapshot{
		RoomID:       roomID,
		Participants: room.Participants(),
		Playback:     room.Playback(),
	}, true
}

// Leave removes the session from its room, dropping the room when it
// empties. Idempotent: a session without a room reports ok=false.
func (o *Orchestrator) Leave(sid core.SessionID) (LeaveResult, bool) {
	roomID, sess, ok := o.Sessions.RoomOf(sid)
	if !ok {
		return LeaveResult{}, false
	}
	o.Sessions.ClearRoom(sid)
	room, empty, ok := o.Rooms.LeaveRoom(roomID, sid)
	if !ok {
		return LeaveResult{}, false
	}
	res := LeaveResult{RoomID: roomID, Name: sess.Meta().Name}
	if empty {
		res.RoomGone = true
		log.Info().Str("module", "app.orchestrator").Str("room", string(roomID)).Msg("room removed (empty)")
		return res, true
	}
	res.Remaining = room.Participants()
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", string(roomID)).Msg("left room")
	return res, true
}

// ApplyAction updates the room's canonical playback state, last writer
// wins. Actions for absent rooms are dropped: ok=false and no state moves.
// An unknown action mutates nothing but still reports ok, so the caller
// relays it unchanged.
func (o *Orchestrator) ApplyAction(roomID domain.RoomID, a domain.Action, t float64) (domain.PlaybackState, bool) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		log.Debug().Str("module", "app.orchestrator").Str("room", string(roomID)).Msg("action for unknown room dropped")
		return domain.PlaybackState{}, false
	}
	if !a.Known() {
		log.Warn().Str("module", "app.orchestrator").Str("room", string(roomID)).Str("action", string(a)).Msg("unrecognized action, relaying unchanged")
	}
	st, _ := room.ApplyAction(a, t)
	return st, true
}

// Broadcast fans a frame out to every room member except from.
// Best-effort: members whose send buffer is full are handed to the
// backpressure policy. A missing room is a no-op.
func (o *Orchestrator) Broadcast(roomID domain.RoomID, from core.SessionID, f core.Frame) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return
	}
	res := room.Broadcast(from, f)
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case KickMember:
			o.Sessions.Cancel(slow)
		case DropFrame, NoAction:
		}
	}
}
