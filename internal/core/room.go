package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vkoval/watchparty/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room  *domain.Room
	mu    sync.RWMutex
	bySID map[SessionID]MemberSession
	state domain.PlaybackState
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:  room,
		bySID: make(map[SessionID]MemberSession),
		state: domain.NewPlaybackState(time.Now().UnixMilli()),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) ParticipantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) AddMember(sid SessionID, ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySID[sid] = ms
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("member added")
}

func (r *roomImpl) RemoveMember(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySID, sid)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("member removed")
}

func (r *roomImpl) Participants() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Participant, 0, len(r.bySID))
	for _, ms := range r.bySID {
		out = append(out, *ms.Meta())
	}
	return out
}

func (r *roomImpl) Playback() domain.PlaybackState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// ApplyAction serializes playback mutations under the room lock,
// so concurrent actions resolve by arrival order.
func (r *roomImpl) ApplyAction(a domain.Action, t float64) (domain.PlaybackState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	applied := r.state.Apply(a, t, time.Now().UnixMilli())
	return r.state, applied
}

func (r *roomImpl) Broadcast(from SessionID, f Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for sid, m := range r.bySID {
		if sid == from {
			continue
		}
		if err := m.Signal().TrySend(f); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
