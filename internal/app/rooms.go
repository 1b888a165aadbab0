package app

import (
	"sync"

	"github.com/vkoval/watchparty/internal/core"
	"github.com/vkoval/watchparty/internal/domain"
)

type RoomRegistryImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomRegistry() core.RoomRegistry {
	return &RoomRegistryImpl{rooms: make(map[domain.RoomID]core.RoomService)}
}

func (f *RoomRegistryImpl) GetOrCreate(id domain.RoomID) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getOrCreateLocked(id)
}

func (f *RoomRegistryImpl) getOrCreateLocked(id domain.RoomID) core.RoomService {
	room, ok := f.rooms[id]
	if !ok {
		room = core.NewRoomService(&domain.Room{ID: id})
		f.rooms[id] = room
	}
	return room
}

// JoinRoom registers the member, creating the room on first join. The
// membership change shares the registry lock with LeaveRoom's
// delete-if-empty, so the new member cannot be stranded in a room that
// a concurrent last-leave just dropped from the registry.
func (f *RoomRegistryImpl) JoinRoom(id domain.RoomID, sid core.SessionID, ms core.MemberSession) core.RoomService {
	f.mu.Lock()
	defer f.mu.Unlock()
	room := f.getOrCreateLocked(id)
	room.AddMember(sid, ms)
	return room
}

// LeaveRoom removes the member and, in the same critical section,
// deletes the room when it empties.
func (f *RoomRegistryImpl) LeaveRoom(id domain.RoomID, sid core.SessionID) (core.RoomService, bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil, false, false
	}
	room.RemoveMember(sid)
	if room.ParticipantCount() == 0 {
		delete(f.rooms, id)
		return room, true, true
	}
	return room, false, true
}

func (f *RoomRegistryImpl) Get(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomRegistryImpl) Remove(id domain.RoomID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, id)
}

func (f *RoomRegistryImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{ID: id, Participants: r.ParticipantCount()})
	}
	return out
}
