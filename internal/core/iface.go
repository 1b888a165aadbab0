package core

import "github.com/vkoval/watchparty/internal/domain"

// Frame is an encoded event ready for the wire.
type Frame []byte

type SessionID string

// SignalConnection abstracts the event transport of one client.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds domain.Participant and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	Meta() *domain.Participant
	Signal() SignalConnection
}

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// RoomService is the core-facing API of a room.
// It owns the membership set and the canonical playback state,
// but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	ParticipantCount() int
	Participants() []domain.Participant

	AddMember(sid SessionID, ms MemberSession)
	RemoveMember(sid SessionID)

	Playback() domain.PlaybackState
	ApplyAction(a domain.Action, time float64) (domain.PlaybackState, bool)

	Broadcast(from SessionID, f Frame) PublishResult
}

type RoomInfo struct {
	ID           domain.RoomID `json:"id"`
	Participants int           `json:"participants"`
}

// RoomRegistry is the process-wide set of live rooms.
// Get never creates; Remove of an absent room is a no-op.
//
// JoinRoom and LeaveRoom change membership inside the registry's own
// critical section, so a join can never land in a room a concurrent
// last-leave is deleting. LeaveRoom drops the room when it empties;
// empty reports that, ok=false means the room was unknown.
type RoomRegistry interface {
	GetOrCreate(id domain.RoomID) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	Remove(id domain.RoomID)
	List() []RoomInfo

	JoinRoom(id domain.RoomID, sid SessionID, ms MemberSession) RoomService
	LeaveRoom(id domain.RoomID, sid SessionID) (room RoomService, empty, ok bool)
}
