package app

import "github.com/vkoval/watchparty/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

type Policy interface {
	OnBackPressure(room core.RoomService, sid core.SessionID) BackpressureAction
}

// KickSlowPolicy disconnects members whose send buffer is full, so one
// stalled client cannot hold frames for the rest of the room.
type KickSlowPolicy struct{}

func (KickSlowPolicy) OnBackPressure(room core.RoomService, sid core.SessionID) BackpressureAction {
	return KickMember
}
