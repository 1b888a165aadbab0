package signal

import "github.com/vkoval/watchparty/internal/domain"

// Wire event names. One struct per event so payload shapes stay fixed
// instead of open-ended maps.
const (
	EventJoinRoom    = "join-room"
	EventVideoAction = "video-action"
	EventPing        = "ping"

	EventRoomState  = "room-state"
	EventUserJoined = "user-joined"
	EventUserLeft   = "user-left"
	EventSyncVideo  = "sync-video"
	EventPong       = "pong"
	EventError      = "error"
)

// RoomStateEvent is the full snapshot sent to a fresh joiner only.
type RoomStateEvent struct {
	Type         string               `json:"type"`
	Participants []domain.Participant `json:"participants"`
	VideoState   domain.PlaybackState `json:"videoState"`
}

// UserJoinedEvent goes to everyone already in the room.
type UserJoinedEvent struct {
	Type         string               `json:"type"`
	UserName     string               `json:"userName"`
	Participants []domain.Participant `json:"participants"`
}

// UserLeftEvent goes to the remaining members after a leave or disconnect.
type UserLeftEvent struct {
	Type         string               `json:"type"`
	UserName     string               `json:"userName"`
	Participants []domain.Participant `json:"participants"`
}

// SyncVideoEvent relays a playback action to the rest of the room.
// Timestamp is server receive time, unix milliseconds.
type SyncVideoEvent struct {
	Type      string  `json:"type"`
	Action    string  `json:"action"`
	Time      float64 `json:"time"`
	Timestamp int64   `json:"timestamp"`
	From      string  `json:"from"`
}

type PongEvent struct {
	Type string `json:"type"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
