package domain

// RoomID is a client-chosen room name; the first joiner creates the room.
type RoomID string

type Room struct {
	ID RoomID
}
