package domain

// Action is a playback command relayed between participants.
type Action string

const (
	ActionPlay  Action = "play"
	ActionPause Action = "pause"
	ActionSeek  Action = "seek"
)

func (a Action) Known() bool {
	switch a {
	case ActionPlay, ActionPause, ActionSeek:
		return true
	}
	return false
}

// PlaybackState is the room-wide last-known-intended play/pause/position snapshot.
// It is advisory: clients report positions, the server never verifies them.
// LastUpdate is unix milliseconds.
type PlaybackState struct {
	IsPlaying   bool    `json:"isPlaying"`
	CurrentTime float64 `json:"currentTime"`
	LastUpdate  int64   `json:"lastUpdate"`
}

func NewPlaybackState(now int64) PlaybackState {
	return PlaybackState{LastUpdate: now}
}

// Apply mutates the state for a playback action, last writer wins.
// Unknown actions leave the state untouched and report false.
func (s *PlaybackState) Apply(a Action, time float64, now int64) bool {
	switch a {
	case ActionPlay:
		s.IsPlaying = true
		s.CurrentTime = time
	case ActionPause:
		s.IsPlaying = false
		s.CurrentTime = time
	case ActionSeek:
		s.CurrentTime = time
	default:
		return false
	}
	s.LastUpdate = now
	return true
}
