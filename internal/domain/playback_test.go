package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaybackState_Apply(t *testing.T) {
	tests := []struct {
		name        string
		initial     PlaybackState
		action      Action
		time        float64
		wantApplied bool
		wantPlaying bool
		wantTime    float64
	}{
		{
			name:        "play sets position and playing",
			initial:     PlaybackState{},
			action:      ActionPlay,
			time:        42,
			wantApplied: true,
			wantPlaying: true,
			wantTime:    42,
		},
		{
			name:        "pause sets position and stops",
			initial:     PlaybackState{IsPlaying: true, CurrentTime: 10},
			action:      ActionPause,
			time:        42,
			wantApplied: true,
			wantPlaying: false,
			wantTime:    42,
		},
		{
			name:        "seek keeps playing flag",
			initial:     PlaybackState{IsPlaying: true, CurrentTime: 99},
			action:      ActionSeek,
			time:        10,
			wantApplied: true,
			wantPlaying: true,
			wantTime:    10,
		},
		{
			name:        "seek while paused stays paused",
			initial:     PlaybackState{IsPlaying: false, CurrentTime: 5},
			action:      ActionSeek,
			time:        30,
			wantApplied: true,
			wantPlaying: false,
			wantTime:    30,
		},
		{
			name:        "unknown action mutates nothing",
			initial:     PlaybackState{IsPlaying: true, CurrentTime: 7},
			action:      Action("rewind"),
			time:        0,
			wantApplied: false,
			wantPlaying: true,
			wantTime:    7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.initial
			applied := st.Apply(tt.action, tt.time, 1000)

			assert.Equal(t, tt.wantApplied, applied)
			assert.Equal(t, tt.wantPlaying, st.IsPlaying)
			assert.Equal(t, tt.wantTime, st.CurrentTime)
			if applied {
				assert.Equal(t, int64(1000), st.LastUpdate)
			} else {
				assert.Zero(t, st.LastUpdate)
			}
		})
	}
}

func TestAction_Known(t *testing.T) {
	assert.True(t, ActionPlay.Known())
	assert.True(t, ActionPause.Known())
	assert.True(t, ActionSeek.Known())
	assert.False(t, Action("stop").Known())
	assert.False(t, Action("").Known())
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Alice"))
	assert.ErrorIs(t, ValidateName(""), ErrNameEmpty)

	long := make([]byte, MaxNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, ValidateName(string(long)), ErrNameTooLong)
}

func TestNewParticipant(t *testing.T) {
	p, err := NewParticipant("conn-1", "Alice")
	assert.NoError(t, err)
	assert.Equal(t, "conn-1", p.ConnectionID)
	assert.Equal(t, "Alice", p.Name)

	_, err = NewParticipant("conn-2", "")
	assert.ErrorIs(t, err, ErrNameEmpty)

	long := make([]byte, MaxNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NewParticipant("conn-3", string(long))
	assert.ErrorIs(t, err, ErrNameTooLong)
}
