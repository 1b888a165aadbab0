package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkoval/watchparty/internal/core"
	"github.com/vkoval/watchparty/internal/domain"
)

type fakeSignal struct {
	mu      sync.Mutex
	frames  []core.Frame
	sendErr error
}

func (f *fakeSignal) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeSignal) Close() {}

func (f *fakeSignal) received() []core.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

func newOrchestrator() *Orchestrator {
	return &Orchestrator{
		Sessions: NewRegistry(),
		Rooms:    NewRoomRegistry(),
		Policy:   KickSlowPolicy{},
	}
}

func bind(t *testing.T, o *Orchestrator, sid core.SessionID, name string) *fakeSignal {
	t.Helper()
	sig := &fakeSignal{}
	sess := core.NewMemberSession(&domain.Participant{ConnectionID: string(sid), Name: name}, sig)
	o.Sessions.Bind(sid, sess, func() {})
	return sig
}

func TestOrchestrator_JoinLeaveLifecycle(t *testing.T) {
	o := newOrchestrator()
	bind(t, o, "a", "Alice")
	bind(t, o, "b", "Bob")

	snap, ok := o.Join("a", "movie-night")
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("movie-night"), snap.RoomID)
	require.Len(t, snap.Participants, 1)
	assert.Equal(t, "Alice", snap.Participants[0].Name)
	assert.False(t, snap.Playback.IsPlaying)

	snap, ok = o.Join("b", "movie-night")
	require.True(t, ok)
	assert.Len(t, snap.Participants, 2)

	res, ok := o.Leave("b")
	require.True(t, ok)
	assert.Equal(t, "Bob", res.Name)
	assert.False(t, res.RoomGone)
	require.Len(t, res.Remaining, 1)
	assert.Equal(t, "Alice", res.Remaining[0].Name)

	res, ok = o.Leave("a")
	require.True(t, ok)
	assert.True(t, res.RoomGone)

	_, ok = o.Rooms.Get("movie-night")
	assert.False(t, ok, "empty room must be deleted from the registry")
}

func TestOrchestrator_LeaveIdempotent(t *testing.T) {
	o := newOrchestrator()
	bind(t, o, "a", "Alice")

	_, ok := o.Leave("a")
	assert.False(t, ok, "leave without membership")

	o.Join("a", "r1")
	_, ok = o.Leave("a")
	assert.True(t, ok)
	_, ok = o.Leave("a")
	assert.False(t, ok, "double leave")
}

func TestOrchestrator_SingleMembership(t *testing.T) {
	o := newOrchestrator()
	bind(t, o, "a", "Alice")
	bind(t, o, "b", "Bob")

	o.Join("a", "roomA")
	o.Join("b", "roomA")

	// switching rooms: the caller leaves first, as the controller does
	res, ok := o.Leave("a")
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("roomA"), res.RoomID)
	o.Join("a", "roomB")

	roomA, ok := o.Rooms.Get("roomA")
	require.True(t, ok)
	assert.Equal(t, 1, roomA.ParticipantCount())

	roomB, ok := o.Rooms.Get("roomB")
	require.True(t, ok)
	assert.Equal(t, 1, roomB.ParticipantCount())

	roomID, _, ok := o.Sessions.RoomOf("a")
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("roomB"), roomID)
}

func TestOrchestrator_JoinUnboundSession(t *testing.T) {
	o := newOrchestrator()
	_, ok := o.Join("ghost", "r1")
	assert.False(t, ok)
	_, ok = o.Rooms.Get("r1")
	assert.False(t, ok, "failed join must not leave a room behind")
}

func TestOrchestrator_ApplyAction(t *testing.T) {
	o := newOrchestrator()
	bind(t, o, "a", "Alice")
	o.Join("a", "r1")

	st, ok := o.ApplyAction("r1", domain.ActionPlay, 42)
	require.True(t, ok)
	assert.True(t, st.IsPlaying)
	assert.Equal(t, 42.0, st.CurrentTime)

	// unknown room: silent drop, nothing created
	_, ok = o.ApplyAction("nowhere", domain.ActionPlay, 1)
	assert.False(t, ok)
	_, exists := o.Rooms.Get("nowhere")
	assert.False(t, exists)

	// unrecognized action: no mutation, but still ok for rebroadcast
	st, ok = o.ApplyAction("r1", domain.Action("rewind"), 0)
	require.True(t, ok)
	assert.True(t, st.IsPlaying)
	assert.Equal(t, 42.0, st.CurrentTime)
}

func TestOrchestrator_BroadcastExcludesOrigin(t *testing.T) {
	o := newOrchestrator()
	aliceSig := bind(t, o, "a", "Alice")
	bobSig := bind(t, o, "b", "Bob")
	carolSig := bind(t, o, "c", "Carol")
	o.Join("a", "r1")
	o.Join("b", "r1")
	o.Join("c", "r1")

	o.Broadcast("r1", "a", core.Frame("ev"))

	assert.Empty(t, aliceSig.received())
	assert.Len(t, bobSig.received(), 1)
	assert.Len(t, carolSig.received(), 1)

	// absent room is a no-op
	o.Broadcast("nowhere", "a", core.Frame("ev"))
}

// A join racing the previous member's last leave must end with the
// joiner present in a registered room, never stranded in a room the
// leave deleted out from under them.
func TestOrchestrator_JoinNotLostToConcurrentLeave(t *testing.T) {
	for i := 0; i < 200; i++ {
		o := newOrchestrator()
		bind(t, o, "a", "Alice")
		bind(t, o, "b", "Bob")
		o.Join("a", "r1")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			o.Leave("a")
		}()
		go func() {
			defer wg.Done()
			o.Join("b", "r1")
		}()
		wg.Wait()

		room, ok := o.Rooms.Get("r1")
		require.True(t, ok, "joiner's room must stay registered")
		assert.Equal(t, 1, room.ParticipantCount())
	}
}

func TestOrchestrator_BackpressureKicksSlowMember(t *testing.T) {
	o := newOrchestrator()
	bind(t, o, "a", "Alice")

	canceled := false
	slowSig := &fakeSignal{sendErr: errors.New("buffer full")}
	slow := core.NewMemberSession(&domain.Participant{ConnectionID: "s", Name: "Slow"}, slowSig)
	o.Sessions.Bind("s", slow, func() { canceled = true })

	o.Join("a", "r1")
	o.Join("s", "r1")

	o.Broadcast("r1", "a", core.Frame("ev"))

	assert.True(t, canceled, "slow member's session must be canceled")
}
