package core

import "github.com/vkoval/watchparty/internal/domain"

// memberSession implements MemberSession by pairing meta + transport.
type memberSession struct {
	meta   *domain.Participant
	signal SignalConnection
}

func NewMemberSession(meta *domain.Participant, sig SignalConnection) MemberSession {
	return &memberSession{meta: meta, signal: sig}
}

func (m *memberSession) Meta() *domain.Participant { return m.meta }
func (m *memberSession) Signal() SignalConnection  { return m.signal }
