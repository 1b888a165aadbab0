// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxNameLen = 36

var (
	ErrNameTooLong = errors.New("display name too long")
	ErrNameEmpty   = errors.New("display name empty")
)

// Participant is a client's membership record within a Room.
// ConnectionID is assigned by the transport layer and unique per live connection.
type Participant struct {
	ConnectionID string `json:"id"`
	Name         string `json:"name"`
}

// NewParticipant is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewParticipant(connID, name string) (*Participant, error) {
	p := &Participant{ConnectionID: connID}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	return p, nil
}

// ValidateName checks a display name without touching any participant,
// so callers can reject a name before committing to a rename.
func ValidateName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	return nil
}

func (p *Participant) SetName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	p.Name = name
	return nil
}
