package session

import (
	"fmt"
	"time"
)

// Performance records the outcome of a closed session. At most one exists
// per session, keyed by the session ID.
type Performance struct {
	sessionID   uint
	score       int64
	accuracy    float64
	maxCombo    *int
	modifiers   []byte // opaque JSON payload
	replayHash  string
	signature   string
	submittedAt time.Time
}

// NewPerformance creates the performance record for a session.
func NewPerformance(sessionID uint, score int64, accuracy float64, maxCombo *int, modifiers []byte, replayHash, signature string) (*Performance, error) {
	if sessionID == 0 {
		return nil, fmt.Errorf("session ID is required")
	}
	if score < 0 {
		return nil, ErrNegativeScore
	}
	if accuracy < 0 || accuracy > 100 {
		return nil, fmt.Errorf("%w: %.2f", ErrInvalidAccuracy, accuracy)
	}
	if maxCombo != nil && *maxCombo < 0 {
		return nil, ErrNegativeCombo
	}

	return &Performance{
		sessionID:   sessionID,
		score:       score,
		accuracy:    accuracy,
		maxCombo:    maxCombo,
		modifiers:   modifiers,
		replayHash:  replayHash,
		signature:   signature,
		submittedAt: time.Now(),
	}, nil
}

// ReconstructPerformance reconstructs a performance record from persistence.
func ReconstructPerformance(sessionID uint, score int64, accuracy float64, maxCombo *int, modifiers []byte, replayHash, signature string, submittedAt time.Time) (*Performance, error) {
	if sessionID == 0 {
		return nil, fmt.Errorf("session ID cannot be zero")
	}
	return &Performance{
		sessionID:   sessionID,
		score:       score,
		accuracy:    accuracy,
		maxCombo:    maxCombo,
		modifiers:   modifiers,
		replayHash:  replayHash,
		signature:   signature,
		submittedAt: submittedAt,
	}, nil
}

func (p *Performance) SessionID() uint        { return p.sessionID }
func (p *Performance) Score() int64           { return p.score }
func (p *Performance) Accuracy() float64      { return p.accuracy }
func (p *Performance) MaxCombo() *int         { return p.maxCombo }
func (p *Performance) Modifiers() []byte      { return p.modifiers }
func (p *Performance) ReplayHash() string     { return p.replayHash }
func (p *Performance) Signature() string      { return p.signature }
func (p *Performance) SubmittedAt() time.Time { return p.submittedAt }
