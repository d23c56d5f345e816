package entitlement

import (
	"fmt"
	"time"
)

// Entitlement is the aggregate root for play access on a (user, song) pair.
// At most one entitlement exists per pair; its effective source is the
// highest-priority member of the justification set.
type Entitlement struct {
	id             uint
	userID         uint
	songID         uint
	source         Source                // effective source, never auto-downgraded by a grant
	justifications map[Source]time.Time  // every source that still justifies access
	grantedAt      time.Time
	updatedAt      time.Time
	version        int // version for optimistic locking
}

// NewEntitlement creates a new entitlement for a pair with an initial source.
func NewEntitlement(userID, songID uint, source Source) (*Entitlement, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if songID == 0 {
		return nil, fmt.Errorf("song ID is required")
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid entitlement source: %s", source)
	}

	now := time.Now()
	return &Entitlement{
		userID:         userID,
		songID:         songID,
		source:         source,
		justifications: map[Source]time.Time{source: now},
		grantedAt:      now,
		updatedAt:      now,
		version:        1,
	}, nil
}

// ReconstructEntitlement reconstructs an entitlement from persistence.
func ReconstructEntitlement(
	id uint,
	userID, songID uint,
	source Source,
	justifications map[Source]time.Time,
	grantedAt, updatedAt time.Time,
	version int,
) (*Entitlement, error) {
	if id == 0 {
		return nil, fmt.Errorf("entitlement ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if songID == 0 {
		return nil, fmt.Errorf("song ID is required")
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid entitlement source: %s", source)
	}

	if justifications == nil {
		justifications = map[Source]time.Time{source: grantedAt}
	}

	return &Entitlement{
		id:             id,
		userID:         userID,
		songID:         songID,
		source:         source,
		justifications: justifications,
		grantedAt:      grantedAt,
		updatedAt:      updatedAt,
		version:        version,
	}, nil
}

// ID returns the entitlement ID
func (e *Entitlement) ID() uint {
	return e.id
}

// UserID returns the user ID of the pair
func (e *Entitlement) UserID() uint {
	return e.userID
}

// SongID returns the song ID of the pair
func (e *Entitlement) SongID() uint {
	return e.songID
}

// Source returns the effective source
func (e *Entitlement) Source() Source {
	return e.source
}

// GrantedAt returns when access was first granted
func (e *Entitlement) GrantedAt() time.Time {
	return e.grantedAt
}

// UpdatedAt returns when the entitlement was last updated
func (e *Entitlement) UpdatedAt() time.Time {
	return e.updatedAt
}

// Version returns the aggregate version for optimistic locking
func (e *Entitlement) Version() int {
	return e.version
}

// Justifications returns a copy of the justification set.
func (e *Entitlement) Justifications() map[Source]time.Time {
	out := make(map[Source]time.Time, len(e.justifications))
	for s, at := range e.justifications {
		out[s] = at
	}
	return out
}

// HasJustification reports whether the given source still justifies access.
func (e *Entitlement) HasJustification(source Source) bool {
	_, ok := e.justifications[source]
	return ok
}

// SetID sets the entitlement ID (only for persistence layer use)
func (e *Entitlement) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("entitlement ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("entitlement ID cannot be zero")
	}
	e.id = id
	return nil
}

// AddJustification records that source justifies access to the pair. The
// effective source upgrades when the new source has strictly higher priority
// and is never downgraded. Re-granting an existing source is a no-op.
// It returns true when the aggregate changed.
func (e *Entitlement) AddJustification(source Source) (bool, error) {
	if !source.IsValid() {
		return false, fmt.Errorf("invalid entitlement source: %s", source)
	}

	if _, ok := e.justifications[source]; ok {
		return false, nil
	}

	e.justifications[source] = time.Now()
	if source.Priority() > e.source.Priority() {
		e.source = source
	}
	e.updatedAt = time.Now()
	e.version++
	return true, nil
}

// RemoveJustification withdraws a source from the justification set and
// recomputes the effective source from what remains. It returns true when
// at least one justification is left; false means the pair has no access
// anymore and the entitlement should be deleted.
func (e *Entitlement) RemoveJustification(source Source) (bool, error) {
	if !source.IsValid() {
		return false, fmt.Errorf("invalid entitlement source: %s", source)
	}

	if _, ok := e.justifications[source]; !ok {
		return len(e.justifications) > 0, nil
	}

	delete(e.justifications, source)
	if len(e.justifications) == 0 {
		return false, nil
	}

	best := Source("")
	for s := range e.justifications {
		if best == "" || s.Priority() > best.Priority() {
			best = s
		}
	}
	e.source = best
	e.updatedAt = time.Now()
	e.version++
	return true, nil
}

// PairKey returns the canonical lock key for a (user, song) pair.
func PairKey(userID, songID uint) string {
	return fmt.Sprintf("%d:%d", userID, songID)
}
