// Package entitlement provides domain models and business logic for play-access grants.
// An entitlement records that a user may play a song, together with every
// source that currently justifies that access.
package entitlement

// Source represents the provenance of an entitlement
type Source string

const (
	// SourcePurchase indicates access paid for with a purchase
	SourcePurchase Source = "purchase"
	// SourcePromo indicates access granted by a promotion
	SourcePromo Source = "promo"
	// SourceAdmin indicates access granted by an administrator
	SourceAdmin Source = "admin"
	// SourceDefault indicates free/default access
	SourceDefault Source = "default"
)

// IsValid checks if the source is valid
func (s Source) IsValid() bool {
	switch s {
	case SourcePurchase, SourcePromo, SourceAdmin, SourceDefault:
		return true
	default:
		return false
	}
}

// String returns the string representation of the source
func (s Source) String() string {
	return string(s)
}

// Priority returns the ordering used when several sources justify the same
// pair: admin > purchase > promo > default. A grant never downgrades the
// effective source; only removal of the higher justification can.
func (s Source) Priority() int {
	switch s {
	case SourceAdmin:
		return 3
	case SourcePurchase:
		return 2
	case SourcePromo:
		return 1
	case SourceDefault:
		return 0
	default:
		return -1
	}
}
