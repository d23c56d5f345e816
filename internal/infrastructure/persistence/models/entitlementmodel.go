package models

import (
	"time"

	"gorm.io/datatypes"
)

// EntitlementModel persists play-access grants. The unique (user, song) index
// enforces at most one entitlement per pair; Version carries the optimistic
// lock token the ledger uses to linearize concurrent mutations on a pair.
type EntitlementModel struct {
	ID             uint           `gorm:"primarykey"`
	UserID         uint           `gorm:"not null;uniqueIndex:idx_user_song,priority:1;index:idx_ent_user"`
	SongID         uint           `gorm:"not null;uniqueIndex:idx_user_song,priority:2"`
	Source         string         `gorm:"not null;size:20"`
	Justifications datatypes.JSON `gorm:"not null"`
	GrantedAt      time.Time      `gorm:"not null"`
	UpdatedAt      time.Time
	Version        int `gorm:"not null;default:1"`
}

// TableName specifies the table name for GORM
func (EntitlementModel) TableName() string {
	return "user_entitlements"
}
