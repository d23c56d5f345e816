// Package models contains the database persistence models. They form the
// anti-corruption layer between domain aggregates and table rows.
package models

import "time"

type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"size:120;not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}
