package models

import "time"

type AdminModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;uniqueIndex"`
	Role      string `gorm:"size:20;not null"`
	GrantedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (AdminModel) TableName() string {
	return "admins"
}
