package models

import (
	"time"

	"gorm.io/datatypes"
)

// PerformanceMetricModel is keyed by session ID, which enforces the 1:1
// relationship with gameplay sessions at the schema level.
type PerformanceMetricModel struct {
	SessionID   uint    `gorm:"primarykey;autoIncrement:false"`
	Score       int64   `gorm:"not null"`
	Accuracy    float64 `gorm:"not null"`
	MaxCombo    *int
	Modifiers   datatypes.JSON
	ReplayHash  *string `gorm:"size:128"`
	Signature   *string `gorm:"size:512"`
	SubmittedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (PerformanceMetricModel) TableName() string {
	return "performance_metrics"
}
