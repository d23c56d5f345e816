package models

import "time"

type PurchaseModel struct {
	ID               uint    `gorm:"primarykey"`
	OrderNo          string  `gorm:"uniqueIndex;size:64;not null"`
	UserID           uint    `gorm:"not null;index:idx_purchase_pair,priority:1"`
	SongID           uint    `gorm:"not null;index:idx_purchase_pair,priority:2"`
	PriceCents       int64   `gorm:"not null"`
	Currency         string  `gorm:"size:10;not null;default:'USD'"`
	PaymentProcessor *string `gorm:"size:64"`
	PaymentReference *string `gorm:"size:128;index"`
	PurchasedAt      time.Time
	Refunded         bool `gorm:"not null;default:false;index"`
	RefundedAt       *time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}
