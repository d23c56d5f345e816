// Package dto contains the ledger's request and response shapes.
package dto

import "time"

// EntitlementResponse is the wire shape of one play-access grant.
type EntitlementResponse struct {
	UserID    uint      `json:"user_id"`
	SongID    uint      `json:"song_id"`
	Source    string    `json:"source"`
	GrantedAt time.Time `json:"granted_at"`
}

// PurchaseResponse is the wire shape of one purchase row.
type PurchaseResponse struct {
	ID               uint       `json:"id"`
	OrderNo          string     `json:"order_no"`
	UserID           uint       `json:"user_id"`
	SongID           uint       `json:"song_id"`
	PriceCents       int64      `json:"price_cents"`
	Currency         string     `json:"currency"`
	PaymentProcessor string     `json:"payment_processor,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	PurchasedAt      time.Time  `json:"purchased_at"`
	Refunded         bool       `json:"refunded"`
	RefundedAt       *time.Time `json:"refunded_at,omitempty"`
}

// RecordPurchaseRequest carries a purchase submission.
type RecordPurchaseRequest struct {
	UserID           uint   `json:"user_id" binding:"required"`
	SongID           uint   `json:"song_id" binding:"required"`
	PriceCents       int64  `json:"price_cents"`
	Currency         string `json:"currency" binding:"omitempty,currency"`
	PaymentProcessor string `json:"payment_processor"`
	PaymentReference string `json:"payment_reference"`
}

// RecordPurchaseResult bundles the committed purchase with the resulting
// entitlement source.
type RecordPurchaseResult struct {
	Purchase          PurchaseResponse `json:"purchase"`
	EntitlementSource string           `json:"entitlement_source"`
}
