// Package purchase provides the domain model for song purchases.
package purchase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	vo "beatrush/internal/domain/purchase/valueobjects"
)

// Purchase is one monetary transaction for a (user, song) pair. A purchase
// transitions refunded=false to refunded=true at most once; there is no
// un-refund.
type Purchase struct {
	id               uint
	orderNo          string
	userID           uint
	songID           uint
	amount           vo.Money
	paymentProcessor string
	paymentReference string
	purchasedAt      time.Time
	refunded         bool
	refundedAt       *time.Time
	updatedAt        time.Time
}

// NewPurchase creates a purchase after basic monetary sanity checks.
func NewPurchase(userID, songID uint, amount vo.Money, processor, reference string) (*Purchase, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if songID == 0 {
		return nil, fmt.Errorf("song ID is required")
	}
	if amount.IsNegative() {
		return nil, ErrNegativePrice
	}
	if !amount.HasSupportedCurrency() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, amount.Currency())
	}

	now := time.Now()
	return &Purchase{
		orderNo:          generateOrderNo(),
		userID:           userID,
		songID:           songID,
		amount:           amount,
		paymentProcessor: processor,
		paymentReference: reference,
		purchasedAt:      now,
		updatedAt:        now,
	}, nil
}

// ReconstructPurchase reconstructs a purchase from persistence.
func ReconstructPurchase(
	id uint,
	orderNo string,
	userID, songID uint,
	amount vo.Money,
	processor, reference string,
	purchasedAt time.Time,
	refunded bool,
	refundedAt *time.Time,
	updatedAt time.Time,
) (*Purchase, error) {
	if id == 0 {
		return nil, fmt.Errorf("purchase ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if songID == 0 {
		return nil, fmt.Errorf("song ID is required")
	}

	return &Purchase{
		id:               id,
		orderNo:          orderNo,
		userID:           userID,
		songID:           songID,
		amount:           amount,
		paymentProcessor: processor,
		paymentReference: reference,
		purchasedAt:      purchasedAt,
		refunded:         refunded,
		refundedAt:       refundedAt,
		updatedAt:        updatedAt,
	}, nil
}

func generateOrderNo() string {
	return "PUR-" + uuid.NewString()
}

// ID returns the purchase ID
func (p *Purchase) ID() uint {
	return p.id
}

// OrderNo returns the generated order reference
func (p *Purchase) OrderNo() string {
	return p.orderNo
}

// UserID returns the purchasing user
func (p *Purchase) UserID() uint {
	return p.userID
}

// SongID returns the purchased song
func (p *Purchase) SongID() uint {
	return p.songID
}

// Amount returns the monetary amount
func (p *Purchase) Amount() vo.Money {
	return p.amount
}

// PaymentProcessor returns the processor name, if any
func (p *Purchase) PaymentProcessor() string {
	return p.paymentProcessor
}

// PaymentReference returns the processor-side reference, if any
func (p *Purchase) PaymentReference() string {
	return p.paymentReference
}

// PurchasedAt returns when the purchase was recorded
func (p *Purchase) PurchasedAt() time.Time {
	return p.purchasedAt
}

// Refunded reports whether the purchase has been refunded
func (p *Purchase) Refunded() bool {
	return p.refunded
}

// RefundedAt returns when the refund happened, if it did
func (p *Purchase) RefundedAt() *time.Time {
	return p.refundedAt
}

// UpdatedAt returns when the purchase was last updated
func (p *Purchase) UpdatedAt() time.Time {
	return p.updatedAt
}

// SetID sets the purchase ID (only for persistence layer use)
func (p *Purchase) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("purchase ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("purchase ID cannot be zero")
	}
	p.id = id
	return nil
}

// Refund marks the purchase refunded. It is idempotent: refunding an already
// refunded purchase changes nothing and reports false.
func (p *Purchase) Refund() bool {
	if p.refunded {
		return false
	}
	now := time.Now()
	p.refunded = true
	p.refundedAt = &now
	p.updatedAt = now
	return true
}
