package purchase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "beatrush/internal/domain/purchase/valueobjects"
)

func validPurchase(t *testing.T) *Purchase {
	t.Helper()
	p, err := NewPurchase(1, 2, vo.NewMoney(999, "USD"), "stripe", "ref-1")
	require.NoError(t, err)
	return p
}

func TestNewPurchase(t *testing.T) {
	tests := []struct {
		name    string
		userID  uint
		songID  uint
		amount  vo.Money
		wantErr error
	}{
		{name: "valid", userID: 1, songID: 2, amount: vo.NewMoney(999, "USD")},
		{name: "free song purchase", userID: 1, songID: 2, amount: vo.NewMoney(0, "USD")},
		{name: "negative price", userID: 1, songID: 2, amount: vo.NewMoney(-1, "USD"), wantErr: ErrNegativePrice},
		{name: "unknown currency", userID: 1, songID: 2, amount: vo.NewMoney(999, "XTS"), wantErr: ErrUnsupportedCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPurchase(tt.userID, tt.songID, tt.amount, "stripe", "ref-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, p.Refunded())
			assert.NotEmpty(t, p.OrderNo())
		})
	}
}

func TestNewPurchase_RequiresPair(t *testing.T) {
	_, err := NewPurchase(0, 2, vo.NewMoney(100, "USD"), "", "")
	assert.Error(t, err)

	_, err = NewPurchase(1, 0, vo.NewMoney(100, "USD"), "", "")
	assert.Error(t, err)
}

func TestNewPurchase_DefaultsCurrencyToUSD(t *testing.T) {
	p, err := NewPurchase(1, 2, vo.NewMoney(100, ""), "", "")
	require.NoError(t, err)
	assert.Equal(t, "USD", p.Amount().Currency())
}

func TestPurchase_RefundIsIdempotent(t *testing.T) {
	p := validPurchase(t)

	changed := p.Refund()
	assert.True(t, changed)
	assert.True(t, p.Refunded())
	require.NotNil(t, p.RefundedAt())
	firstRefundedAt := *p.RefundedAt()

	// Second refund is a no-op and never un-refunds.
	changed = p.Refund()
	assert.False(t, changed)
	assert.True(t, p.Refunded())
	assert.Equal(t, firstRefundedAt, *p.RefundedAt())
}

func TestOrderNoIsUniquePerPurchase(t *testing.T) {
	a := validPurchase(t)
	b := validPurchase(t)
	assert.NotEqual(t, a.OrderNo(), b.OrderNo())
}
