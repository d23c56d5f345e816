package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntitlement(t *testing.T, source Source) *Entitlement {
	t.Helper()
	e, err := NewEntitlement(1, 2, source)
	require.NoError(t, err)
	return e
}

func TestNewEntitlement(t *testing.T) {
	tests := []struct {
		name    string
		userID  uint
		songID  uint
		source  Source
		wantErr bool
	}{
		{name: "valid purchase", userID: 1, songID: 2, source: SourcePurchase},
		{name: "valid promo", userID: 1, songID: 2, source: SourcePromo},
		{name: "valid admin", userID: 1, songID: 2, source: SourceAdmin},
		{name: "valid default", userID: 1, songID: 2, source: SourceDefault},
		{name: "missing user", userID: 0, songID: 2, source: SourcePromo, wantErr: true},
		{name: "missing song", userID: 1, songID: 0, source: SourcePromo, wantErr: true},
		{name: "invalid source", userID: 1, songID: 2, source: Source("gift"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEntitlement(tt.userID, tt.songID, tt.source)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.source, e.Source())
			assert.True(t, e.HasJustification(tt.source))
			assert.Equal(t, 1, e.Version())
		})
	}
}

func TestSourcePriority(t *testing.T) {
	assert.Greater(t, SourceAdmin.Priority(), SourcePurchase.Priority())
	assert.Greater(t, SourcePurchase.Priority(), SourcePromo.Priority())
	assert.Greater(t, SourcePromo.Priority(), SourceDefault.Priority())
	assert.Equal(t, -1, Source("bogus").Priority())
}

func TestAddJustification_UpgradesNeverDowngrades(t *testing.T) {
	e := validEntitlement(t, SourcePromo)

	changed, err := e.AddJustification(SourceAdmin)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, SourceAdmin, e.Source())

	// A later lower-priority grant keeps the admin source.
	changed, err = e.AddJustification(SourcePurchase)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, SourceAdmin, e.Source())
	assert.True(t, e.HasJustification(SourcePromo))
	assert.True(t, e.HasJustification(SourcePurchase))
}

func TestAddJustification_Idempotent(t *testing.T) {
	e := validEntitlement(t, SourcePurchase)
	before := e.Version()

	changed, err := e.AddJustification(SourcePurchase)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, e.Version())
}

func TestAddJustification_InvalidSource(t *testing.T) {
	e := validEntitlement(t, SourcePurchase)
	_, err := e.AddJustification(Source("gift"))
	assert.Error(t, err)
}

func TestRemoveJustification(t *testing.T) {
	t.Run("last justification removed means no access", func(t *testing.T) {
		e := validEntitlement(t, SourcePurchase)
		justified, err := e.RemoveJustification(SourcePurchase)
		require.NoError(t, err)
		assert.False(t, justified)
	})

	t.Run("independent source keeps access and recomputes", func(t *testing.T) {
		e := validEntitlement(t, SourcePromo)
		_, err := e.AddJustification(SourcePurchase)
		require.NoError(t, err)
		assert.Equal(t, SourcePurchase, e.Source())

		justified, err := e.RemoveJustification(SourcePurchase)
		require.NoError(t, err)
		assert.True(t, justified)
		assert.Equal(t, SourcePromo, e.Source())
	})

	t.Run("removing an absent source is a no-op", func(t *testing.T) {
		e := validEntitlement(t, SourceAdmin)
		before := e.Version()
		justified, err := e.RemoveJustification(SourcePromo)
		require.NoError(t, err)
		assert.True(t, justified)
		assert.Equal(t, SourceAdmin, e.Source())
		assert.Equal(t, before, e.Version())
	})
}

func TestReconstructEntitlement(t *testing.T) {
	now := time.Now()
	just := map[Source]time.Time{SourceAdmin: now, SourcePromo: now}

	e, err := ReconstructEntitlement(7, 1, 2, SourceAdmin, just, now, now, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(7), e.ID())
	assert.Equal(t, 3, e.Version())
	assert.True(t, e.HasJustification(SourcePromo))

	_, err = ReconstructEntitlement(0, 1, 2, SourceAdmin, just, now, now, 3)
	assert.Error(t, err)
}

func TestJustificationsReturnsCopy(t *testing.T) {
	e := validEntitlement(t, SourceAdmin)
	j := e.Justifications()
	j[SourcePromo] = time.Now()
	assert.False(t, e.HasJustification(SourcePromo))
}
