package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"beatrush/internal/application/ledger/dto"
	"beatrush/internal/domain/entitlement"
	"beatrush/internal/domain/purchase"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/infrastructure/repository"
	"beatrush/internal/shared/db"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

type ledgerFixture struct {
	svc             *Service
	entitlementRepo entitlement.Repository
	purchaseRepo    purchase.Repository
	gdb             *gorm.DB
}

func setupLedger(t *testing.T) *ledgerFixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(models.AllModels()...))

	log := logger.NewLogger()
	entRepo := repository.NewEntitlementRepository(gdb, log)
	purRepo := repository.NewPurchaseRepository(gdb, log)
	txm := db.NewTransactionManager(gdb)

	svc := NewService(entRepo, purRepo, txm, nil, log, DefaultOptions())

	return &ledgerFixture{
		svc:             svc,
		entitlementRepo: entRepo,
		purchaseRepo:    purRepo,
		gdb:             gdb,
	}
}

func purchaseReq(userID, songID uint) dto.RecordPurchaseRequest {
	return dto.RecordPurchaseRequest{
		UserID:     userID,
		SongID:     songID,
		PriceCents: 299,
		Currency:   "USD",
	}
}

func TestGrant_CreatesEntitlement(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	src, err := f.svc.Grant(ctx, 1, 10, entitlement.SourcePromo)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourcePromo, src)

	has, err := f.svc.HasAccess(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = f.svc.HasAccess(ctx, 1, 11)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGrant_IsIdempotent(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, 1, 10, entitlement.SourcePromo)
	require.NoError(t, err)
	src, err := f.svc.Grant(ctx, 1, 10, entitlement.SourcePromo)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourcePromo, src)

	ents, err := f.entitlementRepo.GetByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ents, 1)
}

func TestGrant_HigherPriorityWins(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	src, err := f.svc.Grant(ctx, 1, 10, entitlement.SourcePromo)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourcePromo, src)

	src, err = f.svc.Grant(ctx, 1, 10, entitlement.SourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourceAdmin, src)
}

func TestGrant_NeverDowngrades(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, 1, 10, entitlement.SourceAdmin)
	require.NoError(t, err)

	src, err := f.svc.Grant(ctx, 1, 10, entitlement.SourcePromo)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourceAdmin, src)

	e, err := f.entitlementRepo.GetByPair(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourceAdmin, e.Source())
}

func TestGrant_RejectsInvalidInput(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, 0, 10, entitlement.SourcePromo)
	assert.True(t, errors.IsValidationError(err))

	_, err = f.svc.Grant(ctx, 1, 10, entitlement.Source("vip"))
	assert.True(t, errors.IsValidationError(err))
}

func TestRecordPurchase_GrantsEntitlement(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	result, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)
	assert.NotZero(t, result.Purchase.ID)
	assert.Contains(t, result.Purchase.OrderNo, "PUR-")
	assert.Equal(t, entitlement.SourcePurchase.String(), result.EntitlementSource)

	has, err := f.svc.HasAccess(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRecordPurchase_ValidatesMoney(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	req := purchaseReq(1, 10)
	req.PriceCents = -1
	_, err := f.svc.RecordPurchase(ctx, req)
	assert.True(t, errors.IsValidationError(err))

	req = purchaseReq(1, 10)
	req.Currency = "XYZ"
	_, err = f.svc.RecordPurchase(ctx, req)
	assert.True(t, errors.IsValidationError(err))
}

func TestRecordPurchase_RejectsDuplicateInWindow(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	first, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)

	_, err = f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))

	// Only the original row exists.
	purchases, err := f.purchaseRepo.GetByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, first.Purchase.OrderNo, purchases[0].OrderNo())
}

func TestRecordPurchase_DifferentAmountIsNotDuplicate(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	_, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)

	req := purchaseReq(1, 10)
	req.PriceCents = 199
	_, err = f.svc.RecordPurchase(ctx, req)
	require.NoError(t, err)

	purchases, err := f.purchaseRepo.GetByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, purchases, 2)
}

func TestRecordPurchase_RefundedOriginalIsNotDuplicate(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	result, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)
	require.NoError(t, f.svc.Refund(ctx, result.Purchase.ID))

	// Re-buying immediately after a refund is a legitimate new purchase.
	_, err = f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)

	has, err := f.svc.HasAccess(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRefund_RevokesWhenPurchaseWasOnlyJustification(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	result, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)

	require.NoError(t, f.svc.Refund(ctx, result.Purchase.ID))

	has, err := f.svc.HasAccess(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, has)

	p, err := f.purchaseRepo.GetByID(ctx, result.Purchase.ID)
	require.NoError(t, err)
	assert.True(t, p.Refunded())
	require.NotNil(t, p.RefundedAt())
}

func TestRefund_PreservesIndependentPromoGrant(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	// Promo grant first, purchase second, then the purchase is refunded.
	// The promo still justifies access.
	_, err := f.svc.Grant(ctx, 1, 10, entitlement.SourcePromo)
	require.NoError(t, err)

	result, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourcePurchase.String(), result.EntitlementSource)

	require.NoError(t, f.svc.Refund(ctx, result.Purchase.ID))

	has, err := f.svc.HasAccess(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, has)

	e, err := f.entitlementRepo.GetByPair(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourcePromo, e.Source())
}

func TestRefund_KeepsAccessWhileAnotherActivePurchaseExists(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	first, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)

	second := purchaseReq(1, 10)
	second.PriceCents = 199
	secondResult, err := f.svc.RecordPurchase(ctx, second)
	require.NoError(t, err)

	require.NoError(t, f.svc.Refund(ctx, first.Purchase.ID))

	has, err := f.svc.HasAccess(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, has)

	e, err := f.entitlementRepo.GetByPair(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourcePurchase, e.Source())

	// Refunding the second purchase removes the last justification.
	require.NoError(t, f.svc.Refund(ctx, secondResult.Purchase.ID))

	has, err = f.svc.HasAccess(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRefund_IsIdempotent(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	result, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)

	require.NoError(t, f.svc.Refund(ctx, result.Purchase.ID))
	require.NoError(t, f.svc.Refund(ctx, result.Purchase.ID))
}

func TestRefund_UnknownPurchase(t *testing.T) {
	f := setupLedger(t)

	err := f.svc.Refund(context.Background(), 9999)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRefund_DoesNotTouchAdminJustification(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	result, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)

	src, err := f.svc.Grant(ctx, 1, 10, entitlement.SourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourceAdmin, src)

	require.NoError(t, f.svc.Refund(ctx, result.Purchase.ID))

	e, err := f.entitlementRepo.GetByPair(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entitlement.SourceAdmin, e.Source())
	assert.False(t, e.HasJustification(entitlement.SourcePurchase))
}

func TestRevokeAdmin_RemovesEverything(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	_, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)
	_, err = f.svc.Grant(ctx, 1, 10, entitlement.SourceAdmin)
	require.NoError(t, err)

	require.NoError(t, f.svc.RevokeAdmin(ctx, 1, 10))

	has, err := f.svc.HasAccess(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, has)

	// Revoking an absent pair is a no-op.
	require.NoError(t, f.svc.RevokeAdmin(ctx, 2, 20))
}

func TestListEntitlements(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, 1, 10, entitlement.SourcePromo)
	require.NoError(t, err)
	_, err = f.svc.Grant(ctx, 1, 11, entitlement.SourceAdmin)
	require.NoError(t, err)
	_, err = f.svc.Grant(ctx, 2, 10, entitlement.SourceDefault)
	require.NoError(t, err)

	ents, err := f.svc.ListEntitlements(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ents, 2)

	sources := map[uint]string{}
	for _, e := range ents {
		assert.Equal(t, uint(1), e.UserID)
		sources[e.SongID] = e.Source
	}
	assert.Equal(t, entitlement.SourcePromo.String(), sources[10])
	assert.Equal(t, entitlement.SourceAdmin.String(), sources[11])
}

func TestConcurrentGrants_SamePair(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	sources := []entitlement.Source{
		entitlement.SourceDefault,
		entitlement.SourcePromo,
		entitlement.SourcePurchase,
		entitlement.SourceAdmin,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(sources)*4)
	for i := 0; i < len(sources)*4; i++ {
		wg.Add(1)
		go func(src entitlement.Source) {
			defer wg.Done()
			_, err := f.svc.Grant(ctx, 1, 10, src)
			errCh <- err
		}(sources[i%len(sources)])
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	// One row, highest-priority source, version moved once per change.
	ents, err := f.entitlementRepo.GetByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, entitlement.SourceAdmin, ents[0].Source())
	assert.Len(t, ents[0].Justifications(), len(sources))
}

func TestConcurrentPurchaseAndRefund_Serialized(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	result, err := f.svc.RecordPurchase(ctx, purchaseReq(1, 10))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = f.svc.Refund(ctx, result.Purchase.ID)
	}()
	go func() {
		defer wg.Done()
		_, _ = f.svc.Grant(ctx, 1, 10, entitlement.SourcePromo)
	}()
	wg.Wait()

	// Whatever the interleaving, the promo grant survives the refund.
	has, err := f.svc.HasAccess(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, has)

	e, err := f.entitlementRepo.GetByPair(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, e.HasJustification(entitlement.SourcePromo))
	assert.False(t, e.HasJustification(entitlement.SourcePurchase))
}

func TestHasAccess_IsReadOnly(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	has, err := f.svc.HasAccess(ctx, 42, 42)
	require.NoError(t, err)
	assert.False(t, has)

	ents, err := f.entitlementRepo.GetByUser(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, ents)
}

func TestRetryOptions_Timing(t *testing.T) {
	f := setupLedger(t)

	// Conflict errors exhaust retries and surface; other errors do not retry.
	attempts := 0
	err := f.svc.withRetry(context.Background(), func() error {
		attempts++
		return errors.NewConflictError("lost race")
	})
	assert.True(t, errors.IsConflictError(err))
	assert.Equal(t, f.svc.opts.MaxRetries, attempts)

	attempts = 0
	err = f.svc.withRetry(context.Background(), func() error {
		attempts++
		return errors.NewNotFoundError("missing")
	})
	assert.True(t, errors.IsNotFoundError(err))
	assert.Equal(t, 1, attempts)
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	f := setupLedger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.svc.withRetry(ctx, func() error {
		return errors.NewConflictError("lost race")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
