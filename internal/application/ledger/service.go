// Package ledger implements the entitlement ledger: the single authority for
// "can user U play song S", and for mutating grant state in response to
// purchases, refunds, promos, and administrative overrides.
//
// Mutations on one (user, song) pair are linearized by a keyed mutex within
// the process and by an optimistic version token on the entitlement row
// across processes. Operations on different pairs proceed independently.
package ledger

import (
	"context"
	"math/rand"
	"time"

	"beatrush/internal/application/ledger/dto"
	"beatrush/internal/domain/entitlement"
	"beatrush/internal/domain/purchase"
	vo "beatrush/internal/domain/purchase/valueobjects"
	"beatrush/internal/infrastructure/cache"
	"beatrush/internal/shared/db"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/lock"
	"beatrush/internal/shared/logger"
)

// Options tune the ledger's retry and dedup behavior.
type Options struct {
	// DedupWindow is how long an identical purchase submission is treated
	// as a duplicate of the original.
	DedupWindow time.Duration
	// MaxRetries bounds internal retries on optimistic lock conflicts
	// before the conflict surfaces to the caller.
	MaxRetries int
	// RetryBackoff is the base backoff between retries.
	RetryBackoff time.Duration
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		DedupWindow:  5 * time.Minute,
		MaxRetries:   3,
		RetryBackoff: 25 * time.Millisecond,
	}
}

// Service is the entitlement ledger.
type Service struct {
	entitlementRepo entitlement.Repository
	purchaseRepo    purchase.Repository
	txManager       *db.TransactionManager
	pairLocks       *lock.KeyedMutex
	accessCache     *cache.AccessCache
	logger          logger.Interface
	opts            Options
}

// NewService creates a ledger service.
func NewService(
	entitlementRepo entitlement.Repository,
	purchaseRepo purchase.Repository,
	txManager *db.TransactionManager,
	accessCache *cache.AccessCache,
	log logger.Interface,
	opts Options,
) *Service {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultOptions().MaxRetries
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = DefaultOptions().RetryBackoff
	}
	if opts.DedupWindow <= 0 {
		opts.DedupWindow = DefaultOptions().DedupWindow
	}
	return &Service{
		entitlementRepo: entitlementRepo,
		purchaseRepo:    purchaseRepo,
		txManager:       txManager,
		pairLocks:       lock.NewKeyedMutex(),
		accessCache:     accessCache,
		logger:          log,
		opts:            opts,
	}
}

// Grant idempotently ensures an entitlement exists for the pair. The
// highest-priority source wins and is never downgraded by a grant; the
// effective source is returned.
func (s *Service) Grant(ctx context.Context, userID, songID uint, source entitlement.Source) (entitlement.Source, error) {
	if userID == 0 || songID == 0 {
		return "", errors.NewValidationError("user ID and song ID are required")
	}
	if !source.IsValid() {
		return "", errors.NewValidationError("invalid entitlement source: " + source.String())
	}

	var result entitlement.Source
	key := entitlement.PairKey(userID, songID)
	err := s.pairLocks.WithLock(key, func() error {
		return s.withRetry(ctx, func() error {
			src, err := s.grantOnce(ctx, userID, songID, source)
			if err != nil {
				return err
			}
			result = src
			return nil
		})
	})
	if err != nil {
		return "", err
	}

	if s.accessCache != nil {
		s.accessCache.Set(ctx, userID, songID, true)
	}

	s.logger.Infow("entitlement granted",
		"user_id", userID,
		"song_id", songID,
		"requested_source", source.String(),
		"effective_source", result.String())

	return result, nil
}

// grantOnce performs a single grant attempt. Version conflicts and
// racing-create conflicts come back as conflict errors for the retry loop.
func (s *Service) grantOnce(ctx context.Context, userID, songID uint, source entitlement.Source) (entitlement.Source, error) {
	e, err := s.entitlementRepo.GetByPair(ctx, userID, songID)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			return "", err
		}

		e, err = entitlement.NewEntitlement(userID, songID, source)
		if err != nil {
			return "", errors.NewValidationError(err.Error())
		}
		if err := s.entitlementRepo.Create(ctx, e); err != nil {
			return "", err
		}
		return e.Source(), nil
	}

	changed, err := e.AddJustification(source)
	if err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	if !changed {
		return e.Source(), nil
	}

	if err := s.entitlementRepo.Update(ctx, e); err != nil {
		return "", err
	}
	return e.Source(), nil
}

// RecordPurchase atomically inserts a purchase row and grants a
// purchase-sourced entitlement; both effects commit together or not at all.
func (s *Service) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) (*dto.RecordPurchaseResult, error) {
	if req.UserID == 0 || req.SongID == 0 {
		return nil, errors.NewValidationError("user ID and song ID are required")
	}

	money := vo.NewMoney(req.PriceCents, req.Currency)
	if money.IsNegative() {
		return nil, errors.NewValidationError("price must not be negative")
	}
	if !money.HasSupportedCurrency() {
		return nil, errors.NewValidationError("unsupported currency: " + money.Currency())
	}

	var result *dto.RecordPurchaseResult
	key := entitlement.PairKey(req.UserID, req.SongID)
	err := s.pairLocks.WithLock(key, func() error {
		// Idempotency guard: an identical non-refunded purchase inside
		// the dedup window means the caller double-submitted.
		since := time.Now().Add(-s.opts.DedupWindow)
		dup, err := s.purchaseRepo.FindDuplicate(ctx, req.UserID, req.SongID,
			money.AmountInCents(), money.Currency(), req.PaymentReference, since)
		if err != nil {
			return err
		}
		if dup != nil {
			s.logger.Warnw("duplicate purchase rejected",
				"user_id", req.UserID,
				"song_id", req.SongID,
				"original_order_no", dup.OrderNo())
			return errors.NewConflictError("duplicate purchase",
				"an identical purchase was already recorded; treat the original as authoritative")
		}

		return s.withRetry(ctx, func() error {
			return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
				p, err := purchase.NewPurchase(req.UserID, req.SongID, money,
					req.PaymentProcessor, req.PaymentReference)
				if err != nil {
					return errors.NewValidationError(err.Error())
				}
				if err := s.purchaseRepo.Create(txCtx, p); err != nil {
					return err
				}

				src, err := s.grantOnce(txCtx, req.UserID, req.SongID, entitlement.SourcePurchase)
				if err != nil {
					return err
				}

				result = &dto.RecordPurchaseResult{
					Purchase:          mapPurchaseToDTO(p),
					EntitlementSource: src.String(),
				}
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}

	if s.accessCache != nil {
		s.accessCache.Set(ctx, req.UserID, req.SongID, true)
	}

	s.logger.Infow("purchase recorded",
		"user_id", req.UserID,
		"song_id", req.SongID,
		"order_no", result.Purchase.OrderNo,
		"amount", money.String())

	return result, nil
}

// Refund marks the purchase refunded (idempotently) and re-derives the
// pair's entitlement: the purchase justification survives only if another
// non-refunded purchase exists; when nothing justifies access anymore the
// entitlement is revoked.
func (s *Service) Refund(ctx context.Context, purchaseID uint) error {
	p, err := s.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return err
	}

	userID, songID := p.UserID(), p.SongID()
	key := entitlement.PairKey(userID, songID)
	err = s.pairLocks.WithLock(key, func() error {
		return s.withRetry(ctx, func() error {
			return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
				// Reload inside the transaction; the pre-lock read may be stale.
				fresh, err := s.purchaseRepo.GetByID(txCtx, purchaseID)
				if err != nil {
					return err
				}
				if !fresh.Refund() {
					return nil // already refunded
				}
				if err := s.purchaseRepo.Update(txCtx, fresh); err != nil {
					return err
				}
				return s.rederiveAfterRefund(txCtx, fresh)
			})
		})
	})
	if err != nil {
		return err
	}

	if s.accessCache != nil {
		s.accessCache.Invalidate(ctx, userID, songID)
	}

	s.logger.Infow("purchase refunded",
		"purchase_id", purchaseID,
		"user_id", userID,
		"song_id", songID)

	return nil
}

func (s *Service) rederiveAfterRefund(ctx context.Context, p *purchase.Purchase) error {
	e, err := s.entitlementRepo.GetByPair(ctx, p.UserID(), p.SongID())
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil // nothing to re-derive
		}
		return err
	}

	if !e.HasJustification(entitlement.SourcePurchase) {
		return nil
	}

	otherActive, err := s.purchaseRepo.ExistsOtherActiveByPair(ctx, p.UserID(), p.SongID(), p.ID())
	if err != nil {
		return err
	}
	if otherActive {
		return nil // another non-refunded purchase still justifies access
	}

	justified, err := e.RemoveJustification(entitlement.SourcePurchase)
	if err != nil {
		return errors.NewInternalError(err.Error())
	}
	if !justified {
		return s.entitlementRepo.DeleteByPair(ctx, p.UserID(), p.SongID())
	}
	return s.entitlementRepo.Update(ctx, e)
}

// HasAccess is a pure read: true iff an entitlement row exists for the pair.
func (s *Service) HasAccess(ctx context.Context, userID, songID uint) (bool, error) {
	if s.accessCache != nil {
		if has, ok := s.accessCache.Get(ctx, userID, songID); ok {
			return has, nil
		}
	}

	has, err := s.entitlementRepo.ExistsByPair(ctx, userID, songID)
	if err != nil {
		return false, err
	}

	if s.accessCache != nil {
		s.accessCache.Set(ctx, userID, songID, has)
	}
	return has, nil
}

// RevokeAdmin unconditionally removes the pair's entitlement. This is the
// explicit administrative downgrade path; caller authorization is enforced
// at the transport boundary.
func (s *Service) RevokeAdmin(ctx context.Context, userID, songID uint) error {
	key := entitlement.PairKey(userID, songID)
	err := s.pairLocks.WithLock(key, func() error {
		return s.entitlementRepo.DeleteByPair(ctx, userID, songID)
	})
	if err != nil {
		return err
	}

	if s.accessCache != nil {
		s.accessCache.Invalidate(ctx, userID, songID)
	}

	s.logger.Infow("entitlement revoked by admin", "user_id", userID, "song_id", songID)
	return nil
}

// ListEntitlements returns all grants for a user.
func (s *Service) ListEntitlements(ctx context.Context, userID uint) ([]dto.EntitlementResponse, error) {
	ents, err := s.entitlementRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.EntitlementResponse, len(ents))
	for i, e := range ents {
		out[i] = dto.EntitlementResponse{
			UserID:    e.UserID(),
			SongID:    e.SongID(),
			Source:    e.Source().String(),
			GrantedAt: e.GrantedAt(),
		}
	}
	return out, nil
}

// GetPurchase returns one purchase row.
func (s *Service) GetPurchase(ctx context.Context, id uint) (*dto.PurchaseResponse, error) {
	p, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapPurchaseToDTO(p)
	return &resp, nil
}

// ListPurchases returns all purchase rows.
func (s *Service) ListPurchases(ctx context.Context) ([]dto.PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PurchaseResponse, len(purchases))
	for i, p := range purchases {
		out[i] = mapPurchaseToDTO(p)
	}
	return out, nil
}

// withRetry retries fn on conflict errors with jittered exponential backoff.
// Duplicate-purchase conflicts are detected before the retry loop and never
// reach here; what remains is lost optimistic races worth retrying.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := s.opts.RetryBackoff << (attempt - 1)
			jitter := time.Duration(rand.Int63n(int64(backoff)/2 + 1))
			select {
			case <-time.After(backoff + jitter):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !errors.IsConflictError(lastErr) {
			return lastErr
		}

		s.logger.Debugw("ledger operation lost optimistic race, retrying",
			"attempt", attempt+1,
			"error", lastErr)
	}
	return lastErr
}

func mapPurchaseToDTO(p *purchase.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:               p.ID(),
		OrderNo:          p.OrderNo(),
		UserID:           p.UserID(),
		SongID:           p.SongID(),
		PriceCents:       p.Amount().AmountInCents(),
		Currency:         p.Amount().Currency(),
		PaymentProcessor: p.PaymentProcessor(),
		PaymentReference: p.PaymentReference(),
		PurchasedAt:      p.PurchasedAt(),
		Refunded:         p.Refunded(),
		RefundedAt:       p.RefundedAt(),
	}
}
