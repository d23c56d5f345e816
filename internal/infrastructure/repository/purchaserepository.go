package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"beatrush/internal/domain/purchase"
	vo "beatrush/internal/domain/purchase/valueobjects"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/shared/db"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// PurchaseRepositoryImpl implements the purchase.Repository interface
type PurchaseRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewPurchaseRepository creates a new purchase repository instance
func NewPurchaseRepository(gdb *gorm.DB, logger logger.Interface) purchase.Repository {
	return &PurchaseRepositoryImpl{
		db:     gdb,
		logger: logger,
	}
}

func (r *PurchaseRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

// Create inserts a new purchase row
func (r *PurchaseRepositoryImpl) Create(ctx context.Context, p *purchase.Purchase) error {
	model := mapPurchaseToModel(p)

	if err := r.conn(ctx).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("purchase order number already exists")
		}
		r.logger.Errorw("failed to create purchase",
			"user_id", p.UserID(),
			"song_id", p.SongID(),
			"order_no", p.OrderNo(),
			"error", err)
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	if err := p.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set purchase ID: %w", err)
	}

	r.logger.Infow("purchase created",
		"id", model.ID,
		"order_no", model.OrderNo,
		"user_id", model.UserID,
		"song_id", model.SongID,
		"amount", p.Amount().String())

	return nil
}

// Update persists refund state changes
func (r *PurchaseRepositoryImpl) Update(ctx context.Context, p *purchase.Purchase) error {
	result := r.conn(ctx).Model(&models.PurchaseModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]interface{}{
			"refunded":    p.Refunded(),
			"refunded_at": p.RefundedAt(),
			"updated_at":  p.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update purchase", "id", p.ID(), "error", result.Error)
		return fmt.Errorf("failed to update purchase: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("purchase not found")
	}

	r.logger.Infow("purchase updated", "id", p.ID(), "refunded", p.Refunded())
	return nil
}

// GetByID retrieves a purchase by ID
func (r *PurchaseRepositoryImpl) GetByID(ctx context.Context, id uint) (*purchase.Purchase, error) {
	var model models.PurchaseModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("purchase not found")
		}
		r.logger.Errorw("failed to get purchase", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	return mapPurchaseToDomain(&model)
}

// GetByUser retrieves all purchases by a user
func (r *PurchaseRepositoryImpl) GetByUser(ctx context.Context, userID uint) ([]*purchase.Purchase, error) {
	var rows []models.PurchaseModel
	if err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list purchases", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return mapPurchasesToDomain(rows)
}

// List retrieves all purchases
func (r *PurchaseRepositoryImpl) List(ctx context.Context) ([]*purchase.Purchase, error) {
	var rows []models.PurchaseModel
	if err := r.conn(ctx).Order("purchased_at DESC").Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list purchases", "error", err)
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return mapPurchasesToDomain(rows)
}

// FindDuplicate looks for a non-refunded purchase with identical details
// recorded at or after since.
func (r *PurchaseRepositoryImpl) FindDuplicate(ctx context.Context, userID, songID uint, amountCents int64, currency, reference string, since time.Time) (*purchase.Purchase, error) {
	query := r.conn(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Where("price_cents = ? AND currency = ?", amountCents, currency).
		Where("refunded = ?", false).
		Where("purchased_at >= ?", since)

	if reference == "" {
		query = query.Where("payment_reference IS NULL OR payment_reference = ''")
	} else {
		query = query.Where("payment_reference = ?", reference)
	}

	var model models.PurchaseModel
	err := query.Order("purchased_at DESC").First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to check for duplicate purchase",
			"user_id", userID,
			"song_id", songID,
			"error", err)
		return nil, fmt.Errorf("failed to check for duplicate purchase: %w", err)
	}

	return mapPurchaseToDomain(&model)
}

// ExistsOtherActiveByPair reports whether a non-refunded purchase other than
// excludeID exists for the pair.
func (r *PurchaseRepositoryImpl) ExistsOtherActiveByPair(ctx context.Context, userID, songID, excludeID uint) (bool, error) {
	var count int64
	if err := r.conn(ctx).Model(&models.PurchaseModel{}).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Where("refunded = ?", false).
		Where("id <> ?", excludeID).
		Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count active purchases",
			"user_id", userID,
			"song_id", songID,
			"error", err)
		return false, fmt.Errorf("failed to count active purchases: %w", err)
	}
	return count > 0, nil
}

func mapPurchaseToModel(p *purchase.Purchase) *models.PurchaseModel {
	model := &models.PurchaseModel{
		OrderNo:     p.OrderNo(),
		UserID:      p.UserID(),
		SongID:      p.SongID(),
		PriceCents:  p.Amount().AmountInCents(),
		Currency:    p.Amount().Currency(),
		PurchasedAt: p.PurchasedAt(),
		Refunded:    p.Refunded(),
		RefundedAt:  p.RefundedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
	if proc := p.PaymentProcessor(); proc != "" {
		model.PaymentProcessor = &proc
	}
	if ref := p.PaymentReference(); ref != "" {
		model.PaymentReference = &ref
	}
	return model
}

func mapPurchaseToDomain(model *models.PurchaseModel) (*purchase.Purchase, error) {
	processor := ""
	if model.PaymentProcessor != nil {
		processor = *model.PaymentProcessor
	}
	reference := ""
	if model.PaymentReference != nil {
		reference = *model.PaymentReference
	}

	p, err := purchase.ReconstructPurchase(
		model.ID,
		model.OrderNo,
		model.UserID,
		model.SongID,
		vo.NewMoney(model.PriceCents, model.Currency),
		processor,
		reference,
		model.PurchasedAt,
		model.Refunded,
		model.RefundedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct purchase: %w", err)
	}
	return p, nil
}

func mapPurchasesToDomain(rows []models.PurchaseModel) ([]*purchase.Purchase, error) {
	out := make([]*purchase.Purchase, len(rows))
	for i := range rows {
		p, err := mapPurchaseToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
