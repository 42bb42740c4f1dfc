package repositories

import (
	"context"
	"errors"
	"time"

	"eduhealth_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTransactionNotFound = errors.New("payment transaction not found")
	ErrTransactionTerminal = errors.New("payment transaction already in a terminal state")
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.PaymentTransaction) error
	FindByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error)
	FindByUser(ctx context.Context, userID string) ([]models.PaymentTransaction, error)

	// CompleteAndUpgradeUser settles a pending transaction and upgrades the
	// owning user in one database transaction. Returns ErrTransactionTerminal
	// when the row is no longer pending, so concurrent reconciliations (webhook
	// vs. poll, or a redelivered webhook) collapse to a single upgrade.
	CompleteAndUpgradeUser(ctx context.Context, reference string, expiresAt time.Time) error

	// MarkFailed moves a pending transaction to failed. Terminal rows are left
	// untouched and reported via ErrTransactionTerminal.
	MarkFailed(ctx context.Context, reference string) error
}

type TransactionRepositoryImpl struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

func (r *TransactionRepositoryImpl) Create(ctx context.Context, tx *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *TransactionRepositoryImpl) FindByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *TransactionRepositoryImpl) FindByUser(ctx context.Context, userID string) ([]models.PaymentTransaction, error) {
	var payments []models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *TransactionRepositoryImpl) CompleteAndUpgradeUser(ctx context.Context, reference string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.PaymentTransaction

		// Row lock: the status re-check below and both writes happen under it,
		// so two concurrent confirmations cannot both pass the pending check.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("reference = ?", reference).
			First(&payment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		if payment.Status != models.PaymentStatusPending {
			return ErrTransactionTerminal
		}

		now := time.Now()
		if err := tx.Model(&payment).Updates(map[string]interface{}{
			"status":     models.PaymentStatusCompleted,
			"paid_at":    now,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}

		result := tx.Model(&models.User{}).Where("id = ?", payment.UserID).Updates(map[string]interface{}{
			"subscription_type":    models.SubscriptionPremium,
			"subscription_expires": expiresAt,
			"updated_at":           now,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Ledger row points at a user that no longer exists. Roll the
			// settlement back rather than recording a paid orphan.
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *TransactionRepositoryImpl) MarkFailed(ctx context.Context, reference string) error {
	result := r.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Where("reference = ? AND status = ?", reference, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     models.PaymentStatusFailed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the reference is unknown or the row is already terminal.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
			Where("reference = ?", reference).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrTransactionNotFound
		}
		return ErrTransactionTerminal
	}
	return nil
}
