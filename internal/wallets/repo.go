package wallets

import (
	"context"
	"errors"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInsufficientFunds reports a debit larger than the remaining balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Repository exposes persistence for dummy wallets and cards. Debits are
// guarded in SQL so a balance can never go negative.
type Repository interface {
	CreateWallet(ctx context.Context, wallet *models.DummyWallet) error
	FindWalletByBuyer(ctx context.Context, buyerID int64) (*models.DummyWallet, error)
	CreditWallet(ctx context.Context, buyerID int64, amount decimal.Decimal) error
	DebitWallet(ctx context.Context, buyerID int64, amount decimal.Decimal) error
	CreateCard(ctx context.Context, card *models.DummyCard) error
	FindCard(ctx context.Context, id int64) (*models.DummyCard, error)
	ListCards(ctx context.Context, buyerID int64) ([]models.DummyCard, error)
	CreditCard(ctx context.Context, id int64, amount decimal.Decimal) error
	DebitCard(ctx context.Context, id int64, amount decimal.Decimal) error
	DeleteCard(ctx context.Context, id int64) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a wallet repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) CreateWallet(ctx context.Context, wallet *models.DummyWallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *repositoryImpl) FindWalletByBuyer(ctx context.Context, buyerID int64) (*models.DummyWallet, error) {
	var wallet models.DummyWallet
	err := r.db.WithContext(ctx).First(&wallet, "buyer_id = ?", buyerID).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *repositoryImpl) CreditWallet(ctx context.Context, buyerID int64, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE dummy_wallets SET balance = balance + ?, updated_at = NOW() WHERE buyer_id = ?`,
		amount, buyerID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DebitWallet subtracts atomically; the balance guard lives in the WHERE
// clause so concurrent debits cannot overdraw.
func (r *repositoryImpl) DebitWallet(ctx context.Context, buyerID int64, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE dummy_wallets SET balance = balance - ?, updated_at = NOW()
		 WHERE buyer_id = ? AND balance >= ?`,
		amount, buyerID, amount,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		err := r.db.WithContext(ctx).
			Model(&models.DummyWallet{}).
			Where("buyer_id = ?", buyerID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrInsufficientFunds
	}
	return nil
}

func (r *repositoryImpl) CreateCard(ctx context.Context, card *models.DummyCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *repositoryImpl) FindCard(ctx context.Context, id int64) (*models.DummyCard, error) {
	var card models.DummyCard
	err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *repositoryImpl) ListCards(ctx context.Context, buyerID int64) ([]models.DummyCard, error) {
	var cards []models.DummyCard
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at ASC, id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *repositoryImpl) CreditCard(ctx context.Context, id int64, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE dummy_cards SET balance = balance + ?, updated_at = NOW() WHERE id = ?`,
		amount, id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) DebitCard(ctx context.Context, id int64, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE dummy_cards SET balance = balance - ?, updated_at = NOW()
		 WHERE id = ? AND balance >= ?`,
		amount, id, amount,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		err := r.db.WithContext(ctx).
			Model(&models.DummyCard{}).
			Where("id = ?", id).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrInsufficientFunds
	}
	return nil
}

func (r *repositoryImpl) DeleteCard(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.DummyCard{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
