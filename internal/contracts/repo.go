package contracts

import (
	"context"
	"errors"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	"gorm.io/gorm"
)

// ErrNotActive signals that a status change targeted a contract whose chain
// position no longer allows it.
var ErrNotActive = errors.New("contract is not active")

// chainLimit bounds the renewal chain walk so a corrupted self-referencing
// row cannot loop forever.
const chainLimit = 1000

// Repository exposes persistence for contracts, templates and PDFs.
type Repository interface {
	Create(ctx context.Context, contract *models.Contract) error
	FindByID(ctx context.Context, id int64) (*models.Contract, error)
	// Renew flips the predecessor to RENEWED and appends the successor in
	// one transaction. Fails with ErrNotActive when the predecessor has
	// already been renewed or expired.
	Renew(ctx context.Context, predecessorID int64, successor *models.Contract) error
	UpdateStatus(ctx context.Context, id int64, from, to enums.ContractStatus) error
	Chain(ctx context.Context, id int64) ([]models.Contract, error)
	ListByOrder(ctx context.Context, orderID int64) ([]models.Contract, error)

	FindPredefined(ctx context.Context, id int64) (*models.PredefinedContract, error)
	ListPredefined(ctx context.Context) ([]models.PredefinedContract, error)

	AttachPDF(ctx context.Context, pdf *models.ContractPDF) error
	FindPDF(ctx context.Context, id int64) (*models.ContractPDF, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a contract repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id int64) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *repositoryImpl) Renew(ctx context.Context, predecessorID int64, successor *models.Contract) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Contract{}).
			Where("id = ? AND status = ?", predecessorID, enums.ContractStatusActive).
			UpdateColumn("status", enums.ContractStatusRenewed)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Contract{}).Where("id = ?", predecessorID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrNotActive
		}
		return tx.Create(successor).Error
	})
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id int64, from, to enums.ContractStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumn("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Contract{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrNotActive
	}
	return nil
}

// Chain walks the renewal links backward from the given version, newest
// first.
func (r *repositoryImpl) Chain(ctx context.Context, id int64) ([]models.Contract, error) {
	var chain []models.Contract
	next := &id
	for i := 0; next != nil && i < chainLimit; i++ {
		var contract models.Contract
		if err := r.db.WithContext(ctx).First(&contract, "id = ?", *next).Error; err != nil {
			return nil, err
		}
		chain = append(chain, contract)
		next = contract.RenewedFromContractID
	}
	return chain, nil
}

func (r *repositoryImpl) ListByOrder(ctx context.Context, orderID int64) ([]models.Contract, error) {
	var contractRows []models.Contract
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		Find(&contractRows).Error
	if err != nil {
		return nil, err
	}
	return contractRows, nil
}

func (r *repositoryImpl) FindPredefined(ctx context.Context, id int64) (*models.PredefinedContract, error) {
	var template models.PredefinedContract
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *repositoryImpl) ListPredefined(ctx context.Context) ([]models.PredefinedContract, error) {
	var templates []models.PredefinedContract
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repositoryImpl) AttachPDF(ctx context.Context, pdf *models.ContractPDF) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pdf).Error; err != nil {
			return err
		}
		result := tx.Model(&models.Contract{}).
			Where("id = ?", pdf.ContractID).
			UpdateColumn("pdf_id", pdf.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *repositoryImpl) FindPDF(ctx context.Context, id int64) (*models.ContractPDF, error) {
	var pdf models.ContractPDF
	if err := r.db.WithContext(ctx).First(&pdf, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pdf, nil
}
