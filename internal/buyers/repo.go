package buyers

import (
	"context"
	"strings"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes persistence for buyer profiles, linkages and followings.
type Repository interface {
	Create(ctx context.Context, buyer *models.Buyer) error
	FindByUserID(ctx context.Context, userID int64) (*models.Buyer, error)
	Update(ctx context.Context, buyer *models.Buyer) error
	FindBuyersWithShippingAddress(ctx context.Context, address models.Address) ([]models.Buyer, error)
	Delete(ctx context.Context, userID int64) error

	CreateLinkage(ctx context.Context, linkage *models.BuyerLinkage) error
	FindLinkage(ctx context.Context, id int64) (*models.BuyerLinkage, error)
	FindLinkageBetween(ctx context.Context, buyerA, buyerB int64) (*models.BuyerLinkage, error)
	UpdateLinkageStatus(ctx context.Context, id int64, status enums.LinkageStatus) error
	ListLinkages(ctx context.Context, buyerID int64) ([]models.BuyerLinkage, error)

	Follow(ctx context.Context, buyerID, sellerID int64) (bool, error)
	Unfollow(ctx context.Context, buyerID, sellerID int64) (bool, error)
	ListFollowedSellers(ctx context.Context, buyerID int64) ([]models.Seller, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a buyer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, buyer *models.Buyer) error {
	return r.db.WithContext(ctx).Create(buyer).Error
}

func (r *repositoryImpl) FindByUserID(ctx context.Context, userID int64) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := r.db.WithContext(ctx).First(&buyer, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *repositoryImpl) Update(ctx context.Context, buyer *models.Buyer) error {
	return r.db.WithContext(ctx).Save(buyer).Error
}

// FindBuyersWithShippingAddress matches non-empty address fields with
// case-insensitive equality.
func (r *repositoryImpl) FindBuyersWithShippingAddress(ctx context.Context, address models.Address) ([]models.Buyer, error) {
	query := r.db.WithContext(ctx).Model(&models.Buyer{})
	if v := strings.TrimSpace(address.StreetLine); v != "" {
		query = query.Where("LOWER(shipping_street_line) = LOWER(?)", v)
	}
	if v := strings.TrimSpace(address.City); v != "" {
		query = query.Where("LOWER(shipping_city) = LOWER(?)", v)
	}
	if v := strings.TrimSpace(address.Country); v != "" {
		query = query.Where("LOWER(shipping_country) = LOWER(?)", v)
	}
	if v := strings.TrimSpace(address.PostalCode); v != "" {
		query = query.Where("LOWER(shipping_postal_code) = LOWER(?)", v)
	}

	var buyers []models.Buyer
	if err := query.Order("user_id ASC").Find(&buyers).Error; err != nil {
		return nil, err
	}
	return buyers, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Delete(&models.Buyer{}, "user_id = ?", userID).Error
}

func (r *repositoryImpl) CreateLinkage(ctx context.Context, linkage *models.BuyerLinkage) error {
	return r.db.WithContext(ctx).Create(linkage).Error
}

func (r *repositoryImpl) FindLinkage(ctx context.Context, id int64) (*models.BuyerLinkage, error) {
	var linkage models.BuyerLinkage
	if err := r.db.WithContext(ctx).First(&linkage, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &linkage, nil
}

func (r *repositoryImpl) FindLinkageBetween(ctx context.Context, buyerA, buyerB int64) (*models.BuyerLinkage, error) {
	var linkage models.BuyerLinkage
	err := r.db.WithContext(ctx).
		Where("(requesting_buyer_id = ? AND receiving_buyer_id = ?) OR (requesting_buyer_id = ? AND receiving_buyer_id = ?)",
			buyerA, buyerB, buyerB, buyerA).
		First(&linkage).Error
	if err != nil {
		return nil, err
	}
	return &linkage, nil
}

func (r *repositoryImpl) UpdateLinkageStatus(ctx context.Context, id int64, status enums.LinkageStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.BuyerLinkage{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) ListLinkages(ctx context.Context, buyerID int64) ([]models.BuyerLinkage, error) {
	var linkages []models.BuyerLinkage
	err := r.db.WithContext(ctx).
		Where("requesting_buyer_id = ? OR receiving_buyer_id = ?", buyerID, buyerID).
		Order("created_at DESC, id DESC").
		Find(&linkages).Error
	if err != nil {
		return nil, err
	}
	return linkages, nil
}

// Follow inserts the following edge; the bool reports whether a new row was
// written (false means the buyer already followed the seller).
func (r *repositoryImpl) Follow(ctx context.Context, buyerID, sellerID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Exec(`INSERT INTO followings (buyer_id, seller_id) VALUES (?, ?) ON CONFLICT (buyer_id, seller_id) DO NOTHING`, buyerID, sellerID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Unfollow(ctx context.Context, buyerID, sellerID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("buyer_id = ? AND seller_id = ?", buyerID, sellerID).
		Delete(&models.Following{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListFollowedSellers(ctx context.Context, buyerID int64) ([]models.Seller, error) {
	var sellers []models.Seller
	err := r.db.WithContext(ctx).
		Table("sellers s").
		Select("s.*").
		Joins("JOIN followings f ON f.seller_id = s.user_id").
		Where("f.buyer_id = ?", buyerID).
		Order("f.created_at DESC").
		Scan(&sellers).Error
	if err != nil {
		return nil, err
	}
	return sellers, nil
}
