package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/models"
)

type Filter struct {
	Kind     string
	Category string
	SellerID uuid.UUID
	Offset   int
	Limit    int
}

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) List(ctx context.Context, f Filter) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).
		Preload("Images").
		Preload("Reviews").
		Where("published = ?", true)

	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.SellerID != uuid.Nil {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var products []models.Product
	if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Images").
		Preload("Reviews").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

// ListBySeller returns the seller's own products, unpublished included.
func (r *GormRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Images").
		Preload("Reviews").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
