package catalog

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
)

var ErrValidation = errors.New("validation")

// ProductView is the flat shape the UI consumes: nested image and review
// rows collapsed into a primary image and an aggregate rating.
type ProductView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Kind          string    `json:"kind"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discount_price,omitempty"`
	SellerID      uuid.UUID `json:"seller_id"`
	Stock         uint      `json:"stock"`
	ImageURL      string    `json:"image_url"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
}

type Service struct {
	Repo *GormRepo
}

// List returns the published products matching f. Read failures degrade to
// an empty slice so callers render an empty state instead of crashing.
func (s *Service) List(ctx context.Context, f Filter) []ProductView {
	l := logging.FromContext(ctx).With("svc", "catalog.list")

	products, err := s.Repo.List(ctx, f)
	if err != nil {
		l.Error("catalog_list_error", "error", err)
		return []ProductView{}
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, Flatten(p))
	}
	return views
}

// Get returns the flattened product, or nil when it cannot be fetched.
func (s *Service) Get(ctx context.Context, id uuid.UUID) *ProductView {
	l := logging.FromContext(ctx).With("svc", "catalog.get", "product_id", id)

	product, err := s.Repo.Get(ctx, id)
	if err != nil {
		l.Error("catalog_get_error", "error", err)
		return nil
	}
	view := Flatten(*product)
	return &view
}

// SubmitReview reports success as a bare bool; the failure detail stays in
// the log.
func (s *Service) SubmitReview(ctx context.Context, review *models.Review) bool {
	l := logging.FromContext(ctx).With("svc", "catalog.submit_review", "product_id", review.ProductID)

	if review.Rating < 1 || review.Rating > 5 {
		l.Warn("submit_review_invalid_rating", "rating", review.Rating)
		return false
	}
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		l.Error("submit_review_error", "error", err)
		return false
	}
	return true
}

// ListForSeller returns every product the seller owns, unpublished included.
func (s *Service) ListForSeller(ctx context.Context, sellerID uuid.UUID) []ProductView {
	l := logging.FromContext(ctx).With("svc", "catalog.list_for_seller", "seller_id", sellerID)

	products, err := s.Repo.ListBySeller(ctx, sellerID)
	if err != nil {
		l.Error("catalog_list_for_seller_error", "error", err)
		return []ProductView{}
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, Flatten(p))
	}
	return views
}

// CreateProduct persists a new listing. The caller becomes the seller.
func (s *Service) CreateProduct(ctx context.Context, product *models.Product) error {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	if product.Name == "" || product.Price < 0 {
		return ErrValidation
	}
	if product.Kind != "good" && product.Kind != "course" {
		return ErrValidation
	}

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		l.Error("create_product_error", "error", err)
		return err
	}
	return nil
}

// PriceFor resolves a current unit price for the cart total, preferring a
// discounted price over the list price. Unknown products report ok=false
// and contribute zero.
func (s *Service) PriceFor(ctx context.Context, productID string) (float64, bool) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return 0, false
	}
	product, err := s.Repo.Get(ctx, id)
	if err != nil {
		return 0, false
	}
	if product.DiscountPrice != nil {
		return *product.DiscountPrice, true
	}
	return product.Price, true
}

// Flatten collapses nested rows into the UI-facing shape: primary image is
// the lowest display_order (empty string if none), rating the mean review
// rating rounded to one decimal (zero if no reviews).
func Flatten(p models.Product) ProductView {
	view := ProductView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Kind:          p.Kind,
		Category:      p.Category,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		SellerID:      p.SellerID,
		Stock:         p.Stock,
		ReviewCount:   len(p.Reviews),
	}

	view.ImageURL = primaryImage(p.Images)

	if len(p.Reviews) > 0 {
		sum := 0
		for _, rev := range p.Reviews {
			sum += rev.Rating
		}
		mean := float64(sum) / float64(len(p.Reviews))
		view.Rating = math.Round(mean*10) / 10
	}

	return view
}

func primaryImage(images []models.ProductImage) string {
	url := ""
	best := 0
	for _, img := range images {
		if url == "" || img.DisplayOrder < best {
			url = img.URL
			best = img.DisplayOrder
		}
	}
	return url
}
