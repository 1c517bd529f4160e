package donations

import (
	"context"

	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
)

type Filter struct {
	Status string
	Offset int
	Limit  int
}

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) List(ctx context.Context, f Filter) ([]models.Donation, error) {
	q := r.DB.WithContext(ctx).Model(&models.Donation{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var donations []models.Donation
	if err := q.Order("created_at DESC").Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *GormRepo) Create(ctx context.Context, d *models.Donation) error {
	return r.DB.WithContext(ctx).Create(d).Error
}

func (r *GormRepo) Total(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.WithContext(ctx).Model(&models.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

type Service struct {
	Repo *GormRepo
}

// List degrades to an empty slice on read failure.
func (s *Service) List(ctx context.Context, f Filter) []models.Donation {
	l := logging.FromContext(ctx).With("svc", "donations.list")

	donations, err := s.Repo.List(ctx, f)
	if err != nil {
		l.Error("donations_list_error", "error", err)
		return []models.Donation{}
	}
	return donations
}

// Total reports zero when the sum cannot be read.
func (s *Service) Total(ctx context.Context) float64 {
	l := logging.FromContext(ctx).With("svc", "donations.total")

	total, err := s.Repo.Total(ctx)
	if err != nil {
		l.Error("donations_total_error", "error", err)
		return 0
	}
	return total
}

// Process records the donation and reports success as a bare bool; the
// caller shows a generic failure notice, the detail stays in the log.
func (s *Service) Process(ctx context.Context, d *models.Donation) bool {
	l := logging.FromContext(ctx).With("svc", "donations.process")

	if d.Amount <= 0 {
		l.Warn("donation_invalid_amount", "amount", d.Amount)
		return false
	}
	if d.Status == "" {
		d.Status = "received"
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		l.Error("donation_process_error", "error", err)
		return false
	}
	l.Info("donation_processed", "donation_id", d.ID, "amount", d.Amount)
	return true
}
