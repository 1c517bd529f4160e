package newsletter

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Subscribe(ctx context.Context, email string) error {
	sub := models.Subscriber{Email: email}
	tx := r.DB.WithContext(ctx).Where("email = ?", email).FirstOrCreate(&sub)
	return tx.Error
}

func (r *GormRepo) List(ctx context.Context) ([]models.Subscriber, error) {
	var subs []models.Subscriber
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

type Service struct {
	Repo *GormRepo
}

// Subscribe reports success as a bare bool. Resubscribing an existing
// address is a success, not an error.
func (s *Service) Subscribe(ctx context.Context, email string) bool {
	l := logging.FromContext(ctx).With("svc", "newsletter.subscribe")

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		l.Warn("subscribe_invalid_email")
		return false
	}
	if err := s.Repo.Subscribe(ctx, email); err != nil {
		l.Error("subscribe_error", "error", err)
		return false
	}
	return true
}

// List degrades to an empty slice on read failure.
func (s *Service) List(ctx context.Context) []models.Subscriber {
	l := logging.FromContext(ctx).With("svc", "newsletter.list")

	subs, err := s.Repo.List(ctx)
	if err != nil {
		l.Error("newsletter_list_error", "error", err)
		return []models.Subscriber{}
	}
	return subs
}
