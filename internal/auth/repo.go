package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/hash"
	"github.com/handsnminds/platform/internal/models"
	"github.com/handsnminds/platform/internal/tokens"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExist   = errors.New("user already exist")
)

type GormRepo struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

func (r *GormRepo) UserExist(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) RoleFor(ctx context.Context, userID uuid.UUID) (string, error) {
	var row models.UserRole
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return "", err
	}
	return row.Role, nil
}

func (r *GormRepo) SaveRole(ctx context.Context, userID uuid.UUID, role string) error {
	row := models.UserRole{UserID: userID, Role: role}
	tx := r.DB.WithContext(ctx).Where("user_id = ?", userID).FirstOrCreate(&row)
	return tx.Error
}

func (r *GormRepo) ProfileFor(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) AddRefreshToDB(refreshToken string) error {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, r.RefreshSecret)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return err
	}
	refreshModel := models.RefreshToken{
		Token:     tokens.Sha256Hex(refreshToken),
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time.Unix(),
		JTI:       claims.ID,
	}

	return r.DB.Create(&refreshModel).Error
}

func (r *GormRepo) RevokeRefresh(ctx context.Context, refreshToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(refreshToken)).
		Update("revoked", true).Error
}

func (r *GormRepo) RefreshExists(tokenID string) (bool, error) {
	var count int64
	if err := r.DB.Model(&models.RefreshToken{}).
		Where("jti = ?", tokenID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) refreshExpiredOrRevoked(db *gorm.DB, tokenID string) (bool, error) {
	var refresh models.RefreshToken
	if err := db.Where("jti = ?", tokenID).First(&refresh).Error; err != nil {
		return false, err
	}
	if refresh.ExpiresAt < time.Now().Unix() || refresh.Revoked {
		return true, nil
	}
	return false, nil
}

func (r *GormRepo) markAsUsed(db *gorm.DB, tokenID string) error {
	return db.Model(&models.RefreshToken{}).
		Where("jti = ?", tokenID).
		Update("revoked", true).Error
}

func (r *GormRepo) RotateRefreshToken(oldJTI string, newToken models.RefreshToken) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		expired, err := r.refreshExpiredOrRevoked(tx, oldJTI)
		if err != nil {
			return err
		}
		if expired {
			return errors.New("token expired or revoked")
		}

		if err := r.markAsUsed(tx, oldJTI); err != nil {
			return err
		}

		return tx.Create(&newToken).Error
	})
}
