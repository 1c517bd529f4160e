package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	Email        string    `gorm:"unique;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	Metadata     string    `gorm:"type:text"        json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string { return "users" }

type UserRole struct {
	ID     uint      `gorm:"primaryKey"       json:"id"`
	UserID uuid.UUID `gorm:"uniqueIndex;not null" json:"user_id"`
	Role   string    `gorm:"not null"         json:"role"`
}

func (UserRole) TableName() string { return "user_roles" }

type Profile struct {
	ID          uint      `gorm:"primaryKey"           json:"id"`
	UserID      uuid.UUID `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Avatar      string    `json:"avatar"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Bio         string    `json:"bio"`
	Expertise   string    `json:"expertise"`
}

func (Profile) TableName() string { return "profiles" }

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"            json:"id"`
	Token     string    `gorm:"unique;not null"       json:"token"`
	UserID    uuid.UUID `gorm:"index;not null"        json:"user_id"`
	JTI       string    `gorm:"uniqueIndex;not null"  json:"jti"`
	ExpiresAt int64     `gorm:"not null"              json:"expires_at"`
	Revoked   bool      `gorm:"default:false"         json:"revoked"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
