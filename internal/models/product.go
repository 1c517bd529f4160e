package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product covers both handmade goods and courses, split by Kind.
type Product struct {
	ID            uuid.UUID      `gorm:"primaryKey"      json:"id"`
	Name          string         `gorm:"not null"        json:"name"`
	Description   string         `gorm:"not null"        json:"description"`
	Kind          string         `gorm:"index;not null"  json:"kind"`
	Category      string         `gorm:"index"           json:"category"`
	Price         float64        `gorm:"not null"        json:"price"`
	DiscountPrice *float64       `json:"discount_price,omitempty"`
	SellerID      uuid.UUID      `gorm:"index"           json:"seller_id"`
	Stock         uint           `json:"stock"`
	Published     bool           `gorm:"default:true"    json:"published"`
	CreatedAt     time.Time      `json:"created_at"`
	Images        []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Reviews       []Review       `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string { return "products" }

type ProductImage struct {
	ID           uint      `gorm:"primaryKey"     json:"id"`
	ProductID    uuid.UUID `gorm:"index;not null" json:"product_id"`
	URL          string    `gorm:"not null"       json:"url"`
	DisplayOrder int       `gorm:"not null"       json:"display_order"`
}

func (ProductImage) TableName() string { return "product_images" }

type Review struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	ProductID uuid.UUID `gorm:"index;not null" json:"product_id"`
	UserID    uuid.UUID `gorm:"index"          json:"user_id"`
	Rating    int       `gorm:"not null"       json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string { return "reviews" }
