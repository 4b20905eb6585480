package models

import "time"

type ShopItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Category    string  `gorm:"not null;index" json:"category"` // telescopes, cameras, accessories, books, software, other

	Image         string `json:"image"`
	ImagePublicID string `json:"-"`

	InStock  bool    `gorm:"default:true" json:"in_stock"`
	Stock    int     `gorm:"default:0" json:"stock"`
	Rating   float64 `gorm:"default:0" json:"rating"`
	Reviews  int     `gorm:"default:0" json:"reviews"`
	Featured bool    `gorm:"default:false;index" json:"featured"`

	CreatedByID uint      `gorm:"not null" json:"created_by_id"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var ShopCategories = []string{"telescopes", "cameras", "accessories", "books", "software", "other"}

func ValidShopCategory(c string) bool {
	for _, v := range ShopCategories {
		if c == v {
			return true
		}
	}
	return false
}
