package model

import "time"

// 商品画像。rep_imageがtrueの1枚が代表画像
type ItemImage struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID       int64     `gorm:"not null;index" json:"item_id"`
	ImageName    string    `gorm:"type:varchar(255);not null" json:"image_name"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	ImageURL     string    `gorm:"type:varchar(255);not null" json:"image_url"`
	RepImage     bool      `gorm:"not null;default:false;index" json:"rep_image"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
