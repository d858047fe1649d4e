package model

import "time"

// 販売状態。在庫が0になったらSOLD_OUT
type SellStatus string

const (
	SellStatusOnSale  SellStatus = "ON_SALE"
	SellStatusSoldOut SellStatus = "SOLD_OUT"
)

// 商品。価格は最小通貨単位（円）の整数
type Item struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	Price      int64      `gorm:"not null" json:"price"`
	Detail     string     `gorm:"type:text" json:"detail"`
	SellStatus SellStatus `gorm:"type:varchar(20);not null;index" json:"sell_status"`
	Stock      int64      `gorm:"not null" json:"stock"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 在庫数から販売状態を決める
func SellStatusFor(stock int64) SellStatus {
	if stock <= 0 {
		return SellStatusSoldOut
	}
	return SellStatusOnSale
}
