package model

import "time"

// カートの明細。(cart_id, item_id)はユニークで、
// 同じ商品を追加したら数量を加算する
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;uniqueIndex:idx_cart_item" json:"cart_id"`
	ItemID    int64     `gorm:"not null;uniqueIndex:idx_cart_item" json:"item_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
