package model

import "time"

// 注文明細。order_priceは注文時点の単価のスナップショットで、
// 後から商品の価格が変わっても過去の注文は変わらない
type OrderItem struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64     `gorm:"not null;index" json:"order_id"`
	ItemID     int64     `gorm:"not null;index" json:"item_id"`
	OrderPrice int64     `gorm:"not null" json:"order_price"`
	Count      int64     `gorm:"not null" json:"count"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
