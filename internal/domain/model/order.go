package model

import "time"

type OrderStatus string

const (
	OrderStatusOrder  OrderStatus = "ORDER"
	OrderStatusCancel OrderStatus = "CANCEL"
)

// 注文。order_itemsの親で、削除時は明細も一緒に消す
type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID   int64       `gorm:"not null;index" json:"member_id"`
	OrderDate  time.Time   `gorm:"not null" json:"order_date"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice int64       `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 明細の合計金額（注文時単価×数量の和）
func TotalOf(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += it.OrderPrice * it.Count
	}
	return total
}
