package repository

import (
	"context"

	"shop/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 新しい順・ページング付きで会員の注文を取得
	ListByMemberID(ctx context.Context, memberID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateTotalPrice(ctx context.Context, orderID int64, total int64) error

	// 注文を削除。明細（order_items）もアプリ側で先に消す（カスケード）
	Delete(ctx context.Context, orderID int64) error
}
