package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartItemRepository interface {
	// 追加が新しい順で一覧
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一商品は数量加算。明細IDを返す
	UpsertByCartAndItem(ctx context.Context, cartID int64, itemID int64, addQty int64) (int64, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	IsOwnedByMember(ctx context.Context, cartItemID int64, memberID int64) (bool, error)
}
