package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartRepository interface {
	// 会員のカートを取得し、無ければ作成
	GetOrCreateByMemberID(ctx context.Context, memberID int64) (model.Cart, error)
	FindByMemberID(ctx context.Context, memberID int64) (model.Cart, error)
}
