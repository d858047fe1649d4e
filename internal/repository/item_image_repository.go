package repository

import (
	"context"

	"shop/internal/domain/model"
)

type ItemImageRepository interface {
	Create(ctx context.Context, img model.ItemImage) (model.ItemImage, error)
	ListByItemID(ctx context.Context, itemID int64) ([]model.ItemImage, error)
	// 代表画像を1件取得。無ければErrNotFound
	FindRepByItemID(ctx context.Context, itemID int64) (model.ItemImage, error)
}
