package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
)

// 参照先が存在しない（EntityNotFound相当）
var ErrNotFound = errors.New("not found")

// 在庫不足。注文はトランザクションごと中止する
var ErrInsufficientStock = errors.New("insufficient stock")

// emailのユニーク制約に当たった（登録の競合）
var ErrDuplicateEmail = errors.New("duplicate email")

// 管理者の商品検索条件（商品名の部分一致・販売状態・登録日の範囲）
type ItemSearchQuery struct {
	Page       int
	Limit      int
	Name       string
	SellStatus string
	From       *time.Time
	To         *time.Time
}

// 商品の永続化（保存・取得・検索）だけを約束。
type ItemRepository interface {
	FindByID(ctx context.Context, itemID int64) (model.Item, error)
	Create(ctx context.Context, item model.Item) (model.Item, error)
	Update(ctx context.Context, item model.Item) error
	Search(ctx context.Context, q ItemSearchQuery) ([]model.Item, int64, error)

	// 在庫が足りるときだけ減算。足りなければfalse
	DecreaseStockIfEnough(ctx context.Context, itemID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル時）
	IncreaseStock(ctx context.Context, itemID int64, qty int64) error
}
