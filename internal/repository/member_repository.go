package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 会員の保存・取得を約束
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, memberID int64) (model.Member, error)
	FindByEmail(ctx context.Context, email string) (model.Member, error)
	Update(ctx context.Context, member *model.Member) error
}
