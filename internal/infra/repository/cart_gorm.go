package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type CartGormRepository struct {
	db *gorm.DB
}

func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 会員のカートを取得し、無ければ作成（初回利用時に遅延作成）
func (r *CartGormRepository) GetOrCreateByMemberID(ctx context.Context, memberID int64) (model.Cart, error) {
	var cart model.Cart

	findErr := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&cart).Error

	if findErr == nil {
		return cart, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return model.Cart{}, findErr
	}

	now := time.Now()
	newCart := model.Cart{
		MemberID:  memberID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.db.WithContext(ctx).Create(&newCart).Error; err != nil {
		// member_idのユニーク制約と競合したら作成済みのものを読む
		retryErr := r.db.WithContext(ctx).
			Where("member_id = ?", memberID).
			First(&cart).Error
		if retryErr == nil {
			return cart, nil
		}
		return model.Cart{}, err
	}

	return newCart, nil
}

func (r *CartGormRepository) FindByMemberID(ctx context.Context, memberID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}
