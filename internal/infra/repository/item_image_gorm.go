package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type ItemImageGormRepository struct {
	db *gorm.DB
}

func NewItemImageGormRepository(db *gorm.DB) *ItemImageGormRepository {
	return &ItemImageGormRepository{db: db}
}

func (r *ItemImageGormRepository) Create(ctx context.Context, img model.ItemImage) (model.ItemImage, error) {
	if err := r.db.WithContext(ctx).Create(&img).Error; err != nil {
		return model.ItemImage{}, err
	}
	return img, nil
}

func (r *ItemImageGormRepository) ListByItemID(ctx context.Context, itemID int64) ([]model.ItemImage, error) {
	var imgs []model.ItemImage
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("id asc").
		Find(&imgs).Error; err != nil {
		return []model.ItemImage{}, err
	}
	return imgs, nil
}

// 代表画像を1件取得
func (r *ItemImageGormRepository) FindRepByItemID(ctx context.Context, itemID int64) (model.ItemImage, error) {
	var img model.ItemImage
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND rep_image = ?", itemID, true).
		First(&img).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ItemImage{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ItemImage{}, err
	}
	return img, nil
}
