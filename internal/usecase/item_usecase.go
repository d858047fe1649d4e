package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 画像ファイルの保存先の約束。保存名とURLを返す
type ImageStore interface {
	Save(originalName string, data []byte) (storedName string, url string, err error)
}

type ItemUsecase struct {
	itemRepo      repo.ItemRepository
	itemImageRepo repo.ItemImageRepository
	images        ImageStore
}

// DI
func NewItemUsecase(
	itemRepo repo.ItemRepository,
	itemImageRepo repo.ItemImageRepository,
	images ImageStore,
) *ItemUsecase {
	return &ItemUsecase{
		itemRepo:      itemRepo,
		itemImageRepo: itemImageRepo,
		images:        images,
	}
}

// 商品検索の入力DTO
type ItemSearchInput struct {
	Page       int
	Limit      int
	Name       string
	SellStatus string
	From       *time.Time
	To         *time.Time
}

type ItemListOutput struct {
	Items []model.Item `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type ItemDetailOutput struct {
	Item   model.Item        `json:"item"`
	Images []model.ItemImage `json:"images"`
}

type ImageUpload struct {
	OriginalName string
	Data         []byte
}

type RegisterItemInput struct {
	Name   string
	Price  int64
	Detail string
	Stock  int64
	Images []ImageUpload
}

type UpdateItemInput struct {
	Name   string
	Price  int64
	Detail string
	Stock  int64
}

// 商品を検索（商品名の部分一致・販売状態・登録日の範囲）
func (u *ItemUsecase) SearchItems(ctx context.Context, in ItemSearchInput) (ItemListOutput, error) {
	if in.Page < 1 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	switch in.SellStatus {
	case "", string(model.SellStatusOnSale), string(model.SellStatusSoldOut):
	default:
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sell_status")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid date range")
	}

	items, total, err := u.itemRepo.Search(ctx, repo.ItemSearchQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Name:       strings.TrimSpace(in.Name),
		SellStatus: in.SellStatus,
		From:       in.From,
		To:         in.To,
	})
	if err != nil {
		return ItemListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ItemListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 商品詳細（画像付き）
func (u *ItemUsecase) GetItemDetail(ctx context.Context, itemID int64) (ItemDetailOutput, error) {
	if itemID <= 0 {
		return ItemDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	item, err := u.itemRepo.FindByID(ctx, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return ItemDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ItemDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	imgs, err := u.itemImageRepo.ListByItemID(ctx, itemID)
	if err != nil {
		return ItemDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ItemDetailOutput{Item: item, Images: imgs}, nil
}

// 商品登録（管理者）。最初の画像が代表画像になる
func (u *ItemUsecase) RegisterItem(ctx context.Context, in RegisterItemInput) (int64, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "price must be > 0")
	}
	if in.Stock < 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	item, err := u.itemRepo.Create(ctx, model.Item{
		Name:       strings.TrimSpace(in.Name),
		Price:      in.Price,
		Detail:     in.Detail,
		Stock:      in.Stock,
		SellStatus: model.SellStatusFor(in.Stock),
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for i, up := range in.Images {
		storedName, url, err := u.images.Save(up.OriginalName, up.Data)
		if err != nil {
			return 0, NewHTTPError(http.StatusInternalServerError, "image save error")
		}

		if _, err := u.itemImageRepo.Create(ctx, model.ItemImage{
			ItemID:       item.ID,
			ImageName:    storedName,
			OriginalName: up.OriginalName,
			ImageURL:     url,
			RepImage:     i == 0,
		}); err != nil {
			return 0, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return item.ID, nil
}

// 商品更新（管理者）。販売状態は在庫から決め直す
func (u *ItemUsecase) UpdateItem(ctx context.Context, itemID int64, in UpdateItemInput) error {
	if itemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price <= 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be > 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	item, err := u.itemRepo.FindByID(ctx, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item.Name = strings.TrimSpace(in.Name)
	item.Price = in.Price
	item.Detail = in.Detail
	item.Stock = in.Stock
	item.SellStatus = model.SellStatusFor(in.Stock)

	if err := u.itemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
