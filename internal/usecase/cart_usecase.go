package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

// CartUsecase は /cart の業務ロジック。
// チェックアウトだけはトランザクションが必要なので注文側に委譲する
type CartUsecase struct {
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	itemRepo      repo.ItemRepository
	itemImageRepo repo.ItemImageRepository
	memberRepo    repo.MemberRepository
	tx            repo.TransactionManager
	orders        *OrderUsecase
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	itemRepo repo.ItemRepository,
	itemImageRepo repo.ItemImageRepository,
	memberRepo repo.MemberRepository,
	tx repo.TransactionManager,
	orders *OrderUsecase,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		itemRepo:      itemRepo,
		itemImageRepo: itemImageRepo,
		memberRepo:    memberRepo,
		tx:            tx,
		orders:        orders,
	}
}

type AddCartInput struct {
	ItemID   int64
	Quantity int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// カートの1明細（追加時点ではなく現在の商品価格を出す）
type CartDetail struct {
	CartItemID int64  `json:"cart_item_id"`
	ItemID     int64  `json:"item_id"`
	ItemName   string `json:"item_name"`
	Price      int64  `json:"price"`
	Quantity   int64  `json:"quantity"`
	ImageURL   string `json:"image_url"`
}

type CartDetailsOutput struct {
	Items []CartDetail `json:"items"`
	Total int64        `json:"total"`
}

// カートに追加。同一商品は数量加算。明細IDを返す
func (u *CartUsecase) AddToCart(ctx context.Context, email string, in AddCartInput) (int64, error) {
	member, err := u.resolveMember(ctx, email)
	if err != nil {
		return 0, err
	}
	if in.ItemID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid item_id")
	}
	if in.Quantity < 1 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック（販売中のみ）
	item, err := u.itemRepo.FindByID(ctx, in.ItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, NewHTTPError(http.StatusNotFound, "item not found")
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if item.SellStatus != model.SellStatusOnSale {
		return 0, NewHTTPError(http.StatusBadRequest, "sold out")
	}

	// カート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateByMemberID(ctx, member.ID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cartItemID, err := u.cartItemRepo.UpsertByCartAndItem(ctx, cart.ID, in.ItemID, in.Quantity)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return cartItemID, nil
}

// カートの中身を追加が新しい順で返す
func (u *CartUsecase) ListCartDetails(ctx context.Context, email string) (CartDetailsOutput, error) {
	member, err := u.resolveMember(ctx, email)
	if err != nil {
		return CartDetailsOutput{}, err
	}

	cart, err := u.cartRepo.FindByMemberID(ctx, member.ID)
	if errors.Is(err, repo.ErrNotFound) {
		// カート未作成なら空
		return CartDetailsOutput{Items: []CartDetail{}}, nil
	}
	if err != nil {
		return CartDetailsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cartItems, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartDetailsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	details := make([]CartDetail, 0, len(cartItems))
	var total int64

	for _, ci := range cartItems {
		item, err := u.itemRepo.FindByID(ctx, ci.ItemID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return CartDetailsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		imageURL := ""
		img, err := u.itemImageRepo.FindRepByItemID(ctx, ci.ItemID)
		if err == nil {
			imageURL = img.ImageURL
		} else if !errors.Is(err, repo.ErrNotFound) {
			return CartDetailsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		details = append(details, CartDetail{
			CartItemID: ci.ID,
			ItemID:     ci.ItemID,
			ItemName:   item.Name,
			Price:      item.Price,
			Quantity:   ci.Quantity,
			ImageURL:   imageURL,
		})

		total += item.Price * ci.Quantity
	}

	return CartDetailsOutput{Items: details, Total: total}, nil
}

// 数量変更（所有チェック付き）
func (u *CartUsecase) UpdateCartItemQuantity(ctx context.Context, email string, cartItemID int64, in UpdateCartItemInput) error {
	member, err := u.resolveMember(ctx, email)
	if err != nil {
		return err
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	owned, err := u.cartItemRepo.IsOwnedByMember(ctx, cartItemID, member.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		// 他人の明細は「存在しない扱い」にする
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

// 明細削除（所有チェック付き）
func (u *CartUsecase) RemoveCartItem(ctx context.Context, email string, cartItemID int64) error {
	member, err := u.resolveMember(ctx, email)
	if err != nil {
		return err
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByMember(ctx, cartItemID, member.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

// 選んだ明細をまとめて注文する。注文作成・在庫減算・
// カート明細の削除まで1つのトランザクションで行う
func (u *CartUsecase) CheckoutCart(ctx context.Context, email string, cartItemIDs []int64) (int64, error) {
	if strings.TrimSpace(email) == "" {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(cartItemIDs) == 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "no cart items selected")
	}

	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		member, err := r.Members().FindByEmail(ctx, email)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "member not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cart, err := r.Carts().FindByMemberID(ctx, member.ID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines := make([]OrderLine, 0, len(cartItemIDs))
		for _, id := range cartItemIDs {
			ci, err := r.CartItems().FindByID(ctx, id)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "cart item not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if ci.CartID != cart.ID {
				return NewHTTPError(http.StatusForbidden, "forbidden")
			}

			lines = append(lines, OrderLine{ItemID: ci.ItemID, Count: ci.Quantity})
		}

		id, err := u.orders.placeOrderTx(ctx, r, email, lines)
		if err != nil {
			return err
		}

		// 注文できた明細はカートから消す
		for _, cartItemID := range cartItemIDs {
			if err := r.CartItems().DeleteByID(ctx, cartItemID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		orderID = id
		return nil
	})

	if err != nil {
		return 0, err
	}
	return orderID, nil
}

func (u *CartUsecase) resolveMember(ctx context.Context, email string) (model.Member, error) {
	if strings.TrimSpace(email) == "" {
		return model.Member{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	m, err := u.memberRepo.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Member{}, NewHTTPError(http.StatusNotFound, "member not found")
	}
	if err != nil {
		return model.Member{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return m, nil
}
