package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

// 注文履歴は1ページ4件固定
const OrderHistPageSize = 4

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 注文の1行（商品と数量）
type OrderLine struct {
	ItemID int64
	Count  int64
}

type OrderUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewOrderUsecase(tx repo.TransactionManager, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, clock: clock}
}

type PlaceOrderInput struct {
	ItemID int64
	Count  int64
}

// 注文履歴の1明細
type OrderHistItem struct {
	ItemName   string `json:"item_name"`
	OrderPrice int64  `json:"order_price"`
	Count      int64  `json:"count"`
	ImageURL   string `json:"image_url"`
}

// 注文履歴の1件
type OrderHist struct {
	OrderID    int64           `json:"order_id"`
	OrderDate  time.Time       `json:"order_date"`
	Status     string          `json:"status"`
	TotalPrice int64           `json:"total_price"`
	Items      []OrderHistItem `json:"items"`
}

// ページング付きの注文履歴
type OrderHistPage struct {
	Orders []OrderHist `json:"orders"`
	Page   int         `json:"page"`
	Size   int         `json:"size"`
	Total  int64       `json:"total"`
}

// 単品注文。商品と会員を解決し、在庫を減らして注文を作る
func (u *OrderUsecase) PlaceOrder(ctx context.Context, email string, in PlaceOrderInput) (int64, error) {
	return u.PlaceMultiOrder(ctx, email, []OrderLine{{ItemID: in.ItemID, Count: in.Count}})
}

// 複数商品をまとめて1つの注文にする。
// 1行でも失敗（商品なし・在庫不足）したら注文全体をやめる
func (u *OrderUsecase) PlaceMultiOrder(ctx context.Context, email string, lines []OrderLine) (int64, error) {
	if strings.TrimSpace(email) == "" {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(lines) == 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "no order lines")
	}
	for _, line := range lines {
		if line.ItemID <= 0 {
			return 0, NewHTTPError(http.StatusBadRequest, "invalid item_id")
		}
		if line.Count < 1 {
			return 0, NewHTTPError(http.StatusBadRequest, "invalid count")
		}
	}

	var orderID int64

	// 在庫減算と注文作成は同じトランザクション。
	// 途中で失敗したら在庫の変更ごとrollbackされる
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := u.placeOrderTx(ctx, r, email, lines)
		if err != nil {
			return err
		}
		orderID = id
		return nil
	})

	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// トランザクション内の注文作成本体。カートのチェックアウトからも使う
func (u *OrderUsecase) placeOrderTx(ctx context.Context, r repo.TxRepos, email string, lines []OrderLine) (int64, error) {
	member, err := r.Members().FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, NewHTTPError(http.StatusNotFound, "member not found")
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	orderItems := make([]model.OrderItem, 0, len(lines))

	for _, line := range lines {
		item, err := r.Items().FindByID(ctx, line.ItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return 0, NewHTTPError(http.StatusNotFound, "item not found")
		}
		if err != nil {
			return 0, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 在庫減算（足りないなら false）
		ok, err := r.Items().DecreaseStockIfEnough(ctx, line.ItemID, line.Count)
		if err != nil {
			return 0, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return 0, NewHTTPError(http.StatusBadRequest, "out of stock")
		}

		// 注文時点の単価をスナップショット
		orderItems = append(orderItems, model.OrderItem{
			ItemID:     line.ItemID,
			OrderPrice: item.Price,
			Count:      line.Count,
		})
	}

	now := u.clock.Now()
	orderID, err := r.Orders().Create(ctx, model.Order{
		MemberID:   member.ID,
		OrderDate:  now,
		Status:     model.OrderStatusOrder,
		TotalPrice: model.TotalOf(orderItems),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return orderID, nil
}

// 注文キャンセル。明細ごとに在庫を戻し、ステータスをCANCELにする。
// すでにCANCELの注文は拒否する（二重キャンセルで在庫が二重に戻らないように）
func (u *OrderUsecase) CancelOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if order.Status != model.OrderStatusOrder {
			return NewHTTPError(http.StatusBadRequest, "already canceled")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for _, it := range items {
			if err := r.Items().IncreaseStock(ctx, it.ItemID, it.Count); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancel); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

// 注文の購入者と今のログインユーザーが一致するかを確認。
// 一致しない・注文が無い場合はfalse（エラーではなく業務上の結果）
func (u *OrderUsecase) ValidateOwnership(ctx context.Context, orderID int64, email string) (bool, error) {
	if orderID <= 0 || strings.TrimSpace(email) == "" {
		return false, nil
	}

	var owned bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		owner, err := r.Members().FindByID(ctx, order.MemberID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 大文字小文字・空白もそのまま厳密一致
		owned = owner.Email == email
		return nil
	})

	if err != nil {
		return false, err
	}
	return owned, nil
}

// 明細を注文から外す。行は完全に削除され、合計金額を再計算する
func (u *OrderUsecase) RemoveOrderItem(ctx context.Context, email string, orderID int64, orderItemID int64) error {
	if orderID <= 0 || orderItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		owner, err := r.Members().FindByID(ctx, order.MemberID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if owner.Email != email {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		item, err := r.OrderItems().FindByID(ctx, orderItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if item.OrderID != orderID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if err := r.OrderItems().DeleteByID(ctx, orderItemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 残りの明細で合計を再計算
		rest, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().UpdateTotalPrice(ctx, orderID, model.TotalOf(rest)); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

// 購入者の注文履歴を新しい順・4件ずつで返す。pageは0始まり
func (u *OrderUsecase) ListOrderHistory(ctx context.Context, email string, page int) (OrderHistPage, error) {
	if strings.TrimSpace(email) == "" {
		return OrderHistPage{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 0 {
		return OrderHistPage{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}

	var out OrderHistPage

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		member, err := r.Members().FindByEmail(ctx, email)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "member not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orders, total, err := r.Orders().ListByMemberID(ctx, member.ID, page, OrderHistPageSize)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		hists := make([]OrderHist, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			histItems := make([]OrderHistItem, 0, len(items))
			for _, it := range items {
				item, err := r.Items().FindByID(ctx, it.ItemID)
				if err != nil && !errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}

				// 代表画像は無いこともある
				imageURL := ""
				img, err := r.ItemImages().FindRepByItemID(ctx, it.ItemID)
				if err == nil {
					imageURL = img.ImageURL
				} else if !errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}

				histItems = append(histItems, OrderHistItem{
					ItemName:   item.Name,
					OrderPrice: it.OrderPrice,
					Count:      it.Count,
					ImageURL:   imageURL,
				})
			}

			hists = append(hists, OrderHist{
				OrderID:    o.ID,
				OrderDate:  o.OrderDate,
				Status:     string(o.Status),
				TotalPrice: o.TotalPrice,
				Items:      histItems,
			})
		}

		out = OrderHistPage{
			Orders: hists,
			Page:   page,
			Size:   OrderHistPageSize,
			Total:  total,
		}
		return nil
	})

	if err != nil {
		return OrderHistPage{}, err
	}
	return out, nil
}
