package usecase_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newOrderUsecaseForTest(repos *TxReposMock) (*usecase.OrderUsecase, *TxManagerMock) {
	tx := new(TxManagerMock)
	tx.Repos = repos
	return usecase.NewOrderUsecase(tx, fixedClock{t: testNow}), tx
}

// =====================
// PlaceOrder / PlaceMultiOrder
// =====================

func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()

	itemsRepo := new(ItemRepoMock)
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		items:      itemsRepo,
		members:    membersRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	membersRepo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)
	itemsRepo.On("FindByID", mock.Anything, int64(5)).
		Return(model.Item{ID: 5, Name: "Tシャツ", Price: 10000, Stock: 100, SellStatus: model.SellStatusOnSale}, nil)
	itemsRepo.On("DecreaseStockIfEnough", mock.Anything, int64(5), int64(10)).
		Return(true, nil)

	// 合計は 10000 x 10 = 100000 になっているはず
	ordersRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.MemberID == 1 &&
			o.Status == model.OrderStatusOrder &&
			o.TotalPrice == 100000 &&
			o.OrderDate.Equal(testNow)
	})).Return(int64(7), nil)

	orderItemsRepo.On("CreateBulk", mock.Anything, int64(7), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].ItemID == 5 &&
			items[0].OrderPrice == 10000 &&
			items[0].Count == 10
	})).Return(nil)

	orderID, err := uc.PlaceOrder(ctx, "taro@example.com", usecase.PlaceOrderInput{ItemID: 5, Count: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), orderID)

	tx.AssertExpectations(t)
	ordersRepo.AssertExpectations(t)
	orderItemsRepo.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_OutOfStock(t *testing.T) {
	ctx := context.Background()

	itemsRepo := new(ItemRepoMock)
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		items:      itemsRepo,
		members:    membersRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	membersRepo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)
	itemsRepo.On("FindByID", mock.Anything, int64(5)).
		Return(model.Item{ID: 5, Price: 10000, Stock: 5, SellStatus: model.SellStatusOnSale}, nil)

	// 在庫5に対して10なので減算は失敗する
	itemsRepo.On("DecreaseStockIfEnough", mock.Anything, int64(5), int64(10)).
		Return(false, nil)

	orderID, err := uc.PlaceOrder(ctx, "taro@example.com", usecase.PlaceOrderInput{ItemID: 5, Count: 10})
	assert.Equal(t, int64(0), orderID)
	assertErrContains(t, err, "out of stock")

	// 注文は一切作られない
	ordersRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	orderItemsRepo.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_ItemNotFound(t *testing.T) {
	ctx := context.Background()

	itemsRepo := new(ItemRepoMock)
	membersRepo := new(MemberRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		items:   itemsRepo,
		members: membersRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	membersRepo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)
	itemsRepo.On("FindByID", mock.Anything, int64(999)).
		Return(model.Item{}, repo.ErrNotFound)

	_, err := uc.PlaceOrder(ctx, "taro@example.com", usecase.PlaceOrderInput{ItemID: 999, Count: 1})
	assertErrContains(t, err, "item not found")
}

func TestOrderUsecase_PlaceMultiOrder_SecondLineOutOfStock_AbortsAll(t *testing.T) {
	ctx := context.Background()

	itemsRepo := new(ItemRepoMock)
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		items:      itemsRepo,
		members:    membersRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	membersRepo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)

	itemsRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Item{ID: 1, Price: 1000, Stock: 10, SellStatus: model.SellStatusOnSale}, nil)
	itemsRepo.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).
		Return(true, nil)

	itemsRepo.On("FindByID", mock.Anything, int64(2)).
		Return(model.Item{ID: 2, Price: 2000, Stock: 1, SellStatus: model.SellStatusOnSale}, nil)
	itemsRepo.On("DecreaseStockIfEnough", mock.Anything, int64(2), int64(3)).
		Return(false, nil)

	// 1行目は成功していても2行目の在庫不足で注文全体をやめる
	_, err := uc.PlaceMultiOrder(ctx, "taro@example.com", []usecase.OrderLine{
		{ItemID: 1, Count: 2},
		{ItemID: 2, Count: 3},
	})
	assertErrContains(t, err, "out of stock")

	ordersRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	orderItemsRepo.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceMultiOrder_TotalAcrossLines(t *testing.T) {
	ctx := context.Background()

	itemsRepo := new(ItemRepoMock)
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		items:      itemsRepo,
		members:    membersRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	membersRepo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)

	itemsRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Item{ID: 1, Price: 1000, Stock: 10, SellStatus: model.SellStatusOnSale}, nil)
	itemsRepo.On("FindByID", mock.Anything, int64(2)).
		Return(model.Item{ID: 2, Price: 2500, Stock: 10, SellStatus: model.SellStatusOnSale}, nil)
	itemsRepo.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil)
	itemsRepo.On("DecreaseStockIfEnough", mock.Anything, int64(2), int64(3)).Return(true, nil)

	// 1000x2 + 2500x3 = 9500
	ordersRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalPrice == 9500
	})).Return(int64(20), nil)
	orderItemsRepo.On("CreateBulk", mock.Anything, int64(20), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2
	})).Return(nil)

	orderID, err := uc.PlaceMultiOrder(ctx, "taro@example.com", []usecase.OrderLine{
		{ItemID: 1, Count: 2},
		{ItemID: 2, Count: 3},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(20), orderID)

	ordersRepo.AssertExpectations(t)
	orderItemsRepo.AssertExpectations(t)
}

func TestOrderUsecase_PlaceMultiOrder_InvalidInputs(t *testing.T) {
	uc, _ := newOrderUsecaseForTest(&TxReposMock{})

	_, err := uc.PlaceMultiOrder(context.Background(), "", []usecase.OrderLine{{ItemID: 1, Count: 1}})
	assertErrContains(t, err, "unauthorized")

	_, err = uc.PlaceMultiOrder(context.Background(), "taro@example.com", nil)
	assertErrContains(t, err, "no order lines")

	_, err = uc.PlaceMultiOrder(context.Background(), "taro@example.com", []usecase.OrderLine{{ItemID: 1, Count: 0}})
	assertErrContains(t, err, "invalid count")

	_, err = uc.PlaceMultiOrder(context.Background(), "taro@example.com", []usecase.OrderLine{{ItemID: 0, Count: 1}})
	assertErrContains(t, err, "invalid item_id")
}

// =====================
// CancelOrder
// =====================

func TestOrderUsecase_CancelOrder_RestoresStockAndMarksCancel(t *testing.T) {
	ctx := context.Background()

	itemsRepo := new(ItemRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		items:      itemsRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, MemberID: 1, Status: model.OrderStatusOrder}, nil)
	orderItemsRepo.On("ListByOrderID", mock.Anything, int64(7)).
		Return([]model.OrderItem{
			{ID: 1, OrderID: 7, ItemID: 5, OrderPrice: 10000, Count: 10},
			{ID: 2, OrderID: 7, ItemID: 6, OrderPrice: 500, Count: 2},
		}, nil)

	// 明細ごとに在庫を戻す
	itemsRepo.On("IncreaseStock", mock.Anything, int64(5), int64(10)).Return(nil)
	itemsRepo.On("IncreaseStock", mock.Anything, int64(6), int64(2)).Return(nil)

	ordersRepo.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancel).Return(nil)

	err := uc.CancelOrder(ctx, 7)
	assert.NoError(t, err)

	itemsRepo.AssertExpectations(t)
	ordersRepo.AssertExpectations(t)
}

func TestOrderUsecase_CancelOrder_AlreadyCanceled(t *testing.T) {
	ctx := context.Background()

	itemsRepo := new(ItemRepoMock)
	ordersRepo := new(OrderRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		items:  itemsRepo,
		orders: ordersRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, Status: model.OrderStatusCancel}, nil)

	// 二重キャンセルは拒否。在庫が二重に戻ってはいけない
	err := uc.CancelOrder(ctx, 7)
	assertErrContains(t, err, "already canceled")

	itemsRepo.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
	ordersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelOrder_NotFound(t *testing.T) {
	ordersRepo := new(OrderRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{orders: ordersRepo})
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(99)).
		Return(model.Order{}, repo.ErrNotFound)

	err := uc.CancelOrder(context.Background(), 99)
	assertErrContains(t, err, "not found")
}

// =====================
// ValidateOwnership
// =====================

func TestOrderUsecase_ValidateOwnership_Match(t *testing.T) {
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		members: membersRepo,
		orders:  ordersRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, MemberID: 1}, nil)
	membersRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)

	owned, err := uc.ValidateOwnership(context.Background(), 7, "taro@example.com")
	assert.NoError(t, err)
	assert.True(t, owned)
}

func TestOrderUsecase_ValidateOwnership_MismatchIsExact(t *testing.T) {
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		members: membersRepo,
		orders:  ordersRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, MemberID: 1}, nil)
	membersRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)

	// 大文字小文字違いも不一致扱い
	owned, err := uc.ValidateOwnership(context.Background(), 7, "Taro@example.com")
	assert.NoError(t, err)
	assert.False(t, owned)
}

func TestOrderUsecase_ValidateOwnership_OrderMissing(t *testing.T) {
	ordersRepo := new(OrderRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{orders: ordersRepo})
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(99)).
		Return(model.Order{}, repo.ErrNotFound)

	owned, err := uc.ValidateOwnership(context.Background(), 99, "taro@example.com")
	assert.NoError(t, err)
	assert.False(t, owned)
}

// =====================
// RemoveOrderItem
// =====================

func TestOrderUsecase_RemoveOrderItem_RecomputesTotal(t *testing.T) {
	ctx := context.Background()

	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		members:    membersRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, MemberID: 1, TotalPrice: 101000}, nil)
	membersRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)
	orderItemsRepo.On("FindByID", mock.Anything, int64(3)).
		Return(model.OrderItem{ID: 3, OrderID: 7, ItemID: 6, OrderPrice: 500, Count: 2}, nil)
	orderItemsRepo.On("DeleteByID", mock.Anything, int64(3)).Return(nil)

	// 残りの明細から合計を再計算する
	orderItemsRepo.On("ListByOrderID", mock.Anything, int64(7)).
		Return([]model.OrderItem{
			{ID: 1, OrderID: 7, ItemID: 5, OrderPrice: 10000, Count: 10},
		}, nil)
	ordersRepo.On("UpdateTotalPrice", mock.Anything, int64(7), int64(100000)).Return(nil)

	err := uc.RemoveOrderItem(ctx, "taro@example.com", 7, 3)
	assert.NoError(t, err)

	orderItemsRepo.AssertExpectations(t)
	ordersRepo.AssertExpectations(t)
}

func TestOrderUsecase_RemoveOrderItem_Forbidden(t *testing.T) {
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		members:    membersRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, MemberID: 1}, nil)
	membersRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)

	err := uc.RemoveOrderItem(context.Background(), "other@example.com", 7, 3)
	assertErrContains(t, err, "forbidden")

	orderItemsRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_RemoveOrderItem_WrongParent(t *testing.T) {
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		members:    membersRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, MemberID: 1}, nil)
	membersRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)

	// 別の注文の明細を消そうとしたら存在しない扱い
	orderItemsRepo.On("FindByID", mock.Anything, int64(3)).
		Return(model.OrderItem{ID: 3, OrderID: 8}, nil)

	err := uc.RemoveOrderItem(context.Background(), "taro@example.com", 7, 3)
	assertErrContains(t, err, "not found")

	orderItemsRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

// =====================
// ListOrderHistory
// =====================

func TestOrderUsecase_ListOrderHistory_Success(t *testing.T) {
	ctx := context.Background()

	itemsRepo := new(ItemRepoMock)
	itemImagesRepo := new(ItemImageRepoMock)
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		items:      itemsRepo,
		itemImages: itemImagesRepo,
		members:    membersRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	membersRepo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)

	// 1ページは4件固定
	ordersRepo.On("ListByMemberID", mock.Anything, int64(1), 0, usecase.OrderHistPageSize).
		Return([]model.Order{
			{ID: 7, MemberID: 1, OrderDate: testNow, Status: model.OrderStatusOrder, TotalPrice: 100000},
		}, int64(9), nil)

	orderItemsRepo.On("ListByOrderID", mock.Anything, int64(7)).
		Return([]model.OrderItem{
			{ID: 1, OrderID: 7, ItemID: 5, OrderPrice: 10000, Count: 10},
		}, nil)
	itemsRepo.On("FindByID", mock.Anything, int64(5)).
		Return(model.Item{ID: 5, Name: "Tシャツ"}, nil)
	itemImagesRepo.On("FindRepByItemID", mock.Anything, int64(5)).
		Return(model.ItemImage{ID: 1, ItemID: 5, ImageURL: "/images/abc.png", RepImage: true}, nil)

	out, err := uc.ListOrderHistory(ctx, "taro@example.com", 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, out.Page)
	assert.Equal(t, usecase.OrderHistPageSize, out.Size)
	assert.Equal(t, int64(9), out.Total)

	if assert.Equal(t, 1, len(out.Orders)) {
		o := out.Orders[0]
		assert.Equal(t, int64(7), o.OrderID)
		assert.Equal(t, "ORDER", o.Status)
		assert.Equal(t, int64(100000), o.TotalPrice)
		if assert.Equal(t, 1, len(o.Items)) {
			assert.Equal(t, "Tシャツ", o.Items[0].ItemName)
			assert.Equal(t, int64(10000), o.Items[0].OrderPrice)
			assert.Equal(t, "/images/abc.png", o.Items[0].ImageURL)
		}
	}
}

func TestOrderUsecase_ListOrderHistory_NoRepImage(t *testing.T) {
	itemsRepo := new(ItemRepoMock)
	itemImagesRepo := new(ItemImageRepoMock)
	membersRepo := new(MemberRepoMock)
	ordersRepo := new(OrderRepoMock)
	orderItemsRepo := new(OrderItemRepoMock)

	uc, tx := newOrderUsecaseForTest(&TxReposMock{
		items:      itemsRepo,
		itemImages: itemImagesRepo,
		members:    membersRepo,
		orders:     ordersRepo,
		orderItems: orderItemsRepo,
	})
	tx.On("WithinTx", mock.Anything).Return(nil)

	membersRepo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(model.Member{ID: 1, Email: "taro@example.com"}, nil)
	ordersRepo.On("ListByMemberID", mock.Anything, int64(1), 0, usecase.OrderHistPageSize).
		Return([]model.Order{{ID: 7, MemberID: 1}}, int64(1), nil)
	orderItemsRepo.On("ListByOrderID", mock.Anything, int64(7)).
		Return([]model.OrderItem{{ID: 1, OrderID: 7, ItemID: 5, OrderPrice: 100, Count: 1}}, nil)
	itemsRepo.On("FindByID", mock.Anything, int64(5)).
		Return(model.Item{ID: 5, Name: "ソックス"}, nil)

	// 代表画像なしはエラーではなく空URL
	itemImagesRepo.On("FindRepByItemID", mock.Anything, int64(5)).
		Return(model.ItemImage{}, repo.ErrNotFound)

	out, err := uc.ListOrderHistory(context.Background(), "taro@example.com", 0)
	assert.NoError(t, err)
	assert.Equal(t, "", out.Orders[0].Items[0].ImageURL)
}

func TestOrderUsecase_ListOrderHistory_InvalidPage(t *testing.T) {
	uc, _ := newOrderUsecaseForTest(&TxReposMock{})

	_, err := uc.ListOrderHistory(context.Background(), "taro@example.com", -1)
	assertErrContains(t, err, "invalid page")
}
