package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	items      repo.ItemRepository
	itemImages repo.ItemImageRepository
	members    repo.MemberRepository
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func (r *TxReposMock) Items() repo.ItemRepository           { return r.items }
func (r *TxReposMock) ItemImages() repo.ItemImageRepository { return r.itemImages }
func (r *TxReposMock) Members() repo.MemberRepository       { return r.members }
func (r *TxReposMock) Carts() repo.CartRepository           { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }

// =====================
// Repository mocks
// =====================

type ItemRepoMock struct{ mock.Mock }

func (m *ItemRepoMock) FindByID(ctx context.Context, itemID int64) (model.Item, error) {
	args := m.Called(ctx, itemID)
	item, _ := args.Get(0).(model.Item)
	return item, args.Error(1)
}

func (m *ItemRepoMock) Create(ctx context.Context, item model.Item) (model.Item, error) {
	args := m.Called(ctx, item)
	created, _ := args.Get(0).(model.Item)
	return created, args.Error(1)
}

func (m *ItemRepoMock) Update(ctx context.Context, item model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *ItemRepoMock) Search(ctx context.Context, q repo.ItemSearchQuery) ([]model.Item, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ItemRepoMock) DecreaseStockIfEnough(ctx context.Context, itemID int64, qty int64) (bool, error) {
	args := m.Called(ctx, itemID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *ItemRepoMock) IncreaseStock(ctx context.Context, itemID int64, qty int64) error {
	args := m.Called(ctx, itemID, qty)
	return args.Error(0)
}

type ItemImageRepoMock struct{ mock.Mock }

func (m *ItemImageRepoMock) Create(ctx context.Context, img model.ItemImage) (model.ItemImage, error) {
	args := m.Called(ctx, img)
	created, _ := args.Get(0).(model.ItemImage)
	return created, args.Error(1)
}

func (m *ItemImageRepoMock) ListByItemID(ctx context.Context, itemID int64) ([]model.ItemImage, error) {
	args := m.Called(ctx, itemID)
	imgs, _ := args.Get(0).([]model.ItemImage)
	return imgs, args.Error(1)
}

func (m *ItemImageRepoMock) FindRepByItemID(ctx context.Context, itemID int64) (model.ItemImage, error) {
	args := m.Called(ctx, itemID)
	img, _ := args.Get(0).(model.ItemImage)
	return img, args.Error(1)
}

type MemberRepoMock struct{ mock.Mock }

func (m *MemberRepoMock) Create(ctx context.Context, member *model.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MemberRepoMock) FindByID(ctx context.Context, memberID int64) (model.Member, error) {
	args := m.Called(ctx, memberID)
	mem, _ := args.Get(0).(model.Member)
	return mem, args.Error(1)
}

func (m *MemberRepoMock) FindByEmail(ctx context.Context, email string) (model.Member, error) {
	args := m.Called(ctx, email)
	mem, _ := args.Get(0).(model.Member)
	return mem, args.Error(1)
}

func (m *MemberRepoMock) Update(ctx context.Context, member *model.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByMemberID(ctx context.Context, memberID int64) (model.Cart, error) {
	args := m.Called(ctx, memberID)
	cart, _ := args.Get(0).(model.Cart)
	return cart, args.Error(1)
}

func (m *CartRepoMock) FindByMemberID(ctx context.Context, memberID int64) (model.Cart, error) {
	args := m.Called(ctx, memberID)
	cart, _ := args.Get(0).(model.Cart)
	return cart, args.Error(1)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndItem(ctx context.Context, cartID int64, itemID int64, addQty int64) (int64, error) {
	args := m.Called(ctx, cartID, itemID, addQty)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) IsOwnedByMember(ctx context.Context, cartItemID int64, memberID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, memberID)
	return args.Bool(0), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByMemberID(ctx context.Context, memberID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, memberID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateTotalPrice(ctx context.Context, orderID int64, total int64) error {
	args := m.Called(ctx, orderID, total)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) FindByID(ctx context.Context, orderItemID int64) (model.OrderItem, error) {
	args := m.Called(ctx, orderItemID)
	item, _ := args.Get(0).(model.OrderItem)
	return item, args.Error(1)
}

func (m *OrderItemRepoMock) DeleteByID(ctx context.Context, orderItemID int64) error {
	args := m.Called(ctx, orderItemID)
	return args.Error(0)
}

// =====================
// Helpers
// =====================

// テスト用の固定時計
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// HTTPErrorの実装詳細に依存せずメッセージだけ確かめる
func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
