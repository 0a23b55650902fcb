package apiclient

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MsgCartEmpty       = "El carrito está vacío"
	MsgNoAddress       = "Selecciona una dirección de entrega"
	MsgNoStore         = "No se pudo determinar la tienda del pedido"
	msgLoadFailed      = "No se pudo obtener el carrito"
	msgAddFailed       = "No se pudo agregar al carrito"
	msgUpdateFailed    = "No se pudo actualizar la cantidad"
	msgRemoveFailed    = "No se pudo eliminar del carrito"
	msgCheckoutPrefix  = "No se pudo crear el pedido"
	msgInvalidQuantity = "La cantidad debe ser mayor a 0"
)

// CartManager は買い物客のカートを手元に持つ。
// 変更のたびにサーバーが返すカートで置き換え、合計と点数は手元の行から数える。
// 失敗は Err() に表示用の文として残る。
type CartManager struct {
	api *Client

	mu     sync.Mutex
	items  []CartItem
	errMsg string
	cause  error
}

func NewCartManager(api *Client) *CartManager {
	return &CartManager{api: api}
}

func (m *CartManager) Load(ctx context.Context) bool {
	cart, err := m.api.GetCart(ctx)
	return m.apply(cart, err, msgLoadFailed)
}

// quantityは1以上
func (m *CartManager) AddItem(ctx context.Context, productID, quantity int64) bool {
	if quantity < 1 {
		m.fail(msgInvalidQuantity, nil)
		return false
	}
	cart, err := m.api.AddToCart(ctx, productID, quantity)
	return m.apply(cart, err, msgAddFailed)
}

// 0以下は削除と同じ
func (m *CartManager) UpdateQuantity(ctx context.Context, cartItemID, quantity int64) bool {
	if quantity <= 0 {
		return m.RemoveItem(ctx, cartItemID)
	}
	cart, err := m.api.UpdateCartItem(ctx, cartItemID, quantity)
	return m.apply(cart, err, msgUpdateFailed)
}

func (m *CartManager) RemoveItem(ctx context.Context, cartItemID int64) bool {
	cart, err := m.api.RemoveCartItem(ctx, cartItemID)
	return m.apply(cart, err, msgRemoveFailed)
}

// Checkout は手元で前提条件を確かめてから注文を送る。
// 条件を満たさないときはリクエストを送らない。
func (m *CartManager) Checkout(ctx context.Context, addressID int64, notes *string) (Order, bool) {
	m.mu.Lock()
	items := m.items
	m.mu.Unlock()

	switch {
	case len(items) == 0:
		m.fail(MsgCartEmpty, nil)
		return Order{}, false
	case addressID <= 0:
		m.fail(MsgNoAddress, nil)
		return Order{}, false
	}
	storeID := firstStoreID(items)
	if storeID <= 0 {
		m.fail(MsgNoStore, nil)
		return Order{}, false
	}

	order, err := m.api.PlaceOrder(ctx, PlaceOrderRequest{
		StoreID:   storeID,
		AddressID: addressID,
		Notes:     notes,
	}, uuid.NewString())
	if err != nil {
		m.fail(msgCheckoutPrefix+": "+err.Error(), err)
		return Order{}, false
	}

	// 注文済みの行はカートから消えている
	m.Load(ctx)
	return order, true
}

func firstStoreID(items []CartItem) int64 {
	if items[0].Product == nil {
		return 0
	}
	return items[0].Product.StoreID
}

func (m *CartManager) Items() []CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CartItem, len(m.items))
	copy(out, m.items)
	return out
}

// Total は各行のsubtotalの合計
func (m *CartManager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, it := range m.items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// ItemCount は数量の合計（行数ではない）
func (m *CartManager) ItemCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range m.items {
		n += it.Quantity
	}
	return n
}

// 直近の失敗。成功した操作のあとは空。
func (m *CartManager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

func (m *CartManager) Cause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cause
}

func (m *CartManager) apply(cart Cart, err error, msg string) bool {
	if err != nil {
		// セッション切れなどはそのまま見せる
		if errors.Is(err, ErrNoSession) {
			msg = err.Error()
		}
		m.fail(msg, err)
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = cart.Items
	m.errMsg = ""
	m.cause = nil
	return true
}

func (m *CartManager) fail(msg string, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errMsg = msg
	m.cause = cause
}
