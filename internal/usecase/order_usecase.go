package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"neighborhub/internal/domain/model"
	"neighborhub/internal/infra/cache"
	"neighborhub/internal/infra/messaging"
	repo "neighborhub/internal/repository"
)

const (
	MsgEmptyCart        = "El carrito está vacío"
	MsgNoAddress        = "Selecciona una dirección de entrega"
	MsgNoStore          = "No se pudo determinar la tienda del pedido"
	MsgDuplicateOrder   = "ya hay un pedido en proceso con esta clave"
	MsgCartChanged      = "el carrito cambió mientras se creaba el pedido, intenta de nuevo"
	MsgAddressForbidden = "la dirección no pertenece al usuario"
)

const publishTimeout = 5 * time.Second

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	cartItems repo.CartItemRepository
	addresses repo.AddressRepository
	products  repo.ProductRepository
	stores    repo.StoreRepository
	guard     cache.IdempotencyGuard
	events    messaging.OrderEventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

type OrderDeps struct {
	Tx        repo.TransactionManager
	Orders    repo.OrderRepository
	CartItems repo.CartItemRepository
	Addresses repo.AddressRepository
	Products  repo.ProductRepository
	Stores    repo.StoreRepository
	Guard     cache.IdempotencyGuard
	Events    messaging.OrderEventPublisher
	Log       zerolog.Logger
}

func NewOrderUsecase(d OrderDeps) *OrderUsecase {
	u := &OrderUsecase{
		tx:        d.Tx,
		orders:    d.Orders,
		cartItems: d.CartItems,
		addresses: d.Addresses,
		products:  d.Products,
		stores:    d.Stores,
		guard:     d.Guard,
		events:    d.Events,
		log:       d.Log,
		now:       time.Now,
	}
	if u.guard == nil {
		u.guard = cache.NoopIdempotencyGuard{}
	}
	if u.events == nil {
		u.events = messaging.NoopOrderPublisher{}
	}
	return u
}

type PlaceOrderInput struct {
	StoreID        int64
	AddressID      int64
	Notes          *string
	IdempotencyKey string
}

// 注文＋参照先（店舗・住所・顧客名）
type OrderOutput struct {
	model.Order
	Store    *model.Store   `json:"tienda,omitempty"`
	Address  *model.Address `json:"direccion,omitempty"`
	Customer string         `json:"cliente,omitempty"`
}

// 注文明細（注文済みのカート行＋商品の表示情報）
type OrderItemOutput struct {
	ID        int64           `json:"id_carrito"`
	OrderID   int64           `json:"id_pedido"`
	ProductID int64           `json:"id_producto"`
	Name      string          `json:"nombre"`
	ImageURL  *string         `json:"imagen_url,omitempty"`
	StoreID   int64           `json:"id_tienda"`
	StoreName string          `json:"nombre_tienda,omitempty"`
	Quantity  int64           `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PlaceOrder はカートの中身から注文を1件作る。
// 注文の作成とカート行の付け替えは同じトランザクションで行う。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnresolvedUser()
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency key")
	}

	// 同じキーなら同じ結果
	if key != "" {
		existing, found, err := u.orders.FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			u.log.Error().Err(err).Msg("find order by idempotency key")
			return OrderOutput{}, dbError(err)
		}
		if found {
			return u.single(ctx, existing)
		}
	}

	// 書き込み前のチェック
	items, err := u.cartItems.ListActiveByUserID(ctx, userID)
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("list cart for checkout")
		return OrderOutput{}, dbError(err)
	}
	if len(items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, MsgEmptyCart)
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, MsgNoAddress)
	}

	//address_idの存在確認＋所有チェック
	addr, err := u.addresses.FindByID(ctx, in.AddressID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "dirección no encontrada")
	}
	if err != nil {
		return OrderOutput{}, dbError(err)
	}
	if addr.UserID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, MsgAddressForbidden)
	}

	storeID, err := u.resolveStoreID(ctx, in.StoreID, items)
	if err != nil {
		return OrderOutput{}, err
	}

	if key != "" {
		ok, err := u.guard.Acquire(ctx, userID, key)
		if err != nil {
			// redisが落ちていてもDBのユニーク制約で重複は防げる
			u.log.Warn().Err(err).Msg("idempotency guard unavailable")
		} else if !ok {
			return OrderOutput{}, NewHTTPError(http.StatusConflict, MsgDuplicateOrder)
		}
	}

	var created model.Order
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// メモリ上のカートではなく、ロックして読み直した行を使う
		locked, err := r.CartItems().LockActiveByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return NewHTTPError(http.StatusBadRequest, MsgEmptyCart)
		}

		order := model.Order{
			UserID:    userID,
			StoreID:   storeID,
			AddressID: in.AddressID,
			Status:    model.OrderStatusPending,
			Total:     model.CartTotal(locked),
			Notes:     trimmedOrNil(in.Notes),
			PlacedAt:  u.now(),
		}
		if key != "" {
			k := key
			order.IdempotencyKey = &k
		}

		created, err = r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(locked))
		for _, it := range locked {
			ids = append(ids, it.ID)
		}
		n, err := r.CartItems().AttachToOrder(ctx, userID, ids, created.ID)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return NewHTTPError(http.StatusConflict, MsgCartChanged)
		}
		return nil
	})
	if err != nil {
		if key != "" {
			if relErr := u.guard.Release(ctx, userID, key); relErr != nil {
				u.log.Warn().Err(relErr).Msg("release idempotency guard")
			}
			// 同じキーで同時に作られた場合は、先にできた注文を返す
			if errors.Is(err, repo.ErrConflict) {
				if existing, found, ferr := u.orders.FindByIdempotencyKey(ctx, userID, key); ferr == nil && found {
					return u.single(ctx, existing)
				}
			}
		}
		if _, ok := AsHTTPError(err); !ok {
			u.log.Error().Err(err).Int64("user_id", userID).Msg("place order")
		}
		return OrderOutput{}, passOrDBError(err)
	}

	u.publish(ctx, messaging.NewOrderEvent(messaging.OrderCreated, created, "", u.now()))

	return OrderOutput{Order: created, Store: u.storeOrNil(ctx, created.StoreID), Address: &addr}, nil
}

// 店舗は常にカートの先頭の商品から決める。指定があっても一致しなければ400。
func (u *OrderUsecase) resolveStoreID(ctx context.Context, given int64, items []model.CartItem) (int64, error) {
	p, err := u.products.FindByID(ctx, items[0].ProductID)
	if err == repo.ErrNotFound {
		return 0, NewHTTPError(http.StatusBadRequest, MsgNoStore)
	}
	if err != nil {
		return 0, dbError(err)
	}
	if p.StoreID <= 0 || (given > 0 && given != p.StoreID) {
		return 0, NewHTTPError(http.StatusBadRequest, MsgNoStore)
	}
	return p.StoreID, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, errUnresolvedUser()
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("list orders")
		return []OrderOutput{}, dbError(err)
	}

	outs, err := hydrateOrders(ctx, orders, u.stores, u.addresses, nil)
	if err != nil {
		u.log.Error().Err(err).Msg("hydrate orders")
		return []OrderOutput{}, dbError(err)
	}
	return outs, nil
}

// 注文した本人か、その店舗の店主だけが見られる
func (u *OrderUsecase) GetOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	o, err := u.visibleOrder(ctx, userID, orderID)
	if err != nil {
		return OrderOutput{}, err
	}
	return u.single(ctx, o)
}

func (u *OrderUsecase) GetOrderItems(ctx context.Context, userID int64, orderID int64) ([]OrderItemOutput, error) {
	if _, err := u.visibleOrder(ctx, userID, orderID); err != nil {
		return []OrderItemOutput{}, err
	}

	items, err := u.cartItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return []OrderItemOutput{}, dbError(err)
	}

	products, err := u.products.FindByIDs(ctx, distinctIDs(items, func(c model.CartItem) int64 { return c.ProductID }))
	if err != nil {
		return []OrderItemOutput{}, dbError(err)
	}
	productByID := indexByID(products, func(p model.Product) int64 { return p.ID })

	stores, err := u.stores.FindByIDs(ctx, distinctIDs(products, func(p model.Product) int64 { return p.StoreID }))
	if err != nil {
		return []OrderItemOutput{}, dbError(err)
	}
	storeByID := indexByID(stores, func(s model.Store) int64 { return s.ID })

	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		row := OrderItemOutput{
			ID:        it.ID,
			OrderID:   orderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.LineSubtotal,
		}
		if p, ok := productByID[it.ProductID]; ok {
			row.Name = p.Name
			row.ImageURL = p.ImageURL
			row.StoreID = p.StoreID
			if s, ok := storeByID[p.StoreID]; ok {
				row.StoreName = s.Name
			}
		}
		outs = append(outs, row)
	}
	return outs, nil
}

func (u *OrderUsecase) visibleOrder(ctx context.Context, userID, orderID int64) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, errUnresolvedUser()
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return model.Order{}, dbError(err)
	}
	if o.UserID == userID {
		return o, nil
	}

	s, err := u.stores.FindByID(ctx, o.StoreID)
	if err != nil && err != repo.ErrNotFound {
		return model.Order{}, dbError(err)
	}
	if err == nil && s.OwnerID == userID {
		return o, nil
	}
	//他人の注文は「存在しない扱い」にする
	return model.Order{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
}

func (u *OrderUsecase) single(ctx context.Context, o model.Order) (OrderOutput, error) {
	outs, err := hydrateOrders(ctx, []model.Order{o}, u.stores, u.addresses, nil)
	if err != nil {
		return OrderOutput{}, dbError(err)
	}
	return outs[0], nil
}

func (u *OrderUsecase) storeOrNil(ctx context.Context, storeID int64) *model.Store {
	s, err := u.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil
	}
	return &s
}

// コミット後に送る。失敗しても注文は成功扱い。
func (u *OrderUsecase) publish(ctx context.Context, ev messaging.OrderEvent) {
	publishOrderEvent(ctx, u.events, u.log, ev)
}

func publishOrderEvent(ctx context.Context, events messaging.OrderEventPublisher, log zerolog.Logger, ev messaging.OrderEvent) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := events.Publish(pctx, ev); err != nil {
		log.Error().Err(err).Int64("order_id", ev.OrderID).Str("event", string(ev.Type)).Msg("publish order event")
	}
}

// 注文一覧に店舗・住所・顧客名をまとめて付ける（IDでmerge）
func hydrateOrders(
	ctx context.Context,
	orders []model.Order,
	stores repo.StoreRepository,
	addresses repo.AddressRepository,
	users repo.UserRepository,
) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	if len(orders) == 0 {
		return outs, nil
	}

	storeList, err := stores.FindByIDs(ctx, distinctIDs(orders, func(o model.Order) int64 { return o.StoreID }))
	if err != nil {
		return nil, err
	}
	storeByID := indexByID(storeList, func(s model.Store) int64 { return s.ID })

	addrList, err := addresses.FindByIDs(ctx, distinctIDs(orders, func(o model.Order) int64 { return o.AddressID }))
	if err != nil {
		return nil, err
	}
	addrByID := indexByID(addrList, func(a model.Address) int64 { return a.ID })

	nameByID := map[int64]string{}
	if users != nil {
		userList, err := users.FindByIDs(ctx, distinctIDs(orders, func(o model.Order) int64 { return o.UserID }))
		if err != nil {
			return nil, err
		}
		for _, usr := range userList {
			nameByID[usr.ID] = usr.DisplayName()
		}
	}

	for _, o := range orders {
		out := OrderOutput{Order: o}
		if s, ok := storeByID[o.StoreID]; ok {
			s := s
			out.Store = &s
		}
		if a, ok := addrByID[o.AddressID]; ok {
			a := a
			out.Address = &a
		}
		if users != nil {
			out.Customer = nameByID[o.UserID]
			if out.Customer == "" {
				out.Customer = model.User{}.DisplayName()
			}
		}
		outs = append(outs, out)
	}
	return outs, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
