package usecase

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"neighborhub/internal/domain/model"
	repo "neighborhub/internal/repository"
)

// CartUsecase は /carrito の業務ロジックです。
// カートは order_id が NULL の cart_items の集まりで、別テーブルは持たない。
type CartUsecase struct {
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
	inventory repo.InventoryRepository
	stores    repo.StoreRepository
	log       zerolog.Logger
}

func NewCartUsecase(
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
	inventory repo.InventoryRepository,
	stores repo.StoreRepository,
	log zerolog.Logger,
) *CartUsecase {
	return &CartUsecase{
		cartItems: cartItems,
		products:  products,
		inventory: inventory,
		stores:    stores,
		log:       log,
	}
}

// 明細に付ける商品の表示用情報
type CartProductView struct {
	ID          int64           `json:"id_producto"`
	Name        string          `json:"nombre"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    *string         `json:"imagen_url,omitempty"`
	StoreID     int64           `json:"id_tienda"`
	StoreName   string          `json:"nombre_tienda,omitempty"`
	Stock       *int64          `json:"stock,omitempty"`
	InventoryID int64           `json:"id_inventario"`
}

type CartItemResponse struct {
	ID        int64            `json:"id_carrito"`
	ProductID int64            `json:"id_producto"`
	Quantity  int64            `json:"cantidad"`
	UnitPrice decimal.Decimal  `json:"precio_unitario"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Product   *CartProductView `json:"producto,omitempty"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int64              `json:"item_count"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカートの中身を返す。合計と点数は毎回数え直す。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnresolvedUser()
	}
	return u.load(ctx, userID)
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnresolvedUser()
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	ve := &ValidationError{}
	if in.ProductID <= 0 {
		ve.Add("id_producto", "debe ser un número entero positivo")
	}
	if in.Quantity < 1 {
		ve.Add("cantidad", "debe ser mayor o igual a 1")
	}
	if err := ve.Err(); err != nil {
		return CartResponse{}, err
	}

	// 商品チェック（公開のみ）
	p, err := u.products.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "producto no encontrado")
	}
	if err != nil {
		u.log.Error().Err(err).Int64("product_id", in.ProductID).Msg("find product")
		return CartResponse{}, dbError(err)
	}
	if !p.Active {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "el producto no está disponible")
	}

	// 単価はその時点の商品価格
	if err := u.cartItems.UpsertActive(ctx, userID, p.ID, in.Quantity, p.Price); err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("upsert cart item")
		return CartResponse{}, dbError(err)
	}

	return u.load(ctx, userID)
}

// 数量変更。0以下は削除と同じ。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnresolvedUser()
	}
	if in.Quantity <= 0 {
		return u.RemoveCartItem(ctx, userID, cartItemID)
	}
	if _, err := u.ownedActiveItem(ctx, userID, cartItemID); err != nil {
		return CartResponse{}, err
	}

	if err := u.cartItems.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
		}
		u.log.Error().Err(err).Int64("cart_item_id", cartItemID).Msg("update cart quantity")
		return CartResponse{}, dbError(err)
	}

	return u.load(ctx, userID)
}

// 明細削除
func (u *CartUsecase) RemoveCartItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnresolvedUser()
	}
	if _, err := u.ownedActiveItem(ctx, userID, cartItemID); err != nil {
		return CartResponse{}, err
	}

	if err := u.cartItems.DeleteActive(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
		}
		u.log.Error().Err(err).Int64("cart_item_id", cartItemID).Msg("delete cart item")
		return CartResponse{}, dbError(err)
	}

	return u.load(ctx, userID)
}

// 他人の行・注文済みの行は「存在しない扱い」
func (u *CartUsecase) ownedActiveItem(ctx context.Context, userID, cartItemID int64) (model.CartItem, error) {
	if cartItemID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	item, err := u.cartItems.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return model.CartItem{}, dbError(err)
	}
	if item.UserID != userID || !item.InCart() {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	return item, nil
}

// カート行を読み、商品→在庫→店舗の順にまとめて引いてくっつける
func (u *CartUsecase) load(ctx context.Context, userID int64) (CartResponse, error) {
	items, err := u.cartItems.ListActiveByUserID(ctx, userID)
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("list cart")
		return CartResponse{}, dbError(err)
	}

	views, err := u.hydrateProducts(ctx, items)
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("hydrate cart")
		return CartResponse{}, dbError(err)
	}

	out := CartResponse{
		Items:     make([]CartItemResponse, 0, len(items)),
		Total:     model.CartTotal(items),
		ItemCount: model.CartItemCount(items),
	}
	for _, it := range items {
		row := CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.LineSubtotal,
		}
		if v, ok := views[it.ProductID]; ok {
			v := v
			row.Product = &v
		}
		out.Items = append(out.Items, row)
	}
	return out, nil
}

func (u *CartUsecase) hydrateProducts(ctx context.Context, items []model.CartItem) (map[int64]CartProductView, error) {
	productIDs := distinctIDs(items, func(c model.CartItem) int64 { return c.ProductID })
	if len(productIDs) == 0 {
		return map[int64]CartProductView{}, nil
	}

	products, err := u.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	invIDs := distinctIDs(products, func(p model.Product) int64 { return p.InventoryID })
	invs, err := u.inventory.FindByIDs(ctx, invIDs)
	if err != nil {
		return nil, err
	}
	invByID := indexByID(invs, func(r model.InventoryRecord) int64 { return r.ID })

	storeIDs := distinctIDs(products, func(p model.Product) int64 { return p.StoreID })
	stores, err := u.stores.FindByIDs(ctx, storeIDs)
	if err != nil {
		return nil, err
	}
	storeByID := indexByID(stores, func(s model.Store) int64 { return s.ID })

	views := make(map[int64]CartProductView, len(products))
	for _, p := range products {
		v := CartProductView{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			StoreID:     p.StoreID,
			InventoryID: p.InventoryID,
		}
		if inv, ok := invByID[p.InventoryID]; ok {
			stock := inv.Stock
			v.Stock = &stock
		}
		if s, ok := storeByID[p.StoreID]; ok {
			v.StoreName = s.Name
		}
		views[p.ID] = v
	}
	return views, nil
}
