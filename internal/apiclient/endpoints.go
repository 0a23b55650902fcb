package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const headerIdempotencyKey = "X-Idempotency-Key"

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// 認証（トークン不要のもの）

func (c *Client) Register(ctx context.Context, in RegisterRequest) (User, error) {
	var out User
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: in, public: true}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthSession, error) {
	var out AuthSession
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: loginBody{Email: email, Password: password}, public: true}, &out)
	return out, err
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (AuthSession, error) {
	var out AuthSession
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/refresh", body: refreshBody{RefreshToken: refreshToken}, public: true}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", body: refreshBody{RefreshToken: refreshToken}, public: true}, nil)
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.get(ctx, "/auth/me", &out)
	return out, err
}

func (c *Client) LogoutAll(ctx context.Context) error {
	return c.post(ctx, "/auth/logout-all", nil, nil)
}

// 店舗・カテゴリ

func (c *Client) ListStores(ctx context.Context) ([]Store, error) {
	var out []Store
	err := c.get(ctx, "/tiendas", &out)
	return out, err
}

func (c *Client) CreateStore(ctx context.Context, in StoreRequest) (Store, error) {
	var out Store
	err := c.post(ctx, "/tiendas", in, &out)
	return out, err
}

func (c *Client) UpdateStore(ctx context.Context, id int64, in StoreRequest) (Store, error) {
	var out Store
	err := c.put(ctx, idPath("/tiendas", id), in, &out)
	return out, err
}

func (c *Client) DeleteStore(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/tiendas", id))
}

func (c *Client) ListCategories(ctx context.Context, storeID int64) ([]Category, error) {
	var out []Category
	err := c.get(ctx, idPath("/categorias", storeID), &out)
	return out, err
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryRequest) (Category, error) {
	var out Category
	err := c.post(ctx, "/categorias", in, &out)
	return out, err
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in CategoryRequest) (Category, error) {
	var out Category
	err := c.put(ctx, idPath("/categorias", id), in, &out)
	return out, err
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/categorias", id))
}

// 商品・在庫

func (c *Client) ListProducts(ctx context.Context, storeID int64, categoryID *int64) ([]Product, error) {
	path := idPath("/productos", storeID)
	if categoryID != nil {
		path += "?" + url.Values{"categoria": {strconv.FormatInt(*categoryID, 10)}}.Encode()
	}
	var out []Product
	err := c.get(ctx, path, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in ProductRequest) (Product, error) {
	var out Product
	err := c.post(ctx, "/productos", in, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductRequest) (Product, error) {
	var out Product
	err := c.put(ctx, idPath("/productos", id), in, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/productos", id))
}

func (c *Client) ListInventory(ctx context.Context, storeID int64) ([]InventoryRecord, error) {
	var out []InventoryRecord
	err := c.get(ctx, idPath("/inventarios", storeID), &out)
	return out, err
}

func (c *Client) CreateInventory(ctx context.Context, in InventoryRequest) (InventoryRecord, error) {
	var out InventoryRecord
	err := c.post(ctx, "/inventarios", in, &out)
	return out, err
}

func (c *Client) UpdateInventory(ctx context.Context, id int64, in InventoryRequest) (InventoryRecord, error) {
	var out InventoryRecord
	err := c.put(ctx, idPath("/inventarios", id), in, &out)
	return out, err
}

func (c *Client) DeleteInventory(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/inventarios", id))
}

// limitが0ならサーバーの既定値
func (c *Client) StockHistory(ctx context.Context, inventoryID int64, limit, offset int) ([]StockChange, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := idPath("/inventarios", inventoryID) + "/historial"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []StockChange
	err := c.get(ctx, path, &out)
	return out, err
}

// 住所

func (c *Client) ListAddresses(ctx context.Context) ([]Address, error) {
	var out []Address
	err := c.get(ctx, "/direcciones", &out)
	return out, err
}

func (c *Client) CreateAddress(ctx context.Context, in AddressRequest) (Address, error) {
	var out Address
	err := c.post(ctx, "/direcciones", in, &out)
	return out, err
}

func (c *Client) UpdateAddress(ctx context.Context, id int64, in AddressRequest) (Address, error) {
	var out Address
	err := c.put(ctx, idPath("/direcciones", id), in, &out)
	return out, err
}

func (c *Client) DeleteAddress(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/direcciones", id))
}

// カート

func (c *Client) GetCart(ctx context.Context) (Cart, error) {
	var out Cart
	err := c.get(ctx, "/carrito", &out)
	return out, err
}

func (c *Client) AddToCart(ctx context.Context, productID, quantity int64) (Cart, error) {
	body := struct {
		ProductID int64 `json:"id_producto"`
		Quantity  int64 `json:"cantidad"`
	}{productID, quantity}
	var out Cart
	err := c.post(ctx, "/carrito", body, &out)
	return out, err
}

func (c *Client) UpdateCartItem(ctx context.Context, cartItemID, quantity int64) (Cart, error) {
	body := struct {
		Quantity int64 `json:"cantidad"`
	}{quantity}
	var out Cart
	err := c.put(ctx, idPath("/carrito", cartItemID), body, &out)
	return out, err
}

func (c *Client) RemoveCartItem(ctx context.Context, cartItemID int64) (Cart, error) {
	var out Cart
	err := c.do(ctx, request{method: http.MethodDelete, path: idPath("/carrito", cartItemID)}, &out)
	return out, err
}

// 注文

// idempotencyKeyが空ならヘッダを付けない
func (c *Client) PlaceOrder(ctx context.Context, in PlaceOrderRequest, idempotencyKey string) (Order, error) {
	r := request{method: http.MethodPost, path: "/pedidos", body: in}
	if idempotencyKey != "" {
		r.headers = map[string]string{headerIdempotencyKey: idempotencyKey}
	}
	var out Order
	err := c.do(ctx, r, &out)
	return out, err
}

// 買い物客は自分の注文、店主は自分の店舗の注文
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.get(ctx, "/pedidos", &out)
	return out, err
}

func (c *Client) ListOrdersByStatus(ctx context.Context, status string) ([]Order, error) {
	var out []Order
	err := c.get(ctx, "/pedidos/estado/"+url.PathEscape(status), &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id int64) (Order, error) {
	var out Order
	err := c.get(ctx, idPath("/pedidos", id), &out)
	return out, err
}

func (c *Client) GetOrderItems(ctx context.Context, id int64) ([]OrderItem, error) {
	var out []OrderItem
	err := c.get(ctx, idPath("/pedidos", id)+"/items", &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status string) (Order, error) {
	body := struct {
		Status string `json:"estado"`
	}{status}
	var out Order
	err := c.put(ctx, idPath("/pedidos", id)+"/estado", body, &out)
	return out, err
}

// storeIDが0なら最初の店舗
func (c *Client) GetDashboard(ctx context.Context, storeID int64) (Dashboard, error) {
	path := "/dashboard"
	if storeID > 0 {
		path += "?" + url.Values{"tienda": {strconv.FormatInt(storeID, 10)}}.Encode()
	}
	var out Dashboard
	err := c.get(ctx, path, &out)
	return out, err
}

func idPath(prefix string, id int64) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
