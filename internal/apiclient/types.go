package apiclient

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64   `json:"id_usuario" yaml:"id_usuario"`
	Email     string  `json:"email" yaml:"email"`
	FirstName string  `json:"nombre" yaml:"nombre"`
	LastName  string  `json:"apellido" yaml:"apellido"`
	Phone     *string `json:"telefono,omitempty" yaml:"telefono,omitempty"`
	Role      string  `json:"rol" yaml:"rol"`
}

type AuthSession struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"nombre"`
	LastName  string  `json:"apellido"`
	Phone     *string `json:"telefono,omitempty"`
	Role      string  `json:"rol"`
}

type Store struct {
	ID          int64   `json:"id_tienda"`
	OwnerID     int64   `json:"id_propietario"`
	Name        string  `json:"nombre_tienda"`
	Description *string `json:"descripcion,omitempty"`
	Phone       *string `json:"telefono,omitempty"`
	Address     *string `json:"direccion,omitempty"`
	Status      string  `json:"estado"`
	ImageURL    *string `json:"imagen_url,omitempty"`
}

type StoreRequest struct {
	Name        string  `json:"nombre_tienda"`
	Description *string `json:"descripcion,omitempty"`
	Phone       *string `json:"telefono,omitempty"`
	Address     *string `json:"direccion,omitempty"`
	Status      string  `json:"estado,omitempty"`
	ImageURL    *string `json:"imagen_url,omitempty"`
}

type Category struct {
	ID          int64   `json:"id_categoria"`
	StoreID     int64   `json:"id_tienda"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion,omitempty"`
}

type CategoryRequest struct {
	StoreID     int64   `json:"id_tienda"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion,omitempty"`
}

type Product struct {
	ID          int64           `json:"id_producto"`
	StoreID     int64           `json:"id_tienda"`
	InventoryID int64           `json:"id_inventario"`
	CategoryID  int64           `json:"id_categoria"`
	Name        string          `json:"nombre"`
	Description *string         `json:"descripcion,omitempty"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    *string         `json:"imagen_url,omitempty"`
	Active      bool            `json:"activo"`
}

// Priceは文字列で送る（"12.50"）
type ProductRequest struct {
	StoreID     int64   `json:"id_tienda"`
	InventoryID int64   `json:"id_inventario"`
	CategoryID  int64   `json:"id_categoria"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion,omitempty"`
	Price       string  `json:"precio"`
	ImageURL    *string `json:"imagen_url,omitempty"`
	Active      *bool   `json:"activo,omitempty"`
}

type InventoryRecord struct {
	ID          int64      `json:"id_inventario"`
	StoreID     int64      `json:"id_tienda"`
	Stock       int64      `json:"stock"`
	Description *string    `json:"descripcion,omitempty"`
	LastUpdated *time.Time `json:"fecha_actualizacion,omitempty"`
}

type InventoryRequest struct {
	StoreID     int64   `json:"id_tienda"`
	Stock       string  `json:"stock"`
	Description *string `json:"descripcion,omitempty"`
}

type StockChange struct {
	ID          int64     `json:"id"`
	InventoryID int64     `json:"id_inventario"`
	ActorUserID int64     `json:"id_usuario"`
	Before      *int64    `json:"stock_anterior"`
	After       *int64    `json:"stock_nuevo"`
	ChangedAt   time.Time `json:"fecha"`
}

type Address struct {
	ID        int64    `json:"id_direccion"`
	UserID    int64    `json:"id_usuario"`
	Text      string   `json:"direccion"`
	Reference *string  `json:"referencia,omitempty"`
	Latitude  *float64 `json:"latitud,omitempty"`
	Longitude *float64 `json:"longitud,omitempty"`
}

type AddressRequest struct {
	Text      string   `json:"direccion"`
	Reference *string  `json:"referencia,omitempty"`
	Latitude  *float64 `json:"latitud,omitempty"`
	Longitude *float64 `json:"longitud,omitempty"`
}

type CartProduct struct {
	ID          int64           `json:"id_producto"`
	Name        string          `json:"nombre"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    *string         `json:"imagen_url,omitempty"`
	StoreID     int64           `json:"id_tienda"`
	StoreName   string          `json:"nombre_tienda,omitempty"`
	Stock       *int64          `json:"stock,omitempty"`
	InventoryID int64           `json:"id_inventario"`
}

type CartItem struct {
	ID        int64           `json:"id_carrito"`
	ProductID int64           `json:"id_producto"`
	Quantity  int64           `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Product   *CartProduct    `json:"producto,omitempty"`
}

type Cart struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int64           `json:"item_count"`
}

type Order struct {
	ID          int64           `json:"id_pedido"`
	UserID      int64           `json:"id_usuario"`
	StoreID     int64           `json:"id_tienda"`
	AddressID   int64           `json:"id_direccion"`
	Status      string          `json:"estado"`
	Total       decimal.Decimal `json:"total"`
	Notes       *string         `json:"observaciones,omitempty"`
	PlacedAt    time.Time       `json:"fecha_pedido"`
	ConfirmedAt *time.Time      `json:"fecha_confirmacion,omitempty"`
	DeliveredAt *time.Time      `json:"fecha_entrega,omitempty"`
	Store       *Store          `json:"tienda,omitempty"`
	Address     *Address        `json:"direccion,omitempty"`
	Customer    string          `json:"cliente,omitempty"`
}

type PlaceOrderRequest struct {
	StoreID   int64   `json:"id_tienda,omitempty"`
	AddressID int64   `json:"id_direccion"`
	Notes     *string `json:"observaciones,omitempty"`
}

type OrderItem struct {
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

type DailyRevenue struct {
	Date    string          `json:"fecha"`
	Label   string          `json:"etiqueta"`
	Revenue decimal.Decimal `json:"ventas"`
}

type Activity struct {
	OrderID      int64     `json:"id_pedido"`
	Status       string    `json:"estado"`
	Description  string    `json:"descripcion"`
	RelativeTime string    `json:"tiempo"`
	PlacedAt     time.Time `json:"fecha_pedido"`
}

type Dashboard struct {
	StoreID          int64           `json:"id_tienda"`
	PendingCount     int             `json:"pending_count"`
	LowStockCount    int             `json:"low_stock_count"`
	WeeklyRevenue    decimal.Decimal `json:"weekly_revenue"`
	PriorWeekRevenue decimal.Decimal `json:"prior_week_revenue"`
	PercentChange    float64         `json:"percent_change"`
	DailySeries      []DailyRevenue  `json:"daily_series"`
	RecentActivity   []Activity      `json:"recent_activity"`
}
