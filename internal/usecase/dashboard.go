package usecase

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"neighborhub/internal/domain/model"
	repo "neighborhub/internal/repository"
)

const (
	recentActivityLimit = 5
	dashboardDays       = 7
)

var weekdayLabels = [...]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

type DailyRevenue struct {
	Date    string          `json:"fecha"`
	Label   string          `json:"etiqueta"`
	Revenue decimal.Decimal `json:"ventas"`
}

type ActivityItem struct {
	OrderID      int64             `json:"id_pedido"`
	Status       model.OrderStatus `json:"estado"`
	Description  string            `json:"descripcion"`
	RelativeTime string            `json:"tiempo"`
	PlacedAt     time.Time         `json:"fecha_pedido"`
}

type Dashboard struct {
	StoreID          int64           `json:"id_tienda"`
	PendingCount     int             `json:"pending_count"`
	LowStockCount    int             `json:"low_stock_count"`
	WeeklyRevenue    decimal.Decimal `json:"weekly_revenue"`
	PriorWeekRevenue decimal.Decimal `json:"prior_week_revenue"`
	PercentChange    float64         `json:"percent_change"`
	DailySeries      []DailyRevenue  `json:"daily_series"`
	RecentActivity   []ActivityItem  `json:"recent_activity"`
}

// ComputeDashboard の入力。Ordersは店主の全店舗分、Inventoryは選択中の店舗分。
type DashboardInput struct {
	StoreID       int64
	Orders        []model.Order
	Inventory     []model.InventoryRecord
	CustomerNames map[int64]string
	Now           time.Time
	Location      *time.Location
}

// ComputeDashboard は取得済みの配列だけから指標を作る。保存もキャッシュもしない。
func ComputeDashboard(in DashboardInput) Dashboard {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	now := in.Now.In(loc)
	weekStart := now.AddDate(0, 0, -7)
	priorStart := now.AddDate(0, 0, -14)

	d := Dashboard{
		StoreID:          in.StoreID,
		WeeklyRevenue:    decimal.Zero,
		PriorWeekRevenue: decimal.Zero,
		DailySeries:      make([]DailyRevenue, 0, dashboardDays),
		RecentActivity:   []ActivityItem{},
	}

	// 今日を最後に7日分の枠を作る
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dayIndex := make(map[string]int, dashboardDays)
	for i := dashboardDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		dayIndex[key] = len(d.DailySeries)
		d.DailySeries = append(d.DailySeries, DailyRevenue{
			Date:    key,
			Label:   weekdayLabels[day.Weekday()],
			Revenue: decimal.Zero,
		})
	}

	for _, o := range in.Orders {
		if o.Status.IsOpen() {
			d.PendingCount++
		}
		if !o.Status.CountsAsRevenue() {
			continue
		}
		placed := o.PlacedAt.In(loc)
		switch {
		case placed.After(weekStart) && !placed.After(now):
			d.WeeklyRevenue = d.WeeklyRevenue.Add(o.Total)
			if i, ok := dayIndex[placed.Format("2006-01-02")]; ok {
				d.DailySeries[i].Revenue = d.DailySeries[i].Revenue.Add(o.Total)
			}
		case placed.After(priorStart) && !placed.After(weekStart):
			d.PriorWeekRevenue = d.PriorWeekRevenue.Add(o.Total)
		}
	}

	for _, rec := range in.Inventory {
		if rec.StoreID == in.StoreID && rec.IsLowStock() {
			d.LowStockCount++
		}
	}

	d.PercentChange = PercentChange(d.WeeklyRevenue, d.PriorWeekRevenue)

	for _, o := range RecentOrders(in.Orders, recentActivityLimit) {
		d.RecentActivity = append(d.RecentActivity, ActivityItem{
			OrderID:      o.ID,
			Status:       o.Status,
			Description:  activityDescription(o, in.CustomerNames),
			RelativeTime: RelativeTime(now, o.PlacedAt),
			PlacedAt:     o.PlacedAt,
		})
	}
	return d
}

// IsOpen()と同じ集合
var openStatuses = []model.OrderStatus{model.OrderStatusPending, model.OrderStatusConfirmed}

// idで重複を落として1つにする
func mergeOrders(batches ...[]model.Order) []model.Order {
	seen := map[int64]bool{}
	out := []model.Order{}
	for _, b := range batches {
		for _, o := range b {
			if seen[o.ID] {
				continue
			}
			seen[o.ID] = true
			out = append(out, o)
		}
	}
	return out
}

// 前週が0のときは、今週が正なら100、両方0なら0
func PercentChange(weekly, prior decimal.Decimal) float64 {
	if prior.IsZero() {
		if weekly.IsPositive() {
			return 100
		}
		return 0
	}
	return weekly.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// 新しい順（同時刻はID降順）にn件
func RecentOrders(orders []model.Order, n int) []model.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b model.Order) int {
		if c := b.PlacedAt.Compare(a.PlacedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func activityDescription(o model.Order, names map[int64]string) string {
	switch {
	case o.Status.Is(model.OrderStatusDelivered):
		return fmt.Sprintf("Pedido #%d entregado", o.ID)
	case o.Status.Is(model.OrderStatusCanceled):
		return fmt.Sprintf("Pedido #%d cancelado", o.ID)
	}
	name := names[o.UserID]
	if name == "" {
		name = model.User{}.DisplayName()
	}
	return "Nuevo pedido de " + name
}

// RelativeTime は「Hace 5 minutos」「Ayer」などを返す
func RelativeTime(now, t time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case mins < 60:
		return fmt.Sprintf("Hace %d minutos", mins)
	case hours < 24:
		if hours == 1 {
			return "Hace 1 hora"
		}
		return fmt.Sprintf("Hace %d horas", hours)
	case days == 1:
		return "Ayer"
	}
	return fmt.Sprintf("Hace %d días", days)
}

type DashboardUsecase struct {
	stores    repo.StoreRepository
	orders    repo.OrderRepository
	inventory repo.InventoryRepository
	users     repo.UserRepository
	loc       *time.Location
	log       zerolog.Logger
	now       func() time.Time
}

func NewDashboardUsecase(
	stores repo.StoreRepository,
	orders repo.OrderRepository,
	inventory repo.InventoryRepository,
	users repo.UserRepository,
	loc *time.Location,
	log zerolog.Logger,
) *DashboardUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUsecase{
		stores:    stores,
		orders:    orders,
		inventory: inventory,
		users:     users,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// GetDashboard は店主のダッシュボード。storeIDが0なら最初の店舗。
func (u *DashboardUsecase) GetDashboard(ctx context.Context, merchantID int64, storeID int64) (Dashboard, error) {
	if merchantID <= 0 {
		return Dashboard{}, errUnresolvedUser()
	}
	now := u.now()

	stores, err := u.stores.ListByOwnerID(ctx, merchantID)
	if err != nil {
		u.log.Error().Err(err).Int64("merchant_id", merchantID).Msg("list stores for dashboard")
		return Dashboard{}, dbError(err)
	}
	if len(stores) == 0 {
		return ComputeDashboard(DashboardInput{Now: now, Location: u.loc}), nil
	}

	selected := stores[0].ID
	storeIDs := make([]int64, 0, len(stores))
	owned := false
	for _, s := range stores {
		storeIDs = append(storeIDs, s.ID)
		if s.ID == storeID {
			owned = true
		}
	}
	if storeID > 0 {
		if !owned {
			return Dashboard{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
		}
		selected = storeID
	}

	// 全履歴は読まない。2週間分・対応待ち・直近n件の3本を同時に取って合わせる。
	from := now.AddDate(0, 0, -2*dashboardDays)
	filters := []repo.StoreOrderFilter{
		{StoreIDs: storeIDs, From: &from},
		{StoreIDs: storeIDs, Statuses: openStatuses},
		{StoreIDs: storeIDs, Limit: recentActivityLimit},
	}
	batches := make([][]model.Order, len(filters))
	var inventory []model.InventoryRecord

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range filters {
		i, f := i, f
		g.Go(func() error {
			var err error
			batches[i], err = u.orders.ListByStores(gctx, f)
			return err
		})
	}
	g.Go(func() error {
		var err error
		inventory, err = u.inventory.ListByStoreID(gctx, selected)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Error().Err(err).Int64("merchant_id", merchantID).Msg("load dashboard data")
		return Dashboard{}, dbError(err)
	}
	orders := mergeOrders(batches...)

	recent := RecentOrders(orders, recentActivityLimit)
	names := map[int64]string{}
	customers, err := u.users.FindByIDs(ctx, distinctIDs(recent, func(o model.Order) int64 { return o.UserID }))
	if err != nil {
		// 名前が取れなくても「Cliente」で表示できる
		u.log.Warn().Err(err).Msg("load customer names")
	}
	for _, c := range customers {
		names[c.ID] = c.DisplayName()
	}

	return ComputeDashboard(DashboardInput{
		StoreID:       selected,
		Orders:        orders,
		Inventory:     inventory,
		CustomerNames: names,
		Now:           now,
		Location:      u.loc,
	}), nil
}
