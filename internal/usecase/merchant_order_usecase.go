package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"neighborhub/internal/domain/model"
	"neighborhub/internal/infra/messaging"
	repo "neighborhub/internal/repository"
)

const MsgIllegalTransition = "transición de estado no permitida"

// 店主向けの注文一覧とステータス更新
type MerchantOrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	stores    repo.StoreRepository
	addresses repo.AddressRepository
	users     repo.UserRepository
	events    messaging.OrderEventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

func NewMerchantOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	stores repo.StoreRepository,
	addresses repo.AddressRepository,
	users repo.UserRepository,
	events messaging.OrderEventPublisher,
	log zerolog.Logger,
) *MerchantOrderUsecase {
	if events == nil {
		events = messaging.NoopOrderPublisher{}
	}
	return &MerchantOrderUsecase{
		tx:        tx,
		orders:    orders,
		stores:    stores,
		addresses: addresses,
		users:     users,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

type UpdateOrderStatusInput struct {
	Status string
}

// 監査ログに残す形
type orderStatusSnapshot struct {
	Status      model.OrderStatus `json:"estado"`
	ConfirmedAt *time.Time        `json:"fecha_confirmacion,omitempty"`
	DeliveredAt *time.Time        `json:"fecha_entrega,omitempty"`
}

func parseStatusField(s string) (model.OrderStatus, error) {
	st, ok := model.ParseOrderStatus(s)
	if !ok {
		ve := &ValidationError{}
		ve.Add("estado", "valor no permitido: use pendiente, confirmado, entregado o cancelado")
		return "", ve
	}
	return st, nil
}

// List は店主の店舗の注文（新しい順）。statusが空なら全件。
func (u *MerchantOrderUsecase) List(ctx context.Context, merchantID int64, status string) ([]OrderOutput, error) {
	if merchantID <= 0 {
		return []OrderOutput{}, errUnresolvedUser()
	}

	f := repo.StoreOrderFilter{}
	if status != "" {
		st, err := parseStatusField(status)
		if err != nil {
			return []OrderOutput{}, err
		}
		f.Statuses = []model.OrderStatus{st}
	}

	stores, err := u.stores.ListByOwnerID(ctx, merchantID)
	if err != nil {
		u.log.Error().Err(err).Int64("merchant_id", merchantID).Msg("list merchant stores")
		return []OrderOutput{}, dbError(err)
	}
	if len(stores) == 0 {
		return []OrderOutput{}, nil
	}
	for _, s := range stores {
		f.StoreIDs = append(f.StoreIDs, s.ID)
	}

	orders, err := u.orders.ListByStores(ctx, f)
	if err != nil {
		u.log.Error().Err(err).Int64("merchant_id", merchantID).Msg("list store orders")
		return []OrderOutput{}, dbError(err)
	}

	outs, err := hydrateOrders(ctx, orders, u.stores, u.addresses, u.users)
	if err != nil {
		return []OrderOutput{}, dbError(err)
	}
	return outs, nil
}

// UpdateStatus は遷移表にそってステータスを変える。同じ値なら何もしない。
func (u *MerchantOrderUsecase) UpdateStatus(ctx context.Context, merchantID int64, orderID int64, in UpdateOrderStatusInput) (OrderOutput, error) {
	if merchantID <= 0 {
		return OrderOutput{}, errUnresolvedUser()
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	next, err := parseStatusField(in.Status)
	if err != nil {
		return OrderOutput{}, err
	}

	var (
		updated model.Order
		prev    model.OrderStatus
		changed bool
	)
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 行ロックして読むので、同時の更新は順番に遷移表で判定される
		o, err := r.Orders().LockByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, MsgNotFound)
		}
		if err != nil {
			return err
		}

		// 自分の店舗の注文でなければ「存在しない扱い」
		s, err := u.stores.FindByID(ctx, o.StoreID)
		if err == repo.ErrNotFound || (err == nil && s.OwnerID != merchantID) {
			return NewHTTPError(http.StatusNotFound, MsgNotFound)
		}
		if err != nil {
			return err
		}

		prev = o.Status
		// すでに同じなら何もしない（200）
		if o.Status.Is(next) {
			updated = o
			return nil
		}
		if !model.CanTransition(o.Status, next) {
			return NewHTTPError(http.StatusConflict, MsgIllegalTransition)
		}

		before := orderStatusSnapshot{Status: o.Status, ConfirmedAt: o.ConfirmedAt, DeliveredAt: o.DeliveredAt}
		o.ApplyStatus(next, u.now())
		after := orderStatusSnapshot{Status: o.Status, ConfirmedAt: o.ConfirmedAt, DeliveredAt: o.DeliveredAt}

		if err := r.Orders().UpdateStatus(ctx, o); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, MsgNotFound)
			}
			return err
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON, _ := json.Marshal(before)
		afterJSON, _ := json.Marshal(after)
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  merchantID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    u.now(),
		}); err != nil {
			return err
		}

		updated = o
		changed = true
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); !ok {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("update order status")
		}
		return OrderOutput{}, passOrDBError(err)
	}

	if changed {
		publishOrderEvent(ctx, u.events, u.log, messaging.NewOrderEvent(messaging.OrderStatusChanged, updated, prev, u.now()))
	}

	outs, err := hydrateOrders(ctx, []model.Order{updated}, u.stores, u.addresses, u.users)
	if err != nil {
		return OrderOutput{Order: updated}, nil
	}
	return outs[0], nil
}
