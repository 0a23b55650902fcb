package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"neighborhub/internal/domain/model"
	"neighborhub/internal/infra/messaging"
	repo "neighborhub/internal/repository"
	"neighborhub/internal/usecase"
)

type merchantFixture struct {
	tx        *TxManagerMock
	txOrders  *OrderRepoMock
	audit     *AuditRepoMock
	orders    *OrderRepoMock
	stores    *StoreRepoMock
	addresses *AddressRepoMock
	users     *UserRepoMock
	events    *PublisherMock
	uc        *usecase.MerchantOrderUsecase
}

func newMerchantFixture() merchantFixture {
	f := merchantFixture{
		txOrders:  &OrderRepoMock{},
		audit:     &AuditRepoMock{},
		orders:    &OrderRepoMock{},
		stores:    &StoreRepoMock{},
		addresses: &AddressRepoMock{},
		users:     &UserRepoMock{},
		events:    &PublisherMock{},
	}
	f.tx = &TxManagerMock{Repos: &TxReposMock{orders: f.txOrders, cartItems: &CartItemRepoMock{}, auditLogs: f.audit}}
	f.uc = usecase.NewMerchantOrderUsecase(f.tx, f.orders, f.stores, f.addresses, f.users, f.events, zerolog.Nop())
	return f
}

func (f merchantFixture) hydrates() {
	f.stores.On("FindByIDs", mock.Anything, mock.Anything).Return([]model.Store{{ID: 7, OwnerID: 20}}, nil)
	f.addresses.On("FindByIDs", mock.Anything, mock.Anything).Return([]model.Address{}, nil)
	f.users.On("FindByIDs", mock.Anything, mock.Anything).Return([]model.User{{ID: 1, FirstName: "Ana", LastName: "Ruiz"}}, nil)
}

func TestMerchantOrderUsecase_UpdateStatus_ConfirmWritesAuditAndPublishes(t *testing.T) {
	f := newMerchantFixture()
	f.hydrates()

	f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
	f.txOrders.On("LockByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, UserID: 1, StoreID: 7, Status: "PENDIENTE"}, nil).Once()
	f.stores.On("FindByID", mock.Anything, int64(7)).Return(model.Store{ID: 7, OwnerID: 20}, nil).Once()
	f.txOrders.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Status == model.OrderStatusConfirmed && o.ConfirmedAt != nil && o.DeliveredAt == nil
	})).Return(nil).Once()

	var logged model.AuditLog
	f.audit.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		logged = args.Get(1).(model.AuditLog)
	}).Return(nil).Once()
	f.events.On("Publish", mock.Anything, mock.MatchedBy(func(ev messaging.OrderEvent) bool {
		return ev.Type == messaging.OrderStatusChanged && ev.Status == model.OrderStatusConfirmed && ev.PrevStatus == "PENDIENTE"
	})).Return(nil).Once()

	got, err := f.uc.UpdateStatus(context.Background(), 20, 5, usecase.UpdateOrderStatusInput{Status: "Confirmed"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, got.Status)
	assert.Equal(t, "Ana Ruiz", got.Customer)

	assert.Equal(t, model.AuditActionUpdateOrderStatus, logged.Action)
	assert.Equal(t, int64(20), logged.ActorUserID)
	var before, after map[string]any
	require.NoError(t, json.Unmarshal([]byte(logged.BeforeJSON), &before))
	require.NoError(t, json.Unmarshal([]byte(logged.AfterJSON), &after))
	assert.Equal(t, "PENDIENTE", before["estado"])
	assert.Equal(t, "confirmado", after["estado"])
	assert.NotNil(t, after["fecha_confirmacion"])

	f.txOrders.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestMerchantOrderUsecase_UpdateStatus_SameStatusIsNoop(t *testing.T) {
	f := newMerchantFixture()
	f.hydrates()

	f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
	f.txOrders.On("LockByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, StoreID: 7, Status: model.OrderStatusDelivered}, nil).Once()
	f.stores.On("FindByID", mock.Anything, int64(7)).Return(model.Store{ID: 7, OwnerID: 20}, nil).Once()

	got, err := f.uc.UpdateStatus(context.Background(), 20, 5, usecase.UpdateOrderStatusInput{Status: "entregado"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, got.Status)

	f.txOrders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestMerchantOrderUsecase_UpdateStatus_IllegalTransition(t *testing.T) {
	f := newMerchantFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
	f.txOrders.On("LockByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, StoreID: 7, Status: model.OrderStatusCanceled}, nil).Once()
	f.stores.On("FindByID", mock.Anything, int64(7)).Return(model.Store{ID: 7, OwnerID: 20}, nil).Once()

	_, err := f.uc.UpdateStatus(context.Background(), 20, 5, usecase.UpdateOrderStatusInput{Status: "confirmado"})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Equal(t, usecase.MsgIllegalTransition, he.Message)
	f.txOrders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestMerchantOrderUsecase_UpdateStatus_NotOwnStore(t *testing.T) {
	f := newMerchantFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
	f.txOrders.On("LockByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, StoreID: 7, Status: model.OrderStatusPending}, nil).Once()
	f.stores.On("FindByID", mock.Anything, int64(7)).Return(model.Store{ID: 7, OwnerID: 99}, nil).Once()

	_, err := f.uc.UpdateStatus(context.Background(), 20, 5, usecase.UpdateOrderStatusInput{Status: "confirmado"})
	assert.Equal(t, http.StatusNotFound, httpStatus(err))
}

func TestMerchantOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	f := newMerchantFixture()

	_, err := f.uc.UpdateStatus(context.Background(), 20, 5, usecase.UpdateOrderStatusInput{Status: "enviado"})
	ve, ok := usecase.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "estado", ve.Fields[0].Field)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestMerchantOrderUsecase_List_FiltersByStatusAndStores(t *testing.T) {
	f := newMerchantFixture()
	f.hydrates()

	f.stores.On("ListByOwnerID", mock.Anything, int64(20)).Return([]model.Store{{ID: 7}, {ID: 8}}, nil).Once()
	f.orders.On("ListByStores", mock.Anything, mock.MatchedBy(func(q repo.StoreOrderFilter) bool {
		return len(q.StoreIDs) == 2 && q.StoreIDs[0] == 7 && q.StoreIDs[1] == 8 &&
			len(q.Statuses) == 1 && q.Statuses[0] == model.OrderStatusPending
	})).Return([]model.Order{{ID: 1, UserID: 1, StoreID: 7}}, nil).Once()

	got, err := f.uc.List(context.Background(), 20, "Pending")
	require.NoError(t, err)
	require.Len(t, got, 1)
	f.orders.AssertExpectations(t)
}

func TestMerchantOrderUsecase_List_NoStores(t *testing.T) {
	f := newMerchantFixture()
	f.stores.On("ListByOwnerID", mock.Anything, int64(20)).Return([]model.Store{}, nil).Once()

	got, err := f.uc.List(context.Background(), 20, "")
	require.NoError(t, err)
	assert.Empty(t, got)
	f.orders.AssertNotCalled(t, "ListByStores", mock.Anything, mock.Anything)
}
