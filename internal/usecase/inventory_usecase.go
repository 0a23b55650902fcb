package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"neighborhub/internal/domain/model"
	repo "neighborhub/internal/repository"
)

// 在庫は店主が直接編集する。注文では減らさない。
type InventoryUsecase struct {
	inventory repo.InventoryRepository
	stores    repo.StoreRepository
	auditRepo repo.AuditLogRepository
	log       zerolog.Logger
	now       func() time.Time
}

func NewInventoryUsecase(
	inventory repo.InventoryRepository,
	stores repo.StoreRepository,
	auditRepo repo.AuditLogRepository,
	log zerolog.Logger,
) *InventoryUsecase {
	return &InventoryUsecase{
		inventory: inventory,
		stores:    stores,
		auditRepo: auditRepo,
		log:       log,
		now:       time.Now,
	}
}

type InventoryInput struct {
	StoreID     int64
	Stock       string
	Description *string
}

type stockSnapshot struct {
	Stock int64 `json:"stock"`
}

func parseStock(ve *ValidationError, s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		ve.Add("stock", "campo requerido")
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		ve.Add("stock", "debe ser un número entero")
		return 0
	}
	if n < 0 {
		ve.Add("stock", "debe ser mayor o igual a 0")
	}
	return n
}

func (u *InventoryUsecase) ListByStore(ctx context.Context, merchantID int64, storeID int64) ([]model.InventoryRecord, error) {
	if merchantID <= 0 {
		return []model.InventoryRecord{}, errUnresolvedUser()
	}
	if _, err := ownedStore(ctx, u.stores, merchantID, storeID); err != nil {
		return []model.InventoryRecord{}, err
	}
	list, err := u.inventory.ListByStoreID(ctx, storeID)
	if err != nil {
		return []model.InventoryRecord{}, dbError(err)
	}
	return list, nil
}

func (u *InventoryUsecase) Create(ctx context.Context, merchantID int64, in InventoryInput) (model.InventoryRecord, error) {
	if merchantID <= 0 {
		return model.InventoryRecord{}, errUnresolvedUser()
	}
	ve := &ValidationError{}
	if in.StoreID <= 0 {
		ve.Add("id_tienda", "campo requerido")
	}
	stock := parseStock(ve, in.Stock)
	if err := ve.Err(); err != nil {
		return model.InventoryRecord{}, err
	}
	if _, err := ownedStore(ctx, u.stores, merchantID, in.StoreID); err != nil {
		return model.InventoryRecord{}, err
	}

	now := u.now()
	rec, err := u.inventory.Create(ctx, model.InventoryRecord{
		StoreID:     in.StoreID,
		Stock:       stock,
		Description: trimmedOrNil(in.Description),
		LastUpdated: &now,
	})
	if err != nil {
		return model.InventoryRecord{}, dbError(err)
	}
	return rec, nil
}

// 在庫数の更新。監査ログ（UPDATE_STOCK）を残す。
func (u *InventoryUsecase) Update(ctx context.Context, merchantID int64, inventoryID int64, in InventoryInput) (model.InventoryRecord, error) {
	rec, err := u.ownedRecord(ctx, merchantID, inventoryID)
	if err != nil {
		return model.InventoryRecord{}, err
	}
	ve := &ValidationError{}
	stock := parseStock(ve, in.Stock)
	if err := ve.Err(); err != nil {
		return model.InventoryRecord{}, err
	}

	before := stockSnapshot{Stock: rec.Stock}
	now := u.now()
	rec.Stock = stock
	if in.Description != nil {
		rec.Description = trimmedOrNil(in.Description)
	}
	rec.LastUpdated = &now

	err = u.inventory.Update(ctx, rec)
	if err == repo.ErrNotFound {
		return model.InventoryRecord{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return model.InventoryRecord{}, dbError(err)
	}

	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(stockSnapshot{Stock: rec.Stock})
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  merchantID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceInventory,
		ResourceID:   rec.ID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    now,
	}); err != nil {
		// 在庫は更新済みなので失敗にはしない
		u.log.Error().Err(err).Int64("inventory_id", rec.ID).Msg("write stock audit log")
	}
	return rec, nil
}

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// 在庫数の変更1回分（UPDATE_STOCKの監査ログから作る）
type StockChange struct {
	ID          int64     `json:"id"`
	InventoryID int64     `json:"id_inventario"`
	ActorUserID int64     `json:"id_usuario"`
	Before      *int64    `json:"stock_anterior"`
	After       *int64    `json:"stock_nuevo"`
	ChangedAt   time.Time `json:"fecha"`
}

// StockHistory は自分の店舗の在庫の変更履歴を新しい順に返す。
func (u *InventoryUsecase) StockHistory(ctx context.Context, merchantID int64, inventoryID int64, limit, offset int) ([]StockChange, error) {
	if _, err := u.ownedRecord(ctx, merchantID, inventoryID); err != nil {
		return []StockChange{}, err
	}
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := u.auditRepo.ListByResource(ctx, repo.AuditLogFilter{
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceInventory,
		ResourceID:   inventoryID,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		u.log.Error().Err(err).Int64("inventory_id", inventoryID).Msg("list stock history")
		return []StockChange{}, dbError(err)
	}

	out := make([]StockChange, 0, len(logs))
	for _, l := range logs {
		out = append(out, StockChange{
			ID:          l.ID,
			InventoryID: l.ResourceID,
			ActorUserID: l.ActorUserID,
			Before:      stockFromJSON(l.BeforeJSON),
			After:       stockFromJSON(l.AfterJSON),
			ChangedAt:   l.CreatedAt,
		})
	}
	return out, nil
}

// 壊れたJSONはnil
func stockFromJSON(raw string) *int64 {
	var snap stockSnapshot
	if raw == "" || json.Unmarshal([]byte(raw), &snap) != nil {
		return nil
	}
	return &snap.Stock
}

func (u *InventoryUsecase) Delete(ctx context.Context, merchantID int64, inventoryID int64) error {
	if _, err := u.ownedRecord(ctx, merchantID, inventoryID); err != nil {
		return err
	}
	err := u.inventory.Delete(ctx, inventoryID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (u *InventoryUsecase) ownedRecord(ctx context.Context, merchantID, inventoryID int64) (model.InventoryRecord, error) {
	if merchantID <= 0 {
		return model.InventoryRecord{}, errUnresolvedUser()
	}
	if inventoryID <= 0 {
		return model.InventoryRecord{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := u.inventory.FindByID(ctx, inventoryID)
	if err == repo.ErrNotFound {
		return model.InventoryRecord{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return model.InventoryRecord{}, dbError(err)
	}
	if _, err := ownedStore(ctx, u.stores, merchantID, rec.StoreID); err != nil {
		return model.InventoryRecord{}, err
	}
	return rec, nil
}
