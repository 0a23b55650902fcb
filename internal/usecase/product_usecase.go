package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"neighborhub/internal/domain/model"
	repo "neighborhub/internal/repository"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	categoryRepo  repo.CategoryRepository
	storeRepo     repo.StoreRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	categoryRepo repo.CategoryRepository,
	storeRepo repo.StoreRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		categoryRepo:  categoryRepo,
		storeRepo:     storeRepo,
	}
}

// GET /productos/:idの入力
type ListProductsInput struct {
	StoreID    int64
	CategoryID *int64
	// 買い物客には公開中の商品だけ
	ActiveOnly bool
}

// 価格は文字列で受けて、数値でなければ422にする
type ProductInput struct {
	StoreID     int64
	InventoryID int64
	CategoryID  int64
	Name        string
	Description *string
	Price       string
	ImageURL    *string
	Active      *bool
}

func (u *ProductUsecase) ListByStore(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if in.StoreID <= 0 {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid categoria")
	}

	items, err := u.productRepo.List(ctx, repo.ProductListQuery{
		StoreID:    in.StoreID,
		CategoryID: in.CategoryID,
		ActiveOnly: in.ActiveOnly,
	})
	if err != nil {
		return []model.Product{}, dbError(err)
	}
	return items, nil
}

func parsePrice(ve *ValidationError, s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		ve.Add("precio", "campo requerido")
		return decimal.Zero
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		ve.Add("precio", "debe ser un número válido")
		return decimal.Zero
	}
	if p.IsNegative() {
		ve.Add("precio", "debe ser mayor o igual a 0")
	}
	return p.Round(2)
}

func (in ProductInput) validate() (decimal.Decimal, error) {
	ve := &ValidationError{}
	if in.StoreID <= 0 {
		ve.Add("id_tienda", "campo requerido")
	}
	if in.InventoryID <= 0 {
		ve.Add("id_inventario", "campo requerido")
	}
	if in.CategoryID <= 0 {
		ve.Add("id_categoria", "campo requerido")
	}
	if strings.TrimSpace(in.Name) == "" {
		ve.Add("nombre", "campo requerido")
	}
	price := parsePrice(ve, in.Price)
	return price, ve.Err()
}

// カテゴリと在庫が同じ店舗のものか
func (u *ProductUsecase) checkRefs(ctx context.Context, storeID, categoryID, inventoryID int64) error {
	c, err := u.categoryRepo.FindByID(ctx, categoryID)
	if err != nil && err != repo.ErrNotFound {
		return dbError(err)
	}
	inv, ierr := u.inventoryRepo.FindByID(ctx, inventoryID)
	if ierr != nil && ierr != repo.ErrNotFound {
		return dbError(ierr)
	}

	ve := &ValidationError{}
	if err == repo.ErrNotFound || c.StoreID != storeID {
		ve.Add("id_categoria", "la categoría no pertenece a la tienda")
	}
	if ierr == repo.ErrNotFound || inv.StoreID != storeID {
		ve.Add("id_inventario", "el inventario no pertenece a la tienda")
	}
	return ve.Err()
}

func (u *ProductUsecase) Create(ctx context.Context, merchantID int64, in ProductInput) (model.Product, error) {
	if merchantID <= 0 {
		return model.Product{}, errUnresolvedUser()
	}
	price, err := in.validate()
	if err != nil {
		return model.Product{}, err
	}
	if _, err := ownedStore(ctx, u.storeRepo, merchantID, in.StoreID); err != nil {
		return model.Product{}, err
	}
	if err := u.checkRefs(ctx, in.StoreID, in.CategoryID, in.InventoryID); err != nil {
		return model.Product{}, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	p, err := u.productRepo.Create(ctx, model.Product{
		StoreID:     in.StoreID,
		InventoryID: in.InventoryID,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: trimmedOrNil(in.Description),
		Price:       price,
		ImageURL:    trimmedOrNil(in.ImageURL),
		Active:      active,
	})
	if err != nil {
		return model.Product{}, dbError(err)
	}
	return p, nil
}

func (u *ProductUsecase) Update(ctx context.Context, merchantID int64, productID int64, in ProductInput) (model.Product, error) {
	current, err := u.ownedProduct(ctx, merchantID, productID)
	if err != nil {
		return model.Product{}, err
	}
	// 店舗の付け替えはしない
	in.StoreID = current.StoreID
	price, err := in.validate()
	if err != nil {
		return model.Product{}, err
	}
	if err := u.checkRefs(ctx, current.StoreID, in.CategoryID, in.InventoryID); err != nil {
		return model.Product{}, err
	}

	current.InventoryID = in.InventoryID
	current.CategoryID = in.CategoryID
	current.Name = strings.TrimSpace(in.Name)
	current.Description = trimmedOrNil(in.Description)
	current.Price = price
	current.ImageURL = trimmedOrNil(in.ImageURL)
	if in.Active != nil {
		current.Active = *in.Active
	}

	err = u.productRepo.Update(ctx, current)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return model.Product{}, dbError(err)
	}
	return current, nil
}

func (u *ProductUsecase) Delete(ctx context.Context, merchantID int64, productID int64) error {
	if _, err := u.ownedProduct(ctx, merchantID, productID); err != nil {
		return err
	}
	err := u.productRepo.Delete(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (u *ProductUsecase) ownedProduct(ctx context.Context, merchantID, productID int64) (model.Product, error) {
	if merchantID <= 0 {
		return model.Product{}, errUnresolvedUser()
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return model.Product{}, dbError(err)
	}
	if _, err := ownedStore(ctx, u.storeRepo, merchantID, p.StoreID); err != nil {
		return model.Product{}, err
	}
	return p, nil
}
