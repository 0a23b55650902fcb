package usecase

import (
	"context"
	"net/http"
	"strings"

	"neighborhub/internal/domain/model"
	repo "neighborhub/internal/repository"
)

// 店主の店舗でなければ404
func ownedStore(ctx context.Context, stores repo.StoreRepository, merchantID, storeID int64) (model.Store, error) {
	if storeID <= 0 {
		return model.Store{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	s, err := stores.FindByID(ctx, storeID)
	if err == repo.ErrNotFound {
		return model.Store{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return model.Store{}, dbError(err)
	}
	if s.OwnerID != merchantID {
		return model.Store{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	return s, nil
}

type StoreUsecase struct {
	stores repo.StoreRepository
}

func NewStoreUsecase(stores repo.StoreRepository) *StoreUsecase {
	return &StoreUsecase{stores: stores}
}

type StoreInput struct {
	Name        string
	Description *string
	Phone       *string
	Address     *string
	Status      string
	ImageURL    *string
}

func (in StoreInput) validate() (StoreInput, error) {
	ve := &ValidationError{}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		ve.Add("nombre_tienda", "campo requerido")
	}
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = model.StoreStatusActive
	}
	if in.Status != model.StoreStatusActive && in.Status != model.StoreStatusInactive {
		ve.Add("estado", "debe ser activa o inactiva")
	}
	return in, ve.Err()
}

// 店主は自分の店舗、買い物客は営業中の店舗
func (u *StoreUsecase) List(ctx context.Context, userID int64, role model.Role) ([]model.Store, error) {
	if userID <= 0 {
		return []model.Store{}, errUnresolvedUser()
	}
	var (
		list []model.Store
		err  error
	)
	if role == model.RoleMerchant {
		list, err = u.stores.ListByOwnerID(ctx, userID)
	} else {
		list, err = u.stores.ListByStatus(ctx, model.StoreStatusActive)
	}
	if err != nil {
		return []model.Store{}, dbError(err)
	}
	return list, nil
}

func (u *StoreUsecase) Create(ctx context.Context, merchantID int64, in StoreInput) (model.Store, error) {
	if merchantID <= 0 {
		return model.Store{}, errUnresolvedUser()
	}
	in, err := in.validate()
	if err != nil {
		return model.Store{}, err
	}

	s, err := u.stores.Create(ctx, model.Store{
		OwnerID:     merchantID,
		Name:        in.Name,
		Description: trimmedOrNil(in.Description),
		Phone:       trimmedOrNil(in.Phone),
		Address:     trimmedOrNil(in.Address),
		Status:      in.Status,
		ImageURL:    trimmedOrNil(in.ImageURL),
	})
	if err != nil {
		return model.Store{}, dbError(err)
	}
	return s, nil
}

func (u *StoreUsecase) Update(ctx context.Context, merchantID int64, storeID int64, in StoreInput) (model.Store, error) {
	if merchantID <= 0 {
		return model.Store{}, errUnresolvedUser()
	}
	s, err := ownedStore(ctx, u.stores, merchantID, storeID)
	if err != nil {
		return model.Store{}, err
	}
	in, err = in.validate()
	if err != nil {
		return model.Store{}, err
	}

	s.Name = in.Name
	s.Description = trimmedOrNil(in.Description)
	s.Phone = trimmedOrNil(in.Phone)
	s.Address = trimmedOrNil(in.Address)
	s.Status = in.Status
	s.ImageURL = trimmedOrNil(in.ImageURL)
	if err := u.stores.Update(ctx, s); err != nil {
		return model.Store{}, dbError(err)
	}
	return s, nil
}

func (u *StoreUsecase) Delete(ctx context.Context, merchantID int64, storeID int64) error {
	if merchantID <= 0 {
		return errUnresolvedUser()
	}
	if _, err := ownedStore(ctx, u.stores, merchantID, storeID); err != nil {
		return err
	}
	if err := u.stores.Delete(ctx, storeID); err != nil {
		return dbError(err)
	}
	return nil
}

type CategoryUsecase struct {
	categories repo.CategoryRepository
	stores     repo.StoreRepository
}

func NewCategoryUsecase(categories repo.CategoryRepository, stores repo.StoreRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, stores: stores}
}

type CategoryInput struct {
	StoreID     int64
	Name        string
	Description *string
}

func (u *CategoryUsecase) ListByStore(ctx context.Context, storeID int64) ([]model.Category, error) {
	if storeID <= 0 {
		return []model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	list, err := u.categories.ListByStoreID(ctx, storeID)
	if err != nil {
		return []model.Category{}, dbError(err)
	}
	return list, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, merchantID int64, in CategoryInput) (model.Category, error) {
	if merchantID <= 0 {
		return model.Category{}, errUnresolvedUser()
	}
	ve := &ValidationError{}
	if in.StoreID <= 0 {
		ve.Add("id_tienda", "campo requerido")
	}
	if strings.TrimSpace(in.Name) == "" {
		ve.Add("nombre", "campo requerido")
	}
	if err := ve.Err(); err != nil {
		return model.Category{}, err
	}
	if _, err := ownedStore(ctx, u.stores, merchantID, in.StoreID); err != nil {
		return model.Category{}, err
	}

	c, err := u.categories.Create(ctx, model.Category{
		StoreID:     in.StoreID,
		Name:        strings.TrimSpace(in.Name),
		Description: trimmedOrNil(in.Description),
	})
	if err != nil {
		return model.Category{}, dbError(err)
	}
	return c, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, merchantID int64, categoryID int64, in CategoryInput) (model.Category, error) {
	c, err := u.ownedCategory(ctx, merchantID, categoryID)
	if err != nil {
		return model.Category{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		ve := &ValidationError{}
		ve.Add("nombre", "campo requerido")
		return model.Category{}, ve
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Description = trimmedOrNil(in.Description)
	if err := u.categories.Update(ctx, c); err != nil {
		return model.Category{}, dbError(err)
	}
	return c, nil
}

func (u *CategoryUsecase) Delete(ctx context.Context, merchantID int64, categoryID int64) error {
	if _, err := u.ownedCategory(ctx, merchantID, categoryID); err != nil {
		return err
	}
	if err := u.categories.Delete(ctx, categoryID); err != nil {
		return dbError(err)
	}
	return nil
}

func (u *CategoryUsecase) ownedCategory(ctx context.Context, merchantID, categoryID int64) (model.Category, error) {
	if merchantID <= 0 {
		return model.Category{}, errUnresolvedUser()
	}
	if categoryID <= 0 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	c, err := u.categories.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return model.Category{}, dbError(err)
	}
	if _, err := ownedStore(ctx, u.stores, merchantID, c.StoreID); err != nil {
		return model.Category{}, err
	}
	return c, nil
}
