package usecase

import (
	"context"
	"net/http"
	"strings"

	"neighborhub/internal/domain/model"
	repo "neighborhub/internal/repository"
)

type AddressInput struct {
	Text      string
	Reference *string
	Latitude  *float64
	Longitude *float64
}

func (in AddressInput) validate() error {
	ve := &ValidationError{}
	if strings.TrimSpace(in.Text) == "" {
		ve.Add("direccion", "campo requerido")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		ve.Add("latitud", "debe estar entre -90 y 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		ve.Add("longitud", "debe estar entre -180 y 180")
	}
	return ve.Err()
}

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]model.Address, error) {
	if userID <= 0 {
		return []model.Address{}, errUnresolvedUser()
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return []model.Address{}, dbError(err)
	}
	return list, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in AddressInput) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, errUnresolvedUser()
	}
	if err := in.validate(); err != nil {
		return model.Address{}, err
	}

	a, err := u.addresses.Create(ctx, model.Address{
		UserID:    userID,
		Text:      strings.TrimSpace(in.Text),
		Reference: trimmedOrNil(in.Reference),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	})
	if err != nil {
		return model.Address{}, dbError(err)
	}
	return a, nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, in AddressInput) (model.Address, error) {
	a, err := u.owned(ctx, userID, addressID)
	if err != nil {
		return model.Address{}, err
	}
	if err := in.validate(); err != nil {
		return model.Address{}, err
	}

	a.Text = strings.TrimSpace(in.Text)
	a.Reference = trimmedOrNil(in.Reference)
	a.Latitude = in.Latitude
	a.Longitude = in.Longitude
	if err := u.addresses.Update(ctx, a); err != nil {
		return model.Address{}, dbError(err)
	}
	return a, nil
}

// 注文で使われている住所はFKで消せない（400で返る）
func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if _, err := u.owned(ctx, userID, addressID); err != nil {
		return err
	}
	if err := u.addresses.Delete(ctx, addressID); err != nil {
		return dbError(err)
	}
	return nil
}

// 他人の住所は「存在しない扱い」
func (u *AddressUsecase) owned(ctx context.Context, userID, addressID int64) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, errUnresolvedUser()
	}
	if addressID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := u.addresses.FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return model.Address{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return model.Address{}, dbError(err)
	}
	if a.UserID != userID {
		return model.Address{}, NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	return a, nil
}
