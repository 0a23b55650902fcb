package validator

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"neighborhub/internal/domain/model"
	"neighborhub/internal/repository"
	"neighborhub/internal/usecase"
)

var (
	// emailが既に使用済み
	ErrEmailAlreadyUsed = errors.New("email already used")

	// refresh tokenが空
	ErrInvalidRefresh = errors.New("invalid refresh")
)

// パスワード最低文字数
const minPasswordLen = 8

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// 登録の入力を検証。項目ごとのエラーは422で返す。
func (v *authValidator) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error {
	ve := &usecase.ValidationError{}
	checkCredentials(ve, in.Email, in.Password)
	if len(in.Password) > 0 && len(in.Password) < minPasswordLen {
		ve.Add("password", "debe tener al menos 8 caracteres")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		ve.Add("nombre", "campo requerido")
	}
	if strings.TrimSpace(in.LastName) == "" {
		ve.Add("apellido", "campo requerido")
	}
	if in.Role != "" {
		if _, ok := model.ParseRole(in.Role); !ok {
			ve.Add("rol", "debe ser vecino o tiendero")
		}
	}
	if err := ve.Err(); err != nil {
		return err
	}

	// email重複チェック
	u, err := v.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err == nil && u != nil {
		return ErrEmailAlreadyUsed
	}
	return nil
}

func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	ve := &usecase.ValidationError{}
	checkCredentials(ve, email, password)
	return ve.Err()
}

func (v *authValidator) ValidateRefresh(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrInvalidRefresh
	}
	return nil
}

func checkCredentials(ve *usecase.ValidationError, email, password string) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		ve.Add("email", "campo requerido")
	case !isEmailLike(email):
		ve.Add("email", "correo electrónico inválido")
	}
	if password == "" {
		ve.Add("password", "campo requerido")
	}
}

// 簡易メール形式チェック
func isEmailLike(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}
