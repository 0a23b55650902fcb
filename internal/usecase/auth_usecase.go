package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"neighborhub/internal/config"
	"neighborhub/internal/domain/model"
	repo "neighborhub/internal/repository"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//403　停止ユーザー
	ErrForbidden = errors.New("forbidden")
	//401 使用済みrefreshの再利用
	ErrSecurityIncident = errors.New("security incident")
	//409 email重複
	ErrConflict = errors.New("conflict")
	//500
	ErrInternal = errors.New("internal error")
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, in RegisterInput) error
	ValidateLogin(ctx context.Context, email string, password string) error
	ValidateRefresh(ctx context.Context, refreshToken string) error
}

// access tokenのclaims。subはユーザーID（文字列）。
type AccessClaims struct {
	Role         string `json:"role"`
	TokenVersion int    `json:"tv"`
	jwt.RegisteredClaims
}

func (c AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type UserDTO struct {
	ID        int64   `json:"id_usuario"`
	Email     string  `json:"email"`
	FirstName string  `json:"nombre"`
	LastName  string  `json:"apellido"`
	Phone     *string `json:"telefono,omitempty"`
	Role      string  `json:"rol"`
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	Role      string
}

// login / refresh の返却
type AuthSession struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	TokenType    string  `json:"token_type"`
	ExpiresIn    int     `json:"expires_in"`
	RefreshToken string  `json:"refresh_token"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repo.UserRepository
	rtRepo    repo.RefreshTokenRepository
	validator AuthValidator
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthUsecase(
	cfg config.Config,
	users repo.UserRepository,
	rtRepo repo.RefreshTokenRepository,
	validator AuthValidator,
	log zerolog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		rtRepo:    rtRepo,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      string(u.Role),
	}
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return UserDTO{}, err
	}

	//パスワードは必ずハッシュ化して保存
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, ErrInternal
	}

	role, ok := model.ParseRole(in.Role)
	if !ok {
		role = model.RoleShopper
	}
	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(pwHash),
		Role:         role,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        trimmedOrNil(in.Phone),
		IsActive:     true,
	}

	if err := u.users.Create(ctx, user); err != nil {
		// 同時登録でunique違反になった場合
		if errors.Is(err, repo.ErrConflict) {
			return UserDTO{}, ErrConflict
		}
		u.log.Error().Err(err).Msg("create user")
		return UserDTO{}, ErrInternal
	}
	return toUserDTO(user), nil
}

func (u *AuthUsecase) Login(ctx context.Context, email, password, userAgent string) (AuthSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := u.validator.ValidateLogin(ctx, email, password); err != nil {
		return AuthSession{}, err
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return AuthSession{}, ErrUnauthorized
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return AuthSession{}, ErrForbidden
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthSession{}, ErrUnauthorized
	}

	now := u.now()
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		u.log.Warn().Err(err).Int64("user_id", user.ID).Msg("update last login")
	}

	return u.issueSession(ctx, user, userAgent)
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, ErrUnauthorized
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return UserDTO{}, ErrUnauthorized
	}
	if !user.IsActive {
		return UserDTO{}, ErrForbidden
	}
	return toUserDTO(user), nil
}

// refreshはローテーション。使用済みが来たら全セッションを消す。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshTokenPlain string, userAgent string) (AuthSession, error) {
	if err := u.validator.ValidateRefresh(ctx, refreshTokenPlain); err != nil {
		return AuthSession{}, err
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshTokenPlain))
	if err != nil || rt == nil {
		return AuthSession{}, ErrUnauthorized
	}

	now := u.now()
	if rt.ExpiresAt.Before(now) {
		_ = u.rtRepo.DeleteByID(ctx, rt.ID)
		return AuthSession{}, ErrUnauthorized
	}
	if rt.RevokedAt != nil {
		return AuthSession{}, ErrUnauthorized
	}

	//replay
	if rt.UsedAt != nil {
		u.log.Warn().Int64("user_id", rt.UserID).Msg("refresh token replay detected")
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return AuthSession{}, ErrSecurityIncident
	}

	//user_agent違いも再認証扱い
	if userAgent != "" && rt.UserAgent != "" && userAgent != rt.UserAgent {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return AuthSession{}, ErrSecurityIncident
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil || user == nil {
		return AuthSession{}, ErrUnauthorized
	}
	if !user.IsActive {
		return AuthSession{}, ErrForbidden
	}

	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return AuthSession{}, ErrSecurityIncident
	}

	return u.issueSession(ctx, user, userAgent)
}

// refreshを失効させる。見つからなくても成功扱い。
func (u *AuthUsecase) Logout(ctx context.Context, refreshTokenPlain string) error {
	if strings.TrimSpace(refreshTokenPlain) == "" {
		return ErrUnauthorized
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshTokenPlain))
	if err != nil || rt == nil {
		return nil
	}
	if err := u.rtRepo.Revoke(ctx, rt.ID, u.now()); err != nil {
		return ErrInternal
	}
	return nil
}

// 全端末からログアウト。token_versionを上げて既存のaccess tokenも無効にする。
func (u *AuthUsecase) LogoutAll(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if err := u.users.IncrementTokenVersion(ctx, userID); err != nil {
		return ErrInternal
	}
	if err := u.rtRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return ErrInternal
	}
	return nil
}

func (u *AuthUsecase) issueSession(ctx context.Context, user *model.User, userAgent string) (AuthSession, error) {
	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return AuthSession{}, ErrInternal
	}

	//DBにはhashだけ保存
	refreshPlain, refreshHash, err := newRandomTokenAndHash()
	if err != nil {
		return AuthSession{}, ErrInternal
	}
	rt := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		UserAgent: userAgent,
		ExpiresAt: u.now().Add(u.cfg.RefreshTokenTTL),
	}
	if err := u.rtRepo.Create(ctx, rt); err != nil {
		return AuthSession{}, ErrInternal
	}

	return AuthSession{
		User:         toUserDTO(user),
		AccessToken:  accessToken,
		TokenType:    "bearer",
		ExpiresIn:    expiresIn,
		RefreshToken: refreshPlain,
	}, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := u.now()
	claims := AccessClaims{
		Role:         string(user.Role),
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.cfg.AccessTokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, int(u.cfg.AccessTokenTTL.Seconds()), nil
}

// refresh token生成（平文 + DB保存hash）
func newRandomTokenAndHash() (plain string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(b)
	return plain, hashToken(plain), nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
