package apiclient

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type AuthEvent string

const (
	SignedIn       AuthEvent = "SIGNED_IN"
	TokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	SignedOut      AuthEvent = "SIGNED_OUT"
)

// 期限の少し前に更新する
const refreshSkew = 30 * time.Second

// ファイルに保存できる形のセッション
type SessionState struct {
	AccessToken  string    `yaml:"access_token" json:"access_token"`
	RefreshToken string    `yaml:"refresh_token" json:"refresh_token"`
	ExpiresAt    time.Time `yaml:"expires_at" json:"expires_at"`
	User         User      `yaml:"user" json:"user"`
}

type AuthListener func(ev AuthEvent, state *SessionState)

// Session はTokenProviderの実装。期限切れのaccess tokenは送る前に更新する。
type Session struct {
	mu        sync.Mutex
	client    *Client
	state     *SessionState
	listeners map[int]AuthListener
	nextID    int
	refreshes singleflight.Group
	now       func() time.Time
}

// NewWithSession はSessionをトークン元にしたClientを作る。savedはnilでもよい。
func NewWithSession(baseURL string, saved *SessionState, opts ...Option) (*Client, *Session) {
	s := &Session{
		state:     saved,
		listeners: map[int]AuthListener{},
		now:       time.Now,
	}
	c := New(baseURL, s, opts...)
	s.client = c
	return c, s
}

// OnAuthStateChange の戻り値を呼ぶと購読解除
func (s *Session) OnAuthStateChange(fn AuthListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Current は現在のセッションのコピー。なければnil。
func (s *Session) Current() *SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil
	}
	cp := *s.state
	return &cp
}

func (s *Session) SignIn(ctx context.Context, email, password string) (User, error) {
	out, err := s.client.Login(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	s.mu.Lock()
	s.state = s.fromAuth(out)
	s.mu.Unlock()
	s.emit(SignedIn)
	return out.User, nil
}

// SignOut はサーバー側のrefresh tokenも失効させる。サーバーが失敗してもローカルは消す。
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	st := s.state
	s.state = nil
	s.mu.Unlock()
	if st == nil {
		return nil
	}

	err := s.client.Logout(ctx, st.RefreshToken)
	s.emit(SignedOut)
	return err
}

func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state == nil || s.state.AccessToken == "" {
		s.mu.Unlock()
		return "", ErrNoSession
	}
	if s.now().Add(refreshSkew).Before(s.state.ExpiresAt) {
		tok := s.state.AccessToken
		s.mu.Unlock()
		return tok, nil
	}
	rt := s.state.RefreshToken
	s.mu.Unlock()

	// rotationがあるので同時に2回refreshするとreplay扱いになる。1回にまとめる。
	v, err, _ := s.refreshes.Do(rt, func() (any, error) {
		return s.refresh(ctx, rt)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Session) refresh(ctx context.Context, rt string) (string, error) {
	// 直前に別のリクエストが更新済み
	s.mu.Lock()
	if s.state != nil && s.state.RefreshToken != rt && s.now().Add(refreshSkew).Before(s.state.ExpiresAt) {
		tok := s.state.AccessToken
		s.mu.Unlock()
		return tok, nil
	}
	s.mu.Unlock()

	out, err := s.client.Refresh(ctx, rt)
	if err != nil {
		// refresh tokenが使えないならサインアウト扱い
		if ae, ok := AsAPIError(err); ok && (ae.StatusCode == http.StatusUnauthorized || ae.StatusCode == http.StatusBadRequest) {
			s.mu.Lock()
			s.state = nil
			s.mu.Unlock()
			s.emit(SignedOut)
			return "", ErrNoSession
		}
		return "", err
	}

	s.mu.Lock()
	s.state = s.fromAuth(out)
	tok := s.state.AccessToken
	s.mu.Unlock()
	s.emit(TokenRefreshed)
	return tok, nil
}

func (s *Session) fromAuth(a AuthSession) *SessionState {
	return &SessionState{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		ExpiresAt:    s.now().Add(time.Duration(a.ExpiresIn) * time.Second),
		User:         a.User,
	}
}

// listenerはロックの外で呼ぶ
func (s *Session) emit(ev AuthEvent) {
	s.mu.Lock()
	st := s.state
	var cp *SessionState
	if st != nil {
		c := *st
		cp = &c
	}
	fns := make([]AuthListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev, cp)
	}
}
