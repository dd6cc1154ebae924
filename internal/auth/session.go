package auth

import (
	"context"
	"sync"

	"github.com/artfolio/internal/logging"
	"go.uber.org/zap"
)

// RoleResolver looks up (and lazily creates) the user document behind a principal.
type RoleResolver interface {
	EnsureUser(ctx context.Context, id, email string) error
	Role(ctx context.Context, id string) (string, error)
}

// Resolve attaches the role to p. Any failure yields nil so that a half
// initialized session is never exposed.
func Resolve(ctx context.Context, resolver RoleResolver, p *Principal, logger *zap.Logger) *Principal {
	if p == nil || resolver == nil {
		return nil
	}
	if err := resolver.EnsureUser(ctx, p.ID, p.Email); err != nil {
		logging.OrNop(logger).Warn("ensure user failed, treating as signed out", zap.String("principal", p.ID), zap.Error(err))
		return nil
	}
	role, err := resolver.Role(ctx, p.ID)
	if err != nil {
		logging.OrNop(logger).Warn("role lookup failed, treating as signed out", zap.String("principal", p.ID), zap.Error(err))
		return nil
	}
	resolved := *p
	resolved.Role = role
	return &resolved
}

// Session holds the signed-in principal of one client and notifies
// subscribers on every sign-in and sign-out.
type Session struct {
	auth     *Authenticator
	resolver RoleResolver
	logger   *zap.Logger

	mu          sync.Mutex
	current     *Principal
	token       string
	nextID      int
	subscribers map[int]func(*Principal)
}

// NewSession 构造 Session，初始为未登录状态。
func NewSession(authenticator *Authenticator, resolver RoleResolver, logger *zap.Logger) *Session {
	return &Session{
		auth:        authenticator,
		resolver:    resolver,
		logger:      logging.OrNop(logger),
		subscribers: make(map[int]func(*Principal)),
	}
}

// Login 校验凭据并解析角色；角色解析失败时按未登录处理并返回错误。
func (s *Session) Login(ctx context.Context, email, password string) (*Principal, error) {
	principal, token, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	resolved := Resolve(ctx, s.resolver, principal, s.logger)
	if resolved == nil {
		s.transition(nil, "")
		return nil, ErrRoleUnavailable
	}
	s.transition(resolved, token)
	return resolved, nil
}

// Restore 从已有令牌恢复会话，失败时保持未登录。
func (s *Session) Restore(ctx context.Context, token string) *Principal {
	principal, err := s.auth.Verify(token)
	if err != nil {
		s.transition(nil, "")
		return nil
	}
	resolved := Resolve(ctx, s.resolver, principal, s.logger)
	if resolved == nil {
		s.transition(nil, "")
		return nil
	}
	s.transition(resolved, token)
	return resolved
}

// Logout 清除当前主体
func (s *Session) Logout() {
	s.transition(nil, "")
}

// Current 返回当前主体，未登录时为 nil
func (s *Session) Current() *Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token 返回当前会话令牌
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe 注册回调：立即以当前主体调用一次，此后每次登录/登出再调用。
// 返回的函数用于取消订阅。
func (s *Session) Subscribe(fn func(*Principal)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Session) transition(p *Principal, token string) {
	s.mu.Lock()
	changed := !samePrincipal(s.current, p)
	s.current = p
	s.token = token
	callbacks := make([]func(*Principal), 0, len(s.subscribers))
	if changed {
		for _, fn := range s.subscribers {
			callbacks = append(callbacks, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(p)
	}
}

func samePrincipal(a, b *Principal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
