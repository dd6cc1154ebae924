package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/store"
)

// User 是 users 集合中的用户文档，id 与登录主体一致
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UserService 维护用户角色，实现 auth.RoleResolver
type UserService struct {
	store       store.Store
	defaultRole string
	clock       clock
}

var _ auth.RoleResolver = (*UserService)(nil)

// NewUserService 构造 UserService；defaultRole 非法时回退为 member。
func NewUserService(st store.Store, defaultRole string) *UserService {
	role := strings.ToLower(strings.TrimSpace(defaultRole))
	if !auth.ValidRole(role) {
		role = auth.RoleMember
	}
	return &UserService{store: st, defaultRole: role}
}

// EnsureUser 在用户文档不存在时以默认角色创建
func (s *UserService) EnsureUser(ctx context.Context, id, email string) error {
	_, err := s.store.Get(ctx, store.CollectionUsers, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	now := s.clock.now()
	return s.store.Set(ctx, store.CollectionUsers, id, store.Fields{
		"email":        strings.TrimSpace(email),
		"role":         s.defaultRole,
		fieldCreatedAt: now,
		fieldUpdatedAt: now,
	})
}

// Role 返回用户角色；文档缺失或未设置角色时写回默认角色。
func (s *UserService) Role(ctx context.Context, id string) (string, error) {
	rec, err := s.store.Get(ctx, store.CollectionUsers, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	if err == nil {
		if role, _ := rec.Fields["role"].(string); auth.ValidRole(role) {
			return role, nil
		}
	}
	if err := s.writeRole(ctx, id, s.defaultRole, rec.Fields); err != nil {
		return "", err
	}
	return s.defaultRole, nil
}

// SetRole 修改用户角色，用户文档不存在时创建
func (s *UserService) SetRole(ctx context.Context, id, role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !auth.ValidRole(role) {
		return invalid("role")
	}
	if strings.TrimSpace(id) == "" {
		return required("id")
	}
	rec, err := s.store.Get(ctx, store.CollectionUsers, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return s.writeRole(ctx, id, role, rec.Fields)
}

// Get 返回用户文档
func (s *UserService) Get(ctx context.Context, id string) (*User, error) {
	rec, err := s.store.Get(ctx, store.CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeRecord(rec, &user); err != nil {
		return nil, err
	}
	user.ID = rec.ID
	return &user, nil
}

// writeRole 合并写入角色，保留文档中已有字段
func (s *UserService) writeRole(ctx context.Context, id, role string, existing store.Fields) error {
	now := s.clock.now()
	fields := existing.Clone()
	fields["role"] = role
	fields[fieldUpdatedAt] = now
	if _, ok := fields[fieldCreatedAt]; !ok {
		fields[fieldCreatedAt] = now
	}
	return s.store.Set(ctx, store.CollectionUsers, id, fields)
}
