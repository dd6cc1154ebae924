package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artfolio/internal/db"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenIssuer = "artfolio"

var (
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken 会话令牌无效或已过期
	ErrInvalidToken = errors.New("invalid session token")
	// ErrRoleUnavailable 角色解析失败，会话按未登录处理
	ErrRoleUnavailable = errors.New("user role could not be resolved")
)

// Authenticator 基于凭据表校验邮箱密码，并签发 HS256 会话令牌。
type Authenticator struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// NewAuthenticator 构造 Authenticator。
func NewAuthenticator(gdb *gorm.DB, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{db: gdb, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SignIn 校验邮箱密码，成功后返回主体与会话令牌。返回的主体尚未解析角色。
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (*Principal, string, error) {
	cred, err := db.FindCredentialByEmail(a.db.WithContext(ctx), email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	principal := &Principal{ID: cred.UID, Email: cred.Email}
	token, err := a.Issue(principal)
	if err != nil {
		return nil, "", err
	}
	return principal, token, nil
}

// Issue 为主体签发会话令牌。
func (a *Authenticator) Issue(p *Principal) (string, error) {
	now := a.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		Email: p.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify 校验令牌并还原主体，角色需另行解析。
func (a *Authenticator) Verify(token string) (*Principal, error) {
	raw := strings.TrimSpace(token)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return &Principal{ID: claims.Subject, Email: claims.Email}, nil
}
