package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateUsername 用户名已被占用。
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials 登录失败统一返回该错误，
	// 不区分“用户不存在”与“密码错误”，避免用户名枚举。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound 按 id/用户名查询不到用户。
	ErrUserNotFound = errors.New("user not found")
)

// Store 身份存储（*Repo 为 GORM 实现）。
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// Service 封装注册/登录用例。
type Service struct {
	store Store

	// adminKey 来自配置：注册时提交匹配值即授予管理员身份。
	// 空值表示该通道关闭。
	adminKey string
}

func NewService(store Store, adminKey string) *Service {
	return &Service{store: store, adminKey: adminKey}
}

// Register 创建新用户；用户名唯一，密码加盐散列后入库。
func (s *Service) Register(ctx context.Context, username, password, adminKey string) (*User, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username required")
	}
	if password == "" {
		return nil, fmt.Errorf("password required")
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	salt, err := GenerateSaltHex()
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password, salt)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		IsAdmin:      s.adminKey != "" && adminKey == s.adminKey,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 校验用户名密码；失败时返回统一的 ErrInvalidCredentials。
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(password, u.PasswordSalt, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get 按 id 查询用户。
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id required")
	}
	return s.store.FindByID(ctx, id)
}
