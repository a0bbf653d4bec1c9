package identity

import (
	"context"
	"errors"
	"testing"
)

// fakeStore 内存实现，仅用于测试。
type fakeStore struct {
	users map[string]*User // username -> user
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*User{}}
}

func (f *fakeStore) Create(ctx context.Context, u *User) error {
	f.users[u.Username] = u
	return nil
}

func (f *fakeStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func TestRegisterAdminKey(t *testing.T) {
	svc := NewService(newFakeStore(), "3724")
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "pw", "0000")
	if err != nil {
		t.Fatalf("Register alice: %v", err)
	}
	if alice.IsAdmin {
		t.Fatalf("expected alice without admin with wrong key")
	}

	bob, err := svc.Register(ctx, "bob", "pw", "3724")
	if err != nil {
		t.Fatalf("Register bob: %v", err)
	}
	if !bob.IsAdmin {
		t.Fatalf("expected bob admin with correct key")
	}
}

func TestRegisterAdminKeyDisabled(t *testing.T) {
	// 空的 adminKey 表示关闭管理员注册通道，任何提交值都不生效
	svc := NewService(newFakeStore(), "")
	u, err := svc.Register(context.Background(), "carol", "pw", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.IsAdmin {
		t.Fatalf("expected no admin when channel disabled")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "3724")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw", ""); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, "alice", "pw2", "")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected exactly one alice, got %d users", len(store.users))
	}
}

func TestAuthenticateOpaqueFailure(t *testing.T) {
	svc := NewService(newFakeStore(), "")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	// 用户不存在与密码错误必须返回同一个错误
	_, errNoUser := svc.Authenticate(ctx, "nobody", "pw")
	_, errBadPw := svc.Authenticate(ctx, "alice", "wrong")
	if !errors.Is(errNoUser, ErrInvalidCredentials) || !errors.Is(errBadPw, ErrInvalidCredentials) {
		t.Fatalf("expected opaque ErrInvalidCredentials, got %v / %v", errNoUser, errBadPw)
	}
}
