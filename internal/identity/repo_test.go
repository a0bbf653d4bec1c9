package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"mysql 1062", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'username'"}, true},
		{"wrapped mysql 1062", fmt.Errorf("create user: %w", &mysql.MySQLError{Number: 1062}), true},
		{"other mysql error", &mysql.MySQLError{Number: 1045}, false},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := isDuplicateKey(tc.err); got != tc.want {
			t.Errorf("%s: isDuplicateKey=%v, want %v", tc.name, got, tc.want)
		}
	}
}

// dupStore 模拟并发注册：预检查时查不到用户，落库时撞唯一索引。
type dupStore struct{}

func (dupStore) Create(ctx context.Context, u *User) error {
	return ErrDuplicateUsername
}

func (dupStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return nil, ErrUserNotFound
}

func (dupStore) FindByID(ctx context.Context, id string) (*User, error) {
	return nil, ErrUserNotFound
}

func TestRegisterConcurrentDuplicateMapsToDomainError(t *testing.T) {
	svc := NewService(dupStore{}, "")
	_, err := svc.Register(context.Background(), "alice", "pw", "")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername from unique index conflict, got %v", err)
	}
}
