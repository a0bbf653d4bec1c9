package identity

import "time"

// User 是 users 表的 GORM 模型。注册后不再变更、不被删除。
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Username     string    `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	PasswordSalt string    `gorm:"size:64;not null"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Actor 表示一次请求的操作者身份（由会话/令牌中间件解析），
// 显式传入各业务操作做归属与角色校验，业务层不读任何全局会话状态。
type Actor struct {
	UserID string
	Admin  bool
}
