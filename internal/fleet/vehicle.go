package fleet

import "time"

// Vehicle 是 vehicles 表的 GORM 模型。
// Available 由预订生命周期维护：取消预订时置回 true。
type Vehicle struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Type        string    `gorm:"size:64;not null"`           // 车型标签，如 "SUV"、"Sedan"
	PricePerDay int64     `gorm:"not null"`                   // 日租金（最小货币单位）
	Available   bool      `gorm:"not null;default:true;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
