package reservation

import (
	"errors"
	"time"
)

// Reservation 是 reservations 表的 GORM 模型。
// TotalCost 是派生值：天数 × 车辆日租金，日期每次变更后重算，
// 不允许与日期脱钩单独修改。
type Reservation struct {
	ID string `gorm:"primaryKey;size:36"`

	UserID    string `gorm:"index;size:36;not null"` // 预订人
	VehicleID string `gorm:"index;size:36;not null"` // 关联车辆

	// 日期以 YYYY-MM-DD 字符串跨边界传输与持久化（无时间部分）
	StartDate string `gorm:"size:10;not null"`
	EndDate   string `gorm:"size:10;not null"`

	TotalCost    int64  `gorm:"not null"`               // 最小货币单位
	Paid         bool   `gorm:"not null;default:false"` // 支付完成后置 true
	CustomerName string `gorm:"size:100"`               // 支付/后台修改时填写

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

var (
	// ErrReservationNotFound 预订不存在。
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrUnauthorized 操作者既不是预订归属人也不是管理员。
	ErrUnauthorized = errors.New("not allowed to operate on this reservation")
	// ErrVehicleUnavailable 车辆当前不可租。
	ErrVehicleUnavailable = errors.New("vehicle not available")
	// ErrInvalidDate 日期不是合法的 YYYY-MM-DD。
	ErrInvalidDate = errors.New("invalid date")
)
