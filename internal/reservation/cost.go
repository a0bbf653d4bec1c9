package reservation

import (
	"fmt"
	"time"
)

// DateLayout 预订日期的统一格式（日历日期，无时间部分）。
const DateLayout = "2006-01-02"

// ParseDate 解析 YYYY-MM-DD；失败时返回 ErrInvalidDate。
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DaysBetween 计算两个日历日期的天数差（end - start）。
// 不校验先后顺序：end 早于 start 时返回负数。
func DaysBetween(start, end string) (int64, error) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	return int64(e.Sub(s) / (24 * time.Hour)), nil
}

// CostBetween 计算租期费用：天数 × 日租金。
// 创建、修改、后台修改与支付展示都必须走这一个函数，避免口径漂移。
func CostBetween(start, end string, pricePerDay int64) (int64, error) {
	days, err := DaysBetween(start, end)
	if err != nil {
		return 0, err
	}
	return days * pricePerDay, nil
}
