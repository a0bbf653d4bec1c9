package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/EasyWheels/EasyWheels/internal/common/middleware"
)

// ErrIncompleteDetails 四项卡信息必须全部非空。
var ErrIncompleteDetails = errors.New("incomplete payment details")

// Card 支付表单里的卡信息。只做非空校验，
// 不做格式/Luhn 校验，也不发起真实扣款。
type Card struct {
	Number     string
	Expiration string
	CCV        string
	HolderName string
}

func (c Card) complete() bool {
	return strings.TrimSpace(c.Number) != "" &&
		strings.TrimSpace(c.Expiration) != "" &&
		strings.TrimSpace(c.CCV) != "" &&
		strings.TrimSpace(c.HolderName) != ""
}

// Gateway 模拟支付网关：字段齐全即扣款成功。
// 真实外部依赖接入后，熔断器可以直接复用。
type Gateway struct {
	breaker *middleware.CircuitBreaker
}

func NewGateway() *Gateway {
	return &Gateway{
		breaker: middleware.NewCircuitBreaker("payment-gateway", 5, 30*time.Second),
	}
}

// Charge 对给定金额发起一次模拟扣款。
func (g *Gateway) Charge(ctx context.Context, card Card, amount int64) error {
	if g == nil || g.breaker == nil {
		return errors.New("gateway not initialized")
	}
	if !card.complete() {
		return ErrIncompleteDetails
	}
	return g.breaker.Call(ctx, func() error {
		// 模拟的扣款总是成功；负数金额（倒置日期产生）也原样放行
		return nil
	})
}
