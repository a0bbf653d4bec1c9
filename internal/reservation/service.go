package reservation

import (
	"context"
	"fmt"
	"strings"

	"github.com/EasyWheels/EasyWheels/internal/fleet"
	"github.com/EasyWheels/EasyWheels/internal/identity"
	"github.com/EasyWheels/EasyWheels/internal/payment"
	"github.com/google/uuid"
)

// Store 预订存储（*Repo 为 GORM 实现）。
// 带回调的三个方法在单个事务里完成“读-算-写”：回调拿到的
// 预订/车辆是事务内加锁读出的，返回 error 即整体回滚。
type Store interface {
	CreateWithVehicle(ctx context.Context, vehicleID string, build func(v *fleet.Vehicle) (*Reservation, error)) (*Reservation, error)
	UpdateWithVehicle(ctx context.Context, id string, mutate func(res *Reservation, v *fleet.Vehicle) error) (*Reservation, error)
	UpdateLocked(ctx context.Context, id string, mutate func(res *Reservation) error) (*Reservation, error)
	FindByID(ctx context.Context, id string) (*Reservation, error)
	DeleteAndRelease(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Reservation, error)
	ListAll(ctx context.Context) ([]Reservation, error)
}

// VehicleStore 只读车辆信息（由 fleet.Repo 实现）。
type VehicleStore interface {
	FindByID(ctx context.Context, id string) (*fleet.Vehicle, error)
}

// Charger 支付收单（由 payment.Gateway 实现）。
type Charger interface {
	Charge(ctx context.Context, card payment.Card, amount int64) error
}

// Service 封装预订生命周期：创建、改期、取消、支付。
// 所有操作都要求调用方显式传入 Actor 做归属/角色校验。
type Service struct {
	store    Store
	vehicles VehicleStore
	payments Charger
}

func NewService(store Store, vehicles VehicleStore, payments Charger) *Service {
	return &Service{store: store, vehicles: vehicles, payments: payments}
}

// Create 为 actor 预订一辆当前可租的车，费用按天数 × 日租金计算。
// 可租判断与费用计算在创建事务内基于锁定的车辆行完成。
// 天数不校验先后顺序：倒置的日期会产生零或负的费用。
func (s *Service) Create(ctx context.Context, actor identity.Actor, vehicleID, startDate, endDate string) (*Reservation, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if strings.TrimSpace(actor.UserID) == "" {
		return nil, fmt.Errorf("actor user_id required")
	}
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, fmt.Errorf("vehicle_id required")
	}

	return s.store.CreateWithVehicle(ctx, vehicleID, func(v *fleet.Vehicle) (*Reservation, error) {
		if !v.Available {
			return nil, ErrVehicleUnavailable
		}
		cost, err := CostBetween(startDate, endDate, v.PricePerDay)
		if err != nil {
			return nil, err
		}
		// TODO: 下单时把车辆置为不可租（就在这个事务里改）。目前下单不锁库存，
		// 同一辆车可被重复预订，只有取消才会写回 available=true。
		return &Reservation{
			ID:        uuid.NewString(),
			UserID:    actor.UserID,
			VehicleID: vehicleID,
			StartDate: startDate,
			EndDate:   endDate,
			TotalCost: cost,
			Paid:      false,
		}, nil
	})
}

// ModifyInput 改期入参；CustomerName 仅后台修改路径会带上。
type ModifyInput struct {
	StartDate    string
	EndDate      string
	CustomerName *string
}

// Modify 改期并按车辆当前日租金重算费用。归属人或管理员可操作。
// 费用重算基于同一事务内锁定读出的车辆价格，避免与价格调整交错。
func (s *Service) Modify(ctx context.Context, actor identity.Actor, id string, in ModifyInput) (*Reservation, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	return s.store.UpdateWithVehicle(ctx, strings.TrimSpace(id), func(res *Reservation, v *fleet.Vehicle) error {
		if res.UserID != actor.UserID && !actor.Admin {
			return ErrUnauthorized
		}
		cost, err := CostBetween(in.StartDate, in.EndDate, v.PricePerDay)
		if err != nil {
			return err
		}
		res.StartDate = in.StartDate
		res.EndDate = in.EndDate
		res.TotalCost = cost
		if in.CustomerName != nil {
			res.CustomerName = strings.TrimSpace(*in.CustomerName)
		}
		return nil
	})
}

// Cancel 取消预订：车辆写回可租并删除预订（同一事务）。
// 仅归属人可取消；预订不存在或不归属时静默返回 changed=false。
func (s *Service) Cancel(ctx context.Context, actor identity.Actor, id string) (changed bool, err error) {
	if s == nil || s.store == nil {
		return false, fmt.Errorf("service not initialized")
	}

	res, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if err == ErrReservationNotFound {
			return false, nil
		}
		return false, err
	}
	if res.UserID != actor.UserID {
		return false, nil
	}

	if err := s.store.DeleteAndRelease(ctx, res.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Pay 对预订发起模拟支付；成功后标记已支付并记录客户姓名。
// 扣款金额取事务内锁定读出的 TotalCost，改期无法插入到读与写之间。
// 卡信息不全时支付被拒绝，Paid 保持 false。
func (s *Service) Pay(ctx context.Context, actor identity.Actor, id string, card payment.Card, customerName string) (*Reservation, error) {
	if s == nil || s.store == nil || s.payments == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	return s.store.UpdateLocked(ctx, strings.TrimSpace(id), func(res *Reservation) error {
		if res.UserID != actor.UserID {
			return ErrUnauthorized
		}
		if err := s.payments.Charge(ctx, card, res.TotalCost); err != nil {
			return err
		}
		res.Paid = true
		res.CustomerName = strings.TrimSpace(customerName)
		return nil
	})
}

// Get 查询单条预订并附带按当前日租金重新口算的应付金额。
// 归属人或管理员可见。
func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (*Reservation, int64, error) {
	if s == nil || s.store == nil || s.vehicles == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}

	res, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, 0, err
	}
	if res.UserID != actor.UserID && !actor.Admin {
		return nil, 0, ErrUnauthorized
	}

	quote := res.TotalCost
	if v, err := s.vehicles.FindByID(ctx, res.VehicleID); err == nil {
		if q, err := CostBetween(res.StartDate, res.EndDate, v.PricePerDay); err == nil {
			quote = q
		}
	}
	return res, quote, nil
}

// ListMine 列出 actor 自己的预订。
func (s *Service) ListMine(ctx context.Context, actor identity.Actor) ([]Reservation, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if strings.TrimSpace(actor.UserID) == "" {
		return nil, fmt.Errorf("actor user_id required")
	}
	return s.store.ListByUser(ctx, actor.UserID)
}

// ListAll 列出全部预订（管理后台）。
func (s *Service) ListAll(ctx context.Context, actor identity.Actor) ([]Reservation, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !actor.Admin {
		return nil, ErrUnauthorized
	}
	return s.store.ListAll(ctx)
}
