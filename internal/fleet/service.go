package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrVehicleNotFound 车辆不存在。
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrVehicleInUse 车辆仍被预订引用，拒绝删除。
	ErrVehicleInUse = errors.New("vehicle has reservations")
)

// Store 车辆库存存储（*Repo 为 GORM 实现）。
type Store interface {
	Create(ctx context.Context, v *Vehicle) error
	FindByID(ctx context.Context, id string) (*Vehicle, error)
	Delete(ctx context.Context, id string) error
	ListAvailable(ctx context.Context) ([]Vehicle, error)
	ListAll(ctx context.Context) ([]Vehicle, error)
}

// Service 封装库存管理用例（新增/删除由管理后台调用）。
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Add 新增车辆，初始状态可租。
func (s *Service) Add(ctx context.Context, vehicleType string, pricePerDay int64) (*Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	vehicleType = strings.TrimSpace(vehicleType)
	if vehicleType == "" {
		return nil, fmt.Errorf("vehicle type required")
	}
	if pricePerDay <= 0 {
		return nil, fmt.Errorf("price_per_day must be positive")
	}

	v := &Vehicle{
		ID:          uuid.NewString(),
		Type:        vehicleType,
		PricePerDay: pricePerDay,
		Available:   true,
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Remove 删除车辆；存在关联预订时返回 ErrVehicleInUse。
func (s *Service) Remove(ctx context.Context, id string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id required")
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id required")
	}
	return s.store.FindByID(ctx, id)
}

func (s *Service) ListAvailable(ctx context.Context) ([]Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.ListAvailable(ctx)
}

func (s *Service) ListAll(ctx context.Context) ([]Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.ListAll(ctx)
}
