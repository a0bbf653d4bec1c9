package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/EasyWheels/EasyWheels/internal/fleet"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

// CreateWithVehicle 在单个事务里锁定车辆行、调用 build 产出预订并落库。
// build 返回 error 时整体回滚，不会留下半成品预订。
func (r *Repo) CreateWithVehicle(ctx context.Context, vehicleID string, build func(v *fleet.Vehicle) (*Reservation, error)) (*Reservation, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out *Reservation
	err := db.Transaction(func(tx *gorm.DB) error {
		var v fleet.Vehicle
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", vehicleID).First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fleet.ErrVehicleNotFound
		}
		if err != nil {
			return err
		}
		res, err := build(&v)
		if err != nil {
			return err
		}
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateWithVehicle 在单个事务里锁定预订与其车辆后调用 mutate 并保存。
// 费用重算用的价格取自锁定行，并发的价格/日期变更只能排在本事务前后。
func (r *Repo) UpdateWithVehicle(ctx context.Context, id string, mutate func(res *Reservation, v *fleet.Vehicle) error) (*Reservation, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out *Reservation
	err := db.Transaction(func(tx *gorm.DB) error {
		res, err := findForUpdate(tx, id)
		if err != nil {
			return err
		}
		var v fleet.Vehicle
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", res.VehicleID).First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fleet.ErrVehicleNotFound
		}
		if err != nil {
			return err
		}
		if err := mutate(res, &v); err != nil {
			return err
		}
		if err := tx.Save(res).Error; err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateLocked 在单个事务里锁定预订行后调用 mutate 并保存。
func (r *Repo) UpdateLocked(ctx context.Context, id string, mutate func(res *Reservation) error) (*Reservation, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out *Reservation
	err := db.Transaction(func(tx *gorm.DB) error {
		res, err := findForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := mutate(res); err != nil {
			return err
		}
		if err := tx.Save(res).Error; err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func findForUpdate(tx *gorm.DB, id string) (*Reservation, error) {
	var res Reservation
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Reservation, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var res Reservation
	err := db.Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteAndRelease 取消预订：把关联车辆置回可租并删除预订，两步在同一事务内。
func (r *Repo) DeleteAndRelease(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		res, err := findForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&fleet.Vehicle{}).Where("id = ?", res.VehicleID).
			Update("available", true).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Reservation{}).Error
	})
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Reservation, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Reservation
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]Reservation, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Reservation
	if err := db.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
