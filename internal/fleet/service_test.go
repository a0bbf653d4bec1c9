package fleet

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	vehicles map[string]*Vehicle
	inUse    map[string]bool // 模拟存在关联预订的车辆
}

func newFakeStore() *fakeStore {
	return &fakeStore{vehicles: map[string]*Vehicle{}, inUse: map[string]bool{}}
}

func (f *fakeStore) Create(ctx context.Context, v *Vehicle) error {
	f.vehicles[v.ID] = v
	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	return v, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if f.inUse[id] {
		return ErrVehicleInUse
	}
	if _, ok := f.vehicles[id]; !ok {
		return ErrVehicleNotFound
	}
	delete(f.vehicles, id)
	return nil
}

func (f *fakeStore) ListAvailable(ctx context.Context) ([]Vehicle, error) {
	var out []Vehicle
	for _, v := range f.vehicles {
		if v.Available {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]Vehicle, error) {
	var out []Vehicle
	for _, v := range f.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

func TestAddVehicleDefaultsAvailable(t *testing.T) {
	svc := NewService(newFakeStore())
	v, err := svc.Add(context.Background(), "SUV", 50)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !v.Available {
		t.Fatalf("expected new vehicle available")
	}
	if v.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestAddVehicleValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.Add(context.Background(), "  ", 50); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if _, err := svc.Add(context.Background(), "SUV", 0); err == nil {
		t.Fatalf("expected error for non-positive price")
	}
}

func TestRemoveVehicleInUse(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	v, err := svc.Add(context.Background(), "Van", 80)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	store.inUse[v.ID] = true

	if err := svc.Remove(context.Background(), v.ID); !errors.Is(err, ErrVehicleInUse) {
		t.Fatalf("expected ErrVehicleInUse, got %v", err)
	}

	store.inUse[v.ID] = false
	if err := svc.Remove(context.Background(), v.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := svc.Get(context.Background(), v.ID); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected vehicle gone, got %v", err)
	}
}

func TestListAvailableFilters(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	a, _ := svc.Add(context.Background(), "SUV", 50)
	b, _ := svc.Add(context.Background(), "Sedan", 40)
	store.vehicles[b.ID].Available = false

	got, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected only available vehicle %s, got %#v", a.ID, got)
	}
}
