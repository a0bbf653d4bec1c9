package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/EasyWheels/EasyWheels/internal/common/config"
	"github.com/EasyWheels/EasyWheels/internal/common/session"
	"github.com/EasyWheels/EasyWheels/internal/fleet"
	"github.com/EasyWheels/EasyWheels/internal/identity"
	"github.com/EasyWheels/EasyWheels/internal/payment"
	"github.com/EasyWheels/EasyWheels/internal/reservation"
)

// 内存存储，三个领域 fake 共享同一份数据，
// 以便覆盖跨实体的行为（取消放回车辆、删除车辆的引用检查）。
type memData struct {
	users        map[string]*identity.User
	vehicles     map[string]*fleet.Vehicle
	reservations map[string]*reservation.Reservation
}

func newMemData() *memData {
	return &memData{
		users:        map[string]*identity.User{},
		vehicles:     map[string]*fleet.Vehicle{},
		reservations: map[string]*reservation.Reservation{},
	}
}

type userStore struct{ d *memData }

func (s *userStore) Create(ctx context.Context, u *identity.User) error {
	s.d.users[u.Username] = u
	return nil
}

func (s *userStore) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	u, ok := s.d.users[username]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return u, nil
}

func (s *userStore) FindByID(ctx context.Context, id string) (*identity.User, error) {
	for _, u := range s.d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

type vehicleStore struct{ d *memData }

func (s *vehicleStore) Create(ctx context.Context, v *fleet.Vehicle) error {
	s.d.vehicles[v.ID] = v
	return nil
}

func (s *vehicleStore) FindByID(ctx context.Context, id string) (*fleet.Vehicle, error) {
	v, ok := s.d.vehicles[id]
	if !ok {
		return nil, fleet.ErrVehicleNotFound
	}
	return v, nil
}

func (s *vehicleStore) Delete(ctx context.Context, id string) error {
	for _, res := range s.d.reservations {
		if res.VehicleID == id {
			return fleet.ErrVehicleInUse
		}
	}
	if _, ok := s.d.vehicles[id]; !ok {
		return fleet.ErrVehicleNotFound
	}
	delete(s.d.vehicles, id)
	return nil
}

func (s *vehicleStore) ListAvailable(ctx context.Context) ([]fleet.Vehicle, error) {
	var out []fleet.Vehicle
	for _, v := range s.d.vehicles {
		if v.Available {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *vehicleStore) ListAll(ctx context.Context) ([]fleet.Vehicle, error) {
	var out []fleet.Vehicle
	for _, v := range s.d.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

type resStore struct{ d *memData }

func (s *resStore) CreateWithVehicle(ctx context.Context, vehicleID string, build func(v *fleet.Vehicle) (*reservation.Reservation, error)) (*reservation.Reservation, error) {
	v, ok := s.d.vehicles[vehicleID]
	if !ok {
		return nil, fleet.ErrVehicleNotFound
	}
	vcp := *v
	res, err := build(&vcp)
	if err != nil {
		return nil, err
	}
	cp := *res
	s.d.reservations[res.ID] = &cp
	return res, nil
}

func (s *resStore) UpdateWithVehicle(ctx context.Context, id string, mutate func(res *reservation.Reservation, v *fleet.Vehicle) error) (*reservation.Reservation, error) {
	res, ok := s.d.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	v, ok := s.d.vehicles[res.VehicleID]
	if !ok {
		return nil, fleet.ErrVehicleNotFound
	}
	cp, vcp := *res, *v
	if err := mutate(&cp, &vcp); err != nil {
		return nil, err
	}
	stored := cp
	s.d.reservations[id] = &stored
	return &cp, nil
}

func (s *resStore) UpdateLocked(ctx context.Context, id string, mutate func(res *reservation.Reservation) error) (*reservation.Reservation, error) {
	res, ok := s.d.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	cp := *res
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	stored := cp
	s.d.reservations[id] = &stored
	return &cp, nil
}

func (s *resStore) FindByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, ok := s.d.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (s *resStore) DeleteAndRelease(ctx context.Context, id string) error {
	res, ok := s.d.reservations[id]
	if !ok {
		return reservation.ErrReservationNotFound
	}
	if v, ok := s.d.vehicles[res.VehicleID]; ok {
		v.Available = true
	}
	delete(s.d.reservations, id)
	return nil
}

func (s *resStore) ListByUser(ctx context.Context, userID string) ([]reservation.Reservation, error) {
	var out []reservation.Reservation
	for _, res := range s.d.reservations {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (s *resStore) ListAll(ctx context.Context) ([]reservation.Reservation, error) {
	var out []reservation.Reservation
	for _, res := range s.d.reservations {
		out = append(out, *res)
	}
	return out, nil
}

const testAdminKey = "3724"

func newTestServer(t *testing.T) (*httptest.Server, *memData) {
	t.Helper()

	authCfg := config.AuthConfig{
		JWTSecret:     "test-secret",
		Issuer:        "easywheels",
		Audience:      "easywheels",
		SessionSecret: "test-session-secret",
	}
	sessions, err := session.NewStore(authCfg)
	if err != nil {
		t.Fatalf("session.NewStore: %v", err)
	}

	d := newMemData()
	users := identity.NewService(&userStore{d: d}, testAdminKey)
	vehicles := fleet.NewService(&vehicleStore{d: d})
	reservations := reservation.NewService(&resStore{d: d}, &vehicleStore{d: d}, payment.NewGateway())

	gw := New(users, vehicles, reservations, sessions, authCfg, nil)
	srv := httptest.NewServer(gw.Router(nil, "rental-service-test"))
	t.Cleanup(srv.Close)
	return srv, d
}

// newClient 带 cookie jar 的测试客户端，跨请求保留会话。
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	out := map[string]json.RawMessage{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func register(t *testing.T, c *http.Client, base, username, adminKey string) {
	t.Helper()
	resp, _ := doJSON(t, c, http.MethodPost, base+"/api/register", map[string]string{
		"username": username, "password": "pw", "admin_key": adminKey,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", username, resp.StatusCode)
	}
}

func login(t *testing.T, c *http.Client, base, username string) {
	t.Helper()
	resp, _ := doJSON(t, c, http.MethodPost, base+"/api/login", map[string]string{
		"username": username, "password": "pw",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", username, resp.StatusCode)
	}
}

func TestBookingJourney(t *testing.T) {
	srv, data := newTestServer(t)
	base := srv.URL

	admin := newClient(t)
	register(t, admin, base, "root", testAdminKey)
	login(t, admin, base, "root")

	user := newClient(t)
	register(t, user, base, "alice", "")
	login(t, user, base, "alice")

	// 管理员上架一辆 50/天 的车
	resp, body := doJSON(t, admin, http.MethodPost, base+"/api/admin/vehicles", map[string]any{
		"type": "SUV", "price_per_day": 50,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add vehicle: status %d", resp.StatusCode)
	}
	var vehicleID string
	_ = json.Unmarshal(body["id"], &vehicleID)
	if vehicleID == "" {
		t.Fatalf("expected vehicle id in response")
	}

	// 用户能看到这辆车
	req, _ := http.NewRequest(http.MethodGet, base+"/api/vehicles", nil)
	listResp, err := user.Do(req)
	if err != nil {
		t.Fatalf("list vehicles: %v", err)
	}
	var vehicles []vehicleView
	_ = json.NewDecoder(listResp.Body).Decode(&vehicles)
	listResp.Body.Close()
	if len(vehicles) != 1 || vehicles[0].ID != vehicleID {
		t.Fatalf("unexpected vehicle list: %#v", vehicles)
	}

	// 预订三天：费用 150
	resp, body = doJSON(t, user, http.MethodPost, base+"/api/reservations", map[string]string{
		"vehicle_id": vehicleID, "start_date": "2024-01-01", "end_date": "2024-01-04",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create reservation: status %d", resp.StatusCode)
	}
	var resID string
	var cost int64
	_ = json.Unmarshal(body["id"], &resID)
	_ = json.Unmarshal(body["total_cost"], &cost)
	if cost != 150 {
		t.Fatalf("expected total_cost 150, got %d", cost)
	}

	// 改期到一天：费用重算为 50
	resp, body = doJSON(t, user, http.MethodPut, base+"/api/reservations/"+resID, map[string]string{
		"start_date": "2024-01-01", "end_date": "2024-01-02",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("modify reservation: status %d", resp.StatusCode)
	}
	_ = json.Unmarshal(body["total_cost"], &cost)
	if cost != 50 {
		t.Fatalf("expected recomputed total_cost 50, got %d", cost)
	}

	// 详情页：total_cost 保持下单口径，quote 按车辆当前日租金重算
	data.vehicles[vehicleID].PricePerDay = 80
	resp, body = doJSON(t, user, http.MethodGet, base+"/api/reservations/"+resID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get reservation: status %d", resp.StatusCode)
	}
	_ = json.Unmarshal(body["total_cost"], &cost)
	if cost != 50 {
		t.Fatalf("expected stored total_cost 50, got %d", cost)
	}
	var quote int64
	_ = json.Unmarshal(body["quote"], &quote)
	if quote != 80 {
		t.Fatalf("expected quote 80 at current price, got %d", quote)
	}
	data.vehicles[vehicleID].PricePerDay = 50

	// 缺卡信息：400 且保持未支付
	resp, _ = doJSON(t, user, http.MethodPost, base+"/api/reservations/"+resID+"/payment", map[string]string{
		"card_number": "4111111111111111", "expiration_date": "12/30", "customer_name": "Alice",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete payment, got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, user, http.MethodPost, base+"/api/reservations/"+resID+"/payment", map[string]string{
		"card_number": "4111111111111111", "expiration_date": "12/30", "ccv": "123",
		"card_name": "ALICE Z", "customer_name": "Alice Zhang",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay reservation: status %d", resp.StatusCode)
	}
	var paid bool
	_ = json.Unmarshal(body["paid"], &paid)
	if !paid {
		t.Fatalf("expected paid=true")
	}

	// 车辆仍被预订引用：删除被拒绝
	resp, _ = doJSON(t, admin, http.MethodDelete, base+"/api/admin/vehicles/"+vehicleID, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 deleting vehicle in use, got %d", resp.StatusCode)
	}

	// 取消预订后即可删除
	resp, _ = doJSON(t, user, http.MethodDelete, base+"/api/reservations/"+resID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel reservation: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, admin, http.MethodDelete, base+"/api/admin/vehicles/"+vehicleID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete vehicle after cancel: status %d", resp.StatusCode)
	}
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL

	user := newClient(t)
	register(t, user, base, "alice", "wrong-key") // 错误的 admin key：普通用户
	login(t, user, base, "alice")

	resp, _ := doJSON(t, user, http.MethodGet, base+"/api/admin/overview", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	// 未登录：401
	anon := &http.Client{}
	resp, _ = doJSON(t, anon, http.MethodGet, base+"/api/reservations", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL

	user := newClient(t)
	register(t, user, base, "alice", "")
	login(t, user, base, "alice")

	resp, _ := doJSON(t, user, http.MethodPost, base+"/api/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, user, http.MethodGet, base+"/api/reservations", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestDuplicateRegistrationConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL

	c := newClient(t)
	register(t, c, base, "alice", "")

	resp, _ := doJSON(t, c, http.MethodPost, base+"/api/register", map[string]string{
		"username": "alice", "password": "pw2",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", resp.StatusCode)
	}
}

