package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EasyWheels/EasyWheels/internal/fleet"
	"github.com/EasyWheels/EasyWheels/internal/identity"
	"github.com/EasyWheels/EasyWheels/internal/payment"
	"github.com/EasyWheels/EasyWheels/internal/reservation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError 把领域错误映射到 HTTP 状态码。
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, reservation.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "not allowed")
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, fleet.ErrVehicleNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrDuplicateUsername),
		errors.Is(err, fleet.ErrVehicleInUse),
		errors.Is(err, reservation.ErrVehicleUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, reservation.ErrInvalidDate),
		errors.Is(err, payment.ErrIncompleteDetails):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// 对外视图（领域模型不直接出 JSON）。

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func toUserView(u *identity.User) userView {
	return userView{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

type vehicleView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	PricePerDay int64  `json:"price_per_day"`
	Available   bool   `json:"available"`
}

func toVehicleView(v *fleet.Vehicle) vehicleView {
	return vehicleView{ID: v.ID, Type: v.Type, PricePerDay: v.PricePerDay, Available: v.Available}
}

type reservationView struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	VehicleID    string `json:"vehicle_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TotalCost    int64  `json:"total_cost"`
	Paid         bool   `json:"paid"`
	CustomerName string `json:"customer_name,omitempty"`
}

func toReservationView(res *reservation.Reservation) reservationView {
	return reservationView{
		ID:           res.ID,
		UserID:       res.UserID,
		VehicleID:    res.VehicleID,
		StartDate:    res.StartDate,
		EndDate:      res.EndDate,
		TotalCost:    res.TotalCost,
		Paid:         res.Paid,
		CustomerName: res.CustomerName,
	}
}

func toReservationViews(in []reservation.Reservation) []reservationView {
	out := make([]reservationView, 0, len(in))
	for i := range in {
		out = append(out, toReservationView(&in[i]))
	}
	return out
}
