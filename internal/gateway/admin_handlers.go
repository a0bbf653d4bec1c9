package gateway

import (
	"net/http"
	"strings"

	"github.com/EasyWheels/EasyWheels/internal/reservation"
	"github.com/go-chi/chi/v5"
)

type adminOverview struct {
	Vehicles     []vehicleView     `json:"vehicles"`
	Reservations []reservationView `json:"reservations"`
}

// handleAdminOverview GET /api/admin/overview
// 管理后台首页数据：全部车辆 + 全部预订。
func (g *Gateway) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	vehicles, err := g.vehicles.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}
	reservations, err := g.reservations.ListAll(r.Context(), actorOf(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := adminOverview{
		Vehicles:     make([]vehicleView, 0, len(vehicles)),
		Reservations: toReservationViews(reservations),
	}
	for i := range vehicles {
		out.Vehicles = append(out.Vehicles, toVehicleView(&vehicles[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

type adminModifyReservationRequest struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	CustomerName string `json:"customer_name"`
}

// handleAdminModifyReservation PUT /api/admin/reservations/{id}
// 后台修改路径可以一并更新客户姓名。
func (g *Gateway) handleAdminModifyReservation(w http.ResponseWriter, r *http.Request) {
	var req adminModifyReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := g.reservations.Modify(r.Context(), actorOf(r), chi.URLParam(r, "id"), reservation.ModifyInput{
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CustomerName: &req.CustomerName,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationView(res))
}

type addVehicleRequest struct {
	Type        string `json:"type"`
	PricePerDay int64  `json:"price_per_day"`
}

// handleAddVehicle POST /api/admin/vehicles
func (g *Gateway) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	var req addVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Type) == "" || req.PricePerDay <= 0 {
		writeError(w, http.StatusBadRequest, "type and positive price_per_day required")
		return
	}

	v, err := g.vehicles.Add(r.Context(), req.Type, req.PricePerDay)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleView(v))
}

// handleDeleteVehicle DELETE /api/admin/vehicles/{id}
// 仍被预订引用的车辆拒绝删除（409）。
func (g *Gateway) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := g.vehicles.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
