package gateway

import "net/http"

// handleListVehicles GET /api/vehicles
// 登录用户浏览当前可租车辆。
func (g *Gateway) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := g.vehicles.ListAvailable(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}

	out := make([]vehicleView, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, toVehicleView(&vehicles[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
