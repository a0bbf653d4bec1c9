package gateway

import (
	"net/http"

	"github.com/EasyWheels/EasyWheels/internal/common/server"
	"github.com/EasyWheels/EasyWheels/internal/identity"
	"github.com/EasyWheels/EasyWheels/internal/payment"
	"github.com/EasyWheels/EasyWheels/internal/reservation"
	"github.com/go-chi/chi/v5"
)

func actorOf(r *http.Request) identity.Actor {
	actor, _ := server.ActorFromContext(r.Context())
	return actor
}

type createReservationRequest struct {
	VehicleID string `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// handleCreateReservation POST /api/reservations
func (g *Gateway) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := g.reservations.Create(r.Context(), actorOf(r), req.VehicleID, req.StartDate, req.EndDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationView(res))
}

// handleListMyReservations GET /api/reservations
func (g *Gateway) handleListMyReservations(w http.ResponseWriter, r *http.Request) {
	list, err := g.reservations.ListMine(r.Context(), actorOf(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}
	writeJSON(w, http.StatusOK, toReservationViews(list))
}

type reservationDetail struct {
	reservationView
	Quote int64 `json:"quote"` // 按车辆当前日租金重算的应付金额
}

// handleGetReservation GET /api/reservations/{id}
func (g *Gateway) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	res, quote, err := g.reservations.Get(r.Context(), actorOf(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationDetail{
		reservationView: toReservationView(res),
		Quote:           quote,
	})
}

type modifyReservationRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// handleModifyReservation PUT /api/reservations/{id}
func (g *Gateway) handleModifyReservation(w http.ResponseWriter, r *http.Request) {
	var req modifyReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := g.reservations.Modify(r.Context(), actorOf(r), chi.URLParam(r, "id"), reservation.ModifyInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationView(res))
}

// handleCancelReservation DELETE /api/reservations/{id}
// 预订不存在或不归属当前用户时同样返回成功（changed=false），不暴露细节。
func (g *Gateway) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	changed, err := g.reservations.Cancel(r.Context(), actorOf(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to cancel reservation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": changed})
}

type payReservationRequest struct {
	CardNumber     string `json:"card_number"`
	ExpirationDate string `json:"expiration_date"`
	CCV            string `json:"ccv"`
	CardName       string `json:"card_name"`
	CustomerName   string `json:"customer_name"`
}

// handlePayReservation POST /api/reservations/{id}/payment
func (g *Gateway) handlePayReservation(w http.ResponseWriter, r *http.Request) {
	var req payReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := g.reservations.Pay(r.Context(), actorOf(r), chi.URLParam(r, "id"), payment.Card{
		Number:     req.CardNumber,
		Expiration: req.ExpirationDate,
		CCV:        req.CCV,
		HolderName: req.CardName,
	}, req.CustomerName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationView(res))
}
