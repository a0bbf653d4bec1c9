// Package gateway 是 HTTP API 边界：把请求翻译成对领域服务的调用，
// 页面渲染交给任意前端，这里只吐 JSON。
package gateway

import (
	"net/http"

	"github.com/EasyWheels/EasyWheels/internal/common/config"
	"github.com/EasyWheels/EasyWheels/internal/common/logger"
	"github.com/EasyWheels/EasyWheels/internal/common/middleware"
	"github.com/EasyWheels/EasyWheels/internal/common/server"
	"github.com/EasyWheels/EasyWheels/internal/common/session"
	"github.com/EasyWheels/EasyWheels/internal/fleet"
	"github.com/EasyWheels/EasyWheels/internal/identity"
	"github.com/EasyWheels/EasyWheels/internal/reservation"
	"github.com/go-chi/chi/v5"
)

// Gateway 持有全部 HTTP handler 的依赖。
type Gateway struct {
	users        *identity.Service
	vehicles     *fleet.Service
	reservations *reservation.Service
	sessions     *session.Store
	authCfg      config.AuthConfig
	log          logger.Logger
}

func New(users *identity.Service, vehicles *fleet.Service, reservations *reservation.Service,
	sessions *session.Store, authCfg config.AuthConfig, log logger.Logger) *Gateway {
	return &Gateway{
		users:        users,
		vehicles:     vehicles,
		reservations: reservations,
		sessions:     sessions,
		authCfg:      authCfg,
		log:          log,
	}
}

// Router 组装路由与中间件链。
func (g *Gateway) Router(limiter middleware.RateLimiter, serviceName string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		server.Recovery(g.log),
		server.Tracing(serviceName),
		server.AccessLog(g.log),
		server.RateLimit(limiter),
	)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// 公开端点
		r.Post("/register", g.handleRegister)
		r.Post("/login", g.handleLogin)

		// 登录后端点
		r.Group(func(r chi.Router) {
			r.Use(server.RequireSession(g.sessions, g.authCfg))

			r.Post("/logout", g.handleLogout)
			r.Get("/vehicles", g.handleListVehicles)

			r.Post("/reservations", g.handleCreateReservation)
			r.Get("/reservations", g.handleListMyReservations)
			r.Get("/reservations/{id}", g.handleGetReservation)
			r.Put("/reservations/{id}", g.handleModifyReservation)
			r.Delete("/reservations/{id}", g.handleCancelReservation)
			r.Post("/reservations/{id}/payment", g.handlePayReservation)

			// 管理后台
			r.Route("/admin", func(r chi.Router) {
				r.Use(server.RequireAdmin())

				r.Get("/overview", g.handleAdminOverview)
				r.Put("/reservations/{id}", g.handleAdminModifyReservation)
				r.Post("/vehicles", g.handleAddVehicle)
				r.Delete("/vehicles/{id}", g.handleDeleteVehicle)
			})
		})
	})

	return r
}
