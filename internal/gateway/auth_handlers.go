package gateway

import (
	"net/http"
	"time"

	"github.com/EasyWheels/EasyWheels/internal/common/auth"
	"github.com/EasyWheels/EasyWheels/internal/identity"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	AdminKey string `json:"admin_key,omitempty"`
}

// handleRegister POST /api/register
func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	u, err := g.users.Register(r.Context(), req.Username, req.Password, req.AdminKey)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserView(u))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      userView  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleLogin POST /api/login
// 成功后同时写入 Cookie 会话（浏览器）并返回 Bearer token（API 客户端）。
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	u, err := g.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := g.sessions.Issue(w, r, u.ID, u.IsAdmin); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	token, expiresAt, err := auth.GenerateAccessToken(g.authCfg, u.ID, rolesFor(u), 24*time.Hour)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		User:      toUserView(u),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// handleLogout POST /api/logout
func (g *Gateway) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := g.sessions.Clear(w, r); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func rolesFor(u *identity.User) []string {
	roles := []string{"user"}
	if u.IsAdmin {
		roles = append(roles, "admin")
	}
	return roles
}
