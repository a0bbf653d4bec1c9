package session

import (
	"fmt"
	"net/http"

	"github.com/EasyWheels/EasyWheels/internal/common/config"
	"github.com/gorilla/sessions"
)

const (
	cookieName = "easywheels-session"

	keyUserID  = "user_id"
	keyIsAdmin = "is_admin"
)

// Store 封装基于 Cookie 的会话：登录时写入身份，登出时清除。
// 业务层不直接读会话，身份统一由中间件解析后显式传递。
type Store struct {
	cs *sessions.CookieStore
}

// NewStore 创建会话存储。
func NewStore(cfg config.AuthConfig) (*Store, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("session_secret is empty")
	}

	cs := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	maxAge := cfg.SessionMaxAge
	if maxAge <= 0 {
		maxAge = 86400 * 7 // 默认 7 天
	}
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cs: cs}, nil
}

// Issue 登录成功后写入会话。
func (s *Store) Issue(w http.ResponseWriter, r *http.Request, userID string, isAdmin bool) error {
	sess, err := s.cs.Get(r, cookieName)
	if err != nil {
		// cookie 损坏时 Get 仍返回可用的新 session，继续覆盖写入即可
		sess, _ = s.cs.New(r, cookieName)
	}
	sess.Values[keyUserID] = userID
	sess.Values[keyIsAdmin] = isAdmin
	return sess.Save(r, w)
}

// Clear 登出时使会话失效。
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.cs.Get(r, cookieName)
	if err != nil {
		return nil
	}
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	return sess.Save(r, w)
}

// Identity 从请求中读取会话身份；ok=false 表示未登录。
func (s *Store) Identity(r *http.Request) (userID string, isAdmin bool, ok bool) {
	sess, err := s.cs.Get(r, cookieName)
	if err != nil {
		return "", false, false
	}
	userID, ok = sess.Values[keyUserID].(string)
	if !ok || userID == "" {
		return "", false, false
	}
	isAdmin, _ = sess.Values[keyIsAdmin].(bool)
	return userID, isAdmin, true
}
