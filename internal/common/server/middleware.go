package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/EasyWheels/EasyWheels/internal/common/auth"
	"github.com/EasyWheels/EasyWheels/internal/common/config"
	"github.com/EasyWheels/EasyWheels/internal/common/logger"
	"github.com/EasyWheels/EasyWheels/internal/common/middleware"
	"github.com/EasyWheels/EasyWheels/internal/common/session"
	"github.com/EasyWheels/EasyWheels/internal/identity"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// Middleware 标准的 http.Handler 包装器。
type Middleware func(http.Handler) http.Handler

// Chain 将多个 middleware 串起来（按传入顺序执行）。
func Chain(mws ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] == nil {
				continue
			}
			h = mws[i](h)
		}
		return h
	}
}

// Recovery 防止 panic 直接把进程打崩，并记录栈信息。
func Recovery(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if log != nil {
						log.Errorf("panic in http handler path=%s err=%v stack=%s", r.URL.Path, rec, string(debug.Stack()))
					}
					writeAuthError(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// statusWriter 记录写出的状态码，供访问日志使用。
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// AccessLog 记录每个 HTTP 请求的耗时/状态码。
func AccessLog(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			cost := time.Since(start)

			if log != nil {
				fields := map[string]interface{}{
					"method": r.Method,
					"path":   r.URL.Path,
					"status": sw.status,
					"cost":   cost.String(),
				}
				if sw.status >= http.StatusInternalServerError {
					log.WithFields(fields).Warn("http request failed")
				} else {
					log.WithFields(fields).Info("http request ok")
				}
			}
		})
	}
}

// Tracing 基于 OpenTracing 的最小 server middleware：
// - 从请求头提取上游 span context（如有）
// - 创建 server span 并注入 ctx，业务侧可用 opentracing.StartSpanFromContext 续接
func Tracing(serviceName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracer := opentracing.GlobalTracer()

			var parent opentracing.SpanContext
			if sc, err := tracer.Extract(opentracing.HTTPHeaders,
				opentracing.HTTPHeadersCarrier(r.Header)); err == nil {
				parent = sc
			}

			operation := r.Method + " " + r.URL.Path
			var span opentracing.Span
			if parent != nil {
				span = tracer.StartSpan(operation, ext.RPCServerOption(parent))
			} else {
				span = tracer.StartSpan(operation)
			}
			defer span.Finish()

			ext.SpanKindRPCServer.Set(span)
			ext.Component.Set(span, "http")
			ext.HTTPMethod.Set(span, r.Method)
			ext.HTTPUrl.Set(span, r.URL.String())
			if serviceName != "" {
				span.SetTag("service", serviceName)
			}

			next.ServeHTTP(w, r.WithContext(opentracing.ContextWithSpan(r.Context(), span)))
		})
	}
}

// RateLimit 全局限流；令牌耗尽时返回 429。
func RateLimit(limiter middleware.RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil && !limiter.Allow(r.Context()) {
				writeAuthError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type actorContextKey struct{}

// ActorFromContext 取出经过认证的操作者身份。
func ActorFromContext(ctx context.Context) (identity.Actor, bool) {
	v := ctx.Value(actorContextKey{})
	if v == nil {
		return identity.Actor{}, false
	}
	a, ok := v.(identity.Actor)
	return a, ok
}

// RequireSession 解析请求身份并放入 ctx：
// - 优先读 Cookie 会话（浏览器登录态）
// - 其次读 `Authorization: Bearer <jwt>`（API 客户端）
// 两者都没有时返回 401。
func RequireSession(sessions *session.Store, authCfg config.AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions != nil {
				if userID, isAdmin, ok := sessions.Identity(r); ok {
					ctx := context.WithValue(r.Context(), actorContextKey{},
						identity.Actor{UserID: userID, Admin: isAdmin})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				tokenStr := strings.TrimSpace(raw[len("bearer "):])
				if claims, err := auth.ParseAccessToken(authCfg, tokenStr); err == nil {
					ctx := context.WithValue(r.Context(), actorContextKey{},
						identity.Actor{UserID: claims.Subject, Admin: hasRole(claims.Roles, "admin")})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			writeAuthError(w, http.StatusUnauthorized, "login required")
		})
	}
}

// RequireAdmin 仅放行管理员；必须在 RequireSession 之后。
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "login required")
				return
			}
			if !actor.Admin {
				writeAuthError(w, http.StatusForbidden, "admin only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if strings.EqualFold(strings.TrimSpace(r), want) {
			return true
		}
	}
	return false
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
