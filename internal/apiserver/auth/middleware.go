package auth

import (
	"log"
	"net/http"
	"strings"
)

// 免认证路由（精确匹配）
var publicRoutes = map[string]bool{
	"POST /register": true,
	"POST /login":    true,
	"GET /logout":    true,
	"GET /health":    true,
	"GET /metrics":   true,
}

func isPublicRoute(method, path string) bool {
	return publicRoutes[method+" "+path]
}

// Middleware 创建 Bearer Token 认证中间件
//
// 任务路由要求 Authorization: Bearer <token>；
// 解析成功后将 AuthUser 注入 context，供归属检查使用。
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 公开路由：直接放行
			if isPublicRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// 提取 Bearer Token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"message":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, `{"message":"invalid authorization header"}`, http.StatusUnauthorized)
				return
			}

			claims, err := ParseToken(cfg, parts[1])
			if err != nil {
				log.Printf("[auth] token parse error: %v", err)
				http.Error(w, `{"message":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			user := &AuthUser{
				ID:     claims.Subject,
				Email:  claims.Email,
				Status: claims.Status,
			}
			next.ServeHTTP(w, r.WithContext(WithAuthUser(r.Context(), user)))
		})
	}
}
