package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsPublicRoute(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		expected bool
	}{
		// 公开路由
		{"register", "POST", "/register", true},
		{"login", "POST", "/login", true},
		{"logout", "GET", "/logout", true},
		{"health", "GET", "/health", true},
		{"metrics", "GET", "/metrics", true},

		// 任务路由需要 JWT
		{"list tasks", "GET", "/tasks", false},
		{"create task", "POST", "/tasks", false},
		{"get task", "GET", "/tasks/task-1", false},
		{"delete task", "DELETE", "/tasks/task-1", false},

		// 方法不匹配不放行
		{"post logout", "POST", "/logout", false},
		{"get register", "GET", "/register", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isPublicRoute(tt.method, tt.path)
			if got != tt.expected {
				t.Errorf("isPublicRoute(%q, %q) = %v, want %v", tt.method, tt.path, got, tt.expected)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	cfg := Config{JWTSecret: "test-secret"}
	var gotUser *AuthUser
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetAuthUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(cfg)(inner)

	t.Run("public route passes without token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/login", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("protected route without header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/tasks", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/tasks", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/tasks", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token injects auth user", func(t *testing.T) {
		token, err := GenerateToken(cfg, "u-001", "a@x.com", "owner")
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}

		gotUser = nil
		req := httptest.NewRequest("GET", "/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotUser == nil {
			t.Fatal("AuthUser should be injected into context")
		}
		if gotUser.ID != "u-001" || gotUser.Email != "a@x.com" || gotUser.Status != "owner" {
			t.Errorf("AuthUser = %+v", gotUser)
		}
	})
}
