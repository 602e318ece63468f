package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classroom-booking/backend/config"
	"classroom-booking/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-at-least-32-chars!!",
		AccessTokenTTL: 15 * time.Minute,
	})
}

// protected 注册一个受保护路由，回显中间件注入的上下文
func protected(mgr *jwt.Manager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(mgr, nil, zap.NewNop())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   c.GetString("user_id"),
			"role":      c.GetString("role"),
			"token_jti": c.GetString("token_jti"),
			"has_exp":   !c.GetTime("token_exp").IsZero(),
		})
	})
	r.GET("/p", handlers...)
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := newTestManager()
	token, err := mgr.GenerateAccessToken("user-1", "TEACHER")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	w := doGet(protected(mgr), "Bearer "+token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`"user_id":"user-1"`, `"role":"TEACHER"`, `"has_exp":true`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %s, got %s", want, body)
		}
	}
	if strings.Contains(body, `"token_jti":""`) {
		t.Errorf("expected token_jti to be set, got %s", body)
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	mgr := newTestManager()
	other := jwt.NewManager(&config.AuthConfig{JWTSecret: "another-secret-key-32-characters!!", AccessTokenTTL: time.Minute})
	foreign, _ := other.GenerateAccessToken("user-1", "TEACHER")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"foreign signature", "Bearer " + foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doGet(protected(mgr), tc.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	mgr := newTestManager()
	r := protected(mgr, RoleAuth("ADMIN", "COORDINATOR"))

	teacher, _ := mgr.GenerateAccessToken("user-1", "TEACHER")
	if w := doGet(r, "Bearer "+teacher); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for TEACHER, got %d", w.Code)
	}

	admin, _ := mgr.GenerateAccessToken("user-2", "ADMIN")
	if w := doGet(r, "Bearer "+admin); w.Code != http.StatusOK {
		t.Errorf("expected 200 for ADMIN, got %d", w.Code)
	}
}

func TestRateLimit_NoRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/p", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
	if rid := w.Header().Get("X-Request-ID"); rid == "" || rid != w.Body.String() {
		t.Errorf("expected generated request id echoed, header=%q body=%q", rid, w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	if rid := w.Header().Get("X-Request-ID"); rid != "abc-123" {
		t.Errorf("expected caller request id kept, got %q", rid)
	}
}

func TestRequestID_RejectsUnsafeHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("X-Request-ID", "bad id\nwith newline")
	r.ServeHTTP(w, req)
	if rid := w.Header().Get("X-Request-ID"); rid == "bad id\nwith newline" || rid == "" {
		t.Errorf("expected a generated request id, got %q", rid)
	}
}
