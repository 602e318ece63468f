package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_RecordsRouteAndCaller(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/change-requests/:id", func(c *gin.Context) {
		c.Set("user_id", "u-teacher")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/change-requests/cr-42?x=1", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["route"] != "/change-requests/:id" {
		t.Errorf("expected route template, got %v", fields["route"])
	}
	if fields["path"] != "/change-requests/cr-42" {
		t.Errorf("expected raw path, got %v", fields["path"])
	}
	if fields["user_id"] != "u-teacher" {
		t.Errorf("expected user_id u-teacher, got %v", fields["user_id"])
	}
	if fields["query"] != "x=1" {
		t.Errorf("expected query x=1, got %v", fields["query"])
	}
	if fields["request_id"] == "" {
		t.Error("expected request_id to be logged")
	}
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/boom", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("expected error level for 500, got %s", entries[0].Level)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("expected warn level for 404, got %s", entries[1].Level)
	}
	if entries[1].ContextMap()["route"] != "unmatched" {
		t.Errorf("expected unmatched route, got %v", entries[1].ContextMap()["route"])
	}
	if _, ok := entries[1].ContextMap()["user_id"]; ok {
		t.Error("expected no user_id for anonymous request")
	}
}
