package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"billing-service/pkg/config"
)

func TestInitLoggerReplacesGlobal(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	cfg := &config.Config{ServiceName: "billing-service", Log: config.LogConfig{Level: "debug"}}
	l, err := InitLogger(cfg)
	if err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	if GetLogger() != l {
		t.Error("global logger not replaced")
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Error("debug level not enabled")
	}
}

func TestFromCtx(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	ctx := WithContext(context.Background(), l)
	FromCtx(ctx).Info("scoped")
	if logs.Len() != 1 {
		t.Fatalf("logged %d entries, want 1", logs.Len())
	}

	if FromCtx(context.Background()) != GetLogger() {
		t.Error("FromCtx without logger did not fall back to global")
	}
}

func TestMiddlewareLogsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("logger", zap.New(core))
			return next(c)
		}
	})
	e.Use(Middleware())
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusTeapot, "pong")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	entries := logs.FilterMessage("HTTP Request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d request log entries, want 1", len(entries))
	}
	if status := entries[0].ContextMap()["status"]; status != int64(http.StatusTeapot) {
		t.Errorf("status field = %v", status)
	}
}
