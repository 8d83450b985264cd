package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ai-forum-web/internal/config"
	"ai-forum-web/pkg/navigation"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	cases := []struct {
		name     string
		incoming string
		echoed   bool
	}{
		{name: "Echo", incoming: "req-123", echoed: true},
		{name: "Generate", incoming: "", echoed: false},
		{name: "Too long", incoming: strings.Repeat("a", 200), echoed: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			got := recorder.Header().Get(RequestIDHeader)
			if got == "" {
				t.Fatalf("expected request id header")
			}
			if tc.echoed && got != tc.incoming {
				t.Fatalf("expected %q to be echoed, got %q", tc.incoming, got)
			}
			if !tc.echoed && got == tc.incoming {
				t.Fatalf("expected a generated id, got %q", got)
			}
			if recorder.Body.String() != got {
				t.Fatalf("expected id in context to match header, got %q", recorder.Body.String())
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := NewRateLimitManager(context.Background())
	t.Cleanup(func() { _ = manager.Shutdown() })

	cfg := &config.Config{RateLimitRequests: 2, RateLimitWindow: 3600, RateLimitBurst: 2}

	router := gin.New()
	router.Use(RateLimitMiddleware(manager, cfg))
	router.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/static/css/navbar.css", func(c *gin.Context) { c.Status(http.StatusOK) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		statuses = append(statuses, recorder.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK || statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected statuses %v", statuses)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/static/css/navbar.css", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("static assets must bypass the limiter, got %d", recorder.Code)
	}
}

func TestRateLimitManagerCleanup(t *testing.T) {
	manager := NewRateLimitManager(context.Background())
	defer manager.Shutdown()

	if manager.GetVisitor("10.0.0.1", 0, 60, 0) != nil {
		t.Fatalf("expected nil limiter when limiting is disabled")
	}

	manager.GetVisitor("10.0.0.1", 10, 60, 0)
	manager.GetVisitor("10.0.0.2", 10, 60, 0)
	if manager.visitorCount() != 2 {
		t.Fatalf("expected two visitors, got %d", manager.visitorCount())
	}

	manager.cleanup(time.Now().Add(visitorIdleTimeout + time.Second))
	if manager.visitorCount() != 0 {
		t.Fatalf("expected idle visitors to be removed, got %d", manager.visitorCount())
	}

	if err := manager.Shutdown(); err != nil {
		t.Fatalf("second shutdown should succeed: %v", err)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))

	partial := httptest.NewRequest(http.MethodGet, "/login", nil)
	partial.Header.Set(navigation.PartialHeader, "1")
	router.ServeHTTP(httptest.NewRecorder(), partial)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "/login", "200")); got != 2 {
		t.Fatalf("expected 2 login requests, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.partials.WithLabelValues("/login")); got != 1 {
		t.Fatalf("expected 1 partial render, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "unmatched", "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
}

func TestUnaccountedRequestsSkipLimiterAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := NewRateLimitManager(context.Background())
	t.Cleanup(func() { _ = manager.Shutdown() })

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	cfg := &config.Config{RateLimitRequests: 1, RateLimitWindow: 3600, RateLimitBurst: 1}

	router := gin.New()
	router.Use(metrics.Middleware())
	router.Use(RateLimitMiddleware(manager, cfg))
	router.GET("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req = req.WithContext(WithoutAccounting(req.Context()))
		req.Header.Set(navigation.PartialHeader, "1")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, recorder.Code)
		}
	}

	if manager.visitorCount() != 0 {
		t.Fatalf("expected no visitor to be tracked, got %d", manager.visitorCount())
	}
	if got := testutil.CollectAndCount(metrics.requests); got != 0 {
		t.Fatalf("expected no request samples, got %d", got)
	}
	if got := testutil.CollectAndCount(metrics.partials); got != 0 {
		t.Fatalf("expected no partial render samples, got %d", got)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/login", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected the first client request to pass, got %d", recorder.Code)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "/login", "200")); got != 1 {
		t.Fatalf("expected 1 counted request, got %v", got)
	}
}
