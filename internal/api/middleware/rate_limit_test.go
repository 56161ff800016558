package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newLimitedRouter(t *testing.T, client RateCounter, limit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.POST("/form", RateLimit(client, logger, "form", limit, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func postForm(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/form", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksAboveLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	router := newLimitedRouter(t, client, 2)

	for i := 0; i < 2; i++ {
		if w := postForm(router); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, w.Code)
		}
	}
	if w := postForm(router); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", w.Code)
	}
}

func TestRateLimitResetsAfterWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	router := newLimitedRouter(t, client, 1)

	if w := postForm(router); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}
	if w := postForm(router); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}

	mr.FastForward(2 * time.Minute)

	if w := postForm(router); w.Code != http.StatusOK {
		t.Fatalf("request after window status = %d", w.Code)
	}
}

// A dead Redis never blocks the form.
func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	router := newLimitedRouter(t, client, 1)
	for i := 0; i < 3; i++ {
		if w := postForm(router); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want fail-open 200", i+1, w.Code)
		}
	}
}

func TestRateLimitDisabledWithoutCounter(t *testing.T) {
	router := newLimitedRouter(t, nil, 5)
	for i := 0; i < 10; i++ {
		if w := postForm(router); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, w.Code)
		}
	}
}
