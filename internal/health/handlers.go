package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/noah-isme/frozen-toko/internal/common"
)

// Checker probes a single dependency.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Ping implements Checker.
func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady toggles readiness; the server flips it off when shutdown begins.
func SetReady(v bool) { ready.Store(v) }

// Handler exposes HTTP handlers for health endpoints. Nil checkers are reported as
// disabled and do not fail readiness: the API runs on the seed catalog without them.
type Handler struct {
	DB           Checker
	Redis        Checker
	DBTimeout    time.Duration
	RedisTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on dependency probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !ready.Load() {
		common.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "shutting down"})
		return
	}
	ctx := r.Context()
	status := map[string]string{
		"db":    probe(ctx, h.DB, timeoutOr(h.DBTimeout, 500*time.Millisecond)),
		"redis": probe(ctx, h.Redis, timeoutOr(h.RedisTimeout, 300*time.Millisecond)),
	}
	code := http.StatusOK
	for _, s := range status {
		if s != "ok" && s != "disabled" {
			code = http.StatusServiceUnavailable
		}
	}
	common.JSON(w, code, status)
}

func probe(ctx context.Context, c Checker, timeout time.Duration) string {
	if c == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}

func timeoutOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
