package http

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	adminKey     contextKey = "admin_user"
)

// RequestIDHeader carries the per-request id back to the client
const RequestIDHeader = "X-Request-ID"

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// Hijack lets the websocket upgrader take over the connection
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// requestIDFrom returns the id assigned by the logging middleware
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// createLoggingMiddleware assigns a request id, logs each request and
// reports it to metrics when set
func createLoggingMiddleware(next http.Handler, logger *HTTPLogger, metrics ports.MetricsRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

		wrapped := &responseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		elapsed := time.Since(start)
		if metrics != nil {
			metrics.RecordHTTPRequest(wrapped.status, elapsed)
		}

		logger.Info(
			"HTTP %s %s - %d %d bytes in %v [%s]",
			r.Method,
			r.URL.Path,
			wrapped.status,
			wrapped.size,
			elapsed,
			id,
		)
	})
}

// securityHeadersMiddleware adds security headers to all responses
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self' ws: wss:; "+
				"form-action 'self'; "+
				"frame-ancestors 'none'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-DNS-Prefetch-Control", "off")

		next.ServeHTTP(w, r)
	})
}

// ipRateLimiter hands out one token bucket per client IP
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterInfo
	rate     rate.Limit
	burst    int
	idle     time.Duration
}

type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// newIPRateLimiter allows requestsPerMinute sustained with bursts of burst
func newIPRateLimiter(requestsPerMinute, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*limiterInfo),
		rate:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		idle:     10 * time.Minute,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	info, ok := l.limiters[ip]
	if !ok {
		info = &limiterInfo{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = info
	}
	info.lastAccessed = time.Now()
	l.mu.Unlock()

	return info.limiter.Allow()
}

// runCleanup drops limiters idle for longer than l.idle until ctx ends
func (l *ipRateLimiter) runCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now)
		}
	}
}

func (l *ipRateLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, info := range l.limiters {
		if now.Sub(info.lastAccessed) > l.idle {
			delete(l.limiters, ip)
		}
	}
}

// createRateLimitMiddleware rejects clients that exhaust their bucket
func createRateLimitMiddleware(next http.Handler, limiter *ipRateLimiter, ips *clientIPResolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.allow(ips.clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIPResolver finds the client address of a request. Proxy headers are
// only read when the peer is a trusted proxy; anyone else could forge them.
type clientIPResolver struct {
	trusted []*net.IPNet
}

func newClientIPResolver(trusted []*net.IPNet) *clientIPResolver {
	return &clientIPResolver{trusted: trusted}
}

func (c *clientIPResolver) isTrusted(ip net.IP) bool {
	for _, n := range c.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP returns the peer address, or behind a trusted proxy the nearest
// untrusted hop of X-Forwarded-For, then X-Real-IP
func (c *clientIPResolver) clientIP(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}

	peer := net.ParseIP(remote)
	if peer == nil || !c.isTrusted(peer) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(hops[i]))
			if ip == nil {
				break
			}
			if !c.isTrusted(ip) {
				return ip.String()
			}
		}
	}

	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	return remote
}

// createRecoveryMiddleware turns handler panics into a 500
func createRecoveryMiddleware(next http.Handler, logger *HTTPLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered in HTTP handler [%s]: %v", requestIDFrom(r.Context()), err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
