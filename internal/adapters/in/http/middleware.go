package http

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// IPRateLimiter stores a rate limiter per client IP. Robots report over
// HTTP at a known cadence; a unit gone haywire gets throttled instead of
// flooding the command handlers.
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter creates a limiter registry with the given per-IP rate
// and burst.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

// GetLimiter returns the limiter for an IP, creating it on first sight.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, ok := i.ips[ip]
	if !ok {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

// RateLimit is an IP-based rate limiting middleware.
func RateLimit(r rate.Limit, b int) echo.MiddlewareFunc {
	limiter := NewIPRateLimiter(r, b)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.GetLimiter(c.RealIP()).Allow() {
				return c.NoContent(http.StatusTooManyRequests)
			}
			return next(c)
		}
	}
}

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	http.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *bodyCacheWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheResponses is an in-memory cache middleware for GET requests. Query
// endpoints are polled aggressively by customer apps; a short TTL takes
// that load off the database without staleness anyone would notice.
func CacheResponses(store *cache.Cache, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := c.Request().RequestURI
			if resp, found := store.Get(key); found {
				cached := resp.(cachedResponse)
				for k, v := range cached.headers {
					c.Response().Header()[k] = v
				}
				c.Response().WriteHeader(cached.status)
				_, err := c.Response().Write(cached.body)
				return err
			}

			writer := &bodyCacheWriter{
				ResponseWriter: c.Response().Writer,
				body:           bytes.NewBuffer(nil),
				status:         http.StatusOK,
			}
			c.Response().Writer = writer

			if err := next(c); err != nil {
				return err
			}

			if writer.status >= 200 && writer.status < 300 {
				store.Set(key, cachedResponse{
					status:  writer.status,
					headers: c.Response().Header().Clone(),
					body:    writer.body.Bytes(),
				}, ttl)
			}
			return nil
		}
	}
}
