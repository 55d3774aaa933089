package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
)

const (
	// limiterTTL время жизни бакета неактивного клиента
	limiterTTL = 10 * time.Minute
)

// RateLimiter ограничитель частоты запросов по IP клиента
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	limiters *cache.Cache
}

// NewRateLimiter создает новый ограничитель.
// Каждому IP выдается собственный token bucket; бакеты простаивающих
// клиентов вычищаются по TTL
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: cache.New(limiterTTL, limiterTTL),
	}
}

// Middleware отклоняет запросы сверх лимита с кодом 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if !rl.limiter(ip).Allow() {
			handlers.RespondError(w, http.StatusTooManyRequests, "слишком много запросов, попробуйте позже")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	if cached, ok := rl.limiters.Get(ip); ok {
		if limiter, ok := cached.(*rate.Limiter); ok {
			return limiter
		}
	}

	limiter := rate.NewLimiter(rl.rps, rl.burst)
	rl.limiters.Set(ip, limiter, cache.DefaultExpiration)
	return limiter
}

func clientIP(r *http.Request) string {
	// За обратным прокси реальный адрес приходит в X-Real-IP
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
