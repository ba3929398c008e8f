package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/rendertool/rendertool-api/internal/pkg/response"
)

// RateLimit returns a fixed-window rate limiting middleware backed by Redis,
// keyed by client IP and route name. With a nil client it is a pass-through,
// matching the optional-Redis stance of the rest of the service.
func RateLimit(client *redis.Client, name string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("ratelimit:%s:%s:%d", name, clientIP(r), time.Now().Unix()/int64(window.Seconds()))

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				// Redis failure must not take down the API
				log.Warn().Err(err).Str("route", name).Msg("rate limit check failed, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(r.Context(), key, window)
			}

			if count > int64(limit) {
				response.TooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
