package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/flatbank/pkg/web"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultLoginAttemptsPerMinute = 5
	loginRateKeyPrefix            = "rl:login:"
)

// ErrTooManyLoginAttempts indicates that the client exceeded the login rate.
var ErrTooManyLoginAttempts = errors.New("too many login attempts, try again later")

// LoginRateLimit limits login attempts per client IP using Redis if available.
//
// Without a cache the middleware is a no-op. Cache errors let the request through.
func LoginRateLimit(cache *redis.Client, maxPerMin int) gin.HandlerFunc {
	if maxPerMin <= 0 {
		maxPerMin = defaultLoginAttemptsPerMinute
	}

	return func(gctx *gin.Context) {
		if cache == nil {
			gctx.Next()
			return
		}

		ctx := gctx.Request.Context()
		key := loginRateKeyPrefix + gctx.ClientIP()

		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("login rate limit unavailable")
			gctx.Next()

			return
		}

		if cnt == 1 {
			cache.Expire(ctx, key, time.Minute)
		}

		if cnt > int64(maxPerMin) {
			gctx.AbortWithStatusJSON(http.StatusTooManyRequests, web.Error(ErrTooManyLoginAttempts))
			return
		}

		gctx.Next()
	}
}
