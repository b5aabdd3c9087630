package middlewares

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles credential guessing on the login route. Counters
// live in redis so the window holds across process restarts and replicas.
type LoginLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	log    *slog.Logger
}

func NewLoginLimiter(rdb *redis.Client, limit int, window time.Duration, log *slog.Logger) *LoginLimiter {
	return &LoginLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		log:    log,
	}
}

func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "login_attempts:" + clientIP(c)

		ctx := c.Request.Context()

		count, err := l.rdb.Incr(ctx, key).Result()

		if err != nil {
			// redis being down should not lock everyone out of login
			l.log.WarnContext(ctx, "login limiter unavailable, failing open", "err", err)
			c.Next()
			return
		}

		if count == 1 {
			if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
				l.log.WarnContext(ctx, "login limiter expire failed", "err", err)
			}
		}

		if count > int64(l.limit) {
			ttl, _ := l.rdb.TTL(ctx, key).Result()

			if ttl > 0 {
				c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			}

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many login attempts, please try again later.",
				},
			})

			return
		}

		c.Next()
	}
}
