package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys shared by HealthMarker and the health handlers.
const (
	KeyReqTotal  = "health:clubhub:req_total"
	KeyReqErrors = "health:clubhub:req_errors"
	KeyResTime   = "health:clubhub:res_time_total"
	KeyResCount  = "health:clubhub:res_count"
	KeyStartTime = "health:clubhub:start_time"
	KeyLastReq   = "health:clubhub:last_request"
	KeyErrorLog  = "health:clubhub:error_log"
)

const errorLogSize = 50

// HealthMarker records request stats in Redis (skips /health*, /reset and favicon).
// Server errors are also pushed onto a capped error log.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, "/health") || path == "/reset" || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		ctx := context.Background()
		b, _ := json.Marshal(map[string]interface{}{
			"time":   start,
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		})
		rdb.Set(ctx, KeyLastReq, b, 0)
		rdb.Incr(ctx, KeyReqTotal)

		err := c.Next()

		rdb.Incr(ctx, KeyResCount)
		rdb.IncrByFloat(ctx, KeyResTime, float64(time.Since(start).Milliseconds()))
		if status := c.Response().StatusCode(); status >= 500 {
			rdb.Incr(ctx, KeyReqErrors)
			entry, _ := json.Marshal(map[string]interface{}{
				"time":    time.Now().UTC(),
				"path":    path,
				"method":  c.Method(),
				"status":  status,
				"traceId": GetTraceID(c),
			})
			rdb.LPush(ctx, KeyErrorLog, entry)
			rdb.LTrim(ctx, KeyErrorLog, 0, errorLogSize-1)
		}
		return err
	}
}
