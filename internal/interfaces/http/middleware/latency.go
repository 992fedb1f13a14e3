// internal/interfaces/http/middleware/latency.go
package middleware

import (
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
)

// MockLatency delays each request by a uniform random duration in
// [min, max] so clients exercise their loading states. A cancelled request
// stops waiting immediately.
func MockLatency(min, max time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		delay := min
		if max > min {
			delay += time.Duration(rand.Int63n(int64(max-min) + 1))
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-c.Request.Context().Done():
				timer.Stop()
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
