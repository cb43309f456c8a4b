package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/didip/tollbooth"
	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware throttles per client IP. A non-positive rps disables it.
// Forwarding headers are only consulted when trustProxyHeaders is set; a
// client talking to the server directly could otherwise pick its own key.
func RateLimitMiddleware(rps float64, burst int, trustProxyHeaders bool) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := tollbooth.NewLimiter(rps, nil)
	if trustProxyHeaders {
		limiter.SetIPLookups([]string{"X-Forwarded-For", "X-Real-IP", "RemoteAddr"})
	} else {
		limiter.SetIPLookups([]string{"RemoteAddr"})
	}
	limiter.SetTokenBucketExpirationTTL(time.Hour)
	if burst > 0 {
		limiter.SetBurst(burst)
	}

	b, _ := json.Marshal(gin.H{"error": "rate limited", "message": "Too many requests, slow down"})
	limiter.SetMessage(string(b))
	limiter.SetMessageContentType("application/json; charset=utf-8")

	return func(c *gin.Context) {
		allowed := false
		pass := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { allowed = true })

		tollbooth.LimitHandler(limiter, pass).ServeHTTP(c.Writer, c.Request)
		if !allowed {
			c.Abort()
			return
		}
		c.Next()
	}
}
