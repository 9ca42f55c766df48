package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"starevents/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware enforces per-IP limits and sets the X-RateLimit-* headers.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			response.RespondJSON(c, http.StatusInternalServerError, "Rate limit check failed", nil, nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondJSON(c, http.StatusTooManyRequests, "Rate limit exceeded", nil, map[string]interface{}{
				"limit":      result.Limit,
				"reset_time": result.ResetTime,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType maps a route to its budget tier. The gate tier covers
// ticket validation at venue entry, which bursts hard at doors-open.
func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.Contains(path, "/tickets/validate"),
		strings.Contains(path, "/tickets/") && strings.Contains(path, "/use"):
		return RateLimitTypeGate

	case strings.Contains(path, "/bookings") || strings.Contains(path, "/payments"):
		return RateLimitTypeBooking

	case strings.Contains(path, "/events"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// getClientIP extracts the real client IP, honoring proxy headers.
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
