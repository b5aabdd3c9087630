package middlewares

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// APIKeyGate is a two-gate filter in front of the whole API.
//
// Gate 1 checks the X-API-Key header. The key ships inside the frontend
// bundle, so it is readable by anyone determined; its job is to filter
// tools that do not speak the application protocol (scanners, generic
// crawlers), not to authenticate anyone.
//
// Gate 2 checks Origin/Referer against the allow-list when either header
// is present. Requests without both headers (curl, server-to-server) pass
// gate 2 and still face gate 1 plus real authentication.
//
// With an empty configured key the gate is disabled, for local dev.
func APIKeyGate(apiKey string, allowedOrigins []string, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))

	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))

	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		if c.GetHeader(apiKeyHeader) != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "invalid_api_key",
					"message": "Missing or invalid API key",
				},
			})
			return
		}

		origin := c.GetHeader("Origin")

		if origin == "" {
			origin = refererOrigin(c.GetHeader("Referer"))
		}

		if origin != "" {
			if _, ok := allowed[strings.TrimRight(origin, "/")]; !ok {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": gin.H{
						"code":    "forbidden_origin",
						"message": "Request origin is not allowed",
					},
				})
				return
			}
		}

		c.Next()
	}
}

func refererOrigin(referer string) string {
	if referer == "" {
		return ""
	}

	u, err := url.Parse(referer)

	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}
