package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Headers the admin front end is allowed to send and to read. The export
// endpoints deliver files, so Content-Disposition must be readable for the
// browser to pick up the filename.
const (
	allowedHeaders  = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	allowedMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	exposedHeaders  = "Content-Disposition, X-Request-ID"
	preflightMaxAge = "600"
)

// New returns a CORS middleware restricted to the configured origins. An
// empty origin list allows every origin.
func New(allowedOrigins []string) gin.HandlerFunc {
	origins := newOriginSet(allowedOrigins)

	return func(c *gin.Context) {
		header := c.Writer.Header()
		if origin := c.GetHeader("Origin"); origin != "" {
			if origins.contains(origin) {
				header.Set("Access-Control-Allow-Origin", origin)
			}
		} else if origins.allowAll() {
			header.Set("Access-Control-Allow-Origin", "*")
		}

		header.Set("Vary", "Origin")
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Allow-Headers", allowedHeaders)
		header.Set("Access-Control-Allow-Methods", allowedMethods)
		header.Set("Access-Control-Expose-Headers", exposedHeaders)
		header.Set("Access-Control-Max-Age", preflightMaxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// originSet matches origins ignoring a trailing slash.
type originSet map[string]struct{}

func newOriginSet(origins []string) originSet {
	set := make(originSet, len(origins))
	for _, origin := range origins {
		set[strings.TrimRight(origin, "/")] = struct{}{}
	}
	return set
}

func (s originSet) allowAll() bool { return len(s) == 0 }

func (s originSet) contains(origin string) bool {
	if s.allowAll() {
		return true
	}
	_, ok := s[strings.TrimRight(origin, "/")]
	return ok
}
