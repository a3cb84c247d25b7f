package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxKeyRequestID   = "request_id"
	ctxKeyHasOrgClaim = "has_org_claim"
)

// requestLogMiddleware emits exactly one structured record per inbound
// request. The deferred emit plus the inner recovery middleware make the
// record unskippable on any path, including panics.
func requestLogMiddleware(appCheckHeader string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set(ctxKeyRequestID, requestID)

		method := c.Request.Method
		path := c.Request.URL.Path
		hasAuth := c.GetHeader("Authorization") != ""
		hasAppCheck := c.GetHeader(appCheckHeader) != ""

		defer func() {
			status := c.Writer.Status()
			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			}

			log.LogAttrs(c.Request.Context(), level, "request completed",
				slog.String("requestId", requestID),
				slog.String("method", method),
				slog.String("path", path),
				slog.Bool("hasAuth", hasAuth),
				slog.Bool("hasAppCheck", hasAppCheck),
				slog.Bool("hasOrgClaim", c.GetBool(ctxKeyHasOrgClaim)),
				slog.Int("status", status),
			)
		}()

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}
