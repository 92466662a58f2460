package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"account_service/internal/auth"
)

const (
	requestIDHeader = "X-Request-ID"

	ctxRequestID = "RequestID"
	ctxUserID    = "UserID"
)

type tokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequestLogger tags every request with an ID and logs it once it completes.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ctxRequestID, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		log.Info("http request",
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", c.Writer.Size()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func AuthMiddleware(tokens tokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "empty authorization header")

			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			newErrorResponse(c, http.StatusUnauthorized, "invalid authorization header")

			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "invalid token")

			return
		}

		c.Set(ctxUserID, claims.UserID.String())

		c.Next()
	}
}
