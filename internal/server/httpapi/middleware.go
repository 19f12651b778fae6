package httpapi

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/gamenight/users-service/internal/model"
	"github.com/gamenight/users-service/internal/token"
)

// Authorize runs the per-request authorization pipeline, short-circuiting on
// the first failure:
//
//	extract token, verify signature, verify reserved claims, verify permission
//
// A missing verification key is a server configuration error (500); every
// other rejection is the client's to fix: malformed request (400), failed
// verification or invalid claims (401), insufficient permission (403). On
// success the resolved identity is attached to the request context.
func (s *Server) Authorize(required ...model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		signed, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondError(c, http.StatusBadRequest,
				"auth header is invalid; use format 'Authorization: Bearer <signed-token>'", nil)
			return
		}

		h, err := s.composer.ParseUnverified(signed)
		if err != nil {
			respondError(c, http.StatusBadRequest, "malformed token", err)
			return
		}

		if err := s.composer.VerifySignatureAndAlgorithm(h); err != nil {
			if errors.Is(err, token.ErrMissingPublicKey) {
				s.log.Error("token verification key is not configured")
				respondError(c, http.StatusInternalServerError, "verification key is not configured", nil)
				return
			}
			respondError(c, http.StatusUnauthorized, "cannot verify token signature and algorithm", err)
			return
		}

		if err := s.composer.VerifyReservedClaims(h, token.Issuer, token.Subject); err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token payload", err)
			return
		}

		var granted []model.Permission
		err = s.composer.VerifyPrivateClaims(h, func(claims map[string]any) []string {
			perms, ok := claims["perms"].(string)
			if !ok || perms == "" {
				return []string{"perms"}
			}
			granted = model.ParsePermissions(perms)
			if !model.HasAnyPermission(granted, required) {
				return []string{"perms"}
			}
			return nil
		})
		if err != nil {
			respondError(c, http.StatusForbidden, "insufficient permissions", err)
			return
		}

		userID, _ := h.Claims()["user"].(string)
		ident := Identity{UserID: userID, Perms: granted}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), ident))
		c.Next()
	}
}

// extractBearerToken accepts exactly two space-separated components with a
// literal "Bearer" scheme.
func extractBearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AllowAllOrigins mirrors every response with a wildcard CORS origin.
func AllowAllOrigins() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

// RequestLogger logs one structured line per request with a generated id.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.Must(uuid.NewV4()).String()
		c.Set("request_id", reqID)
		c.Next()
		log.Info("http",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Recovery converts panics into 500 responses.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			}
		}()
		c.Next()
	}
}
