package http_api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/billing"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
)

const principalKey = "principal"

// authMiddleware validates the bearer token and attaches the authenticated
// principal to the request context.
func (s *HTTPServer) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := ""
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "token required"})
			return
		}

		principal, err := s.signer.Verify(token)
		if err != nil {
			s.logger.Debug("Invalid token ", "error ", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_TOKEN", "error": "invalid token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// adminOnly rejects requests from non-administrators. Must run after
// authMiddleware.
func (s *HTTPServer) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.principal(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": "FORBIDDEN", "error": "administrators only"})
			return
		}
		c.Next()
	}
}

// principal returns the authenticated identity set by authMiddleware.
func (s *HTTPServer) principal(c *gin.Context) models.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p
		}
	}
	return models.Principal{}
}

// respondError maps billing errors onto HTTP statuses. Internal errors are
// logged in full but answered with a generic message.
func (s *HTTPServer) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, billing.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, billing.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, billing.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, billing.ErrConflict), errors.Is(err, billing.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Internal error ", "path ", c.FullPath(), " error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
