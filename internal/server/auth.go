package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	apitokendomain "github.com/smallbiznis/catalog/internal/apitoken/domain"
	"github.com/smallbiznis/catalog/internal/authcontext"
	"github.com/smallbiznis/catalog/internal/observability/logger"
	"go.uber.org/zap"
)

// TokenRequired authenticates API requests with a bearer token.
// Identity is derived solely from the api_tokens table.
func (s *Server) TokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		hash := apitokendomain.HashToken(parts[1])
		record, err := s.tokens.FindByHash(c.Request.Context(), hash)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if record == nil || subtle.ConstantTimeCompare([]byte(record.TokenHash), []byte(hash)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.tokens.TouchLastUsed(c.Request.Context(), record.ID); err != nil {
			logger.FromContext(c.Request.Context()).Warn("touch token last_used failed",
				zap.Int64("token_id", record.ID), zap.Error(err))
		}

		ctx := authcontext.WithToken(c.Request.Context(), authcontext.Token{
			ID:   record.ID,
			Name: record.Name,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
