package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"beatrush/internal/domain/admin"
	"beatrush/internal/infrastructure/auth"
	"beatrush/internal/shared/constants"
	"beatrush/internal/shared/logger"
	"beatrush/internal/shared/utils"
)

// AdminAuthMiddleware gates admin-only routes. It verifies the bearer token
// and then resolves the caller's admin record on every request, so demotion
// takes effect immediately rather than at token expiry.
type AdminAuthMiddleware struct {
	jwtService *auth.JWTService
	adminRepo  admin.Repository
	logger     logger.Interface
}

// NewAdminAuthMiddleware creates the admin gate.
func NewAdminAuthMiddleware(jwtService *auth.JWTService, adminRepo admin.Repository, log logger.Interface) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		jwtService: jwtService,
		adminRepo:  adminRepo,
		logger:     log,
	}
}

// RequireAdmin aborts with 401 for bad tokens and 403 for non-admin callers.
func (m *AdminAuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		record, err := m.adminRepo.GetByUserID(c.Request.Context(), claims.UserID)
		if err != nil {
			utils.ErrorResponse(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyAdminRole, record.Role().String())

		c.Next()
	}
}
