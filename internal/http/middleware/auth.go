package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pianostudio-backend/internal/http/response"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/ctxutil"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

type AuthMiddleware struct {
	log    *logger.Logger
	owners services.OwnerService
}

func NewAuthMiddleware(log *logger.Logger, owners services.OwnerService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, owners: owners}
}

// RequireAuth admits any caller holding a valid access token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		id, err := am.owners.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.AbortErr(c, err)
			return
		}
		attachCaller(c, id, false)
		c.Next()
	}
}

// RequireOwner admits only the studio owner: 401 without a valid token, 403 otherwise.
func (am *AuthMiddleware) RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		id, err := am.owners.VerifyOwner(c.Request.Context(), token)
		if err != nil {
			if apierr.StatusOf(err) == http.StatusForbidden {
				am.log.Warn("owner route denied", "path", c.FullPath())
			}
			response.AbortErr(c, err)
			return
		}
		attachCaller(c, id, true)
		c.Next()
	}
}

func attachCaller(c *gin.Context, id *identity.Identity, isOwner bool) {
	c.Request = c.Request.WithContext(ctxutil.WithCaller(c.Request.Context(), &ctxutil.Caller{
		ID:       id.ID,
		Email:    id.Email,
		FullName: id.FullName,
		IsOwner:  isOwner,
	}))
}

// SessionIdentity returns the caller attached by RequireAuth or RequireOwner,
// or nil on public routes.
func SessionIdentity(c *gin.Context) *identity.Identity {
	caller := ctxutil.CallerFrom(c.Request.Context())
	if caller == nil {
		return nil
	}
	return &identity.Identity{ID: caller.ID, Email: caller.Email, FullName: caller.FullName}
}

func extractBearer(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
