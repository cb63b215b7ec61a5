package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pianostudio-backend/internal/http/middleware"
	"github.com/yungbote/pianostudio-backend/internal/http/response"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

// PublicConfig is what the browser needs to talk to the identity provider.
type PublicConfig struct {
	IdentityURL     string `json:"identity_url"`
	IdentityAnonKey string `json:"identity_anon_key"`
	// OwnerEmail is a UI hint only; authorization never trusts it.
	OwnerEmail string `json:"owner_email,omitempty"`
}

type SessionHandler struct {
	log    *logger.Logger
	owners services.OwnerService
	public PublicConfig
}

func NewSessionHandler(log *logger.Logger, owners services.OwnerService, public PublicConfig) *SessionHandler {
	return &SessionHandler{log: log.With("handler", "SessionHandler"), owners: owners, public: public}
}

// GET /api/session
func (h *SessionHandler) Session(c *gin.Context) {
	id := middleware.SessionIdentity(c)
	if id == nil {
		response.RespondErr(c, apierr.Unauthorized("Unauthorized"))
		return
	}
	ctx := c.Request.Context()
	if _, err := h.owners.EnsureProfile(ctx, id); err != nil {
		h.log.Warn("ensure profile failed", "user_id", id.ID, "error", err)
	}
	isOwner, err := h.owners.IsOwner(ctx, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"id":        id.ID,
		"email":     id.Email,
		"full_name": id.FullName,
		"is_owner":  isOwner,
	})
}

// GET /api/public-config
func (h *SessionHandler) PublicConfig(c *gin.Context) {
	response.RespondOK(c, h.public)
}
