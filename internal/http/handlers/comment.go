package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/http/middleware"
	"github.com/yungbote/pianostudio-backend/internal/http/response"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

type CommentHandler struct {
	log      *logger.Logger
	comments services.CommentService
}

func NewCommentHandler(log *logger.Logger, comments services.CommentService) *CommentHandler {
	return &CommentHandler{log: log.With("handler", "CommentHandler"), comments: comments}
}

// GET /api/comments?item_id=...&item_type=video
func (h *CommentHandler) List(c *gin.Context) {
	itemID, err := uuid.Parse(strings.TrimSpace(c.Query("item_id")))
	if err != nil {
		response.RespondErr(c, apierr.Validation("item_id required"))
		return
	}
	rows, err := h.comments.List(c.Request.Context(), itemID, strings.TrimSpace(c.Query("item_type")))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /api/comments
// body: { "item_id": "...", "item_type": "video", "content": "..." }
func (h *CommentHandler) Create(c *gin.Context) {
	var req struct {
		ItemID   string `json:"item_id"`
		ItemType string `json:"item_type"`
		Content  string `json:"content"`
	}
	if !bindJSON(c, &req) {
		return
	}
	itemID, err := uuid.Parse(strings.TrimSpace(req.ItemID))
	if err != nil {
		response.RespondErr(c, apierr.Validation("item_id required"))
		return
	}
	row, err := h.comments.Create(c.Request.Context(), middleware.SessionIdentity(c), itemID, strings.TrimSpace(req.ItemType), req.Content)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, row)
}

// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), middleware.SessionIdentity(c), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondSuccess(c)
}
