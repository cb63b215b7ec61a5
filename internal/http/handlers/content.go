package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/http/middleware"
	"github.com/yungbote/pianostudio-backend/internal/http/response"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

// ContentHandler serves catalog reads, counters and deletes. Routes are
// registered once per category, so each method returns a handler bound to it.
type ContentHandler struct {
	log      *logger.Logger
	catalog  services.CatalogService
	counters services.CounterService
	content  services.ContentService
}

func NewContentHandler(log *logger.Logger, catalog services.CatalogService, counters services.CounterService, content services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:      log.With("handler", "ContentHandler"),
		catalog:  catalog,
		counters: counters,
		content:  content,
	}
}

// GET /api/{category}
func (h *ContentHandler) List(category types.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.catalog.List(c.Request.Context(), category)
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		if items == nil {
			items = []types.Item{}
		}
		response.RespondOK(c, items)
	}
}

// GET /api/recent?limit=6
func (h *ContentHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	items, err := h.catalog.Recent(c.Request.Context(), limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if items == nil {
		items = []types.Item{}
	}
	response.RespondOK(c, items)
}

// POST /api/{category}/:id/play
func (h *ContentHandler) Play(category types.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := h.counters.IncrementPlay(c.Request.Context(), category, id); err != nil {
			response.RespondErr(c, err)
			return
		}
		response.RespondSuccess(c)
	}
}

// DELETE /api/{category}/:id
func (h *ContentHandler) Delete(category types.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := h.content.Delete(c.Request.Context(), category, id); err != nil {
			response.RespondErr(c, err)
			return
		}
		response.RespondSuccess(c)
	}
}

// POST /api/{category}/:id/save
func (h *ContentHandler) Save(category types.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.toggleSave(c, category, true)
	}
}

// DELETE /api/{category}/:id/save
func (h *ContentHandler) Unsave(category types.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.toggleSave(c, category, false)
	}
}

func (h *ContentHandler) toggleSave(c *gin.Context, category types.Category, save bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	caller := middleware.SessionIdentity(c)
	if caller == nil {
		response.RespondErr(c, apierr.Unauthorized("Unauthorized"))
		return
	}
	var (
		st  *services.SaveState
		err error
	)
	if save {
		st, err = h.counters.Save(c.Request.Context(), category, caller.ID, id)
	} else {
		st, err = h.counters.Unsave(c.Request.Context(), category, caller.ID, id)
	}
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, st)
}

// GET /api/me/saved?category=videos
func (h *ContentHandler) SavedIDs(c *gin.Context) {
	category, ok := content.ParseCategory(c.Query("category"))
	if !ok {
		response.RespondErr(c, apierr.Validation("category required"))
		return
	}
	caller := middleware.SessionIdentity(c)
	if caller == nil {
		response.RespondErr(c, apierr.Unauthorized("Unauthorized"))
		return
	}
	ids, err := h.counters.SavedIDs(c.Request.Context(), category, caller.ID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": category, "ids": ids})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondErr(c, apierr.Validation("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
