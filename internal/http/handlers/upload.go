package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pianostudio-backend/internal/http/response"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

// UploadHandler serves the owner-only upload endpoints.
type UploadHandler struct {
	log     *logger.Logger
	uploads services.UploadService
	content services.ContentService
}

func NewUploadHandler(log *logger.Logger, uploads services.UploadService, content services.ContentService) *UploadHandler {
	return &UploadHandler{
		log:     log.With("handler", "UploadHandler"),
		uploads: uploads,
		content: content,
	}
}

// POST /api/upload/signed-url
// body: { "path": "videos/lesson.mp4", "contentType": "video/mp4" }
func (h *UploadHandler) SignedURL(c *gin.Context) {
	var req struct {
		Path         string `json:"path"`
		ContentType  string `json:"contentType"`
		ContentType2 string `json:"content_type"`
	}
	if !bindJSON(c, &req) {
		return
	}
	slot, err := h.uploads.RequestSlot(c.Request.Context(), req.Path, firstNonBlank(req.ContentType, req.ContentType2))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, slot)
}

// The upload forms have sent both camelCase and snake_case keys over time.
type mediaRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Tags          json.RawMessage `json:"tags"`
	Difficulty    string          `json:"difficulty"`
	LearningTime  string          `json:"learning_time"`
	LearningTime2 string          `json:"learningTime"`
	VideoURL      string          `json:"video_url"`
	VideoURL2     string          `json:"videoUrl"`
	PDFURL        string          `json:"pdf_url"`
	PDFURL2       string          `json:"pdfUrl"`
	ThumbnailURL  string          `json:"thumbnail_url"`
	ThumbnailURL2 string          `json:"thumbnailUrl"`
	AspectRatio   string          `json:"aspect_ratio"`
	AspectRatio2  string          `json:"aspectRatio"`
}

// POST /api/upload/video
func (h *UploadHandler) CreateVideo(c *gin.Context) {
	var req mediaRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.content.CreateVideo(c.Request.Context(), services.VideoInput{
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		Difficulty:   req.Difficulty,
		LearningTime: firstNonBlank(req.LearningTime, req.LearningTime2),
		VideoURL:     firstNonBlank(req.VideoURL, req.VideoURL2),
		ThumbnailURL: firstNonBlank(req.ThumbnailURL, req.ThumbnailURL2),
		AspectRatio:  firstNonBlank(req.AspectRatio, req.AspectRatio2),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, v)
}

// POST /api/upload/sheet-music
func (h *UploadHandler) CreateSheetMusic(c *gin.Context) {
	var req mediaRequest
	if !bindJSON(c, &req) {
		return
	}
	sm, err := h.content.CreateSheetMusic(c.Request.Context(), services.SheetMusicInput{
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		Difficulty:   req.Difficulty,
		LearningTime: firstNonBlank(req.LearningTime, req.LearningTime2),
		PDFURL:       firstNonBlank(req.PDFURL, req.PDFURL2),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, sm)
}

// POST /api/upload/technique-drill
func (h *UploadHandler) CreateTechniqueDrill(c *gin.Context) {
	var req mediaRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.content.CreateTechniqueDrill(c.Request.Context(), services.TechniqueDrillInput{
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		Difficulty:   req.Difficulty,
		LearningTime: firstNonBlank(req.LearningTime, req.LearningTime2),
		PDFURL:       firstNonBlank(req.PDFURL, req.PDFURL2),
		ThumbnailURL: firstNonBlank(req.ThumbnailURL, req.ThumbnailURL2),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, d)
}

// POST /api/upload/beginner-plan
func (h *UploadHandler) CreateBeginnerPlan(c *gin.Context) {
	var req struct {
		Title         string          `json:"title"`
		Description   string          `json:"description"`
		Duration      string          `json:"duration"`
		Level         string          `json:"level"`
		Lessons       json.RawMessage `json:"lessons"`
		LearningTime  string          `json:"learning_time"`
		LearningTime2 string          `json:"learningTime"`
	}
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.content.CreateBeginnerPlan(c.Request.Context(), services.BeginnerPlanInput{
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		Level:        req.Level,
		Lessons:      req.Lessons,
		LearningTime: firstNonBlank(req.LearningTime, req.LearningTime2),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, p)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondErr(c, apierr.New(http.StatusBadRequest, "invalid_request", errors.New("invalid JSON body")))
		return false
	}
	return true
}
