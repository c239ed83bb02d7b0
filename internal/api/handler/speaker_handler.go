package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/service"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/response"
)

// SpeakerHandler 讲者管理 HTTP 处理器
type SpeakerHandler struct {
	speakerSvc service.SpeakerService
}

// NewSpeakerHandler 创建 SpeakerHandler
func NewSpeakerHandler(speakerSvc service.SpeakerService) *SpeakerHandler {
	return &SpeakerHandler{speakerSvc: speakerSvc}
}

// ListSpeakers GET /api/v1/admin/speakers?search=
func (h *SpeakerHandler) ListSpeakers(c *gin.Context) {
	var req dto.SpeakerListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.speakerSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetSpeaker GET /api/v1/admin/speakers/:id
func (h *SpeakerHandler) GetSpeaker(c *gin.Context) {
	sp, err := h.speakerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSpeakerError(c, err)
		return
	}

	response.OK(c, sp)
}

// CreateSpeaker POST /api/v1/admin/speakers
func (h *SpeakerHandler) CreateSpeaker(c *gin.Context) {
	var req dto.CreateSpeakerRequest
	if !bindJSON(c, &req) {
		return
	}

	sp, err := h.speakerSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleSpeakerError(c, err)
		return
	}

	response.Created(c, sp)
}

// UpdateSpeaker PUT /api/v1/admin/speakers/:id
func (h *SpeakerHandler) UpdateSpeaker(c *gin.Context) {
	var req dto.UpdateSpeakerRequest
	if !bindJSON(c, &req) {
		return
	}

	sp, err := h.speakerSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleSpeakerError(c, err)
		return
	}

	response.OK(c, sp)
}

// DeleteSpeaker DELETE /api/v1/admin/speakers/:id
func (h *SpeakerHandler) DeleteSpeaker(c *gin.Context) {
	if err := h.speakerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleSpeakerError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleSpeakerError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSpeakerNotFound) {
		response.NotFound(c, 16001, "讲者不存在")
		return
	}
	response.InternalError(c)
}
