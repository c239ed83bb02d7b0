package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/service"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/response"
)

// SessionHandler 场次 / 议题 / 讲者分配 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// CreateSession 创建场次
// POST /api/v1/admin/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.sessionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleSessionError(c, err)
		return
	}

	response.Created(c, s)
}

// GetSession 场次详情（含可见性配置提示）
// GET /api/v1/admin/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.sessionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSessionError(c, err)
		return
	}

	response.OK(c, s)
}

// UpdateSession 部分更新场次
// PUT /api/v1/admin/sessions/:id
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var req dto.UpdateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.sessionSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleSessionError(c, err)
		return
	}

	response.OK(c, s)
}

// DeleteSession 删除场次
// DELETE /api/v1/admin/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleSessionError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 议题 ──

// ListTopics GET /api/v1/admin/sessions/:id/topics
func (h *SessionHandler) ListTopics(c *gin.Context) {
	list, err := h.sessionSvc.ListTopics(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSessionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateTopic POST /api/v1/admin/sessions/:id/topics
func (h *SessionHandler) CreateTopic(c *gin.Context) {
	var req dto.CreateTopicRequest
	if !bindJSON(c, &req) {
		return
	}

	topic, err := h.sessionSvc.CreateTopic(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleSessionError(c, err)
		return
	}

	response.Created(c, topic)
}

// UpdateTopic PUT /api/v1/admin/sessions/:id/topics/:topicId
func (h *SessionHandler) UpdateTopic(c *gin.Context) {
	var req dto.UpdateTopicRequest
	if !bindJSON(c, &req) {
		return
	}

	topic, err := h.sessionSvc.UpdateTopic(c.Request.Context(), c.Param("id"), c.Param("topicId"), &req)
	if err != nil {
		handleSessionError(c, err)
		return
	}

	response.OK(c, topic)
}

// DeleteTopic DELETE /api/v1/admin/sessions/:id/topics/:topicId
func (h *SessionHandler) DeleteTopic(c *gin.Context) {
	if err := h.sessionSvc.DeleteTopic(c.Request.Context(), c.Param("id"), c.Param("topicId")); err != nil {
		handleSessionError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 讲者分配 ──

// AssignSpeakers POST /api/v1/admin/sessions/:id/speakers
func (h *SessionHandler) AssignSpeakers(c *gin.Context) {
	var req dto.AssignSpeakersRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.sessionSvc.AssignSpeakers(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleSessionError(c, err)
		return
	}

	response.OK(c, s)
}

// RemoveSpeaker DELETE /api/v1/admin/sessions/:id/speakers/:speakerId
func (h *SessionHandler) RemoveSpeaker(c *gin.Context) {
	if err := h.sessionSvc.RemoveSpeaker(c.Request.Context(), c.Param("id"), c.Param("speakerId")); err != nil {
		handleSessionError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 15001, "场次不存在")
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 14001, "活动不存在")
	case errors.Is(err, service.ErrTopicNotFound):
		response.NotFound(c, 15002, "议题不存在")
	case errors.Is(err, service.ErrSpeakerNotFound):
		response.NotFound(c, 16001, "讲者不存在")
	case errors.Is(err, service.ErrSpeakerNotAssigned):
		response.NotFound(c, 15003, "该讲者未分配到此场次")
	case errors.Is(err, service.ErrSessionDateOutOfRange):
		response.BadRequest(c, 15004, "场次日期不在活动日期范围内")
	default:
		response.InternalError(c)
	}
}
