package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/service"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/response"
)

// AppHandler 参会端（PWA）HTTP 处理器
//
// 公开接口只读已发布活动；需登录的接口按参会者当前的部门 / 小组过滤场次。
type AppHandler struct {
	appSvc      service.AppService
	calendarSvc service.CalendarService
}

// NewAppHandler 创建 AppHandler
func NewAppHandler(appSvc service.AppService, calendarSvc service.CalendarService) *AppHandler {
	return &AppHandler{appSvc: appSvc, calendarSvc: calendarSvc}
}

// ────────────────────── 公开接口 ──────────────────────

// ListEvents GET /api/v1/app/events
func (h *AppHandler) ListEvents(c *gin.Context) {
	list, err := h.appSvc.ListEvents(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetEvent GET /api/v1/app/events/:slug
func (h *AppHandler) GetEvent(c *gin.Context) {
	event, err := h.appSvc.GetEvent(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, event)
}

// ListDays GET /api/v1/app/events/:slug/days
func (h *AppHandler) ListDays(c *gin.Context) {
	days, err := h.appSvc.ListDays(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, gin.H{"list": days})
}

// GetWifi GET /api/v1/app/events/:slug/wifi
func (h *AppHandler) GetWifi(c *gin.Context) {
	wifi, err := h.appSvc.GetWifi(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, gin.H{"list": wifi})
}

// GetHelpdesk GET /api/v1/app/events/:slug/helpdesk
func (h *AppHandler) GetHelpdesk(c *gin.Context) {
	desk, err := h.appSvc.GetHelpdesk(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, gin.H{"list": desk})
}

// ListSpeakers GET /api/v1/app/events/:slug/speakers
func (h *AppHandler) ListSpeakers(c *gin.Context) {
	list, err := h.appSvc.ListSpeakers(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListUpdates GET /api/v1/app/events/:slug/updates
func (h *AppHandler) ListUpdates(c *gin.Context) {
	list, err := h.appSvc.ListUpdates(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetSpeaker GET /api/v1/app/speakers/:id
func (h *AppHandler) GetSpeaker(c *gin.Context) {
	sp, err := h.appSvc.GetSpeaker(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, sp)
}

// ListDepartments 注册 / 资料页的部门下拉
// GET /api/v1/app/departments
func (h *AppHandler) ListDepartments(c *gin.Context) {
	list, err := h.appSvc.ListDepartments(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ────────────────────── 需登录 ──────────────────────

// ListSessions 当前参会者可见的场次
// GET /api/v1/app/events/:slug/sessions?date=&favourites=
func (h *AppHandler) ListSessions(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AppSessionsRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.appSvc.ListSessions(c.Request.Context(), userID, c.Param("slug"), &req)
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListDates 有可见场次的日期
// GET /api/v1/app/events/:slug/dates
func (h *AppHandler) ListDates(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dates, err := h.appSvc.ListDates(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, gin.H{"list": dates})
}

// GetSession GET /api/v1/app/sessions/:id
func (h *AppHandler) GetSession(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	s, err := h.appSvc.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, s)
}

// ListFavourites GET /api/v1/app/favourites
func (h *AppHandler) ListFavourites(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.appSvc.ListFavourites(c.Request.Context(), userID)
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// AddFavourite POST /api/v1/app/favourites/:sessionId
func (h *AppHandler) AddFavourite(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.appSvc.AddFavourite(c.Request.Context(), userID, c.Param("sessionId"))
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.Created(c, result)
}

// RemoveFavourite DELETE /api/v1/app/favourites/:sessionId
func (h *AppHandler) RemoveFavourite(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("sessionId")
	if err := h.appSvc.RemoveFavourite(c.Request.Context(), userID, sessionID); err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, dto.FavouriteResponse{SessionID: sessionID, IsFavourite: false})
}

// FavouritesCalendar 收藏场次导出为 .ics
// GET /api/v1/app/favourites/calendar.ics
func (h *AppHandler) FavouritesCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	body, err := h.calendarSvc.FavouritesICS(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Attachment(c, "my-sessions.ics", "text/calendar; charset=utf-8", body)
}

// MyTeam 同组成员
// GET /api/v1/app/team
func (h *AppHandler) MyTeam(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.appSvc.MyTeam(c.Request.Context(), userID)
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetProfile GET /api/v1/app/profile
func (h *AppHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	p, err := h.appSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, p)
}

// UpdateProfile 修改自己的部门 / 小组，立即影响可见场次
// PUT /api/v1/app/profile
func (h *AppHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.appSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handleAppError(c, err)
		return
	}
	response.OK(c, p)
}

func handleAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 14001, "活动不存在")
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionNotVisible):
		// 不可见与不存在对参会者返回同一结果
		response.NotFound(c, 15001, "场次不存在")
	case errors.Is(err, service.ErrSpeakerNotFound):
		response.NotFound(c, 16001, "讲者不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.Unauthorized(c, 11002, "用户不存在")
	default:
		response.InternalError(c)
	}
}
