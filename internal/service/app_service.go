package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/visibility"
)

// ErrSessionNotVisible 场次存在但对当前参会者不可见，对外与不存在同样处理
var ErrSessionNotVisible = errors.New("场次不存在")

// AppService 参会端业务接口
//
// 活动按 slug 定位且只暴露已发布活动。
// 可见性判定所用的部门 / 小组每次从数据库重新读取，Token 中的快照可能已过期。
type AppService interface {
	// ── 公开接口 ──
	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, slug string) (*model.Event, error)
	ListDays(ctx context.Context, slug string) ([]eventday.Day, error)
	GetWifi(ctx context.Context, slug string) ([]model.WifiInfo, error)
	GetHelpdesk(ctx context.Context, slug string) ([]model.HelpdeskInfo, error)
	ListSpeakers(ctx context.Context, slug string) ([]model.Speaker, error)
	GetSpeaker(ctx context.Context, id string) (*dto.AppSpeakerResponse, error)
	ListUpdates(ctx context.Context, slug string) ([]model.ImportantUpdate, error)
	ListDepartments(ctx context.Context) ([]dto.AppDepartmentResponse, error)

	// ── 需登录 ──
	ListSessions(ctx context.Context, userID, slug string, req *dto.AppSessionsRequest) ([]repository.VisibleSession, error)
	ListDates(ctx context.Context, userID, slug string) ([]string, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.AppSessionDetailResponse, error)
	ListFavourites(ctx context.Context, userID string) ([]repository.FavouriteSession, error)
	// AddFavourite 收藏可见场次，重复收藏不报错
	AddFavourite(ctx context.Context, userID, sessionID string) (*dto.FavouriteResponse, error)
	// RemoveFavourite 取消收藏，未收藏时不报错
	RemoveFavourite(ctx context.Context, userID, sessionID string) error
	MyTeam(ctx context.Context, userID string) ([]dto.TeamMemberResponse, error)
	GetProfile(ctx context.Context, userID string) (*dto.AttendeeResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.AttendeeResponse, error)
}

type appService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAppService 创建 AppService 实例
func NewAppService(repo *repository.Repository, logger *zap.Logger) AppService {
	return &appService{repo: repo, logger: logger}
}

// ────────────────────── 活动信息 ──────────────────────

func (s *appService) ListEvents(ctx context.Context) ([]model.Event, error) {
	list, _, err := s.repo.Event.List(ctx, repository.EventFilter{Status: repository.EventStatusPublished})
	if err != nil {
		s.logger.Error("列出已发布活动失败", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *appService) GetEvent(ctx context.Context, slug string) (*model.Event, error) {
	event, err := s.repo.Event.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("按 slug 查询活动失败", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return event, nil
}

func (s *appService) ListDays(ctx context.Context, slug string) ([]eventday.Day, error) {
	event, err := s.GetEvent(ctx, slug)
	if err != nil {
		return nil, err
	}
	return loadDays(ctx, s.repo, s.logger, event)
}

func (s *appService) GetWifi(ctx context.Context, slug string) ([]model.WifiInfo, error) {
	event, err := s.GetEvent(ctx, slug)
	if err != nil {
		return nil, err
	}
	return nonNil([]model.WifiInfo(event.Wifi)), nil
}

func (s *appService) GetHelpdesk(ctx context.Context, slug string) ([]model.HelpdeskInfo, error) {
	event, err := s.GetEvent(ctx, slug)
	if err != nil {
		return nil, err
	}
	return nonNil([]model.HelpdeskInfo(event.Helpdesk)), nil
}

func (s *appService) ListSpeakers(ctx context.Context, slug string) ([]model.Speaker, error) {
	event, err := s.GetEvent(ctx, slug)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.Speaker.ListByEvent(ctx, event.EventID)
	if err != nil {
		s.logger.Error("列出活动讲者失败", zap.String("event_id", event.EventID), zap.Error(err))
		return nil, err
	}
	return list, nil
}

// GetSpeaker 公开接口，仅附带对匿名访客可见（通用）的场次
func (s *appService) GetSpeaker(ctx context.Context, id string) (*dto.AppSpeakerResponse, error) {
	sp, err := s.repo.Speaker.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpeakerNotFound
		}
		s.logger.Error("查询讲者失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	sessions, err := s.repo.Session.ListBySpeaker(ctx, id)
	if err != nil {
		s.logger.Error("查询讲者场次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	anonymous := visibility.NewViewer(nil, nil)
	public := make([]model.Session, 0, len(sessions))
	for i := range sessions {
		if anonymous.CanSee(sessions[i].Descriptor()) {
			public = append(public, sessions[i])
		}
	}
	return &dto.AppSpeakerResponse{Speaker: *sp, Sessions: public}, nil
}

func (s *appService) ListUpdates(ctx context.Context, slug string) ([]model.ImportantUpdate, error) {
	event, err := s.GetEvent(ctx, slug)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.Update.ListByEvent(ctx, event.EventID)
	if err != nil {
		s.logger.Error("列出活动通知失败", zap.String("event_id", event.EventID), zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *appService) ListDepartments(ctx context.Context) ([]dto.AppDepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AppDepartmentResponse, 0, len(depts))
	for _, d := range depts {
		result = append(result, dto.AppDepartmentResponse{ID: d.DepartmentID, Name: d.Name})
	}
	return result, nil
}

// ────────────────────── 可见场次 ──────────────────────

func (s *appService) ListSessions(ctx context.Context, userID, slug string, req *dto.AppSessionsRequest) ([]repository.VisibleSession, error) {
	event, err := s.GetEvent(ctx, slug)
	if err != nil {
		return nil, err
	}
	viewer, err := s.viewer(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := repository.SessionQuery{
		EventID:        event.EventID,
		UserID:         userID,
		Viewer:         viewer,
		FavouritesOnly: req.Favourites,
	}
	if req.Date != "" {
		q.Date = eventday.NormalizeDate(req.Date)
	}

	rows, err := s.repo.Session.ListVisible(ctx, q)
	if err != nil {
		s.logger.Error("查询可见场次失败",
			zap.String("event_id", event.EventID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	if rows == nil {
		rows = []repository.VisibleSession{}
	}
	return rows, nil
}

func (s *appService) ListDates(ctx context.Context, userID, slug string) ([]string, error) {
	event, err := s.GetEvent(ctx, slug)
	if err != nil {
		return nil, err
	}
	viewer, err := s.viewer(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Session.ListDatedDescriptors(ctx, event.EventID)
	if err != nil {
		s.logger.Error("查询场次日期失败", zap.String("event_id", event.EventID), zap.Error(err))
		return nil, err
	}
	return visibility.VisibleDates(viewer, items), nil
}

func (s *appService) GetSession(ctx context.Context, userID, sessionID string) (*dto.AppSessionDetailResponse, error) {
	session, err := s.visibleSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	fav, err := s.repo.Favourite.Exists(ctx, userID, sessionID)
	if err != nil {
		s.logger.Error("查询收藏状态失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return &dto.AppSessionDetailResponse{Session: *session, IsFavourite: fav}, nil
}

// ────────────────────── 收藏 ──────────────────────

func (s *appService) ListFavourites(ctx context.Context, userID string) ([]repository.FavouriteSession, error) {
	list, err := s.repo.Favourite.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询收藏列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []repository.FavouriteSession{}
	}
	return list, nil
}

func (s *appService) AddFavourite(ctx context.Context, userID, sessionID string) (*dto.FavouriteResponse, error) {
	session, err := s.visibleSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Favourite.Add(ctx, userID, session.SessionID, *session.EventID); err != nil {
		s.logger.Error("添加收藏失败",
			zap.String("user_id", userID),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, err
	}
	return &dto.FavouriteResponse{SessionID: session.SessionID, IsFavourite: true}, nil
}

func (s *appService) RemoveFavourite(ctx context.Context, userID, sessionID string) error {
	if err := s.repo.Favourite.Remove(ctx, userID, sessionID); err != nil {
		s.logger.Error("取消收藏失败",
			zap.String("user_id", userID),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ────────────────────── 小组 / 个人资料 ──────────────────────

func (s *appService) MyTeam(ctx context.Context, userID string) ([]dto.TeamMemberResponse, error) {
	me, err := s.attendee(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.TeamMemberResponse, 0)
	team := optString(me.Team)
	if team == nil {
		return result, nil
	}

	members, err := s.repo.Attendee.ListByTeam(ctx, *team, me.AttendeeID)
	if err != nil {
		s.logger.Error("查询小组成员失败", zap.String("team", *team), zap.Error(err))
		return nil, err
	}
	for _, m := range members {
		result = append(result, dto.TeamMemberResponse{
			ID:         m.AttendeeID,
			Email:      m.Email,
			Department: m.Department,
			Team:       m.Team,
		})
	}
	return result, nil
}

func (s *appService) GetProfile(ctx context.Context, userID string) (*dto.AttendeeResponse, error) {
	me, err := s.attendee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toAttendeeResponse(me), nil
}

func (s *appService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.AttendeeResponse, error) {
	me, err := s.attendee(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Department != nil {
		me.Department = normalizeScope(req.Department)
	}
	patchString(&me.Team, req.Team)

	if err := s.repo.Attendee.Update(ctx, me); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("更新个人资料失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("参会者更新了个人资料",
		zap.String("id", userID),
		zap.Stringp("department", me.Department),
		zap.Stringp("team", me.Team),
	)
	return toAttendeeResponse(me), nil
}

// ── 内部辅助方法 ──

func (s *appService) attendee(ctx context.Context, userID string) (*model.Attendee, error) {
	a, err := s.repo.Attendee.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询参会者失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}
	return a, nil
}

// viewer 以数据库中的最新部门 / 小组构造可见性主体
func (s *appService) viewer(ctx context.Context, userID string) (visibility.Viewer, error) {
	a, err := s.attendee(ctx, userID)
	if err != nil {
		return visibility.Viewer{}, err
	}
	return visibility.NewViewer(a.Department, a.Team), nil
}

// visibleSession 单个场次的可见性判定：不存在、属于草稿活动或不可见均视为不存在
func (s *appService) visibleSession(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询场次失败", zap.String("id", sessionID), zap.Error(err))
		return nil, err
	}
	if session.EventID == nil || session.Event == nil || session.Event.IsDraft {
		return nil, ErrSessionNotFound
	}

	viewer, err := s.viewer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSee(session.Descriptor()) {
		return nil, ErrSessionNotVisible
	}
	return session, nil
}
