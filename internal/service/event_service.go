package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
	pkgerrors "github.com/QuadricIT2018/az-conference-app-mvp/pkg/errors"
)

// ── 活动模块业务错误 ──

var (
	ErrEventNotFound    = errors.New("活动不存在")
	ErrSlugExists       = errors.New("活动标识已被使用")
	ErrInvalidDateRange = errors.New("结束日期不能早于开始日期")
	ErrEventConflict    = errors.New("活动已被他人修改，请刷新后重试")
)

// EventService 活动业务接口
type EventService interface {
	List(ctx context.Context, req *dto.EventListRequest) ([]model.Event, int64, error)
	GetByID(ctx context.Context, id string) (*dto.EventDetailResponse, error)
	// Create 创建活动，并在同一事务中生成活动日
	Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*model.Event, error)
	// Update 部分更新；起止日期变化时重新生成活动日
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id string) error

	// ListDays 活动日，未持久化时按起止日期即时生成
	ListDays(ctx context.Context, id string) ([]eventday.Day, error)
	ListSessions(ctx context.Context, id, date string) ([]model.Session, error)

	// ── 信息块分区更新 ──
	UpdateWifi(ctx context.Context, id string, req *dto.UpdateWifiRequest) (*model.Event, error)
	UpdateHelpdesk(ctx context.Context, id string, req *dto.UpdateHelpdeskRequest) (*model.Event, error)
	UpdateVenueMaps(ctx context.Context, id string, req *dto.UpdateVenueMapsRequest) (*model.Event, error)
	UpdateBanners(ctx context.Context, id string, req *dto.UpdateBannersRequest) (*model.Event, error)
	UpdateQuickLinks(ctx context.Context, id string, req *dto.UpdateQuickLinksRequest) (*model.Event, error)
	UpdateLogo(ctx context.Context, id string, req *dto.UpdateLogoRequest) (*model.Event, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *eventService) List(ctx context.Context, req *dto.EventListRequest) ([]model.Event, int64, error) {
	list, total, err := s.repo.Event.List(ctx, repository.EventFilter{
		Status: req.Status,
		Page:   repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()},
	})
	if err != nil {
		s.logger.Error("列出活动失败", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventDetailResponse, error) {
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.Event.Counts(ctx, id)
	if err != nil {
		s.logger.Error("统计活动数据失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.EventDetailResponse{
		Event:        *event,
		SessionCount: counts.Sessions,
		UpdateCount:  counts.Updates,
		DayCount:     counts.Days,
	}, nil
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*model.Event, error) {
	start := eventday.NormalizeDate(req.EventStartDate)
	end := eventday.NormalizeDate(req.EventEndDate)
	if end < start {
		return nil, ErrInvalidDateRange
	}

	event := &model.Event{
		EventSlug:           optString(req.EventSlug),
		PWAName:             strings.TrimSpace(req.PWAName),
		PWALogoURL:          optString(req.PWALogoURL),
		EventName:           strings.TrimSpace(req.EventName),
		EventDescription:    req.EventDescription,
		Department:          normalizeScope(req.Department),
		EventLocation:       optString(req.EventLocation),
		EventLocationMapURL: optString(req.EventLocationMapURL),
		EventStartDate:      start,
		EventEndDate:        end,
		EventAppURL:         optString(req.EventAppURL),
		Wifi:                datatypes.NewJSONSlice(nonNil(req.Wifi)),
		Helpdesk:            datatypes.NewJSONSlice(nonNil(req.Helpdesk)),
		VenueMaps:           datatypes.NewJSONSlice(nonNil(req.VenueMaps)),
		QuickLinks:          datatypes.NewJSONSlice(nonNil(req.QuickLinks)),
		IsDraft:             true,
	}
	if req.EventBanners != nil {
		event.EventBanners = datatypes.NewJSONType(*req.EventBanners)
	}
	if req.IsDraft != nil {
		event.IsDraft = *req.IsDraft
	}
	if callerID != "" {
		event.CreatedBy = &callerID
	}

	days := eventday.Generate(start, end)
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Event.Create(ctx, event); err != nil {
			return err
		}
		return txRepo.Event.ReplaceDays(ctx, event.EventID, days)
	})
	if err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrSlugExists
		}
		s.logger.Error("创建活动失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("活动已创建",
		zap.String("id", event.EventID),
		zap.Int("days", len(days)),
	)
	return event, nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*model.Event, error) {
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Version != req.Version {
		return nil, ErrEventConflict
	}

	oldStart, oldEnd := event.EventStartDate, event.EventEndDate

	patchString(&event.EventSlug, req.EventSlug)
	if req.PWAName != nil {
		event.PWAName = strings.TrimSpace(*req.PWAName)
	}
	patchString(&event.PWALogoURL, req.PWALogoURL)
	if req.EventName != nil {
		event.EventName = strings.TrimSpace(*req.EventName)
	}
	if req.EventDescription != nil {
		event.EventDescription = req.EventDescription
	}
	if req.Department != nil {
		event.Department = normalizeScope(req.Department)
	}
	patchString(&event.EventLocation, req.EventLocation)
	patchString(&event.EventLocationMapURL, req.EventLocationMapURL)
	if req.EventStartDate != nil {
		event.EventStartDate = eventday.NormalizeDate(*req.EventStartDate)
	}
	if req.EventEndDate != nil {
		event.EventEndDate = eventday.NormalizeDate(*req.EventEndDate)
	}
	patchString(&event.EventAppURL, req.EventAppURL)
	if req.IsDraft != nil {
		event.IsDraft = *req.IsDraft
	}

	if event.EventEndDate < event.EventStartDate {
		return nil, ErrInvalidDateRange
	}
	datesChanged := event.EventStartDate != oldStart || event.EventEndDate != oldEnd

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Event.Update(ctx, event); err != nil {
			return err
		}
		if !datesChanged {
			return nil
		}
		return txRepo.Event.ReplaceDays(ctx, event.EventID, eventday.Generate(event.EventStartDate, event.EventEndDate))
	})
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			return nil, ErrEventConflict
		case pkgerrors.IsDuplicate(err):
			return nil, ErrSlugExists
		}
		s.logger.Error("更新活动失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if datesChanged {
		s.logger.Info("活动日期变更，已重新生成活动日",
			zap.String("id", id),
			zap.String("start", event.EventStartDate),
			zap.String("end", event.EventEndDate),
		)
	}
	return event, nil
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Event.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("删除活动失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("活动已删除", zap.String("id", id))
	return nil
}

// ────────────────────── Days / Sessions ──────────────────────

func (s *eventService) ListDays(ctx context.Context, id string) ([]eventday.Day, error) {
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return loadDays(ctx, s.repo, s.logger, event)
}

func (s *eventService) ListSessions(ctx context.Context, id, date string) ([]model.Session, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	if date != "" {
		date = eventday.NormalizeDate(date)
	}

	sessions, err := s.repo.Session.ListByEvent(ctx, id, date)
	if err != nil {
		s.logger.Error("列出活动场次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sessions, nil
}

// ────────────────────── 分区更新 ──────────────────────

func (s *eventService) UpdateWifi(ctx context.Context, id string, req *dto.UpdateWifiRequest) (*model.Event, error) {
	return s.updateSection(ctx, id, "wifi", datatypes.NewJSONSlice(nonNil(req.Wifi)))
}

func (s *eventService) UpdateHelpdesk(ctx context.Context, id string, req *dto.UpdateHelpdeskRequest) (*model.Event, error) {
	return s.updateSection(ctx, id, "helpdesk", datatypes.NewJSONSlice(nonNil(req.Helpdesk)))
}

func (s *eventService) UpdateVenueMaps(ctx context.Context, id string, req *dto.UpdateVenueMapsRequest) (*model.Event, error) {
	return s.updateSection(ctx, id, "venue_maps", datatypes.NewJSONSlice(nonNil(req.VenueMaps)))
}

func (s *eventService) UpdateBanners(ctx context.Context, id string, req *dto.UpdateBannersRequest) (*model.Event, error) {
	return s.updateSection(ctx, id, "event_banners", datatypes.NewJSONType(req.EventBanners))
}

func (s *eventService) UpdateQuickLinks(ctx context.Context, id string, req *dto.UpdateQuickLinksRequest) (*model.Event, error) {
	return s.updateSection(ctx, id, "quick_links", datatypes.NewJSONSlice(nonNil(req.QuickLinks)))
}

func (s *eventService) UpdateLogo(ctx context.Context, id string, req *dto.UpdateLogoRequest) (*model.Event, error) {
	return s.updateSection(ctx, id, "pwa_logo_url", optString(req.PWALogoURL))
}

func (s *eventService) updateSection(ctx context.Context, id, column string, value interface{}) (*model.Event, error) {
	err := s.repo.Event.UpdateColumns(ctx, id, map[string]interface{}{column: value})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("更新活动信息失败",
			zap.String("id", id),
			zap.String("section", column),
			zap.Error(err),
		)
		return nil, err
	}
	return s.get(ctx, id)
}

// ── 内部辅助方法 ──

func (s *eventService) get(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

// loadDays 优先返回持久化的活动日，为空时按起止日期生成（不落库）
func loadDays(ctx context.Context, repo *repository.Repository, logger *zap.Logger, event *model.Event) ([]eventday.Day, error) {
	stored, err := repo.Event.ListDays(ctx, event.EventID)
	if err != nil {
		logger.Error("查询活动日失败", zap.String("event_id", event.EventID), zap.Error(err))
		return nil, err
	}
	if len(stored) == 0 {
		return eventday.Generate(event.EventStartDate, event.EventEndDate), nil
	}

	days := make([]eventday.Day, 0, len(stored))
	for _, d := range stored {
		days = append(days, eventday.Day{Number: d.DayNumber, Date: d.DayDate})
	}
	return days, nil
}

// nonNil JSONB 数组列不存 null
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
