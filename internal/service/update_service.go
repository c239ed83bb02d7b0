package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
)

var (
	ErrUpdateNotFound    = errors.New("通知不存在")
	ErrInvalidUpdateTime = errors.New("发布时间格式错误，应为 RFC3339")
)

// UpdateService 重要通知业务接口
type UpdateService interface {
	ListByEvent(ctx context.Context, eventID string) ([]model.ImportantUpdate, error)
	GetByID(ctx context.Context, id string) (*model.ImportantUpdate, error)
	Create(ctx context.Context, eventID string, req *dto.CreateUpdateRequest) (*model.ImportantUpdate, error)
	Update(ctx context.Context, id string, req *dto.EditUpdateRequest) (*model.ImportantUpdate, error)
	Delete(ctx context.Context, id string) error
}

type updateService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUpdateService 创建 UpdateService 实例
func NewUpdateService(repo *repository.Repository, logger *zap.Logger) UpdateService {
	return &updateService{repo: repo, logger: logger}
}

func (s *updateService) ListByEvent(ctx context.Context, eventID string) ([]model.ImportantUpdate, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	list, err := s.repo.Update.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("列出通知失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *updateService) GetByID(ctx context.Context, id string) (*model.ImportantUpdate, error) {
	u, err := s.repo.Update.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUpdateNotFound
		}
		s.logger.Error("查询通知失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (s *updateService) Create(ctx context.Context, eventID string, req *dto.CreateUpdateRequest) (*model.ImportantUpdate, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	at, err := parseUpdateTime(req.UpdateDateTime)
	if err != nil {
		return nil, err
	}

	u := &model.ImportantUpdate{
		EventID:        &eventID,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Links:          cleanLinks(req.Links),
		UpdateDateTime: at,
	}
	if err := s.repo.Update.Create(ctx, u); err != nil {
		s.logger.Error("发布通知失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (s *updateService) Update(ctx context.Context, id string, req *dto.EditUpdateRequest) (*model.ImportantUpdate, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		u.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		u.Description = req.Description
	}
	if req.Links != nil {
		u.Links = cleanLinks(*req.Links)
	}
	if req.UpdateDateTime != nil {
		at, err := parseUpdateTime(*req.UpdateDateTime)
		if err != nil {
			return nil, err
		}
		u.UpdateDateTime = at
	}

	if err := s.repo.Update.Update(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUpdateNotFound
		}
		s.logger.Error("更新通知失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (s *updateService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Update.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUpdateNotFound
		}
		s.logger.Error("删除通知失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func parseUpdateTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidUpdateTime
	}
	return t, nil
}

// cleanLinks 去掉空白链接，始终返回非 nil 切片
func cleanLinks(in []string) model.StringArray {
	out := make(model.StringArray, 0, len(in))
	for _, l := range in {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
