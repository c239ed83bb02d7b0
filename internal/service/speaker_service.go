package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
)

var ErrSpeakerNotFound = errors.New("讲者不存在")

// SpeakerService 讲者业务接口
type SpeakerService interface {
	List(ctx context.Context, req *dto.SpeakerListRequest) ([]model.Speaker, error)
	GetByID(ctx context.Context, id string) (*model.Speaker, error)
	Create(ctx context.Context, req *dto.CreateSpeakerRequest) (*model.Speaker, error)
	Update(ctx context.Context, id string, req *dto.UpdateSpeakerRequest) (*model.Speaker, error)
	Delete(ctx context.Context, id string) error
}

type speakerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSpeakerService 创建 SpeakerService 实例
func NewSpeakerService(repo *repository.Repository, logger *zap.Logger) SpeakerService {
	return &speakerService{repo: repo, logger: logger}
}

func (s *speakerService) List(ctx context.Context, req *dto.SpeakerListRequest) ([]model.Speaker, error) {
	list, err := s.repo.Speaker.List(ctx, strings.TrimSpace(req.Search))
	if err != nil {
		s.logger.Error("列出讲者失败", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *speakerService) GetByID(ctx context.Context, id string) (*model.Speaker, error) {
	sp, err := s.repo.Speaker.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpeakerNotFound
		}
		s.logger.Error("查询讲者失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sp, nil
}

func (s *speakerService) Create(ctx context.Context, req *dto.CreateSpeakerRequest) (*model.Speaker, error) {
	sp := &model.Speaker{
		SpeakerName:        strings.TrimSpace(req.SpeakerName),
		SpeakerDesignation: optString(req.SpeakerDesignation),
		SpeakerAbout:       req.SpeakerAbout,
		SpeakerImageURL:    optString(req.SpeakerImageURL),
		SpeakerOccupation:  optString(req.SpeakerOccupation),
		Department:         optString(req.Department),
		Teams:              optString(req.Teams),
	}
	if err := s.repo.Speaker.Create(ctx, sp); err != nil {
		s.logger.Error("创建讲者失败", zap.Error(err))
		return nil, err
	}
	return sp, nil
}

func (s *speakerService) Update(ctx context.Context, id string, req *dto.UpdateSpeakerRequest) (*model.Speaker, error) {
	sp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SpeakerName != nil {
		sp.SpeakerName = strings.TrimSpace(*req.SpeakerName)
	}
	patchString(&sp.SpeakerDesignation, req.SpeakerDesignation)
	if req.SpeakerAbout != nil {
		sp.SpeakerAbout = req.SpeakerAbout
	}
	patchString(&sp.SpeakerImageURL, req.SpeakerImageURL)
	patchString(&sp.SpeakerOccupation, req.SpeakerOccupation)
	patchString(&sp.Department, req.Department)
	patchString(&sp.Teams, req.Teams)

	if err := s.repo.Speaker.Update(ctx, sp); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpeakerNotFound
		}
		s.logger.Error("更新讲者失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sp, nil
}

// Delete 删除讲者，场次关联随外键级联删除
func (s *speakerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Speaker.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSpeakerNotFound
		}
		s.logger.Error("删除讲者失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
