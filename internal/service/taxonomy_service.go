package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
	pkgerrors "github.com/QuadricIT2018/az-conference-app-mvp/pkg/errors"
)

var (
	ErrTagNotFound  = errors.New("场次标签不存在")
	ErrTagExists    = errors.New("场次标签已存在")
	ErrTypeNotFound = errors.New("议题类型不存在")
	ErrTypeExists   = errors.New("议题类型已存在")
)

// TaxonomyService 场次标签与议题类型业务接口
type TaxonomyService interface {
	ListTags(ctx context.Context) ([]model.SessionTag, error)
	GetTag(ctx context.Context, id string) (*model.SessionTag, error)
	CreateTag(ctx context.Context, name string) (*model.SessionTag, error)
	RenameTag(ctx context.Context, id, name string) (*model.SessionTag, error)
	DeleteTag(ctx context.Context, id string) error

	ListTypes(ctx context.Context) ([]model.SessionType, error)
	GetType(ctx context.Context, id string) (*model.SessionType, error)
	CreateType(ctx context.Context, name string) (*model.SessionType, error)
	RenameType(ctx context.Context, id, name string) (*model.SessionType, error)
	DeleteType(ctx context.Context, id string) error
}

type taxonomyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaxonomyService 创建 TaxonomyService 实例
func NewTaxonomyService(repo *repository.Repository, logger *zap.Logger) TaxonomyService {
	return &taxonomyService{repo: repo, logger: logger}
}

// ────────────────────── 标签 ──────────────────────

func (s *taxonomyService) ListTags(ctx context.Context) ([]model.SessionTag, error) {
	list, err := s.repo.Taxonomy.ListTags(ctx)
	if err != nil {
		s.logger.Error("列出场次标签失败", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *taxonomyService) GetTag(ctx context.Context, id string) (*model.SessionTag, error) {
	t, err := s.repo.Taxonomy.GetTag(ctx, id)
	return t, s.translate(err, ErrTagNotFound, ErrTagExists, "查询场次标签失败", id)
}

func (s *taxonomyService) CreateTag(ctx context.Context, name string) (*model.SessionTag, error) {
	t := &model.SessionTag{Name: strings.TrimSpace(name)}
	if err := s.repo.Taxonomy.CreateTag(ctx, t); err != nil {
		return nil, s.translate(err, ErrTagNotFound, ErrTagExists, "创建场次标签失败", "")
	}
	return t, nil
}

func (s *taxonomyService) RenameTag(ctx context.Context, id, name string) (*model.SessionTag, error) {
	name = strings.TrimSpace(name)
	if err := s.repo.Taxonomy.RenameTag(ctx, id, name); err != nil {
		return nil, s.translate(err, ErrTagNotFound, ErrTagExists, "重命名场次标签失败", id)
	}
	return &model.SessionTag{TagID: id, Name: name}, nil
}

func (s *taxonomyService) DeleteTag(ctx context.Context, id string) error {
	return s.translate(s.repo.Taxonomy.DeleteTag(ctx, id), ErrTagNotFound, ErrTagExists, "删除场次标签失败", id)
}

// ────────────────────── 议题类型 ──────────────────────

func (s *taxonomyService) ListTypes(ctx context.Context) ([]model.SessionType, error) {
	list, err := s.repo.Taxonomy.ListTypes(ctx)
	if err != nil {
		s.logger.Error("列出议题类型失败", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *taxonomyService) GetType(ctx context.Context, id string) (*model.SessionType, error) {
	t, err := s.repo.Taxonomy.GetType(ctx, id)
	return t, s.translate(err, ErrTypeNotFound, ErrTypeExists, "查询议题类型失败", id)
}

func (s *taxonomyService) CreateType(ctx context.Context, name string) (*model.SessionType, error) {
	t := &model.SessionType{Name: strings.TrimSpace(name)}
	if err := s.repo.Taxonomy.CreateType(ctx, t); err != nil {
		return nil, s.translate(err, ErrTypeNotFound, ErrTypeExists, "创建议题类型失败", "")
	}
	return t, nil
}

func (s *taxonomyService) RenameType(ctx context.Context, id, name string) (*model.SessionType, error) {
	name = strings.TrimSpace(name)
	if err := s.repo.Taxonomy.RenameType(ctx, id, name); err != nil {
		return nil, s.translate(err, ErrTypeNotFound, ErrTypeExists, "重命名议题类型失败", id)
	}
	return &model.SessionType{TypeID: id, Name: name}, nil
}

func (s *taxonomyService) DeleteType(ctx context.Context, id string) error {
	return s.translate(s.repo.Taxonomy.DeleteType(ctx, id), ErrTypeNotFound, ErrTypeExists, "删除议题类型失败", id)
}

// translate 存储层错误转为业务错误；nil 原样返回
func (s *taxonomyService) translate(err, notFound, exists error, msg, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case pkgerrors.IsDuplicate(err):
		return exists
	}
	s.logger.Error(msg, zap.String("id", id), zap.Error(err))
	return err
}
