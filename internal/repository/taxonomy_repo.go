package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
)

// TaxonomyRepository 场次标签与议题类型（均为名称列表）
type TaxonomyRepository interface {
	ListTags(ctx context.Context) ([]model.SessionTag, error)
	GetTag(ctx context.Context, id string) (*model.SessionTag, error)
	CreateTag(ctx context.Context, t *model.SessionTag) error
	RenameTag(ctx context.Context, id, name string) error
	DeleteTag(ctx context.Context, id string) error

	ListTypes(ctx context.Context) ([]model.SessionType, error)
	GetType(ctx context.Context, id string) (*model.SessionType, error)
	CreateType(ctx context.Context, t *model.SessionType) error
	RenameType(ctx context.Context, id, name string) error
	DeleteType(ctx context.Context, id string) error
}

type taxonomyRepo struct {
	db *gorm.DB
}

// NewTaxonomyRepo 创建 TaxonomyRepository 实例
func NewTaxonomyRepo(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepo{db: db}
}

// ── 标签 ──

func (r *taxonomyRepo) ListTags(ctx context.Context) ([]model.SessionTag, error) {
	var list []model.SessionTag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *taxonomyRepo) GetTag(ctx context.Context, id string) (*model.SessionTag, error) {
	var t model.SessionTag
	if err := r.db.WithContext(ctx).Where("tag_id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taxonomyRepo) CreateTag(ctx context.Context, t *model.SessionTag) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *taxonomyRepo) RenameTag(ctx context.Context, id, name string) error {
	return affectOne(r.db.WithContext(ctx).
		Model(&model.SessionTag{}).
		Where("tag_id = ?", id).
		Update("name", name))
}

func (r *taxonomyRepo) DeleteTag(ctx context.Context, id string) error {
	return affectOne(r.db.WithContext(ctx).
		Where("tag_id = ?", id).
		Delete(&model.SessionTag{}))
}

// ── 议题类型 ──

func (r *taxonomyRepo) ListTypes(ctx context.Context) ([]model.SessionType, error) {
	var list []model.SessionType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *taxonomyRepo) GetType(ctx context.Context, id string) (*model.SessionType, error) {
	var t model.SessionType
	if err := r.db.WithContext(ctx).Where("type_id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taxonomyRepo) CreateType(ctx context.Context, t *model.SessionType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *taxonomyRepo) RenameType(ctx context.Context, id, name string) error {
	return affectOne(r.db.WithContext(ctx).
		Model(&model.SessionType{}).
		Where("type_id = ?", id).
		Update("name", name))
}

func (r *taxonomyRepo) DeleteType(ctx context.Context, id string) error {
	return affectOne(r.db.WithContext(ctx).
		Where("type_id = ?", id).
		Delete(&model.SessionType{}))
}

// affectOne 写操作未命中任何行时返回 ErrRecordNotFound
func affectOne(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
