package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
)

// SpeakerRepository 讲者数据访问接口
type SpeakerRepository interface {
	Create(ctx context.Context, s *model.Speaker) error
	GetByID(ctx context.Context, id string) (*model.Speaker, error)
	// List search 非空时按姓名 / 职务模糊匹配
	List(ctx context.Context, search string) ([]model.Speaker, error)
	// ListByEvent 在该活动任一场次出现过的讲者（去重）
	ListByEvent(ctx context.Context, eventID string) ([]model.Speaker, error)
	// CountExisting 统计给定 ID 中实际存在的讲者数量
	CountExisting(ctx context.Context, ids []string) (int64, error)
	Update(ctx context.Context, s *model.Speaker) error
	Delete(ctx context.Context, id string) error
}

type speakerRepo struct {
	db *gorm.DB
}

// NewSpeakerRepo 创建 SpeakerRepository 实例
func NewSpeakerRepo(db *gorm.DB) SpeakerRepository {
	return &speakerRepo{db: db}
}

func (r *speakerRepo) Create(ctx context.Context, s *model.Speaker) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *speakerRepo) GetByID(ctx context.Context, id string) (*model.Speaker, error) {
	var s model.Speaker
	err := r.db.WithContext(ctx).
		Where("speaker_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *speakerRepo) List(ctx context.Context, search string) ([]model.Speaker, error) {
	var list []model.Speaker
	db := r.db.WithContext(ctx)
	if search != "" {
		like := "%" + search + "%"
		db = db.Where("speaker_name ILIKE ? OR speaker_designation ILIKE ?", like, like)
	}
	err := db.Order("speaker_name ASC").Find(&list).Error
	return list, err
}

func (r *speakerRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Speaker, error) {
	var list []model.Speaker
	err := r.db.WithContext(ctx).
		Where("speaker_id IN (?)",
			r.db.Table("session_speakers ss").
				Select("ss.speaker_id").
				Joins("JOIN sessions s ON s.session_id = ss.session_id").
				Where("s.event_id = ?", eventID),
		).
		Order("speaker_name ASC").
		Find(&list).Error
	return list, err
}

func (r *speakerRepo) CountExisting(ctx context.Context, ids []string) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.Speaker{}).
		Where("speaker_id IN ?", ids).
		Count(&n).Error
	return n, err
}

func (r *speakerRepo) Update(ctx context.Context, s *model.Speaker) error {
	result := r.db.WithContext(ctx).
		Model(&model.Speaker{}).
		Where("speaker_id = ?", s.SpeakerID).
		Updates(map[string]interface{}{
			"speaker_name":        s.SpeakerName,
			"speaker_designation": s.SpeakerDesignation,
			"speaker_about":       s.SpeakerAbout,
			"speaker_image_url":   s.SpeakerImageURL,
			"speaker_occupation":  s.SpeakerOccupation,
			"department":          s.Department,
			"teams":               s.Teams,
			"updated_at":          gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *speakerRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("speaker_id = ?", id).
		Delete(&model.Speaker{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
