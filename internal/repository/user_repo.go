package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
)

// AttendeeFilter 参会者列表筛选条件
type AttendeeFilter struct {
	Search     string // 邮箱 / 部门 / 小组模糊匹配
	Department string // 部门范围文本包含该部门
	Page
}

// DepartmentCount 按部门范围原文分组计数
type DepartmentCount struct {
	Department *string `json:"department"`
	Count      int64   `json:"count"`
}

// AttendeeStats 参会者统计
type AttendeeStats struct {
	Total        int64             `json:"total"`
	ActiveRecent int64             `json:"active_recent"`
	ByDepartment []DepartmentCount `json:"by_department"`
}

// AttendeeRepository 参会者数据访问接口
type AttendeeRepository interface {
	Create(ctx context.Context, a *model.Attendee) error
	GetByID(ctx context.Context, id string) (*model.Attendee, error)
	GetByEmail(ctx context.Context, email string) (*model.Attendee, error)
	List(ctx context.Context, f AttendeeFilter) ([]model.Attendee, int64, error)
	// ListByTeam 同小组的其他成员
	ListByTeam(ctx context.Context, team, excludeID string) ([]model.Attendee, error)
	Update(ctx context.Context, a *model.Attendee) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, activeSince time.Time) (*AttendeeStats, error)
}

// attendeeRepo AttendeeRepository 的 GORM 实现
type attendeeRepo struct {
	db *gorm.DB
}

// NewAttendeeRepo 创建 AttendeeRepository 实例
func NewAttendeeRepo(db *gorm.DB) AttendeeRepository {
	return &attendeeRepo{db: db}
}

func (r *attendeeRepo) Create(ctx context.Context, a *model.Attendee) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attendeeRepo) GetByID(ctx context.Context, id string) (*model.Attendee, error) {
	var a model.Attendee
	err := r.db.WithContext(ctx).
		Where("attendee_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendeeRepo) GetByEmail(ctx context.Context, email string) (*model.Attendee, error) {
	var a model.Attendee
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendeeRepo) List(ctx context.Context, f AttendeeFilter) ([]model.Attendee, int64, error) {
	var list []model.Attendee
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Attendee{})
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("email ILIKE ? OR department ILIKE ? OR team ILIKE ?", like, like, like)
	}
	if f.Department != "" {
		// 部门范围以逗号分隔存储，按整项匹配
		db = db.Where("? = ANY(string_to_array(replace(department, ' ', ''), ','))", f.Department)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(f.Offset).Limit(f.Limit).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *attendeeRepo) ListByTeam(ctx context.Context, team, excludeID string) ([]model.Attendee, error) {
	var list []model.Attendee
	err := r.db.WithContext(ctx).
		Where("team = ? AND attendee_id <> ?", team, excludeID).
		Order("email ASC").
		Find(&list).Error
	return list, err
}

func (r *attendeeRepo) Update(ctx context.Context, a *model.Attendee) error {
	result := r.db.WithContext(ctx).
		Model(&model.Attendee{}).
		Where("attendee_id = ?", a.AttendeeID).
		Updates(map[string]interface{}{
			"email":      a.Email,
			"department": a.Department,
			"team":       a.Team,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *attendeeRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.Attendee{}).
		Where("attendee_id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
}

func (r *attendeeRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Attendee{}).
		Where("attendee_id = ?", id).
		Update("last_login", at).Error
}

func (r *attendeeRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("attendee_id = ?", id).
		Delete(&model.Attendee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *attendeeRepo) Stats(ctx context.Context, activeSince time.Time) (*AttendeeStats, error) {
	stats := &AttendeeStats{ByDepartment: []DepartmentCount{}}
	db := r.db.WithContext(ctx).Model(&model.Attendee{})

	if err := db.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Attendee{}).
		Where("last_login >= ?", activeSince).
		Count(&stats.ActiveRecent).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Attendee{}).
		Select("department, COUNT(*) AS count").
		Group("department").
		Order("count DESC").
		Scan(&stats.ByDepartment).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ── 管理员 ──

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	Create(ctx context.Context, a *model.Admin) error
	GetByID(ctx context.Context, id string) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	Update(ctx context.Context, a *model.Admin) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepo 创建 AdminRepository 实例
func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) Create(ctx context.Context, a *model.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adminRepo) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).
		Where("admin_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepo) List(ctx context.Context) ([]model.Admin, error) {
	var list []model.Admin
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *adminRepo) Update(ctx context.Context, a *model.Admin) error {
	result := r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("admin_id = ?", a.AdminID).
		Updates(map[string]interface{}{
			"email":      a.Email,
			"department": a.Department,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *adminRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("admin_id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
}

func (r *adminRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("admin_id = ?", id).
		Delete(&model.Admin{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
