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
	pkgerrors "github.com/QuadricIT2018/az-conference-app-mvp/pkg/errors"
)

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound   = errors.New("部门不存在")
	ErrDepartmentNameExists = errors.New("部门名称已存在")
	ErrTeamNotFound         = errors.New("小组不存在")
	ErrTeamNameExists       = errors.New("该部门下已存在同名小组")
)

// DepartmentService 部门与小组业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error)
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error)
	// Delete 删除部门，其下小组级联删除
	Delete(ctx context.Context, id string) error

	ListTeams(ctx context.Context, req *dto.TeamListRequest) ([]dto.TeamResponse, error)
	GetTeam(ctx context.Context, id string) (*dto.TeamResponse, error)
	CreateTeam(ctx context.Context, req *dto.CreateTeamRequest) (*dto.TeamResponse, error)
	UpdateTeam(ctx context.Context, id string, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error)
	DeleteTeam(ctx context.Context, id string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	name := strings.TrimSpace(req.Name)

	// 检查名称唯一性
	existing, err := s.repo.Department.GetByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	dept := &model.Department{Name: name}
	seen := make(map[string]struct{}, len(req.Teams))
	for _, t := range req.Teams {
		t = strings.TrimSpace(t)
		if _, dup := seen[t]; dup || t == "" {
			continue
		}
		seen[t] = struct{}{}
		dept.Teams = append(dept.Teams, model.Team{Name: t})
	}

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("创建部门失败", zap.Error(err))
		return nil, err
	}

	return toDepartmentResponse(dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toDepartmentResponse(dept), nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *toDepartmentResponse(&depts[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 如果更新名称，检查唯一性
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != dept.Name {
			existing, err := s.repo.Department.GetByName(ctx, name)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if existing != nil {
				return nil, ErrDepartmentNameExists
			}
			dept.Name = name
		}
	}

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("更新部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toDepartmentResponse(dept), nil
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Department.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("删除部门失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("部门已删除", zap.String("id", id))
	return nil
}

// ────────────────────── 小组 ──────────────────────

func (s *departmentService) ListTeams(ctx context.Context, req *dto.TeamListRequest) ([]dto.TeamResponse, error) {
	teams, err := s.repo.Team.List(ctx, req.DepartmentID)
	if err != nil {
		s.logger.Error("列出小组失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		result = append(result, toTeamResponse(&teams[i]))
	}
	return result, nil
}

func (s *departmentService) GetTeam(ctx context.Context, id string) (*dto.TeamResponse, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTeamResponse(team)
	return &resp, nil
}

func (s *departmentService) CreateTeam(ctx context.Context, req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", req.DepartmentID), zap.Error(err))
		return nil, err
	}

	team := &model.Team{DepartmentID: dept.DepartmentID, Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Team.Create(ctx, team); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrTeamNameExists
		}
		s.logger.Error("创建小组失败", zap.Error(err))
		return nil, err
	}
	team.Department = dept

	resp := toTeamResponse(team)
	return &resp, nil
}

func (s *departmentService) UpdateTeam(ctx context.Context, id string, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DepartmentID != nil && *req.DepartmentID != team.DepartmentID {
		dept, err := s.repo.Department.GetByID(ctx, *req.DepartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		team.DepartmentID = dept.DepartmentID
		team.Department = dept
	}
	if req.Name != nil {
		team.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.repo.Team.Update(ctx, team); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrTeamNameExists
		}
		s.logger.Error("更新小组失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toTeamResponse(team)
	return &resp, nil
}

func (s *departmentService) DeleteTeam(ctx context.Context, id string) error {
	if err := s.repo.Team.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		s.logger.Error("删除小组失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *departmentService) getTeam(ctx context.Context, id string) (*model.Team, error) {
	team, err := s.repo.Team.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		s.logger.Error("查询小组失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return team, nil
}

func toDepartmentResponse(dept *model.Department) *dto.DepartmentResponse {
	teams := make([]dto.TeamResponse, 0, len(dept.Teams))
	for i := range dept.Teams {
		t := toTeamResponse(&dept.Teams[i])
		t.DepartmentName = dept.Name
		teams = append(teams, t)
	}
	return &dto.DepartmentResponse{
		ID:        dept.DepartmentID,
		Name:      dept.Name,
		Teams:     teams,
		CreatedAt: dto.FormatTime(dept.CreatedAt),
		UpdatedAt: dto.FormatTime(dept.UpdatedAt),
	}
}

func toTeamResponse(t *model.Team) dto.TeamResponse {
	resp := dto.TeamResponse{
		ID:           t.TeamID,
		DepartmentID: t.DepartmentID,
		Name:         t.Name,
	}
	if t.Department != nil {
		resp.DepartmentName = t.Department.Name
	}
	return resp
}
