package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/visibility"
	pkgerrors "github.com/QuadricIT2018/az-conference-app-mvp/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrEmailExists       = errors.New("邮箱已被使用")
	ErrAttendeeNotFound  = errors.New("参会者不存在")
	ErrAdminNotFound     = errors.New("管理员不存在")
	ErrAdminSelfDelete   = errors.New("不能删除自己")
	ErrImportNoData      = errors.New("Excel文件中没有数据行")
	ErrImportTooManyRows = errors.New("单次导入不能超过500行")
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（邮箱）")
	ErrImportBadFile     = errors.New("无法解析Excel文件")
)

const (
	maxImportRows = 500
	// activeWindow 统计“近期活跃”所用的时间窗口
	activeWindow = 7 * 24 * time.Hour
)

// normalizeScope 规范化部门范围文本：去空白、去重、ALL 统一大写，空值存 NULL
func normalizeScope(raw *string) *string {
	return visibility.ParseScope(raw).Stored()
}

// ══════════════════ 参会者 ══════════════════

// AttendeeService 参会者管理业务接口
type AttendeeService interface {
	List(ctx context.Context, req *dto.AttendeeListRequest) ([]dto.AttendeeResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.AttendeeResponse, error)
	Create(ctx context.Context, req *dto.CreateAttendeeRequest) (*dto.AttendeeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAttendeeRequest) (*dto.AttendeeResponse, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*dto.AttendeeStatsResponse, error)
	ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportAttendeeRow, error)
	Import(ctx context.Context, rows []ImportAttendeeRow) (*dto.ImportAttendeeResponse, error)
}

// ImportAttendeeRow Excel 导入解析后的单行数据
type ImportAttendeeRow struct {
	Row        int
	Email      string
	Password   string
	Department string
	Team       string
}

type attendeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendeeService 创建 AttendeeService 实例
func NewAttendeeService(repo *repository.Repository, logger *zap.Logger) AttendeeService {
	return &attendeeService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *attendeeService) List(ctx context.Context, req *dto.AttendeeListRequest) ([]dto.AttendeeResponse, int64, error) {
	list, total, err := s.repo.Attendee.List(ctx, repository.AttendeeFilter{
		Search:     strings.TrimSpace(req.Search),
		Department: strings.TrimSpace(req.Department),
		Page:       repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()},
	})
	if err != nil {
		s.logger.Error("列出参会者失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AttendeeResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAttendeeResponse(&list[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *attendeeService) GetByID(ctx context.Context, id string) (*dto.AttendeeResponse, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAttendeeResponse(a), nil
}

// ────────────────────── Create ──────────────────────

func (s *attendeeService) Create(ctx context.Context, req *dto.CreateAttendeeRequest) (*dto.AttendeeResponse, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	a := &model.Attendee{
		Email:        email,
		PasswordHash: hash,
		Department:   normalizeScope(req.Department),
		Team:         optString(req.Team),
	}
	if err := s.repo.Attendee.Create(ctx, a); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建参会者失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	return toAttendeeResponse(a), nil
}

// ────────────────────── Update ──────────────────────

func (s *attendeeService) Update(ctx context.Context, id string, req *dto.UpdateAttendeeRequest) (*dto.AttendeeResponse, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != a.Email {
			if err := s.ensureEmailFree(ctx, email, a.AttendeeID); err != nil {
				return nil, err
			}
			a.Email = email
		}
	}
	if req.Department != nil {
		a.Department = normalizeScope(req.Department)
	}
	patchString(&a.Team, req.Team)

	if err := s.repo.Attendee.Update(ctx, a); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendeeNotFound
		}
		s.logger.Error("更新参会者失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toAttendeeResponse(a), nil
}

// ────────────────────── Delete ──────────────────────

func (s *attendeeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Attendee.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendeeNotFound
		}
		s.logger.Error("删除参会者失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Stats ──────────────────────

func (s *attendeeService) Stats(ctx context.Context) (*dto.AttendeeStatsResponse, error) {
	stats, err := s.repo.Attendee.Stats(ctx, time.Now().Add(-activeWindow))
	if err != nil {
		s.logger.Error("统计参会者失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.AttendeeStatsResponse{
		Total:        stats.Total,
		ActiveRecent: stats.ActiveRecent,
		ByDepartment: make([]dto.DepartmentCountResponse, 0, len(stats.ByDepartment)),
	}
	for _, d := range stats.ByDepartment {
		resp.ByDepartment = append(resp.ByDepartment, dto.DepartmentCountResponse{
			Department: d.Department,
			Count:      d.Count,
		})
	}
	return resp, nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *attendeeService) ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	tempPwd, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}
	hash, err := hashPassword(tempPwd)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Attendee.UpdatePassword(ctx, id, hash); err != nil {
		s.logger.Error("重置密码失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("参会者密码已重置", zap.String("id", id))
	return &dto.ResetPasswordResponse{TempPassword: tempPwd}, nil
}

// ────────────────────── Import ──────────────────────

// ParseImportFile 解析导入 Excel 文件；表头需包含邮箱列，密码 / 部门 / 小组列可选
func (s *attendeeService) ParseImportFile(reader io.Reader) ([]ImportAttendeeRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		idx := colIndex[key]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ImportAttendeeRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportAttendeeRow{
			Row:        i + 1,
			Email:      cell(row, "email"),
			Password:   cell(row, "password"),
			Department: cell(row, "department"),
			Team:       cell(row, "team"),
		}

		// 跳过全空行
		if item.Email == "" && item.Password == "" && item.Department == "" && item.Team == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"email":      -1,
		"password":   -1,
		"department": -1,
		"team":       -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "邮箱", "email":
			idx["email"] = i
		case "密码", "password":
			idx["password"] = i
		case "部门", "department":
			idx["department"] = i
		case "小组", "team":
			idx["team"] = i
		}
	}
	return idx
}

// Import 先逐行校验，再在单个事务中写入全部合法行
func (s *attendeeService) Import(ctx context.Context, rows []ImportAttendeeRow) (*dto.ImportAttendeeResponse, error) {
	resp := &dto.ImportAttendeeResponse{Total: len(rows)}
	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row, Reason: reason})
	}

	// 第一阶段：数据预校验（不接触数据库写操作）
	type validatedRow struct {
		row      ImportAttendeeRow
		attendee *model.Attendee
	}
	var validRows []validatedRow
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		email := normalizeEmail(row.Email)
		if email == "" || !strings.Contains(email, "@") {
			fail(row.Row, "邮箱为空或格式错误")
			continue
		}
		if first, dup := seen[email]; dup {
			fail(row.Row, fmt.Sprintf("与第 %d 行邮箱重复", first))
			continue
		}
		seen[email] = row.Row

		if _, err := s.repo.Attendee.GetByEmail(ctx, email); err == nil {
			fail(row.Row, fmt.Sprintf("邮箱已存在: %s", email))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询参会者失败", zap.String("email", email), zap.Error(err))
			return nil, err
		}

		password := row.Password
		if password == "" {
			tmp, err := generateTempPassword(10)
			if err != nil {
				return nil, err
			}
			password = tmp
			resp.Credentials = append(resp.Credentials, dto.ImportCredential{
				Row: row.Row, Email: email, TempPassword: tmp,
			})
		} else if len(password) < 6 {
			fail(row.Row, "密码长度不能少于6位")
			continue
		}

		hash, err := hashPassword(password)
		if err != nil {
			fail(row.Row, "密码哈希失败")
			continue
		}

		validRows = append(validRows, validatedRow{
			row: row,
			attendee: &model.Attendee{
				Email:        email,
				PasswordHash: hash,
				Department:   normalizeScope(&row.Department),
				Team:         optString(&row.Team),
			},
		})
	}

	// 第二阶段：在事务中批量创建所有通过校验的参会者
	if len(validRows) > 0 {
		err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
			for _, vr := range validRows {
				if err := txRepo.Attendee.Create(ctx, vr.attendee); err != nil {
					s.logger.Error("导入参会者写入失败，事务回滚",
						zap.Int("row", vr.row.Row), zap.Error(err))
					return fmt.Errorf("第 %d 行写入数据库失败，已回滚全部导入: %w", vr.row.Row, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		resp.Success = len(validRows)
	}

	return resp, nil
}

// ── 内部辅助方法 ──

func (s *attendeeService) get(ctx context.Context, id string) (*model.Attendee, error) {
	a, err := s.repo.Attendee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendeeNotFound
		}
		s.logger.Error("查询参会者失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

// ensureEmailFree 邮箱未被其他参会者占用
func (s *attendeeService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.Attendee.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询参会者失败", zap.String("email", email), zap.Error(err))
		return err
	}
	if existing.AttendeeID != selfID {
		return ErrEmailExists
	}
	return nil
}

func toAttendeeResponse(a *model.Attendee) *dto.AttendeeResponse {
	return &dto.AttendeeResponse{
		ID:         a.AttendeeID,
		Email:      a.Email,
		Department: a.Department,
		Team:       a.Team,
		LastLogin:  dto.FormatTimePtr(a.LastLogin),
		CreatedAt:  dto.FormatTime(a.CreatedAt),
		UpdatedAt:  dto.FormatTime(a.UpdatedAt),
	}
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = 8
	}

	result := make([]byte, length)

	// 保证至少1个字母+1个数字
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
	if err != nil {
		return "", err
	}
	result[0] = letters[n.Int64()]

	n, err = rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
	if err != nil {
		return "", err
	}
	result[1] = digits[n.Int64()]

	for i := 2; i < length; i++ {
		n, err = rand.Int(rand.Reader, big.NewInt(int64(len(all))))
		if err != nil {
			return "", err
		}
		result[i] = all[n.Int64()]
	}

	// 打乱顺序
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}

// ══════════════════ 管理员 ══════════════════

// AdminService 管理员账号业务接口
type AdminService interface {
	List(ctx context.Context) ([]dto.AdminResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AdminResponse, error)
	Create(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAdminRequest) (*dto.AdminResponse, error)
	Delete(ctx context.Context, id, callerID string) error
}

type adminService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

func (s *adminService) List(ctx context.Context) ([]dto.AdminResponse, error) {
	list, err := s.repo.Admin.List(ctx)
	if err != nil {
		s.logger.Error("列出管理员失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AdminResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAdminResponse(&list[i]))
	}
	return result, nil
}

func (s *adminService) GetByID(ctx context.Context, id string) (*dto.AdminResponse, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAdminResponse(a), nil
}

func (s *adminService) Create(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.repo.Admin.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	a := &model.Admin{
		Email:        email,
		PasswordHash: hash,
		Department:   normalizeScope(req.Department),
	}
	if err := s.repo.Admin.Create(ctx, a); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建管理员失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员已创建", zap.String("id", a.AdminID), zap.String("email", a.Email))
	return toAdminResponse(a), nil
}

func (s *adminService) Update(ctx context.Context, id string, req *dto.UpdateAdminRequest) (*dto.AdminResponse, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != a.Email {
			if existing, err := s.repo.Admin.GetByEmail(ctx, email); err == nil && existing.AdminID != a.AdminID {
				return nil, ErrEmailExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			a.Email = email
		}
	}
	if req.Department != nil {
		a.Department = normalizeScope(req.Department)
	}

	if err := s.repo.Admin.Update(ctx, a); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("更新管理员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAdminResponse(a), nil
}

func (s *adminService) Delete(ctx context.Context, id, callerID string) error {
	if id == callerID {
		return ErrAdminSelfDelete
	}
	if err := s.repo.Admin.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		s.logger.Error("删除管理员失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *adminService) get(ctx context.Context, id string) (*model.Admin, error) {
	a, err := s.repo.Admin.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error("查询管理员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func toAdminResponse(a *model.Admin) *dto.AdminResponse {
	return &dto.AdminResponse{
		ID:         a.AdminID,
		Email:      a.Email,
		Department: a.Department,
		CreatedAt:  dto.FormatTime(a.CreatedAt),
	}
}
