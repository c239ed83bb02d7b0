package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/config"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrWrongPassword      = errors.New("原密码错误")
)

// TokenBlacklist 已登出 Token 的黑名单存储
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	// AttendeeLogin 参会者登录，成功后刷新 last_login
	AttendeeLogin(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	AdminLogin(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Refresh 按数据库中的最新资料重新签发 Token
	Refresh(ctx context.Context, userID, role string) (*dto.TokenResponse, error)
	// Logout 将 Token 的 jti 加入黑名单直至其过期
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, userID, role string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID, role string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) AttendeeLogin(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询参会者
	user, err := s.repo.Attendee.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询参会者失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 记录登录时间，失败不影响登录
	now := time.Now()
	if err := s.repo.Attendee.TouchLastLogin(ctx, user.AttendeeID, now); err != nil {
		s.logger.Warn("更新最近登录时间失败", zap.String("id", user.AttendeeID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	// 4. 签发 Token
	return s.issue(jwt.Subject{
		UserID:     user.AttendeeID,
		Email:      user.Email,
		Role:       jwt.RoleAttendee,
		Department: user.Department,
		Team:       user.Team,
	}, dto.FormatTimePtr(user.LastLogin), dto.FormatTime(user.CreatedAt))
}

func (s *authService) AdminLogin(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	admin, err := s.repo.Admin.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(jwt.Subject{
		UserID:     admin.AdminID,
		Email:      admin.Email,
		Role:       jwt.RoleAdmin,
		Department: admin.Department,
	}, nil, dto.FormatTime(admin.CreatedAt))
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, userID, role string) (*dto.TokenResponse, error) {
	me, err := s.Me(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	return s.issue(jwt.Subject{
		UserID:     me.ID,
		Email:      me.Email,
		Role:       me.Role,
		Department: me.Department,
		Team:       me.Team,
	}, me.LastLogin, me.CreatedAt)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID, role string) (*dto.UserResponse, error) {
	if role == jwt.RoleAdmin {
		admin, err := s.repo.Admin.GetByID(ctx, userID)
		if err != nil {
			return nil, s.translateUserErr(err, userID)
		}
		return &dto.UserResponse{
			ID:         admin.AdminID,
			Email:      admin.Email,
			Role:       jwt.RoleAdmin,
			Department: admin.Department,
			CreatedAt:  dto.FormatTime(admin.CreatedAt),
		}, nil
	}

	user, err := s.repo.Attendee.GetByID(ctx, userID)
	if err != nil {
		return nil, s.translateUserErr(err, userID)
	}
	return &dto.UserResponse{
		ID:         user.AttendeeID,
		Email:      user.Email,
		Role:       jwt.RoleAttendee,
		Department: user.Department,
		Team:       user.Team,
		LastLogin:  dto.FormatTimePtr(user.LastLogin),
		CreatedAt:  dto.FormatTime(user.CreatedAt),
	}, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID, role string, req *dto.ChangePasswordRequest) error {
	var current string
	if role == jwt.RoleAdmin {
		admin, err := s.repo.Admin.GetByID(ctx, userID)
		if err != nil {
			return s.translateUserErr(err, userID)
		}
		current = admin.PasswordHash
	} else {
		user, err := s.repo.Attendee.GetByID(ctx, userID)
		if err != nil {
			return s.translateUserErr(err, userID)
		}
		current = user.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(current), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	if role == jwt.RoleAdmin {
		err = s.repo.Admin.UpdatePassword(ctx, userID, hash)
	} else {
		err = s.repo.Attendee.UpdatePassword(ctx, userID, hash)
	}
	if err != nil {
		s.logger.Error("更新密码失败", zap.String("id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 内部方法 ──────────────────────

func (s *authService) issue(sub jwt.Subject, lastLogin *string, createdAt string) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(sub)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			ID:         sub.UserID,
			Email:      sub.Email,
			Role:       sub.Role,
			Department: sub.Department,
			Team:       sub.Team,
			LastLogin:  lastLogin,
			CreatedAt:  createdAt,
		},
	}, nil
}

func (s *authService) translateUserErr(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
	return err
}
