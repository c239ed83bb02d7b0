package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/config"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/api/handler"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/api/middleware"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/dto"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/jwt"
	"github.com/QuadricIT2018/az-conference-app-mvp/pkg/redis"
)

// importBodyLimit Excel 导入允许的最大请求体
const importBodyLimit = 10 << 20

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流降级为放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			logger.Fatal("注册自定义校验器失败", zap.Error(err))
		}
	}

	// nil *redis.Client 的方法本身即降级实现，但接口值需显式置空
	var (
		checker middleware.TokenChecker
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		checker, limiter = rdb, rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				status["status"], status["database"] = "degraded", "unreachable"
				code = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			status["redis"] = "ok"
		}
		c.JSON(code, status)
	})

	auth := middleware.JWTAuth(jwtMgr, checker)
	loginLimit := middleware.RateLimit(limiter, cfg.RateLimit.LoginMax, cfg.RateLimit.LoginWindow, logger)
	adminOnly := middleware.RoleAuth(jwt.RoleAdmin)
	attendeeOnly := middleware.RoleAuth(jwt.RoleAttendee)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes, map[string]int64{
		"/api/v1/admin/attendees/import": importBodyLimit,
	}))
	{
		// 认证模块
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", loginLimit, h.Auth.Login)
			authGroup.POST("/admin/login", loginLimit, h.Auth.AdminLogin)
			authGroup.POST("/refresh", auth, h.Auth.Refresh)
			authGroup.POST("/logout", auth, h.Auth.Logout)
			authGroup.GET("/me", auth, h.Auth.Me)
			authGroup.PUT("/password", auth, h.Auth.ChangePassword)
		}

		// 管理端
		admin := v1.Group("/admin")
		admin.Use(auth, adminOnly)
		{
			departments := admin.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", h.Department.CreateDepartment)
				departments.PUT("/:id", h.Department.UpdateDepartment)
				departments.DELETE("/:id", h.Department.DeleteDepartment)
			}

			teams := admin.Group("/teams")
			{
				teams.GET("", h.Department.ListTeams)
				teams.GET("/:id", h.Department.GetTeam)
				teams.POST("", h.Department.CreateTeam)
				teams.PUT("/:id", h.Department.UpdateTeam)
				teams.DELETE("/:id", h.Department.DeleteTeam)
			}

			attendees := admin.Group("/attendees")
			{
				attendees.GET("", h.User.ListAttendees)
				attendees.GET("/stats", h.User.AttendeeStats)
				attendees.GET("/:id", h.User.GetAttendee)
				attendees.POST("", h.User.CreateAttendee)
				attendees.PUT("/:id", h.User.UpdateAttendee)
				attendees.DELETE("/:id", h.User.DeleteAttendee)
				attendees.POST("/:id/reset-password", h.User.ResetPassword)
				attendees.POST("/import", h.User.ImportAttendees)
			}

			admins := admin.Group("/admins")
			{
				admins.GET("", h.User.ListAdmins)
				admins.GET("/:id", h.User.GetAdmin)
				admins.POST("", h.User.CreateAdmin)
				admins.PUT("/:id", h.User.UpdateAdmin)
				admins.DELETE("/:id", h.User.DeleteAdmin)
			}

			events := admin.Group("/events")
			{
				events.GET("", h.Event.ListEvents)
				events.GET("/:id", h.Event.GetEvent)
				events.POST("", h.Event.CreateEvent)
				events.PUT("/:id", h.Event.UpdateEvent)
				events.DELETE("/:id", h.Event.DeleteEvent)
				events.GET("/:id/days", h.Event.ListDays)
				events.GET("/:id/sessions", h.Event.ListSessions)
				events.GET("/:id/export", h.Export.ExportProgramme)
				events.PUT("/:id/wifi", h.Event.UpdateWifi)
				events.PUT("/:id/helpdesk", h.Event.UpdateHelpdesk)
				events.PUT("/:id/venue-maps", h.Event.UpdateVenueMaps)
				events.PUT("/:id/banners", h.Event.UpdateBanners)
				events.PUT("/:id/quick-links", h.Event.UpdateQuickLinks)
				events.PUT("/:id/logo", h.Event.UpdateLogo)
				events.GET("/:id/updates", h.Update.ListUpdates)
				events.POST("/:id/updates", h.Update.CreateUpdate)
			}

			updates := admin.Group("/updates")
			{
				updates.GET("/:id", h.Update.GetUpdate)
				updates.PUT("/:id", h.Update.EditUpdate)
				updates.DELETE("/:id", h.Update.DeleteUpdate)
			}

			sessions := admin.Group("/sessions")
			{
				sessions.POST("", h.Session.CreateSession)
				sessions.GET("/:id", h.Session.GetSession)
				sessions.PUT("/:id", h.Session.UpdateSession)
				sessions.DELETE("/:id", h.Session.DeleteSession)
				sessions.GET("/:id/topics", h.Session.ListTopics)
				sessions.POST("/:id/topics", h.Session.CreateTopic)
				sessions.PUT("/:id/topics/:topicId", h.Session.UpdateTopic)
				sessions.DELETE("/:id/topics/:topicId", h.Session.DeleteTopic)
				sessions.POST("/:id/speakers", h.Session.AssignSpeakers)
				sessions.DELETE("/:id/speakers/:speakerId", h.Session.RemoveSpeaker)
			}

			speakers := admin.Group("/speakers")
			{
				speakers.GET("", h.Speaker.ListSpeakers)
				speakers.GET("/:id", h.Speaker.GetSpeaker)
				speakers.POST("", h.Speaker.CreateSpeaker)
				speakers.PUT("/:id", h.Speaker.UpdateSpeaker)
				speakers.DELETE("/:id", h.Speaker.DeleteSpeaker)
			}

			tags := admin.Group("/session-tags")
			{
				tags.GET("", h.Taxonomy.ListTags)
				tags.GET("/:id", h.Taxonomy.GetTag)
				tags.POST("", h.Taxonomy.CreateTag)
				tags.PUT("/:id", h.Taxonomy.RenameTag)
				tags.DELETE("/:id", h.Taxonomy.DeleteTag)
			}

			types := admin.Group("/session-types")
			{
				types.GET("", h.Taxonomy.ListTypes)
				types.GET("/:id", h.Taxonomy.GetType)
				types.POST("", h.Taxonomy.CreateType)
				types.PUT("/:id", h.Taxonomy.RenameType)
				types.DELETE("/:id", h.Taxonomy.DeleteType)
			}
		}

		// 参会端
		app := v1.Group("/app")
		{
			// 公开接口
			app.GET("/events", h.App.ListEvents)
			app.GET("/events/:slug", h.App.GetEvent)
			app.GET("/events/:slug/days", h.App.ListDays)
			app.GET("/events/:slug/wifi", h.App.GetWifi)
			app.GET("/events/:slug/helpdesk", h.App.GetHelpdesk)
			app.GET("/events/:slug/speakers", h.App.ListSpeakers)
			app.GET("/events/:slug/updates", h.App.ListUpdates)
			app.GET("/speakers/:id", h.App.GetSpeaker)
			app.GET("/departments", h.App.ListDepartments)

			// 需登录（仅参会者）
			member := app.Group("")
			member.Use(auth, attendeeOnly)
			{
				member.GET("/events/:slug/sessions", h.App.ListSessions)
				member.GET("/events/:slug/dates", h.App.ListDates)
				member.GET("/sessions/:id", h.App.GetSession)
				member.GET("/favourites", h.App.ListFavourites)
				member.GET("/favourites/calendar.ics", h.App.FavouritesCalendar)
				member.POST("/favourites/:sessionId", h.App.AddFavourite)
				member.DELETE("/favourites/:sessionId", h.App.RemoveFavourite)
				member.GET("/team", h.App.MyTeam)
				member.GET("/profile", h.App.GetProfile)
				member.PUT("/profile", h.App.UpdateProfile)
			}
		}
	}

	return r
}
