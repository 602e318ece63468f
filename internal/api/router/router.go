package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classroom-booking/backend/config"
	"classroom-booking/backend/internal/api/handler"
	"classroom-booking/backend/internal/api/middleware"
	"classroom-booking/backend/internal/model"
	"classroom-booking/backend/pkg/jwt"
	applogger "classroom-booking/backend/pkg/logger"
	"classroom-booking/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流均降级放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	if applogger.IsDebug(cfg.Log.Level) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limited := middleware.RateLimit(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	staffOrTeacher := middleware.RoleAuth(
		string(model.RoleAdmin), string(model.RoleCoordinator), string(model.RoleTeacher),
	)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	{
		v1.POST("/auth/logout", h.Auth.Logout)

		// 节次表
		v1.GET("/time-slots", h.TimeSlot.ListTimeSlots)

		// 调课申请
		changeRequests := v1.Group("/change-requests")
		{
			changeRequests.POST("", h.ChangeRequest.Create)
			changeRequests.GET("/related", h.ChangeRequest.ListRelated)
			changeRequests.GET("/:id", h.ChangeRequest.Get)
			changeRequests.GET("/:id/proposal-status", h.ChangeRequest.ProposalStatus)
			changeRequests.POST("/:id/reject", h.ChangeRequest.Reject)
			changeRequests.POST("/:id/cancel", h.ChangeRequest.Cancel)
		}

		// 可用时间
		proposals := v1.Group("/proposals")
		{
			proposals.POST("", h.Proposal.Submit)
			proposals.GET("", h.Proposal.ListMine)
			proposals.DELETE("/:id", h.Proposal.Withdraw)
		}

		// 推荐与双方确认（POST/GET /:id 的 id 为调课申请 ID，其余为推荐 ID）
		recommendations := v1.Group("/recommendations")
		{
			recommendations.POST("/:id", limited, h.Recommendation.Generate)
			recommendations.GET("/:id", h.Recommendation.List)
			recommendations.POST("/:id/accept", limited, h.Recommendation.Accept)
			recommendations.POST("/:id/reject", limited, h.Recommendation.Reject)
			recommendations.GET("/:id/acceptance-status", h.Recommendation.AcceptanceStatus)
		}

		// 课程导出
		courses := v1.Group("/courses")
		{
			courses.GET("/:id/timeline/export", staffOrTeacher, h.Export.ExportTimeline)
			courses.GET("/:id/calendar", h.Export.Calendar)
		}
	}

	return r
}
