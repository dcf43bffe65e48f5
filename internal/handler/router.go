package handler

import (
	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version 构建版本，发布时由ldflags注入
var Version = "dev"

// RegisterRoutes 注册全部路由
func RegisterRoutes(r *gin.Engine, h *Handlers, logger *zap.Logger, jwtSecret string) {
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{"version": Version})
	})

	api := r.Group("/api/v1")

	// 无需认证
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	auth := api.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))
	{
		auth.POST("/auth/logout", h.Auth.Logout)
		auth.GET("/auth/me", h.Auth.Me)
		auth.POST("/auth/register", middleware.RequireRole(entity.UserRoleAdmin), h.Auth.Register)

		// 项目与任务
		auth.GET("/projects", h.Project.List)
		auth.POST("/projects", h.Project.Create)
		auth.GET("/projects/:id", h.Project.Get)
		auth.PUT("/projects/:id", h.Project.Update)
		auth.DELETE("/projects/:id", h.Project.Delete)
		auth.GET("/projects/:id/tasks", h.Project.ListTasks)
		auth.POST("/projects/:id/tasks", h.Project.CreateTask)
		auth.GET("/projects/:id/allocations", h.Allocation.ListByProject)

		auth.GET("/tasks/:id", h.Project.GetTask)
		auth.PUT("/tasks/:id", h.Project.UpdateTask)
		auth.PUT("/tasks/:id/status", h.Project.UpdateTaskStatus)
		auth.DELETE("/tasks/:id", h.Project.DeleteTask)
		auth.GET("/tasks/:id/resources", h.TaskResource.List)
		auth.POST("/tasks/:id/resources", h.TaskResource.Assign)
		auth.PUT("/tasks/:id/resources", h.TaskResource.Reconcile)
		auth.DELETE("/tasks/:id/resources/:resourceId", h.TaskResource.Unassign)

		// 资源目录与分配台账
		auth.GET("/resources", h.Resource.List)
		auth.POST("/resources", h.Resource.Create)
		auth.GET("/resources/:id", h.Resource.Get)
		auth.PUT("/resources/:id", h.Resource.Update)
		auth.DELETE("/resources/:id", h.Resource.Delete)
		auth.GET("/resources/:id/allocations", h.Allocation.ListByResource)

		auth.POST("/allocations", h.Allocation.Allocate)
		auth.POST("/allocations/return", h.Allocation.Return)
		auth.POST("/allocations/:id/consume", h.Allocation.Consume)
		auth.POST("/allocations/:id/reset", h.Allocation.Reset)
		auth.DELETE("/allocations/:id", h.Allocation.Delete)

		// 财务流水
		auth.GET("/transactions", h.Finance.List)
		auth.POST("/transactions", h.Finance.Create)
		auth.GET("/transactions/:id", h.Finance.Get)
		auth.PUT("/transactions/:id", h.Finance.Update)
		auth.DELETE("/transactions/:id", h.Finance.Delete)

		// 现场问题
		auth.GET("/issues", h.Issue.List)
		auth.POST("/issues", h.Issue.Create)
		auth.GET("/issues/:id", h.Issue.Get)
		auth.PUT("/issues/:id", h.Issue.Update)
		auth.DELETE("/issues/:id", h.Issue.Delete)

		// 报表
		auth.GET("/reports", h.Report.List)
		auth.POST("/reports", middleware.RequireRole(entity.UserRoleAdmin), h.Report.Generate)
		auth.GET("/reports/:id", h.Report.Get)
		auth.GET("/reports/:id/export", h.Report.Export)
		auth.PUT("/reports/:id/archive", h.Report.Archive)
		auth.POST("/reports/:id/archive-workbook", middleware.RequireRole(entity.UserRoleAdmin), h.Report.ArchiveWorkbook)
		auth.DELETE("/reports/:id", middleware.RequireRole(entity.UserRoleAdmin), h.Report.Delete)
	}
}
