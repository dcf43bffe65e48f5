package handler

import (
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目与任务接口
type ProjectHandler struct {
	projectSvc *service.ProjectService
}

func NewProjectHandler(projectSvc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

// List 项目列表
// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.ProjectListParams{
		Status:   c.Query("status"),
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	}

	projects, total, err := h.projectSvc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"items": projects,
		"total": total,
	})
}

// Get 项目详情
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, project)
}

// Create 创建项目
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	project, err := h.projectSvc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, project)
}

// Update 更新项目
// PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	project, err := h.projectSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, project)
}

// Delete 删除项目
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// ListTasks 项目任务列表
// GET /api/v1/projects/:id/tasks
func (h *ProjectHandler) ListTasks(c *gin.Context) {
	tasks, err := h.projectSvc.ListTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, tasks)
}

// CreateTask 创建任务
// POST /api/v1/projects/:id/tasks
func (h *ProjectHandler) CreateTask(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	task, err := h.projectSvc.CreateTask(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, task)
}

// GetTask 任务详情
// GET /api/v1/tasks/:id
func (h *ProjectHandler) GetTask(c *gin.Context) {
	task, err := h.projectSvc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, task)
}

// UpdateTask 更新任务
// PUT /api/v1/tasks/:id
func (h *ProjectHandler) UpdateTask(c *gin.Context) {
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	task, err := h.projectSvc.UpdateTask(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, task)
}

type updateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTaskStatus 更新任务状态，回写项目完成度
// PUT /api/v1/tasks/:id/status
func (h *ProjectHandler) UpdateTaskStatus(c *gin.Context) {
	var req updateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	task, err := h.projectSvc.UpdateTaskStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, task)
}

// DeleteTask 删除任务
// DELETE /api/v1/tasks/:id
func (h *ProjectHandler) DeleteTask(c *gin.Context) {
	if err := h.projectSvc.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}
