package handler

import (
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
)

// TaskResourceHandler 任务资源指派接口
type TaskResourceHandler struct {
	taskResSvc *service.TaskResourceService
}

func NewTaskResourceHandler(taskResSvc *service.TaskResourceService) *TaskResourceHandler {
	return &TaskResourceHandler{taskResSvc: taskResSvc}
}

// List 任务的指派清单
// GET /api/v1/tasks/:id/resources
func (h *TaskResourceHandler) List(c *gin.Context) {
	items, err := h.taskResSvc.ListByTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, items)
}

// Assign 指派资源到任务
// POST /api/v1/tasks/:id/resources
func (h *TaskResourceHandler) Assign(c *gin.Context) {
	var req service.TaskResourceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tr, err := h.taskResSvc.Assign(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, tr)
}

// Unassign 取消指派
// DELETE /api/v1/tasks/:id/resources/:resourceId
func (h *TaskResourceHandler) Unassign(c *gin.Context) {
	if err := h.taskResSvc.Unassign(c.Request.Context(), c.Param("id"), c.Param("resourceId")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

type reconcileRequest struct {
	Resources []service.TaskResourceInput `json:"resources"`
}

// Reconcile 按提交的选择对账指派，增/改/删一次完成
// PUT /api/v1/tasks/:id/resources
func (h *TaskResourceHandler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	items, err := h.taskResSvc.Reconcile(c.Request.Context(), c.Param("id"), req.Resources)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, items)
}
