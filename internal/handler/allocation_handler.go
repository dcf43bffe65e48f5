package handler

import (
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
)

// AllocationHandler 资源分配台账接口
type AllocationHandler struct {
	allocSvc *service.AllocationService
}

func NewAllocationHandler(allocSvc *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocSvc: allocSvc}
}

// Allocate 为项目占用资源，同对合并数量
// POST /api/v1/allocations
func (h *AllocationHandler) Allocate(c *gin.Context) {
	var req service.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	alloc, err := h.allocSvc.Allocate(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, alloc)
}

// ListByProject 项目的分配清单
// GET /api/v1/projects/:id/allocations
func (h *AllocationHandler) ListByProject(c *gin.Context) {
	views, err := h.allocSvc.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, views)
}

// ListByResource 资源的分配清单
// GET /api/v1/resources/:id/allocations
func (h *AllocationHandler) ListByResource(c *gin.Context) {
	allocs, err := h.allocSvc.ListByResource(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, allocs)
}

// Consume 标记分配已消耗
// POST /api/v1/allocations/:id/consume
func (h *AllocationHandler) Consume(c *gin.Context) {
	alloc, err := h.allocSvc.MarkConsumed(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, alloc)
}

// Reset 撤销分配，完全释放占用
// POST /api/v1/allocations/:id/reset
func (h *AllocationHandler) Reset(c *gin.Context) {
	if err := h.allocSvc.Reset(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// Delete 删除分配
// DELETE /api/v1/allocations/:id
func (h *AllocationHandler) Delete(c *gin.Context) {
	if err := h.allocSvc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

type returnRequest struct {
	ResourceID string `json:"resource_id" binding:"required"`
	ProjectID  string `json:"project_id" binding:"required"`
}

// Return 归还项目对某资源的占用，仅可归还资源
// POST /api/v1/allocations/return
func (h *AllocationHandler) Return(c *gin.Context) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.allocSvc.Return(c.Request.Context(), req.ResourceID, req.ProjectID); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}
