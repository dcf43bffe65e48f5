package handler

import (
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
)

// ResourceHandler 资源目录接口
type ResourceHandler struct {
	resourceSvc *service.ResourceService
}

func NewResourceHandler(resourceSvc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceSvc: resourceSvc}
}

// List 资源列表，缺货/低库存排前
// GET /api/v1/resources
func (h *ResourceHandler) List(c *gin.Context) {
	params := repository.ResourceListParams{
		Type:    c.Query("type"),
		Status:  c.Query("status"),
		Keyword: c.Query("keyword"),
	}

	views, err := h.resourceSvc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, views)
}

// Get 资源详情
// GET /api/v1/resources/:id
func (h *ResourceHandler) Get(c *gin.Context) {
	view, err := h.resourceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, view)
}

// Create 创建资源
// POST /api/v1/resources
func (h *ResourceHandler) Create(c *gin.Context) {
	var req service.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	resource, err := h.resourceSvc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, resource)
}

// Update 更新资源
// PUT /api/v1/resources/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	var req service.UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	resource, err := h.resourceSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, resource)
}

// Delete 删除资源，级联清理分配与任务指派
// DELETE /api/v1/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.resourceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}
