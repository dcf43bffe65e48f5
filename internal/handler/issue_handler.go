package handler

import (
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
)

// IssueHandler 现场问题接口
type IssueHandler struct {
	issueSvc *service.IssueService
}

func NewIssueHandler(issueSvc *service.IssueService) *IssueHandler {
	return &IssueHandler{issueSvc: issueSvc}
}

// List 问题列表
// GET /api/v1/issues
func (h *IssueHandler) List(c *gin.Context) {
	params := repository.IssueListParams{
		ProjectID: c.Query("project_id"),
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
	}

	issues, err := h.issueSvc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, issues)
}

// Get 问题详情
// GET /api/v1/issues/:id
func (h *IssueHandler) Get(c *gin.Context) {
	issue, err := h.issueSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, issue)
}

// Create 上报问题
// POST /api/v1/issues
func (h *IssueHandler) Create(c *gin.Context) {
	var req service.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	issue, err := h.issueSvc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, issue)
}

// Update 更新问题
// PUT /api/v1/issues/:id
func (h *IssueHandler) Update(c *gin.Context) {
	var req service.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	issue, err := h.issueSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, issue)
}

// Delete 删除问题
// DELETE /api/v1/issues/:id
func (h *IssueHandler) Delete(c *gin.Context) {
	if err := h.issueSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}
