package handler

import (
	"fmt"

	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler 报表接口
type ReportHandler struct {
	reportSvc *service.ReportService
}

func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// List 报表列表，默认不含已归档
// GET /api/v1/reports
func (h *ReportHandler) List(c *gin.Context) {
	params := repository.ReportListParams{
		Type:            c.Query("type"),
		ProjectID:       c.Query("project_id"),
		IncludeArchived: c.Query("include_archived") == "true",
	}

	reports, err := h.reportSvc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, reports)
}

// Get 报表详情
// GET /api/v1/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reportSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, report)
}

// Generate 生成报表快照，仅admin
// POST /api/v1/reports
func (h *ReportHandler) Generate(c *gin.Context) {
	var req service.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	report, err := h.reportSvc.Generate(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, report)
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

// Archive 归档/取消归档
// PUT /api/v1/reports/:id/archive
func (h *ReportHandler) Archive(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.reportSvc.SetArchived(c.Request.Context(), c.Param("id"), req.Archived); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// Delete 删除报表，仅admin
// DELETE /api/v1/reports/:id
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.reportSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// Export 导出xlsx
// GET /api/v1/reports/:id/export
func (h *ReportHandler) Export(c *gin.Context) {
	f, filename, err := h.reportSvc.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "导出失败: "+err.Error())
		return
	}
}

// ArchiveWorkbook 导出并上传到对象存储
// POST /api/v1/reports/:id/archive-workbook
func (h *ReportHandler) ArchiveWorkbook(c *gin.Context) {
	objectName, err := h.reportSvc.ArchiveWorkbook(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"object_name": objectName})
}
