package handler

import (
	"time"

	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
)

// FinanceHandler 财务流水接口
type FinanceHandler struct {
	financeSvc *service.FinanceService
}

func NewFinanceHandler(financeSvc *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeSvc: financeSvc}
}

func parseDateQuery(c *gin.Context, key string) *time.Time {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

// List 流水列表
// GET /api/v1/transactions
func (h *FinanceHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.TransactionListParams{
		Type:      c.Query("type"),
		Category:  c.Query("category"),
		ProjectID: c.Query("project_id"),
		From:      parseDateQuery(c, "from"),
		To:        parseDateQuery(c, "to"),
		Page:      page,
		PageSize:  pageSize,
	}

	txs, total, err := h.financeSvc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"items": txs,
		"total": total,
	})
}

// Get 流水详情
// GET /api/v1/transactions/:id
func (h *FinanceHandler) Get(c *gin.Context) {
	tx, err := h.financeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, tx)
}

// Create 创建流水
// POST /api/v1/transactions
func (h *FinanceHandler) Create(c *gin.Context) {
	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tx, err := h.financeSvc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, tx)
}

// Update 更新流水
// PUT /api/v1/transactions/:id
func (h *FinanceHandler) Update(c *gin.Context) {
	var req service.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tx, err := h.financeSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, tx)
}

// Delete 删除流水
// DELETE /api/v1/transactions/:id
func (h *FinanceHandler) Delete(c *gin.Context) {
	if err := h.financeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}
