package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, 40000, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, 40400, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, 50000, message)
}

// HandleServiceError 按错误类型映射HTTP状态
func HandleServiceError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, "记录不存在")
		return
	}
	BadRequest(c, err.Error())
}

// GetUserID 从上下文获取当前用户ID
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetPagination 解析分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// Handlers 处理器集合
type Handlers struct {
	Auth         *AuthHandler
	Project      *ProjectHandler
	Resource     *ResourceHandler
	Allocation   *AllocationHandler
	TaskResource *TaskResourceHandler
	Finance      *FinanceHandler
	Issue        *IssueHandler
	Report       *ReportHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Project:      NewProjectHandler(services.Project),
		Resource:     NewResourceHandler(services.Resource),
		Allocation:   NewAllocationHandler(services.Allocation),
		TaskResource: NewTaskResourceHandler(services.TaskResource),
		Finance:      NewFinanceHandler(services.Finance),
		Issue:        NewIssueHandler(services.Issue),
		Report:       NewReportHandler(services.Report),
	}
}
