package handler

import (
	"net/http"

	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler 认证接口
type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	pair, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		Error(c, http.StatusUnauthorized, 40100, err.Error())
		return
	}
	Success(c, pair)
}

// Register 注册用户，仅admin
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, user)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh 刷新token
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Error(c, http.StatusUnauthorized, 40100, err.Error())
		return
	}
	Success(c, pair)
}

// Logout 登出
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authSvc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}

// Me 当前用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, user)
}
