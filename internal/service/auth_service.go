package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/zhugong/internal/config"
	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/middleware"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 认证服务
// 刷新token的jti存redis，登出即作废
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      *config.JWTConfig
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, rdb: rdb, cfg: cfg}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// TokenPair 登录结果
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *entity.User `json:"user"`
}

func refreshKey(jti string) string {
	return "auth:refresh:" + jti
}

// Login 用户名密码登录
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("用户名或密码错误")
	}
	if user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("账号已禁用")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("用户名或密码错误")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("更新登录时间失败: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Register 注册用户
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("用户名已存在: %s", req.Username)
	} else if err != repository.ErrNotFound {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	role := req.Role
	if role == "" {
		role = entity.UserRoleMember
	}
	if role != entity.UserRoleAdmin && role != entity.UserRoleMember {
		return nil, fmt.Errorf("无效的角色: %s", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New().String()[:32],
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       entity.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}

// Refresh 用refresh token换新的token对
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("无效的刷新token")
	}

	if s.rdb != nil {
		exists, err := s.rdb.Exists(ctx, refreshKey(claims.ID)).Result()
		if err != nil {
			return nil, fmt.Errorf("校验刷新token失败: %w", err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("刷新token已失效")
		}
		s.rdb.Del(ctx, refreshKey(claims.ID))
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("用户不存在: %w", err)
	}
	if user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("账号已禁用")
	}

	return s.issueTokens(ctx, user)
}

// Logout 登出，作废refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil
	}
	if s.rdb != nil {
		s.rdb.Del(ctx, refreshKey(claims.ID))
	}
	return nil
}

// GetCurrentUser 获取当前用户
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := &middleware.JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpire)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("签发access token失败: %w", err)
	}

	jti := uuid.New().String()
	refreshClaims := &middleware.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenExpire)),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("签发refresh token失败: %w", err)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, refreshKey(jti), user.ID, s.cfg.RefreshTokenExpire).Err(); err != nil {
			return nil, fmt.Errorf("保存刷新token失败: %w", err)
		}
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.AccessTokenExpire.Seconds()),
		User:         user,
	}, nil
}

func (s *AuthService) parseToken(tokenString string) (*middleware.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &middleware.JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*middleware.JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}
