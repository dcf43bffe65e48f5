package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitfantasy/zhugong/internal/config"
	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/handler"
	"github.com/bitfantasy/zhugong/internal/middleware"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestJWTSecret 测试用签名密钥
const TestJWTSecret = "test-secret"

// SetupDB 连接测试库并在独立schema里建表
// 测试库不可用时跳过用例，schema在用例结束后清理
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	host := config.GetEnvOrDefault("TEST_DB_HOST", "127.0.0.1")
	port := config.GetEnvOrDefault("TEST_DB_PORT", "5432")
	user := config.GetEnvOrDefault("TEST_DB_USER", "zhugong")
	password := config.GetEnvOrDefault("TEST_DB_PASSWORD", "zhugong")
	dbname := config.GetEnvOrDefault("TEST_DB_NAME", "zhugong_test")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("测试数据库不可用: %v", err)
	}

	schema := fmt.Sprintf("test_zhugong_%d_%d", time.Now().UnixNano(), rand.Intn(1000))
	if err := db.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		t.Fatalf("创建测试schema失败: %v", err)
	}
	if err := db.Exec("SET search_path TO " + schema).Error; err != nil {
		t.Fatalf("切换schema失败: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Project{},
		&entity.Task{},
		&entity.Resource{},
		&entity.ResourceAllocation{},
		&entity.TaskResource{},
		&entity.Transaction{},
		&entity.Issue{},
		&entity.Report{},
	)
	if err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DROP SCHEMA " + schema + " CASCADE")
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// TestConfig 测试配置
func TestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             TestJWTSecret,
			AccessTokenExpire:  time.Hour,
			RefreshTokenExpire: 24 * time.Hour,
			Issuer:             "zhugong-test",
		},
		MinIO: config.MinIOConfig{Bucket: "zhugong-test"},
	}
}

// SetupServices 组装测试服务集合，redis与minio留空降级
func SetupServices(db *gorm.DB) (*repository.Repositories, *service.Services) {
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil, nil, TestConfig())
	return repos, services
}

// SetupRouter 组装测试路由
func SetupRouter(services *service.Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.RegisterRoutes(r, handler.NewHandlers(services), zap.NewNop(), TestJWTSecret)
	return r
}

// GenerateTestToken 签发测试token
func GenerateTestToken(userID, role string) string {
	claims := &middleware.JWTClaims{
		UserID: userID,
		Name:   "测试用户",
		Email:  "test@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "zhugong-test",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	return token
}

// DefaultTestToken admin测试token
func DefaultTestToken() string {
	return GenerateTestToken("test-user-id", entity.UserRoleAdmin)
}

// DoRequest 发起测试请求
func DoRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParsedResponse 解析后的响应
type ParsedResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ParseResponse 解析统一响应
func ParseResponse(t *testing.T, w *httptest.ResponseRecorder) *ParsedResponse {
	t.Helper()
	var resp ParsedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v, body=%s", err, w.Body.String())
	}
	return &resp
}

// SeedResource 造一条资源
func SeedResource(t *testing.T, db *gorm.DB, name, resType string, quantity, cost float64, returnable bool) *entity.Resource {
	t.Helper()
	resource := &entity.Resource{
		ID:         uuid.New().String()[:32],
		Name:       name,
		Type:       resType,
		Unit:       "unit",
		Quantity:   quantity,
		Cost:       cost,
		Status:     entity.ResourceStatusAvailable,
		Returnable: returnable,
		CreatedBy:  "test-user-id",
	}
	if err := db.Create(resource).Error; err != nil {
		t.Fatalf("造资源失败: %v", err)
	}
	return resource
}

// SeedProject 造一个项目
func SeedProject(t *testing.T, db *gorm.DB, name string, budget float64) *entity.Project {
	t.Helper()
	project := &entity.Project{
		ID:        uuid.New().String()[:32],
		Name:      name,
		Status:    entity.ProjectStatusInProgress,
		Budget:    budget,
		CreatedBy: "test-user-id",
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("造项目失败: %v", err)
	}
	return project
}

// SeedTask 造一个任务
func SeedTask(t *testing.T, db *gorm.DB, projectID, name, status string) *entity.Task {
	t.Helper()
	task := &entity.Task{
		ID:        uuid.New().String()[:32],
		ProjectID: projectID,
		Name:      name,
		Status:    status,
		Priority:  entity.TaskPriorityMedium,
		CreatedBy: "test-user-id",
	}
	if status == entity.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("造任务失败: %v", err)
	}
	return task
}
