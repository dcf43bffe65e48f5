package service

import (
	"github.com/bitfantasy/zhugong/internal/config"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Auth         *AuthService
	Project      *ProjectService
	Resource     *ResourceService
	Allocation   *AllocationService
	TaskResource *TaskResourceService
	Finance      *FinanceService
	Issue        *IssueService
	Report       *ReportService
}

// NewServices 创建服务集合
// rdb和minioClient允许为nil，相应能力自动降级
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	resourceSvc := NewResourceService(repos.Resource, repos.Allocation)

	return &Services{
		Auth:         NewAuthService(repos.User, rdb, &cfg.JWT),
		Project:      NewProjectService(repos.Project, repos.Task),
		Resource:     resourceSvc,
		Allocation:   NewAllocationService(repos.Allocation, repos.Resource, resourceSvc),
		TaskResource: NewTaskResourceService(repos.TaskResource, repos.Resource, db),
		Finance:      NewFinanceService(repos.Transaction),
		Issue:        NewIssueService(repos.Issue, repos.Project),
		Report: NewReportService(
			repos.Report,
			repos.Project,
			repos.Task,
			repos.Resource,
			repos.Allocation,
			repos.Transaction,
			repos.Issue,
			rdb,
			minioClient,
			cfg.MinIO.Bucket,
		),
	}
}
