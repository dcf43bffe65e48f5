package repository

import (
	"context"

	"github.com/bitfantasy/zhugong/internal/entity"
	"gorm.io/gorm"
)

// ProjectRepository 项目仓库
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Project{}).Error
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &project, nil
}

// ProjectListParams 项目列表查询参数
type ProjectListParams struct {
	Status   string
	Keyword  string
	Page     int
	PageSize int
}

func (r *ProjectRepository) List(ctx context.Context, params ProjectListParams) ([]entity.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Project{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name ILIKE ? OR client ILIKE ?", kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 20
	}

	var projects []entity.Project
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&projects).Error
	return projects, total, err
}

// ListActive 获取未归档的在建项目
func (r *ProjectRepository) ListActive(ctx context.Context) ([]entity.Project, error) {
	var projects []entity.Project
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []string{entity.ProjectStatusCancelled}).
		Find(&projects).Error
	return projects, err
}

// UpdateCompletion 更新项目完成度
func (r *ProjectRepository) UpdateCompletion(ctx context.Context, id string, completion int) error {
	return r.db.WithContext(ctx).Model(&entity.Project{}).
		Where("id = ?", id).
		Update("completion", completion).Error
}
