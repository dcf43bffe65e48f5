package repository

import (
	"context"

	"github.com/bitfantasy/zhugong/internal/entity"
	"gorm.io/gorm"
)

// IssueRepository 问题仓库
type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (r *IssueRepository) Create(ctx context.Context, issue *entity.Issue) error {
	return r.db.WithContext(ctx).Create(issue).Error
}

func (r *IssueRepository) Update(ctx context.Context, issue *entity.Issue) error {
	return r.db.WithContext(ctx).Save(issue).Error
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Issue{}).Error
}

func (r *IssueRepository) FindByID(ctx context.Context, id string) (*entity.Issue, error) {
	var issue entity.Issue
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&issue).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &issue, nil
}

// IssueListParams 问题列表查询参数
type IssueListParams struct {
	ProjectID string
	Status    string
	Priority  string
}

func (r *IssueRepository) List(ctx context.Context, params IssueListParams) ([]entity.Issue, error) {
	query := r.db.WithContext(ctx).Model(&entity.Issue{})
	if params.ProjectID != "" {
		query = query.Where("project_id = ?", params.ProjectID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Priority != "" {
		query = query.Where("priority = ?", params.Priority)
	}

	var issues []entity.Issue
	err := query.Preload("Project").Order("created_at DESC").Find(&issues).Error
	return issues, err
}
