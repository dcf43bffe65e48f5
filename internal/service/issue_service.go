package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/google/uuid"
)

// IssueService 问题跟踪服务
type IssueService struct {
	issueRepo   *repository.IssueRepository
	projectRepo *repository.ProjectRepository
}

// NewIssueService 创建问题服务
func NewIssueService(issueRepo *repository.IssueRepository, projectRepo *repository.ProjectRepository) *IssueService {
	return &IssueService{issueRepo: issueRepo, projectRepo: projectRepo}
}

// CreateIssueRequest 创建问题请求
type CreateIssueRequest struct {
	ProjectID   string `json:"project_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// UpdateIssueRequest 更新问题请求
type UpdateIssueRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// List 获取问题列表
func (s *IssueService) List(ctx context.Context, params repository.IssueListParams) ([]entity.Issue, error) {
	return s.issueRepo.List(ctx, params)
}

// Get 获取问题详情
func (s *IssueService) Get(ctx context.Context, id string) (*entity.Issue, error) {
	return s.issueRepo.FindByID(ctx, id)
}

// Create 创建问题
func (s *IssueService) Create(ctx context.Context, userID string, req *CreateIssueRequest) (*entity.Issue, error) {
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, fmt.Errorf("项目不存在: %w", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = entity.IssuePriorityMedium
	}

	issue := &entity.Issue{
		ID:          uuid.New().String()[:32],
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.IssueStatusOpen,
		Priority:    priority,
		ReportedBy:  userID,
	}
	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("创建问题失败: %w", err)
	}
	return issue, nil
}

// Update 更新问题，转入resolved时记录解决时间
func (s *IssueService) Update(ctx context.Context, id string, req *UpdateIssueRequest) (*entity.Issue, error) {
	issue, err := s.issueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		issue.Title = *req.Title
	}
	if req.Description != nil {
		issue.Description = *req.Description
	}
	if req.Status != nil {
		issue.Status = *req.Status
		if *req.Status == entity.IssueStatusResolved && issue.ResolvedAt == nil {
			now := time.Now()
			issue.ResolvedAt = &now
		}
	}
	if req.Priority != nil {
		issue.Priority = *req.Priority
	}
	issue.UpdatedAt = time.Now()

	if err := s.issueRepo.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("更新问题失败: %w", err)
	}
	return issue, nil
}

// Delete 删除问题
func (s *IssueService) Delete(ctx context.Context, id string) error {
	if _, err := s.issueRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.issueRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除问题失败: %w", err)
	}
	return nil
}
