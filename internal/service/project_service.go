package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/google/uuid"
)

// ProjectService 项目服务
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
}

// NewProjectService 创建项目服务
func NewProjectService(projectRepo *repository.ProjectRepository, taskRepo *repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Client      string     `json:"client"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Budget      float64    `json:"budget"`
	ManagerID   *string    `json:"manager_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Client      *string    `json:"client"`
	Location    *string    `json:"location"`
	Status      *string    `json:"status"`
	Description *string    `json:"description"`
	Budget      *float64   `json:"budget"`
	ManagerID   *string    `json:"manager_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// List 获取项目列表
func (s *ProjectService) List(ctx context.Context, params repository.ProjectListParams) ([]entity.Project, int64, error) {
	return s.projectRepo.List(ctx, params)
}

// Get 获取项目详情
func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.projectRepo.FindByID(ctx, id)
}

// Create 创建项目
func (s *ProjectService) Create(ctx context.Context, userID string, req *CreateProjectRequest) (*entity.Project, error) {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("结束日期不能早于开始日期")
	}

	project := &entity.Project{
		ID:          uuid.New().String()[:32],
		Name:        req.Name,
		Client:      req.Client,
		Location:    req.Location,
		Status:      entity.ProjectStatusPlanning,
		Description: req.Description,
		Budget:      req.Budget,
		ManagerID:   req.ManagerID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   userID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("创建项目失败: %w", err)
	}
	return project, nil
}

// Update 更新项目
func (s *ProjectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Client != nil {
		project.Client = *req.Client
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}
	if req.ManagerID != nil {
		project.ManagerID = req.ManagerID
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("更新项目失败: %w", err)
	}
	return project, nil
}

// Delete 删除项目
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.projectRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除项目失败: %w", err)
	}
	return nil
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssigneeID  *string    `json:"assignee_id"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest 更新任务请求
type UpdateTaskRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	AssigneeID  *string    `json:"assignee_id"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

// ListTasks 获取项目任务列表
func (s *ProjectService) ListTasks(ctx context.Context, projectID string) ([]entity.Task, error) {
	return s.taskRepo.ListByProject(ctx, projectID)
}

// GetTask 获取任务详情
func (s *ProjectService) GetTask(ctx context.Context, taskID string) (*entity.Task, error) {
	return s.taskRepo.FindByID(ctx, taskID)
}

// CreateTask 创建任务
func (s *ProjectService) CreateTask(ctx context.Context, projectID, userID string, req *CreateTaskRequest) (*entity.Task, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("项目不存在: %w", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = entity.TaskPriorityMedium
	}

	task := &entity.Task{
		ID:          uuid.New().String()[:32],
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		Status:      entity.TaskStatusPending,
		Priority:    priority,
		AssigneeID:  req.AssigneeID,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("创建任务失败: %w", err)
	}

	if err := s.refreshCompletion(ctx, projectID); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask 更新任务
func (s *ProjectService) UpdateTask(ctx context.Context, taskID string, req *UpdateTaskRequest) (*entity.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("更新任务失败: %w", err)
	}
	return task, nil
}

// UpdateTaskStatus 更新任务状态并回写项目完成度
func (s *ProjectService) UpdateTaskStatus(ctx context.Context, taskID, status string) (*entity.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	switch status {
	case entity.TaskStatusPending, entity.TaskStatusInProgress, entity.TaskStatusCompleted, entity.TaskStatusCancelled:
	default:
		return nil, fmt.Errorf("无效的任务状态: %s", status)
	}

	now := time.Now()
	task.Status = status
	if status == entity.TaskStatusCompleted {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	task.UpdatedAt = now

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("更新任务状态失败: %w", err)
	}

	if err := s.refreshCompletion(ctx, task.ProjectID); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask 删除任务
func (s *ProjectService) DeleteTask(ctx context.Context, taskID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("删除任务失败: %w", err)
	}
	return s.refreshCompletion(ctx, task.ProjectID)
}

// refreshCompletion 项目完成度 = 已完成任务 / 总任务，四舍五入成百分比
func (s *ProjectService) refreshCompletion(ctx context.Context, projectID string) error {
	total, completed, err := s.taskRepo.CountByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("统计任务失败: %w", err)
	}
	completion := CompletionPercentage(total, completed)
	if err := s.projectRepo.UpdateCompletion(ctx, projectID, completion); err != nil {
		return fmt.Errorf("更新项目完成度失败: %w", err)
	}
	return nil
}

// CompletionPercentage 完成度百分比，任务数为0时返回0
func CompletionPercentage(total, completed int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// DaysRemaining 距截止日剩余天数，已过期返回0
func DaysRemaining(endDate *time.Time, now time.Time) int {
	if endDate == nil {
		return 0
	}
	remaining := endDate.Sub(now).Hours() / 24
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining))
}
