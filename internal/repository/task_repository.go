package repository

import (
	"context"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"gorm.io/gorm"
)

// TaskRepository 任务仓库
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Task{}).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	var task entity.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&tasks).Error
	return tasks, err
}

// CountByProject 统计项目任务总数与已完成数
func (r *TaskRepository) CountByProject(ctx context.Context, projectID string) (total, completed int64, err error) {
	if err = r.db.WithContext(ctx).Model(&entity.Task{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&entity.Task{}).
		Where("project_id = ? AND status = ?", projectID, entity.TaskStatusCompleted).
		Count(&completed).Error
	return total, completed, err
}

// CountCompletedSince 统计某时间后完成的任务数（不限项目）
func (r *TaskRepository) CountCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Task{}).
		Where("status = ? AND completed_at >= ?", entity.TaskStatusCompleted, since).
		Count(&count).Error
	return count, err
}
