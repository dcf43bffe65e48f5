package repository

import (
	"context"

	"github.com/bitfantasy/zhugong/internal/entity"
	"gorm.io/gorm"
)

// TaskResourceRepository 任务资源指派仓库
type TaskResourceRepository struct {
	db *gorm.DB
}

func NewTaskResourceRepository(db *gorm.DB) *TaskResourceRepository {
	return &TaskResourceRepository{db: db}
}

func (r *TaskResourceRepository) Create(ctx context.Context, tr *entity.TaskResource) error {
	return r.db.WithContext(ctx).Create(tr).Error
}

func (r *TaskResourceRepository) Update(ctx context.Context, tr *entity.TaskResource) error {
	return r.db.WithContext(ctx).Save(tr).Error
}

func (r *TaskResourceRepository) FindByPair(ctx context.Context, taskID, resourceID string) (*entity.TaskResource, error) {
	var tr entity.TaskResource
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND resource_id = ?", taskID, resourceID).
		First(&tr).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &tr, nil
}

func (r *TaskResourceRepository) ListByTask(ctx context.Context, taskID string) ([]entity.TaskResource, error) {
	var trs []entity.TaskResource
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&trs).Error
	return trs, err
}

// DeleteByPair 删除任务对某资源的指派
func (r *TaskResourceRepository) DeleteByPair(ctx context.Context, taskID, resourceID string) error {
	return r.db.WithContext(ctx).
		Where("task_id = ? AND resource_id = ?", taskID, resourceID).
		Delete(&entity.TaskResource{}).Error
}

// DB 返回底层db用于事务
func (r *TaskResourceRepository) DB() *gorm.DB {
	return r.db
}
