package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskResourceService 任务资源指派服务
// 把项目级分配拆到具体任务上，不校验拆分之和是否超出项目级占用
type TaskResourceService struct {
	taskResRepo  *repository.TaskResourceRepository
	resourceRepo *repository.ResourceRepository
	db           *gorm.DB
}

// NewTaskResourceService 创建任务资源指派服务
func NewTaskResourceService(taskResRepo *repository.TaskResourceRepository, resourceRepo *repository.ResourceRepository, db *gorm.DB) *TaskResourceService {
	return &TaskResourceService{
		taskResRepo:  taskResRepo,
		resourceRepo: resourceRepo,
		db:           db,
	}
}

// TaskResourceInput 指派输入，未填的维度按资源类型补默认值
type TaskResourceInput struct {
	ResourceID string   `json:"resource_id" binding:"required"`
	Hours      *float64 `json:"hours"`
	Days       *float64 `json:"days"`
	Quantity   *float64 `json:"quantity"`
}

// 按资源类型补默认值：人力按小时（默认8），其余可归还按天（默认1），消耗型按数量（默认1）
func applyAssignmentDefaults(resource *entity.Resource, input *TaskResourceInput) (hours, days, quantity float64) {
	if input.Hours != nil {
		hours = *input.Hours
	}
	if input.Days != nil {
		days = *input.Days
	}
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	if hours == 0 && days == 0 && quantity == 0 {
		switch {
		case resource.Type == entity.ResourceTypeLabor:
			hours = 8
		case resource.Returnable:
			days = 1
		default:
			quantity = 1
		}
	}
	return hours, days, quantity
}

// Assign 指派资源到任务，已存在则更新数值
func (s *TaskResourceService) Assign(ctx context.Context, taskID string, input *TaskResourceInput) (*entity.TaskResource, error) {
	resource, err := s.resourceRepo.FindByID(ctx, input.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("资源不存在: %w", err)
	}

	hours, days, quantity := applyAssignmentDefaults(resource, input)

	existing, err := s.taskResRepo.FindByPair(ctx, taskID, input.ResourceID)
	if err == nil {
		existing.Hours = hours
		existing.Days = days
		existing.Quantity = quantity
		existing.UpdatedAt = time.Now()
		if err := s.taskResRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("更新任务指派失败: %w", err)
		}
		return existing, nil
	}
	if err != repository.ErrNotFound {
		return nil, fmt.Errorf("查询任务指派失败: %w", err)
	}

	tr := &entity.TaskResource{
		ID:         uuid.New().String()[:32],
		TaskID:     taskID,
		ResourceID: input.ResourceID,
		Hours:      hours,
		Days:       days,
		Quantity:   quantity,
	}
	if err := s.taskResRepo.Create(ctx, tr); err != nil {
		return nil, fmt.Errorf("创建任务指派失败: %w", err)
	}
	return tr, nil
}

// Unassign 取消任务对某资源的指派
func (s *TaskResourceService) Unassign(ctx context.Context, taskID, resourceID string) error {
	if err := s.taskResRepo.DeleteByPair(ctx, taskID, resourceID); err != nil {
		return fmt.Errorf("取消任务指派失败: %w", err)
	}
	return nil
}

// ListByTask 获取任务的指派清单
func (s *TaskResourceService) ListByTask(ctx context.Context, taskID string) ([]entity.TaskResource, error) {
	return s.taskResRepo.ListByTask(ctx, taskID)
}

// reconcileDiff 三方对账结果
type reconcileDiff struct {
	toAdd    []TaskResourceInput
	toUpdate []entity.TaskResource
	toRemove []entity.TaskResource
}

// diffTaskResources 现有指派与提交选择做三方对账
// 新选的进 add，两边都有且数值变化的进 update，不再选的进 remove
func diffTaskResources(current []entity.TaskResource, desired []TaskResourceInput, resources map[string]*entity.Resource) reconcileDiff {
	currentByResource := make(map[string]*entity.TaskResource, len(current))
	for i := range current {
		currentByResource[current[i].ResourceID] = &current[i]
	}

	var diff reconcileDiff
	seen := make(map[string]bool, len(desired))
	for _, d := range desired {
		seen[d.ResourceID] = true
		existing, ok := currentByResource[d.ResourceID]
		if !ok {
			diff.toAdd = append(diff.toAdd, d)
			continue
		}
		hours, days, quantity := applyAssignmentDefaults(resources[d.ResourceID], &d)
		if existing.Hours != hours || existing.Days != days || existing.Quantity != quantity {
			updated := *existing
			updated.Hours = hours
			updated.Days = days
			updated.Quantity = quantity
			diff.toUpdate = append(diff.toUpdate, updated)
		}
	}

	for i := range current {
		if !seen[current[i].ResourceID] {
			diff.toRemove = append(diff.toRemove, current[i])
		}
	}
	return diff
}

// Reconcile 任务编辑时按提交的选择对账指派
// 增/改/删在同一事务里落库，要么全成要么全不动
func (s *TaskResourceService) Reconcile(ctx context.Context, taskID string, desired []TaskResourceInput) ([]entity.TaskResource, error) {
	current, err := s.taskResRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("查询任务指派失败: %w", err)
	}

	resources := make(map[string]*entity.Resource, len(desired))
	for _, d := range desired {
		if _, ok := resources[d.ResourceID]; ok {
			continue
		}
		resource, err := s.resourceRepo.FindByID(ctx, d.ResourceID)
		if err != nil {
			return nil, fmt.Errorf("资源不存在: %w", err)
		}
		resources[d.ResourceID] = resource
	}

	diff := diffTaskResources(current, desired, resources)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, input := range diff.toAdd {
			hours, days, quantity := applyAssignmentDefaults(resources[input.ResourceID], &input)
			tr := &entity.TaskResource{
				ID:         uuid.New().String()[:32],
				TaskID:     taskID,
				ResourceID: input.ResourceID,
				Hours:      hours,
				Days:       days,
				Quantity:   quantity,
			}
			if err := tx.Create(tr).Error; err != nil {
				return err
			}
		}
		for i := range diff.toUpdate {
			if err := tx.Save(&diff.toUpdate[i]).Error; err != nil {
				return err
			}
		}
		for i := range diff.toRemove {
			if err := tx.Where("id = ?", diff.toRemove[i].ID).Delete(&entity.TaskResource{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("对账任务指派失败: %w", err)
	}

	return s.taskResRepo.ListByTask(ctx, taskID)
}
