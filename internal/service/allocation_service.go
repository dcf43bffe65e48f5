package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/google/uuid"
)

// AllocationService 资源分配台账服务
//
// 分配不做可用量前置校验：允许先占坑后对账，超额只会体现在派生状态上。
// 读改写合并不是原子操作，并发分配同一资源时以后写为准。
type AllocationService struct {
	allocRepo    *repository.AllocationRepository
	resourceRepo *repository.ResourceRepository
	resourceSvc  *ResourceService
}

// NewAllocationService 创建资源分配服务
func NewAllocationService(allocRepo *repository.AllocationRepository, resourceRepo *repository.ResourceRepository, resourceSvc *ResourceService) *AllocationService {
	return &AllocationService{
		allocRepo:    allocRepo,
		resourceRepo: resourceRepo,
		resourceSvc:  resourceSvc,
	}
}

// AllocateRequest 分配请求
type AllocateRequest struct {
	ResourceID string   `json:"resource_id" binding:"required"`
	ProjectID  string   `json:"project_id" binding:"required"`
	Quantity   float64  `json:"quantity" binding:"required,gt=0"`
	Hours      *float64 `json:"hours"`
	Days       *float64 `json:"days"`
}

// AllocationView 分配视图，两步查询后拼装的DTO
type AllocationView struct {
	entity.ResourceAllocation
	ResourceName string  `json:"resource_name"`
	ResourceType string  `json:"resource_type"`
	Unit         string  `json:"unit"`
	Cost         float64 `json:"cost"`
}

// Allocate 为项目占用资源
// 同一 (resource, project) 已有记录时做数量合并，绝不产生重复行
func (s *AllocationService) Allocate(ctx context.Context, userID string, req *AllocateRequest) (*entity.ResourceAllocation, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("分配数量必须大于0")
	}

	resource, err := s.resourceRepo.FindByID(ctx, req.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("资源不存在: %w", err)
	}
	if (req.Hours != nil || req.Days != nil) && !resource.Returnable {
		return nil, fmt.Errorf("不可归还资源不支持按时长分配")
	}
	if req.Hours != nil && req.Days != nil {
		return nil, fmt.Errorf("小时和天数只能二选一")
	}

	existing, err := s.allocRepo.FindByPair(ctx, req.ResourceID, req.ProjectID)
	if err == nil {
		existing.Quantity += req.Quantity
		if req.Hours != nil {
			existing.Hours = req.Hours
		}
		if req.Days != nil {
			existing.Days = req.Days
		}
		existing.UpdatedAt = time.Now()
		if err := s.allocRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("合并分配失败: %w", err)
		}
		if err := s.resourceSvc.RecalcStatus(ctx, req.ResourceID); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if err != repository.ErrNotFound {
		return nil, fmt.Errorf("查询分配记录失败: %w", err)
	}

	alloc := &entity.ResourceAllocation{
		ID:         uuid.New().String()[:32],
		ResourceID: req.ResourceID,
		ProjectID:  req.ProjectID,
		Quantity:   req.Quantity,
		Hours:      req.Hours,
		Days:       req.Days,
		CreatedBy:  userID,
	}
	if err := s.allocRepo.Create(ctx, alloc); err != nil {
		return nil, fmt.Errorf("创建分配失败: %w", err)
	}
	if err := s.resourceSvc.RecalcStatus(ctx, req.ResourceID); err != nil {
		return nil, err
	}
	return alloc, nil
}

// MarkConsumed 标记分配已消耗
// 只翻转标记，不回写资源库存量
func (s *AllocationService) MarkConsumed(ctx context.Context, id string) (*entity.ResourceAllocation, error) {
	alloc, err := s.allocRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alloc.Consumed {
		return alloc, nil
	}
	alloc.Consumed = true
	alloc.UpdatedAt = time.Now()
	if err := s.allocRepo.Update(ctx, alloc); err != nil {
		return nil, fmt.Errorf("标记消耗失败: %w", err)
	}
	return alloc, nil
}

// Reset 撤销一条分配，占用完全释放，等同于从未分配过
func (s *AllocationService) Reset(ctx context.Context, id string) error {
	alloc, err := s.allocRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.allocRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("撤销分配失败: %w", err)
	}
	return s.resourceSvc.RecalcStatus(ctx, alloc.ResourceID)
}

// Return 归还项目对某资源的占用
// 仅可归还资源可用；按 (resource, project) 释放，不影响其他项目的占用
func (s *AllocationService) Return(ctx context.Context, resourceID, projectID string) error {
	resource, err := s.resourceRepo.FindByID(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("资源不存在: %w", err)
	}
	if !resource.Returnable {
		return fmt.Errorf("消耗型资源不支持归还")
	}
	if err := s.allocRepo.DeleteByResourceAndProject(ctx, resourceID, projectID); err != nil {
		return fmt.Errorf("归还资源失败: %w", err)
	}
	return s.resourceSvc.RecalcStatus(ctx, resourceID)
}

// Remove 删除单条分配
func (s *AllocationService) Remove(ctx context.Context, id string) error {
	return s.Reset(ctx, id)
}

// ListByProject 获取项目的分配清单
// 先查分配再按资源ID批量取资源信息，显式两步查询后映射
func (s *AllocationService) ListByProject(ctx context.Context, projectID string) ([]AllocationView, error) {
	allocs, err := s.allocRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("查询项目分配失败: %w", err)
	}

	views := make([]AllocationView, 0, len(allocs))
	resources := make(map[string]*entity.Resource)
	for i := range allocs {
		resource, ok := resources[allocs[i].ResourceID]
		if !ok {
			resource, err = s.resourceRepo.FindByID(ctx, allocs[i].ResourceID)
			if err != nil {
				return nil, fmt.Errorf("查询资源失败: %w", err)
			}
			resources[allocs[i].ResourceID] = resource
		}
		views = append(views, AllocationView{
			ResourceAllocation: allocs[i],
			ResourceName:       resource.Name,
			ResourceType:       resource.Type,
			Unit:               resource.Unit,
			Cost:               AllocationCost(&allocs[i], resource),
		})
	}
	return views, nil
}

// ListByResource 获取某资源的全部分配
func (s *AllocationService) ListByResource(ctx context.Context, resourceID string) ([]entity.ResourceAllocation, error) {
	return s.allocRepo.ListByResource(ctx, resourceID)
}
