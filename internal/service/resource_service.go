package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/google/uuid"
)

// ResourceService 资源目录服务
type ResourceService struct {
	resourceRepo *repository.ResourceRepository
	allocRepo    *repository.AllocationRepository
}

// NewResourceService 创建资源目录服务
func NewResourceService(resourceRepo *repository.ResourceRepository, allocRepo *repository.AllocationRepository) *ResourceService {
	return &ResourceService{
		resourceRepo: resourceRepo,
		allocRepo:    allocRepo,
	}
}

// CreateResourceRequest 创建资源请求
type CreateResourceRequest struct {
	Name       string   `json:"name" binding:"required"`
	Type       string   `json:"type" binding:"required"`
	Unit       string   `json:"unit" binding:"required"`
	Quantity   float64  `json:"quantity" binding:"required,gt=0"`
	Cost       float64  `json:"cost" binding:"required,gt=0"`
	Status     string   `json:"status"`
	Returnable *bool    `json:"returnable"`
	HourRate   *float64 `json:"hour_rate"`
	DayRate    *float64 `json:"day_rate"`
}

// UpdateResourceRequest 更新资源请求
type UpdateResourceRequest struct {
	Name       *string  `json:"name"`
	Type       *string  `json:"type"`
	Unit       *string  `json:"unit"`
	Quantity   *float64 `json:"quantity"`
	Cost       *float64 `json:"cost"`
	Status     *string  `json:"status"`
	Returnable *bool    `json:"returnable"`
	HourRate   *float64 `json:"hour_rate"`
	DayRate    *float64 `json:"day_rate"`
}

// ResourceView 资源列表视图，带派生的可用量与占用率
type ResourceView struct {
	entity.Resource
	Allocated       float64 `json:"allocated"`
	Available       float64 `json:"available"`
	DisplayAvailable float64 `json:"display_available"`
	UtilizationRate int     `json:"utilization_rate"`
	StatusBadge     string  `json:"status_badge"`
}

func validResourceType(t string) bool {
	switch t {
	case entity.ResourceTypeMaterial, entity.ResourceTypeEquipment, entity.ResourceTypeLabor:
		return true
	}
	return false
}

// List 获取资源列表，缺货/低库存排前，附带可用量
func (s *ResourceService) List(ctx context.Context, params repository.ResourceListParams) ([]ResourceView, error) {
	resources, err := s.resourceRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("查询资源列表失败: %w", err)
	}

	allocs, err := s.allocRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询资源分配失败: %w", err)
	}

	sorted := SortByStatus(resources)
	views := make([]ResourceView, 0, len(sorted))
	for i := range sorted {
		views = append(views, s.buildView(&sorted[i], allocs))
	}
	return views, nil
}

// Get 获取资源详情
func (s *ResourceService) Get(ctx context.Context, id string) (*ResourceView, error) {
	resource, err := s.resourceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allocs, err := s.allocRepo.ListByResource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询资源分配失败: %w", err)
	}
	view := s.buildView(resource, allocs)
	return &view, nil
}

func (s *ResourceService) buildView(resource *entity.Resource, allocs []entity.ResourceAllocation) ResourceView {
	available := Available(resource, allocs)
	return ResourceView{
		Resource:         *resource,
		Allocated:        resource.Quantity - available,
		Available:        available,
		DisplayAvailable: ClampDisplay(available),
		UtilizationRate:  UtilizationRate(resource, allocs),
		StatusBadge:      StatusBadge(resource.Status),
	}
}

// Create 创建资源
// 设备类未指定 returnable 时默认可归还
func (s *ResourceService) Create(ctx context.Context, userID string, req *CreateResourceRequest) (*entity.Resource, error) {
	if req.Name == "" || req.Unit == "" {
		return nil, fmt.Errorf("资源名称和计量单位不能为空")
	}
	if !validResourceType(req.Type) {
		return nil, fmt.Errorf("无效的资源类型: %s", req.Type)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("库存量必须大于0")
	}
	if req.Cost <= 0 {
		return nil, fmt.Errorf("单价必须大于0")
	}

	returnable := false
	if req.Returnable != nil {
		returnable = *req.Returnable
	} else if req.Type == entity.ResourceTypeEquipment {
		returnable = true
	}

	status := req.Status
	if status == "" {
		status = entity.ResourceStatusAvailable
	}

	resource := &entity.Resource{
		ID:         uuid.New().String()[:32],
		Name:       req.Name,
		Type:       req.Type,
		Unit:       req.Unit,
		Quantity:   req.Quantity,
		Cost:       req.Cost,
		Status:     status,
		Returnable: returnable,
		HourRate:   req.HourRate,
		DayRate:    req.DayRate,
		CreatedBy:  userID,
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("创建资源失败: %w", err)
	}

	return resource, nil
}

// Update 更新资源
func (s *ResourceService) Update(ctx context.Context, id string, req *UpdateResourceRequest) (*entity.Resource, error) {
	resource, err := s.resourceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("资源名称不能为空")
		}
		resource.Name = *req.Name
	}
	if req.Type != nil {
		if !validResourceType(*req.Type) {
			return nil, fmt.Errorf("无效的资源类型: %s", *req.Type)
		}
		resource.Type = *req.Type
	}
	if req.Unit != nil {
		resource.Unit = *req.Unit
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("库存量不能为负数")
		}
		resource.Quantity = *req.Quantity
	}
	if req.Cost != nil {
		resource.Cost = *req.Cost
	}
	if req.Status != nil {
		resource.Status = *req.Status
	}
	if req.Returnable != nil {
		resource.Returnable = *req.Returnable
	}
	if req.HourRate != nil {
		resource.HourRate = req.HourRate
	}
	if req.DayRate != nil {
		resource.DayRate = req.DayRate
	}
	resource.UpdatedAt = time.Now()

	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		return nil, fmt.Errorf("更新资源失败: %w", err)
	}

	// 库存量变化后刷新状态
	if req.Quantity != nil && req.Status == nil {
		if err := s.RecalcStatus(ctx, resource.ID); err != nil {
			return nil, err
		}
		return s.resourceRepo.FindByID(ctx, resource.ID)
	}

	return resource, nil
}

// Delete 删除资源并级联清理分配与任务指派
func (s *ResourceService) Delete(ctx context.Context, id string) error {
	if _, err := s.resourceRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.resourceRepo.DeleteCascade(ctx, id); err != nil {
		return fmt.Errorf("删除资源失败: %w", err)
	}
	return nil
}

// RecalcStatus 按当前占用量重算并落库资源状态
// 分配每次变动后调用，避免状态与实际库存脱节
func (s *ResourceService) RecalcStatus(ctx context.Context, resourceID string) error {
	resource, err := s.resourceRepo.FindByID(ctx, resourceID)
	if err != nil {
		return err
	}

	allocated, err := s.allocRepo.SumByResource(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("统计资源占用失败: %w", err)
	}

	status := DeriveStatus(resource, resource.Quantity-allocated)
	if status == resource.Status {
		return nil
	}
	if err := s.resourceRepo.UpdateStatus(ctx, resourceID, status); err != nil {
		return fmt.Errorf("更新资源状态失败: %w", err)
	}
	return nil
}
