package repository

import (
	"context"

	"github.com/bitfantasy/zhugong/internal/entity"
	"gorm.io/gorm"
)

// AllocationRepository 资源分配仓库
type AllocationRepository struct {
	db *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func (r *AllocationRepository) Create(ctx context.Context, alloc *entity.ResourceAllocation) error {
	return r.db.WithContext(ctx).Create(alloc).Error
}

func (r *AllocationRepository) Update(ctx context.Context, alloc *entity.ResourceAllocation) error {
	return r.db.WithContext(ctx).Save(alloc).Error
}

func (r *AllocationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ResourceAllocation{}).Error
}

func (r *AllocationRepository) FindByID(ctx context.Context, id string) (*entity.ResourceAllocation, error) {
	var alloc entity.ResourceAllocation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&alloc).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &alloc, nil
}

// FindByPair 查找 (resource, project) 对应的分配记录，不存在时返回 ErrNotFound
func (r *AllocationRepository) FindByPair(ctx context.Context, resourceID, projectID string) (*entity.ResourceAllocation, error) {
	var alloc entity.ResourceAllocation
	err := r.db.WithContext(ctx).
		Where("resource_id = ? AND project_id = ?", resourceID, projectID).
		First(&alloc).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &alloc, nil
}

func (r *AllocationRepository) ListByResource(ctx context.Context, resourceID string) ([]entity.ResourceAllocation, error) {
	var allocs []entity.ResourceAllocation
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at").
		Find(&allocs).Error
	return allocs, err
}

func (r *AllocationRepository) ListByProject(ctx context.Context, projectID string) ([]entity.ResourceAllocation, error) {
	var allocs []entity.ResourceAllocation
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&allocs).Error
	return allocs, err
}

func (r *AllocationRepository) ListAll(ctx context.Context) ([]entity.ResourceAllocation, error) {
	var allocs []entity.ResourceAllocation
	err := r.db.WithContext(ctx).Order("created_at").Find(&allocs).Error
	return allocs, err
}

// DeleteByResourceAndProject 删除项目对某资源的全部占用（归还）
func (r *AllocationRepository) DeleteByResourceAndProject(ctx context.Context, resourceID, projectID string) error {
	return r.db.WithContext(ctx).
		Where("resource_id = ? AND project_id = ?", resourceID, projectID).
		Delete(&entity.ResourceAllocation{}).Error
}

// SumByResource 统计某资源未释放的占用总量
func (r *AllocationRepository) SumByResource(ctx context.Context, resourceID string) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(quantity), 0) as total
		FROM resource_allocations
		WHERE resource_id = ?
	`, resourceID).Scan(&result).Error
	return result.Total, err
}

// DB 返回底层db用于事务
func (r *AllocationRepository) DB() *gorm.DB {
	return r.db
}
