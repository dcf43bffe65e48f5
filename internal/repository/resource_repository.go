package repository

import (
	"context"

	"github.com/bitfantasy/zhugong/internal/entity"
	"gorm.io/gorm"
)

// ResourceRepository 资源仓库
type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(ctx context.Context, resource *entity.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *ResourceRepository) Update(ctx context.Context, resource *entity.Resource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*entity.Resource, error) {
	var resource entity.Resource
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&resource).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &resource, nil
}

// ResourceListParams 资源列表查询参数
type ResourceListParams struct {
	Type    string
	Status  string
	Keyword string
}

func (r *ResourceRepository) List(ctx context.Context, params ResourceListParams) ([]entity.Resource, error) {
	query := r.db.WithContext(ctx).Model(&entity.Resource{})
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Keyword != "" {
		query = query.Where("name ILIKE ?", "%"+params.Keyword+"%")
	}

	var resources []entity.Resource
	err := query.Order("created_at").Find(&resources).Error
	return resources, err
}

// UpdateStatus 更新资源状态
func (r *ResourceRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&entity.Resource{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// DeleteCascade 删除资源并级联清理分配与任务指派
// 三步写在同一事务里，避免删一半留下孤儿记录
func (r *ResourceRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource_id = ?", id).Delete(&entity.TaskResource{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_id = ?", id).Delete(&entity.ResourceAllocation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Resource{}).Error
	})
}
