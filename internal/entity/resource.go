package entity

import (
	"time"
)

// Resource 资源实体（材料/设备/人力）
type Resource struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	Name       string     `json:"name" gorm:"size:128;not null"`
	Type       string     `json:"type" gorm:"size:16;not null"`
	Unit       string     `json:"unit" gorm:"size:32;not null"`
	Quantity   float64    `json:"quantity" gorm:"type:decimal(12,2);not null;default:0"`
	Cost       float64    `json:"cost" gorm:"type:decimal(12,2);not null;default:0"`
	Status     string     `json:"status" gorm:"size:16;not null;default:available"`
	Returnable bool       `json:"returnable" gorm:"not null;default:false"`
	HourRate   *float64   `json:"hour_rate" gorm:"type:decimal(12,2)"`
	DayRate    *float64   `json:"day_rate" gorm:"type:decimal(12,2)"`
	CreatedBy  string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at" gorm:"index"`
}

func (Resource) TableName() string {
	return "resources"
}

// ResourceAllocation 资源分配（项目级占用）
// 同一 (resource_id, project_id) 至多一条有效记录，重复分配做数量合并
type ResourceAllocation struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	ResourceID string    `json:"resource_id" gorm:"size:32;not null;index:idx_alloc_pair"`
	ProjectID  string    `json:"project_id" gorm:"size:32;not null;index:idx_alloc_pair"`
	Quantity   float64   `json:"quantity" gorm:"type:decimal(12,2);not null"`
	Consumed   bool      `json:"consumed" gorm:"not null;default:false"`
	Hours      *float64  `json:"hours" gorm:"type:decimal(8,2)"`
	Days       *float64  `json:"days" gorm:"type:decimal(8,2)"`
	CreatedBy  string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联
	Resource *Resource `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`
	Project  *Project  `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (ResourceAllocation) TableName() string {
	return "resource_allocations"
}

// TaskResource 任务资源指派（分配的二次拆分）
type TaskResource struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	TaskID     string    `json:"task_id" gorm:"size:32;not null;index"`
	ResourceID string    `json:"resource_id" gorm:"size:32;not null;index"`
	Hours      float64   `json:"hours" gorm:"type:decimal(8,2);not null;default:0"`
	Days       float64   `json:"days" gorm:"type:decimal(8,2);not null;default:0"`
	Quantity   float64   `json:"quantity" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联
	Task     *Task     `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Resource *Resource `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`
}

func (TaskResource) TableName() string {
	return "task_resources"
}

// ResourceType 资源类型
const (
	ResourceTypeMaterial  = "material"
	ResourceTypeEquipment = "equipment"
	ResourceTypeLabor     = "labor"
)

// ResourceStatus 资源状态
const (
	ResourceStatusAvailable  = "available"
	ResourceStatusLowStock   = "low_stock"
	ResourceStatusOutOfStock = "out_of_stock"
)
