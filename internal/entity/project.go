package entity

import (
	"time"
)

// Project 工程项目实体
type Project struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	Name        string     `json:"name" gorm:"size:128;not null"`
	Client      string     `json:"client" gorm:"size:128"`
	Location    string     `json:"location" gorm:"size:256"`
	Status      string     `json:"status" gorm:"size:16;not null;default:planning"`
	Description string     `json:"description" gorm:"type:text"`
	Budget      float64    `json:"budget" gorm:"type:decimal(14,2);not null;default:0"`
	Completion  int        `json:"completion" gorm:"not null;default:0"`
	ManagerID   *string    `json:"manager_id" gorm:"size:32"`
	StartDate   *time.Time `json:"start_date" gorm:"type:date"`
	EndDate     *time.Time `json:"end_date" gorm:"type:date"`
	CreatedBy   string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`

	// 关联
	Manager *User  `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
	Tasks   []Task `json:"tasks,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// Task 任务实体
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	ProjectID   string     `json:"project_id" gorm:"size:32;not null;index"`
	Name        string     `json:"name" gorm:"size:256;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"size:16;not null;default:pending"`
	Priority    string     `json:"priority" gorm:"size:16;not null;default:medium"`
	AssigneeID  *string    `json:"assignee_id" gorm:"size:32"`
	StartDate   *time.Time `json:"start_date" gorm:"type:date"`
	DueDate     *time.Time `json:"due_date" gorm:"type:date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedBy   string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	Project  *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Assignee *User    `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
}

func (Task) TableName() string {
	return "tasks"
}

// ProjectStatus 项目状态
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)

// TaskStatus 任务状态
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// TaskPriority 任务优先级
const (
	TaskPriorityLow      = "low"
	TaskPriorityMedium   = "medium"
	TaskPriorityHigh     = "high"
	TaskPriorityCritical = "critical"
)
