package entity

import (
	"time"
)

// Issue 现场问题/安全隐患
type Issue struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	ProjectID   string     `json:"project_id" gorm:"size:32;not null;index"`
	Title       string     `json:"title" gorm:"size:256;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"size:16;not null;default:open"`
	Priority    string     `json:"priority" gorm:"size:16;not null;default:medium"`
	ReportedBy  string     `json:"reported_by" gorm:"size:32;not null"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Issue) TableName() string {
	return "issues"
}

// IssueStatus 问题状态
const (
	IssueStatusOpen       = "open"
	IssueStatusInProgress = "in_progress"
	IssueStatusResolved   = "resolved"
	IssueStatusClosed     = "closed"
)

// IssuePriority 问题优先级
const (
	IssuePriorityLow      = "low"
	IssuePriorityMedium   = "medium"
	IssuePriorityHigh     = "high"
	IssuePriorityCritical = "critical"
)
