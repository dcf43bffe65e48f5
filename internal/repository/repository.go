package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	User         *UserRepository
	Project      *ProjectRepository
	Task         *TaskRepository
	Resource     *ResourceRepository
	Allocation   *AllocationRepository
	TaskResource *TaskResourceRepository
	Transaction  *TransactionRepository
	Issue        *IssueRepository
	Report       *ReportRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Project:      NewProjectRepository(db),
		Task:         NewTaskRepository(db),
		Resource:     NewResourceRepository(db),
		Allocation:   NewAllocationRepository(db),
		TaskResource: NewTaskResourceRepository(db),
		Transaction:  NewTransactionRepository(db),
		Issue:        NewIssueRepository(db),
		Report:       NewReportRepository(db),
	}
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
