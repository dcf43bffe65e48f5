package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/google/uuid"
)

// FinanceService 财务流水服务
type FinanceService struct {
	txRepo *repository.TransactionRepository
}

// NewFinanceService 创建财务服务
func NewFinanceService(txRepo *repository.TransactionRepository) *FinanceService {
	return &FinanceService{txRepo: txRepo}
}

// CreateTransactionRequest 创建流水请求
type CreateTransactionRequest struct {
	Type        string    `json:"type" binding:"required"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Date        time.Time `json:"date" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	ProjectID   *string   `json:"project_id"`
	Description string    `json:"description"`
}

// UpdateTransactionRequest 更新流水请求
type UpdateTransactionRequest struct {
	Type        *string    `json:"type"`
	Amount      *float64   `json:"amount"`
	Date        *time.Time `json:"date"`
	Category    *string    `json:"category"`
	ProjectID   *string    `json:"project_id"`
	Description *string    `json:"description"`
}

func validTransactionType(t string) bool {
	return t == entity.TransactionTypeIncome || t == entity.TransactionTypeExpense
}

// List 获取流水列表
func (s *FinanceService) List(ctx context.Context, params repository.TransactionListParams) ([]entity.Transaction, int64, error) {
	return s.txRepo.List(ctx, params)
}

// Get 获取流水详情
func (s *FinanceService) Get(ctx context.Context, id string) (*entity.Transaction, error) {
	return s.txRepo.FindByID(ctx, id)
}

// Create 创建流水，金额恒为正，方向由type表达
func (s *FinanceService) Create(ctx context.Context, userID string, req *CreateTransactionRequest) (*entity.Transaction, error) {
	if !validTransactionType(req.Type) {
		return nil, fmt.Errorf("无效的流水类型: %s", req.Type)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("金额必须大于0")
	}

	tx := &entity.Transaction{
		ID:          uuid.New().String()[:32],
		Type:        req.Type,
		Amount:      req.Amount,
		Date:        req.Date,
		Category:    req.Category,
		ProjectID:   req.ProjectID,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("创建流水失败: %w", err)
	}
	return tx, nil
}

// Update 更新流水
func (s *FinanceService) Update(ctx context.Context, id string, req *UpdateTransactionRequest) (*entity.Transaction, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		if !validTransactionType(*req.Type) {
			return nil, fmt.Errorf("无效的流水类型: %s", *req.Type)
		}
		tx.Type = *req.Type
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("金额必须大于0")
		}
		tx.Amount = *req.Amount
	}
	if req.Date != nil {
		tx.Date = *req.Date
	}
	if req.Category != nil {
		tx.Category = *req.Category
	}
	if req.ProjectID != nil {
		tx.ProjectID = req.ProjectID
	}
	if req.Description != nil {
		tx.Description = *req.Description
	}
	tx.UpdatedAt = time.Now()

	if err := s.txRepo.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("更新流水失败: %w", err)
	}
	return tx, nil
}

// Delete 删除流水
func (s *FinanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.txRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.txRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除流水失败: %w", err)
	}
	return nil
}
