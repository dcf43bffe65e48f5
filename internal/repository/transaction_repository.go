package repository

import (
	"context"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"gorm.io/gorm"
)

// TransactionRepository 财务流水仓库
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *TransactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Transaction{}).Error
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var tx entity.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &tx, nil
}

// TransactionListParams 流水列表查询参数
type TransactionListParams struct {
	Type      string
	Category  string
	ProjectID string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

func (r *TransactionRepository) List(ctx context.Context, params TransactionListParams) ([]entity.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Transaction{})
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.ProjectID != "" {
		query = query.Where("project_id = ?", params.ProjectID)
	}
	if params.From != nil {
		query = query.Where("date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("date <= ?", *params.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 20
	}

	var txs []entity.Transaction
	err := query.Order("date DESC").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&txs).Error
	return txs, total, err
}

// ListExpensesByProject 获取项目的全部支出流水
func (r *TransactionRepository) ListExpensesByProject(ctx context.Context, projectID string) ([]entity.Transaction, error) {
	var txs []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND type = ?", projectID, entity.TransactionTypeExpense).
		Order("date").
		Find(&txs).Error
	return txs, err
}
