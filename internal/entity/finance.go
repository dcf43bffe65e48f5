package entity

import (
	"time"
)

// Transaction 财务流水
// 金额恒为正数，方向由 type 表达，展示侧需要负号自行取反
type Transaction struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	Type        string     `json:"type" gorm:"size:16;not null"`
	Amount      float64    `json:"amount" gorm:"type:decimal(14,2);not null"`
	Date        time.Time  `json:"date" gorm:"type:date;not null"`
	Category    string     `json:"category" gorm:"size:64;not null"`
	ProjectID   *string    `json:"project_id" gorm:"size:32;index"`
	Description string     `json:"description" gorm:"type:text"`
	CreatedBy   string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`

	// 关联
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Transaction) TableName() string {
	return "financial_transactions"
}

// TransactionType 流水类型
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)
