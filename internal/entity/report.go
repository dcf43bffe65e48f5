package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONB jsonb字段类型
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// Report 报表快照
// 生成后不可变，payload 为各报表类型的聚合结果
type Report struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	Title       string     `json:"title" gorm:"size:256;not null"`
	Type        string     `json:"type" gorm:"size:32;not null;index"`
	ProjectID   *string    `json:"project_id" gorm:"size:32;index"`
	PeriodStart *time.Time `json:"period_start" gorm:"type:date"`
	PeriodEnd   *time.Time `json:"period_end" gorm:"type:date"`
	Payload     JSONB      `json:"payload" gorm:"type:jsonb;not null;default:'{}'"`
	Archived    bool       `json:"archived" gorm:"not null;default:false"`
	GeneratedBy string     `json:"generated_by" gorm:"size:32;not null"`
	GeneratedAt time.Time  `json:"generated_at" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Report) TableName() string {
	return "reports"
}

// ReportType 报表类型
const (
	ReportTypeProgress     = "progress"
	ReportTypeBudget       = "budget"
	ReportTypeResource     = "resource"
	ReportTypeSafety       = "safety"
	ReportTypeProductivity = "productivity"
	ReportTypeSatisfaction = "satisfaction"
)
