package repository

import (
	"context"

	"github.com/bitfantasy/zhugong/internal/entity"
	"gorm.io/gorm"
)

// ReportRepository 报表仓库
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Report{}).Error
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*entity.Report, error) {
	var report entity.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &report, nil
}

// ReportListParams 报表列表查询参数
type ReportListParams struct {
	Type            string
	ProjectID       string
	IncludeArchived bool
}

func (r *ReportRepository) List(ctx context.Context, params ReportListParams) ([]entity.Report, error) {
	query := r.db.WithContext(ctx).Model(&entity.Report{})
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.ProjectID != "" {
		query = query.Where("project_id = ?", params.ProjectID)
	}
	if !params.IncludeArchived {
		query = query.Where("archived = false")
	}

	var reports []entity.Report
	err := query.Order("generated_at DESC").Find(&reports).Error
	return reports, err
}

// SetArchived 归档/取消归档
func (r *ReportRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	return r.db.WithContext(ctx).Model(&entity.Report{}).
		Where("id = ?", id).
		Update("archived", archived).Error
}
