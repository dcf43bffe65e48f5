package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

const reportCacheTTL = 10 * time.Minute

// ReportService 报表服务
// 六种报表都是对源表的只读聚合，生成后落库为不可变快照
type ReportService struct {
	reportRepo   *repository.ReportRepository
	projectRepo  *repository.ProjectRepository
	taskRepo     *repository.TaskRepository
	resourceRepo *repository.ResourceRepository
	allocRepo    *repository.AllocationRepository
	txRepo       *repository.TransactionRepository
	issueRepo    *repository.IssueRepository
	rdb          *redis.Client
	minioClient  *minio.Client
	bucket       string
}

// NewReportService 创建报表服务
func NewReportService(
	reportRepo *repository.ReportRepository,
	projectRepo *repository.ProjectRepository,
	taskRepo *repository.TaskRepository,
	resourceRepo *repository.ResourceRepository,
	allocRepo *repository.AllocationRepository,
	txRepo *repository.TransactionRepository,
	issueRepo *repository.IssueRepository,
	rdb *redis.Client,
	minioClient *minio.Client,
	bucket string,
) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		projectRepo:  projectRepo,
		taskRepo:     taskRepo,
		resourceRepo: resourceRepo,
		allocRepo:    allocRepo,
		txRepo:       txRepo,
		issueRepo:    issueRepo,
		rdb:          rdb,
		minioClient:  minioClient,
		bucket:       bucket,
	}
}

// GenerateReportRequest 生成报表请求
type GenerateReportRequest struct {
	Type        string     `json:"type" binding:"required"`
	Title       string     `json:"title"`
	ProjectID   *string    `json:"project_id"`
	PeriodStart *time.Time `json:"period_start"`
	PeriodEnd   *time.Time `json:"period_end"`
}

// Generate 生成并持久化一份报表快照
func (s *ReportService) Generate(ctx context.Context, userID string, req *GenerateReportRequest) (*entity.Report, error) {
	var payload entity.JSONB
	var err error

	switch req.Type {
	case entity.ReportTypeProgress:
		if req.ProjectID == nil {
			return nil, fmt.Errorf("进度报表需要指定项目")
		}
		payload, err = s.buildProgress(ctx, *req.ProjectID)
	case entity.ReportTypeBudget:
		if req.ProjectID == nil {
			return nil, fmt.Errorf("预算报表需要指定项目")
		}
		payload, err = s.buildBudget(ctx, *req.ProjectID)
	case entity.ReportTypeResource:
		payload, err = s.buildResource(ctx)
	case entity.ReportTypeSafety:
		payload, err = s.buildSafety(ctx)
	case entity.ReportTypeProductivity:
		payload, err = s.buildProductivity(ctx)
	case entity.ReportTypeSatisfaction:
		payload, err = s.buildSatisfaction(ctx)
	default:
		return nil, fmt.Errorf("无效的报表类型: %s", req.Type)
	}
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("%s report %s", req.Type, time.Now().Format("2006-01-02"))
	}

	report := &entity.Report{
		ID:          uuid.New().String()[:32],
		Title:       title,
		Type:        req.Type,
		ProjectID:   req.ProjectID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Payload:     payload,
		GeneratedBy: userID,
		GeneratedAt: time.Now(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("保存报表失败: %w", err)
	}

	s.cacheSet(ctx, report)
	return report, nil
}

// buildProgress 进度报表：任务完成度 + 剩余工期
func (s *ReportService) buildProgress(ctx context.Context, projectID string) (entity.JSONB, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("项目不存在: %w", err)
	}

	total, completed, err := s.taskRepo.CountByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("统计任务失败: %w", err)
	}

	return entity.JSONB{
		"project_name":          project.Name,
		"tasks_total":           total,
		"tasks_completed":       completed,
		"completion_percentage": CompletionPercentage(total, completed),
		"days_remaining":        DaysRemaining(project.EndDate, time.Now()),
	}, nil
}

// buildBudget 预算报表：支出按类目汇总并折算占比
func (s *ReportService) buildBudget(ctx context.Context, projectID string) (entity.JSONB, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("项目不存在: %w", err)
	}

	expenses, err := s.txRepo.ListExpensesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("查询支出流水失败: %w", err)
	}

	totalSpent := 0.0
	byCategory := make(map[string]float64)
	for _, tx := range expenses {
		totalSpent += tx.Amount
		byCategory[tx.Category] += tx.Amount
	}

	categories := make([]map[string]interface{}, 0, len(byCategory))
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		percentage := 0
		if totalSpent > 0 {
			percentage = int(math.Round(byCategory[name] / totalSpent * 100))
		}
		categories = append(categories, map[string]interface{}{
			"category":   name,
			"amount":     byCategory[name],
			"percentage": percentage,
		})
	}

	return entity.JSONB{
		"project_name": project.Name,
		"budget":       project.Budget,
		"total_spent":  totalSpent,
		"remaining":    project.Budget - totalSpent,
		"categories":   categories,
	}, nil
}

// buildResource 资源报表：逐资源的占用/可用/占用率，均值为简单算术平均
func (s *ReportService) buildResource(ctx context.Context) (entity.JSONB, error) {
	resources, err := s.resourceRepo.List(ctx, repository.ResourceListParams{})
	if err != nil {
		return nil, fmt.Errorf("查询资源失败: %w", err)
	}
	allocs, err := s.allocRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询资源分配失败: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(resources))
	rateSum := 0
	for i := range resources {
		available := Available(&resources[i], allocs)
		rate := UtilizationRate(&resources[i], allocs)
		rateSum += rate
		rows = append(rows, map[string]interface{}{
			"id":               resources[i].ID,
			"name":             resources[i].Name,
			"type":             resources[i].Type,
			"status":           resources[i].Status,
			"allocated":        resources[i].Quantity - available,
			"available":        available,
			"utilization_rate": rate,
		})
	}

	average := 0
	if len(resources) > 0 {
		average = int(math.Round(float64(rateSum) / float64(len(resources))))
	}

	return entity.JSONB{
		"resources":           rows,
		"average_utilization": average,
	}, nil
}

// buildSafety 安全报表：问题按解决状态、优先级、项目名分组计数
func (s *ReportService) buildSafety(ctx context.Context) (entity.JSONB, error) {
	issues, err := s.issueRepo.List(ctx, repository.IssueListParams{})
	if err != nil {
		return nil, fmt.Errorf("查询问题失败: %w", err)
	}

	resolved := 0
	byPriority := make(map[string]int)
	byProject := make(map[string]int)
	for _, issue := range issues {
		if issue.Status == entity.IssueStatusResolved {
			resolved++
		}
		byPriority[issue.Priority]++
		name := issue.ProjectID
		if issue.Project != nil {
			name = issue.Project.Name
		}
		byProject[name]++
	}

	return entity.JSONB{
		"total":       len(issues),
		"resolved":    resolved,
		"unresolved":  len(issues) - resolved,
		"by_priority": byPriority,
		"by_project":  byProject,
	}, nil
}

// 进度偏差容忍区间（百分点），区间内算按期
const scheduleTolerance = 5

// buildProductivity 产能报表：近30天日均完成数 + 各项目进度偏差
func (s *ReportService) buildProductivity(ctx context.Context) (entity.JSONB, error) {
	now := time.Now()
	completed, err := s.taskRepo.CountCompletedSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("统计完成任务失败: %w", err)
	}

	projects, err := s.projectRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询项目失败: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(projects))
	for _, p := range projects {
		expected, status := ScheduleStatus(&p, now)
		rows = append(rows, map[string]interface{}{
			"id":                  p.ID,
			"name":                p.Name,
			"completion":          p.Completion,
			"expected_completion": expected,
			"schedule_status":     status,
		})
	}

	return entity.JSONB{
		"tasks_completed_per_day": float64(completed) / 30.0,
		"projects":                rows,
	}, nil
}

// ScheduleStatus 用工期线性插值推算期望完成度，对比实际完成度给出进度评语
func ScheduleStatus(project *entity.Project, now time.Time) (expected int, status string) {
	if project.StartDate == nil || project.EndDate == nil || !project.EndDate.After(*project.StartDate) {
		return 0, "unscheduled"
	}

	elapsed := now.Sub(*project.StartDate).Hours()
	duration := project.EndDate.Sub(*project.StartDate).Hours()
	ratio := elapsed / duration
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	expected = int(math.Round(ratio * 100))

	switch {
	case project.Completion < expected-scheduleTolerance:
		status = "behind"
	case project.Completion > expected+scheduleTolerance:
		status = "ahead"
	default:
		status = "on_track"
	}
	return expected, status
}

// buildSatisfaction 满意度报表：用完成度折算的代理评分，非真实客户反馈
func (s *ReportService) buildSatisfaction(ctx context.Context) (entity.JSONB, error) {
	projects, err := s.projectRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询项目失败: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(projects))
	ratingSum := 0
	for _, p := range projects {
		rating := SatisfactionRating(p.Completion)
		ratingSum += rating
		rows = append(rows, map[string]interface{}{
			"id":         p.ID,
			"name":       p.Name,
			"completion": p.Completion,
			"rating":     rating,
		})
	}

	average := 0.0
	if len(projects) > 0 {
		average = float64(ratingSum) / float64(len(projects))
	}

	return entity.JSONB{
		"projects":       rows,
		"average_rating": average,
	}, nil
}

// SatisfactionRating 完成度折算评分，钳在 [1, 5]
func SatisfactionRating(completion int) int {
	rating := int(math.Round(float64(completion) / 20))
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}

// List 获取报表列表，默认不含已归档
func (s *ReportService) List(ctx context.Context, params repository.ReportListParams) ([]entity.Report, error) {
	return s.reportRepo.List(ctx, params)
}

// Get 获取报表，优先命中缓存
func (s *ReportService) Get(ctx context.Context, id string) (*entity.Report, error) {
	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, report)
	return report, nil
}

// SetArchived 归档/取消归档
func (s *ReportService) SetArchived(ctx context.Context, id string, archived bool) error {
	if _, err := s.reportRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.reportRepo.SetArchived(ctx, id, archived); err != nil {
		return fmt.Errorf("归档报表失败: %w", err)
	}
	s.cacheDel(ctx, id)
	return nil
}

// Delete 删除报表
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if _, err := s.reportRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除报表失败: %w", err)
	}
	s.cacheDel(ctx, id)
	return nil
}

func (s *ReportService) cacheKey(id string) string {
	return "report:payload:" + id
}

func (s *ReportService) cacheSet(ctx context.Context, report *entity.Report) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	s.rdb.Set(ctx, s.cacheKey(report.ID), data, reportCacheTTL)
}

func (s *ReportService) cacheGet(ctx context.Context, id string) *entity.Report {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, s.cacheKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var report entity.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	return &report
}

func (s *ReportService) cacheDel(ctx context.Context, id string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, s.cacheKey(id))
}

// Export 导出报表为xlsx
// 标量字段进Summary页，列表和分组字段各自成页
func (s *ReportService) Export(ctx context.Context, id string) (*excelize.File, string, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	summary := "Summary"
	f.SetSheetName("Sheet1", summary)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})

	f.SetCellValue(summary, "A1", "Report")
	f.SetCellValue(summary, "B1", report.Title)
	f.SetCellValue(summary, "A2", "Type")
	f.SetCellValue(summary, "B2", report.Type)
	f.SetCellValue(summary, "A3", "Generated")
	f.SetCellValue(summary, "B3", report.GeneratedAt.Format("2006-01-02 15:04"))
	f.SetCellStyle(summary, "A1", "A3", boldStyle)

	keys := make([]string, 0, len(report.Payload))
	for k := range report.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	row := 5
	for _, key := range keys {
		switch value := report.Payload[key].(type) {
		case []interface{}:
			writeTableSheet(f, boldStyle, key, value)
		case []map[string]interface{}:
			rows := make([]interface{}, 0, len(value))
			for _, v := range value {
				rows = append(rows, v)
			}
			writeTableSheet(f, boldStyle, key, rows)
		case map[string]interface{}:
			writeGroupSheet(f, boldStyle, key, value)
		case map[string]int:
			group := make(map[string]interface{}, len(value))
			for k, v := range value {
				group[k] = v
			}
			writeGroupSheet(f, boldStyle, key, group)
		default:
			f.SetCellValue(summary, fmt.Sprintf("A%d", row), key)
			f.SetCellValue(summary, fmt.Sprintf("B%d", row), fmt.Sprintf("%v", value))
			row++
		}
	}

	filename := fmt.Sprintf("%s_%s.xlsx", report.Type, report.GeneratedAt.Format("20060102"))
	return f, filename, nil
}

func writeTableSheet(f *excelize.File, boldStyle int, name string, rows []interface{}) {
	f.NewSheet(name)

	var headers []string
	for i, item := range rows {
		record, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if headers == nil {
			for k := range record {
				headers = append(headers, k)
			}
			sort.Strings(headers)
			for j, h := range headers {
				col, _ := excelize.ColumnNumberToName(j + 1)
				f.SetCellValue(name, col+"1", h)
				f.SetCellStyle(name, col+"1", col+"1", boldStyle)
			}
		}
		for j, h := range headers {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(name, fmt.Sprintf("%s%d", col, i+2), fmt.Sprintf("%v", record[h]))
		}
	}
}

func writeGroupSheet(f *excelize.File, boldStyle int, name string, group map[string]interface{}) {
	f.NewSheet(name)
	f.SetCellValue(name, "A1", "key")
	f.SetCellValue(name, "B1", "count")
	f.SetCellStyle(name, "A1", "B1", boldStyle)

	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		f.SetCellValue(name, fmt.Sprintf("A%d", i+2), k)
		f.SetCellValue(name, fmt.Sprintf("B%d", i+2), fmt.Sprintf("%v", group[k]))
	}
}

// ArchiveWorkbook 把导出的xlsx存到对象存储
func (s *ReportService) ArchiveWorkbook(ctx context.Context, id string) (string, error) {
	if s.minioClient == nil {
		return "", fmt.Errorf("对象存储未配置")
	}

	f, filename, err := s.Export(ctx, id)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("生成xlsx失败: %w", err)
	}

	objectName := "reports/" + filename
	_, err = s.minioClient.PutObject(ctx, s.bucket, objectName, bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		return "", fmt.Errorf("上传对象存储失败: %w", err)
	}
	return objectName, nil
}
