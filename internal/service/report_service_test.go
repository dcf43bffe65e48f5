package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/repository"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/bitfantasy/zhugong/internal/testutil"
	"github.com/google/uuid"
)

func createExpense(t *testing.T, services *service.Services, projectID, category string, amount float64) {
	t.Helper()
	_, err := services.Finance.Create(context.Background(), "u1", &service.CreateTransactionRequest{
		Type:      entity.TransactionTypeExpense,
		Amount:    amount,
		Date:      time.Now(),
		Category:  category,
		ProjectID: &projectID,
	})
	if err != nil {
		t.Fatalf("造支出失败: %v", err)
	}
}

func TestGenerateBudgetReport(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	project := testutil.SeedProject(t, db, "商业综合体", 1000)
	createExpense(t, services, project.ID, "材料", 100)
	createExpense(t, services, project.ID, "人工", 300)

	report, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type:      entity.ReportTypeBudget,
		ProjectID: &project.ID,
	})
	if err != nil {
		t.Fatalf("生成预算报表失败: %v", err)
	}

	if got := report.Payload["total_spent"].(float64); got != 400 {
		t.Errorf("total_spent = %v, want 400", got)
	}
	if got := report.Payload["remaining"].(float64); got != 600 {
		t.Errorf("remaining = %v, want 600", got)
	}

	categories := report.Payload["categories"].([]map[string]interface{})
	if len(categories) != 2 {
		t.Fatalf("类目数 = %d, want 2", len(categories))
	}
	// 字母序：人工在材料前
	wantPct := map[string]int{"材料": 25, "人工": 75}
	for _, cat := range categories {
		name := cat["category"].(string)
		if got := cat["percentage"].(int); got != wantPct[name] {
			t.Errorf("类目%s占比 = %v, want %v", name, got, wantPct[name])
		}
	}
}

func TestGenerateProgressReport(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	end := time.Now().AddDate(0, 0, 30)
	project := testutil.SeedProject(t, db, "住宅小区", 500000)
	project.EndDate = &end
	if err := db.Save(project).Error; err != nil {
		t.Fatalf("更新项目失败: %v", err)
	}

	for i := 0; i < 7; i++ {
		testutil.SeedTask(t, db, project.ID, "任务", entity.TaskStatusPending)
	}
	for i := 0; i < 3; i++ {
		testutil.SeedTask(t, db, project.ID, "任务", entity.TaskStatusCompleted)
	}

	report, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type:      entity.ReportTypeProgress,
		ProjectID: &project.ID,
	})
	if err != nil {
		t.Fatalf("生成进度报表失败: %v", err)
	}

	if got := report.Payload["tasks_total"].(int64); got != 10 {
		t.Errorf("tasks_total = %v, want 10", got)
	}
	if got := report.Payload["tasks_completed"].(int64); got != 3 {
		t.Errorf("tasks_completed = %v, want 3", got)
	}
	if got := report.Payload["completion_percentage"].(int); got != 30 {
		t.Errorf("completion_percentage = %v, want 30", got)
	}
}

func TestGenerateProgressReportNoTasks(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	project := testutil.SeedProject(t, db, "空项目", 0)

	report, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type:      entity.ReportTypeProgress,
		ProjectID: &project.ID,
	})
	if err != nil {
		t.Fatalf("生成进度报表失败: %v", err)
	}
	if got := report.Payload["completion_percentage"].(int); got != 0 {
		t.Errorf("零任务完成度 = %v, want 0", got)
	}
}

func TestGenerateResourceReport(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	resA := testutil.SeedResource(t, db, "资源A", entity.ResourceTypeMaterial, 100, 10, false)
	testutil.SeedResource(t, db, "资源B", entity.ResourceTypeMaterial, 100, 10, false)
	project := testutil.SeedProject(t, db, "仓储项目", 100000)

	if _, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: resA.ID, ProjectID: project.ID, Quantity: 50,
	}); err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	report, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type: entity.ReportTypeResource,
	})
	if err != nil {
		t.Fatalf("生成资源报表失败: %v", err)
	}

	// (50% + 0%) / 2 = 25
	if got := report.Payload["average_utilization"].(int); got != 25 {
		t.Errorf("average_utilization = %v, want 25", got)
	}
	rows := report.Payload["resources"].([]map[string]interface{})
	if len(rows) != 2 {
		t.Fatalf("资源行数 = %d, want 2", len(rows))
	}
}

func TestGenerateSafetyReport(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	project := testutil.SeedProject(t, db, "安监项目", 100000)

	mkIssue := func(status, priority string) {
		issue := &entity.Issue{
			ID:         uuid.New().String()[:32],
			ProjectID:  project.ID,
			Title:      "问题",
			Status:     status,
			Priority:   priority,
			ReportedBy: "u1",
		}
		if err := db.Create(issue).Error; err != nil {
			t.Fatalf("造问题失败: %v", err)
		}
	}
	mkIssue(entity.IssueStatusOpen, entity.IssuePriorityHigh)
	mkIssue(entity.IssueStatusResolved, entity.IssuePriorityHigh)
	mkIssue(entity.IssueStatusResolved, entity.IssuePriorityLow)

	report, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type: entity.ReportTypeSafety,
	})
	if err != nil {
		t.Fatalf("生成安全报表失败: %v", err)
	}

	if got := report.Payload["total"].(int); got != 3 {
		t.Errorf("total = %v, want 3", got)
	}
	if got := report.Payload["resolved"].(int); got != 2 {
		t.Errorf("resolved = %v, want 2", got)
	}
	if got := report.Payload["unresolved"].(int); got != 1 {
		t.Errorf("unresolved = %v, want 1", got)
	}
	byPriority := report.Payload["by_priority"].(map[string]int)
	if byPriority[entity.IssuePriorityHigh] != 2 {
		t.Errorf("high优先级计数 = %d, want 2", byPriority[entity.IssuePriorityHigh])
	}
}

func TestGenerateSatisfactionReport(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	p1 := testutil.SeedProject(t, db, "完成项目", 100000)
	p1.Completion = 100
	if err := db.Save(p1).Error; err != nil {
		t.Fatal(err)
	}
	p2 := testutil.SeedProject(t, db, "起步项目", 100000)
	// Completion默认0，评分钳到1

	report, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type: entity.ReportTypeSatisfaction,
	})
	if err != nil {
		t.Fatalf("生成满意度报表失败: %v", err)
	}

	rows := report.Payload["projects"].([]map[string]interface{})
	ratings := make(map[string]int)
	for _, row := range rows {
		ratings[row["id"].(string)] = row["rating"].(int)
	}
	if ratings[p1.ID] != 5 {
		t.Errorf("完成项目评分 = %d, want 5", ratings[p1.ID])
	}
	if ratings[p2.ID] != 1 {
		t.Errorf("起步项目评分 = %d, want 1", ratings[p2.ID])
	}
	if got := report.Payload["average_rating"].(float64); got != 3 {
		t.Errorf("average_rating = %v, want 3", got)
	}
}

func TestGenerateRequiresProjectForScoped(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	if _, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type: entity.ReportTypeProgress,
	}); err == nil {
		t.Error("进度报表缺项目应报错")
	}
	if _, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type: "unknown",
	}); err == nil {
		t.Error("未知报表类型应报错")
	}
}

func TestReportArchiveAndDelete(t *testing.T) {
	db := testutil.SetupDB(t)
	repos, services := testutil.SetupServices(db)
	ctx := context.Background()

	report, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type: entity.ReportTypeSafety,
	})
	if err != nil {
		t.Fatalf("生成报表失败: %v", err)
	}

	if err := services.Report.SetArchived(ctx, report.ID, true); err != nil {
		t.Fatalf("归档失败: %v", err)
	}

	// 默认列表不含已归档
	reports, err := services.Report.List(ctx, repository.ReportListParams{})
	if err != nil {
		t.Fatalf("查询列表失败: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("归档后默认列表应为空, got %d", len(reports))
	}

	if err := services.Report.Delete(ctx, report.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := repos.Report.FindByID(ctx, report.ID); err == nil {
		t.Error("删除后仍能查到报表")
	}
}

func TestReportExport(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	project := testutil.SeedProject(t, db, "导出项目", 1000)
	createExpense(t, services, project.ID, "材料", 400)

	report, err := services.Report.Generate(ctx, "u1", &service.GenerateReportRequest{
		Type:      entity.ReportTypeBudget,
		ProjectID: &project.ID,
	})
	if err != nil {
		t.Fatalf("生成报表失败: %v", err)
	}

	f, filename, err := services.Report.Export(ctx, report.ID)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	defer f.Close()

	if filename == "" {
		t.Error("文件名不应为空")
	}
	value, err := f.GetCellValue("Summary", "B2")
	if err != nil {
		t.Fatalf("读取单元格失败: %v", err)
	}
	if value != entity.ReportTypeBudget {
		t.Errorf("Summary!B2 = %s, want budget", value)
	}
}
