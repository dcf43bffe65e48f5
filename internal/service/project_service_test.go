package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/bitfantasy/zhugong/internal/testutil"
)

func timeDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestTaskStatusRollsUpCompletion(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	project := testutil.SeedProject(t, db, "办公楼", 200000)

	var tasks []*entity.Task
	for i := 0; i < 4; i++ {
		tasks = append(tasks, testutil.SeedTask(t, db, project.ID, "工序", entity.TaskStatusPending))
	}

	// 完成1/4
	task, err := services.Project.UpdateTaskStatus(ctx, tasks[0].ID, entity.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("更新任务状态失败: %v", err)
	}
	if task.CompletedAt == nil {
		t.Error("完成任务应记录完成时间")
	}

	got, _ := services.Project.Get(ctx, project.ID)
	if got.Completion != 25 {
		t.Errorf("Completion = %d, want 25", got.Completion)
	}

	// 撤回完成状态，完成度回落
	task, err = services.Project.UpdateTaskStatus(ctx, tasks[0].ID, entity.TaskStatusInProgress)
	if err != nil {
		t.Fatalf("更新任务状态失败: %v", err)
	}
	if task.CompletedAt != nil {
		t.Error("撤回后应清除完成时间")
	}

	got, _ = services.Project.Get(ctx, project.ID)
	if got.Completion != 0 {
		t.Errorf("撤回后Completion = %d, want 0", got.Completion)
	}
}

func TestUpdateTaskStatusRejectsInvalid(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	project := testutil.SeedProject(t, db, "厂房", 80000)
	task := testutil.SeedTask(t, db, project.ID, "打桩", entity.TaskStatusPending)

	if _, err := services.Project.UpdateTaskStatus(ctx, task.ID, "done"); err == nil {
		t.Error("非法状态应报错")
	}
}

func TestCreateProjectValidatesDates(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	start := timeDate(2026, 6, 10)
	end := timeDate(2026, 6, 1)
	_, err := services.Project.Create(ctx, "u1", &service.CreateProjectRequest{
		Name:      "倒置工期",
		StartDate: &start,
		EndDate:   &end,
	})
	if err == nil {
		t.Error("结束早于开始应报错")
	}
}

func TestDeleteTaskRefreshesCompletion(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	project := testutil.SeedProject(t, db, "车库", 30000)
	done := testutil.SeedTask(t, db, project.ID, "完成项", entity.TaskStatusCompleted)
	testutil.SeedTask(t, db, project.ID, "未完成项", entity.TaskStatusPending)

	// 先触发一次回写：1/2 = 50
	if _, err := services.Project.UpdateTaskStatus(ctx, done.ID, entity.TaskStatusCompleted); err != nil {
		t.Fatalf("更新任务状态失败: %v", err)
	}
	got, _ := services.Project.Get(ctx, project.ID)
	if got.Completion != 50 {
		t.Fatalf("Completion = %d, want 50", got.Completion)
	}

	// 删除已完成任务后 0/1 = 0
	if err := services.Project.DeleteTask(ctx, done.ID); err != nil {
		t.Fatalf("删除任务失败: %v", err)
	}
	got, _ = services.Project.Get(ctx, project.ID)
	if got.Completion != 0 {
		t.Errorf("删除后Completion = %d, want 0", got.Completion)
	}
}
