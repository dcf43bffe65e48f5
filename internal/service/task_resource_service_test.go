package service_test

import (
	"context"
	"testing"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/bitfantasy/zhugong/internal/testutil"
)

func TestAssignAppliesDefaults(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	worker := testutil.SeedResource(t, db, "木工", entity.ResourceTypeLabor, 5, 200, true)
	project := testutil.SeedProject(t, db, "样板房", 50000)
	task := testutil.SeedTask(t, db, project.ID, "吊顶", entity.TaskStatusPending)

	tr, err := services.TaskResource.Assign(ctx, task.ID, &service.TaskResourceInput{
		ResourceID: worker.ID,
	})
	if err != nil {
		t.Fatalf("指派失败: %v", err)
	}
	if tr.Hours != 8 {
		t.Errorf("人力默认工时 = %v, want 8", tr.Hours)
	}
}

func TestAssignUpsertsByPair(t *testing.T) {
	db := testutil.SetupDB(t)
	repos, services := testutil.SetupServices(db)
	ctx := context.Background()

	material := testutil.SeedResource(t, db, "乳胶漆", entity.ResourceTypeMaterial, 50, 80, false)
	project := testutil.SeedProject(t, db, "样板房", 50000)
	task := testutil.SeedTask(t, db, project.ID, "墙面", entity.TaskStatusPending)

	if _, err := services.TaskResource.Assign(ctx, task.ID, &service.TaskResourceInput{
		ResourceID: material.ID, Quantity: ptr(3),
	}); err != nil {
		t.Fatalf("首次指派失败: %v", err)
	}
	if _, err := services.TaskResource.Assign(ctx, task.ID, &service.TaskResourceInput{
		ResourceID: material.ID, Quantity: ptr(7),
	}); err != nil {
		t.Fatalf("二次指派失败: %v", err)
	}

	items, _ := repos.TaskResource.ListByTask(ctx, task.ID)
	if len(items) != 1 {
		t.Fatalf("同对指派应只有一条, got %d", len(items))
	}
	if items[0].Quantity != 7 {
		t.Errorf("二次指派应覆盖数量, got %v", items[0].Quantity)
	}
}

func TestReconcileAppliesDiff(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	resA := testutil.SeedResource(t, db, "资源A", entity.ResourceTypeMaterial, 50, 10, false)
	resB := testutil.SeedResource(t, db, "资源B", entity.ResourceTypeMaterial, 50, 10, false)
	resC := testutil.SeedResource(t, db, "资源C", entity.ResourceTypeMaterial, 50, 10, false)
	project := testutil.SeedProject(t, db, "样板房", 50000)
	task := testutil.SeedTask(t, db, project.ID, "地面", entity.TaskStatusPending)

	// 初始 {A:1, B:2}
	for _, in := range []service.TaskResourceInput{
		{ResourceID: resA.ID, Quantity: ptr(1)},
		{ResourceID: resB.ID, Quantity: ptr(2)},
	} {
		if _, err := services.TaskResource.Assign(ctx, task.ID, &in); err != nil {
			t.Fatalf("指派失败: %v", err)
		}
	}

	// 对账到 {B:5, C:1}：A删、B改、C增
	items, err := services.TaskResource.Reconcile(ctx, task.ID, []service.TaskResourceInput{
		{ResourceID: resB.ID, Quantity: ptr(5)},
		{ResourceID: resC.ID},
	})
	if err != nil {
		t.Fatalf("对账失败: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("对账后指派数 = %d, want 2", len(items))
	}

	byResource := make(map[string]entity.TaskResource)
	for _, item := range items {
		byResource[item.ResourceID] = item
	}
	if _, ok := byResource[resA.ID]; ok {
		t.Error("资源A应已被移除")
	}
	if got := byResource[resB.ID].Quantity; got != 5 {
		t.Errorf("资源B数量 = %v, want 5", got)
	}
	if got := byResource[resC.ID].Quantity; got != 1 {
		t.Errorf("资源C应按默认数量1创建, got %v", got)
	}
}

func TestReconcileEmptyRemovesAll(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	resource := testutil.SeedResource(t, db, "资源X", entity.ResourceTypeMaterial, 50, 10, false)
	project := testutil.SeedProject(t, db, "样板房", 50000)
	task := testutil.SeedTask(t, db, project.ID, "收尾", entity.TaskStatusPending)

	if _, err := services.TaskResource.Assign(ctx, task.ID, &service.TaskResourceInput{
		ResourceID: resource.ID,
	}); err != nil {
		t.Fatalf("指派失败: %v", err)
	}

	items, err := services.TaskResource.Reconcile(ctx, task.ID, nil)
	if err != nil {
		t.Fatalf("对账失败: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("空选择应清空指派, got %d", len(items))
	}
}
