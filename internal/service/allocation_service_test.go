package service_test

import (
	"context"
	"testing"

	"github.com/bitfantasy/zhugong/internal/entity"
	"github.com/bitfantasy/zhugong/internal/service"
	"github.com/bitfantasy/zhugong/internal/testutil"
)

func ptr(v float64) *float64 { return &v }

func TestAllocateMergesSamePair(t *testing.T) {
	db := testutil.SetupDB(t)
	repos, services := testutil.SetupServices(db)
	ctx := context.Background()

	resource := testutil.SeedResource(t, db, "水泥", entity.ResourceTypeMaterial, 100, 50, false)
	project := testutil.SeedProject(t, db, "一号楼", 100000)

	_, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: resource.ID, ProjectID: project.ID, Quantity: 30,
	})
	if err != nil {
		t.Fatalf("首次分配失败: %v", err)
	}
	_, err = services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: resource.ID, ProjectID: project.ID, Quantity: 20,
	})
	if err != nil {
		t.Fatalf("二次分配失败: %v", err)
	}

	allocs, err := repos.Allocation.ListByResource(ctx, resource.ID)
	if err != nil {
		t.Fatalf("查询分配失败: %v", err)
	}
	if len(allocs) != 1 {
		t.Fatalf("同对分配应合并为一条, got %d", len(allocs))
	}
	if allocs[0].Quantity != 50 {
		t.Errorf("合并后数量 = %v, want 50", allocs[0].Quantity)
	}
}

func TestAllocateOverAllocationAllowed(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	resource := testutil.SeedResource(t, db, "钢筋", entity.ResourceTypeMaterial, 100, 80, false)
	project := testutil.SeedProject(t, db, "二号楼", 100000)

	// 超出库存也不拒绝，只反映在状态上
	_, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: resource.ID, ProjectID: project.ID, Quantity: 130,
	})
	if err != nil {
		t.Fatalf("超额分配不应报错: %v", err)
	}

	view, err := services.Resource.Get(ctx, resource.ID)
	if err != nil {
		t.Fatalf("查询资源失败: %v", err)
	}
	if view.Available != -30 {
		t.Errorf("Available = %v, want -30", view.Available)
	}
	if view.DisplayAvailable != 0 {
		t.Errorf("DisplayAvailable = %v, want 0", view.DisplayAvailable)
	}
	if view.Status != entity.ResourceStatusOutOfStock {
		t.Errorf("Status = %s, want out_of_stock", view.Status)
	}
}

func TestAllocateRecalcsStatus(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	resource := testutil.SeedResource(t, db, "挖掘机", entity.ResourceTypeEquipment, 10, 2000, true)
	project := testutil.SeedProject(t, db, "三号楼", 100000)

	// 占用9台，剩1台 = 10% ≤ 20% → low_stock
	_, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: resource.ID, ProjectID: project.ID, Quantity: 9,
	})
	if err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	view, _ := services.Resource.Get(ctx, resource.ID)
	if view.Status != entity.ResourceStatusLowStock {
		t.Errorf("Status = %s, want low_stock", view.Status)
	}
}

func TestResetRestoresAvailability(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	resource := testutil.SeedResource(t, db, "模板", entity.ResourceTypeMaterial, 100, 10, false)
	project := testutil.SeedProject(t, db, "四号楼", 100000)

	alloc, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: resource.ID, ProjectID: project.ID, Quantity: 95,
	})
	if err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	view, _ := services.Resource.Get(ctx, resource.ID)
	if view.Status != entity.ResourceStatusLowStock {
		t.Fatalf("分配后状态 = %s, want low_stock", view.Status)
	}

	if err := services.Allocation.Reset(ctx, alloc.ID); err != nil {
		t.Fatalf("重置失败: %v", err)
	}

	view, _ = services.Resource.Get(ctx, resource.ID)
	if view.Available != 100 {
		t.Errorf("重置后Available = %v, want 100", view.Available)
	}
	if view.Status != entity.ResourceStatusAvailable {
		t.Errorf("重置后状态 = %s, want available", view.Status)
	}
}

func TestMarkConsumedStillOccupies(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	resource := testutil.SeedResource(t, db, "砂石", entity.ResourceTypeMaterial, 100, 5, false)
	project := testutil.SeedProject(t, db, "五号楼", 100000)

	alloc, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: resource.ID, ProjectID: project.ID, Quantity: 40,
	})
	if err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	marked, err := services.Allocation.MarkConsumed(ctx, alloc.ID)
	if err != nil {
		t.Fatalf("标记消耗失败: %v", err)
	}
	if !marked.Consumed {
		t.Error("Consumed应为true")
	}

	// 消耗只是标记，占用照旧
	view, _ := services.Resource.Get(ctx, resource.ID)
	if view.Available != 60 {
		t.Errorf("标记消耗后Available = %v, want 60", view.Available)
	}
}

func TestReturnOnlyForReturnable(t *testing.T) {
	db := testutil.SetupDB(t)
	repos, services := testutil.SetupServices(db)
	ctx := context.Background()

	material := testutil.SeedResource(t, db, "砖块", entity.ResourceTypeMaterial, 1000, 1, false)
	equipment := testutil.SeedResource(t, db, "塔吊", entity.ResourceTypeEquipment, 5, 5000, true)
	projectA := testutil.SeedProject(t, db, "A区", 100000)
	projectB := testutil.SeedProject(t, db, "B区", 100000)

	for _, p := range []string{projectA.ID, projectB.ID} {
		if _, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
			ResourceID: equipment.ID, ProjectID: p, Quantity: 2,
		}); err != nil {
			t.Fatalf("分配失败: %v", err)
		}
	}
	if _, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: material.ID, ProjectID: projectA.ID, Quantity: 100,
	}); err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	// 消耗型不能归还
	if err := services.Allocation.Return(ctx, material.ID, projectA.ID); err == nil {
		t.Error("消耗型资源归还应报错")
	}

	// 只释放A区的占用，B区不受影响
	if err := services.Allocation.Return(ctx, equipment.ID, projectA.ID); err != nil {
		t.Fatalf("归还失败: %v", err)
	}

	allocs, _ := repos.Allocation.ListByResource(ctx, equipment.ID)
	if len(allocs) != 1 {
		t.Fatalf("归还后剩余分配数 = %d, want 1", len(allocs))
	}
	if allocs[0].ProjectID != projectB.ID {
		t.Errorf("剩余分配项目 = %s, want %s", allocs[0].ProjectID, projectB.ID)
	}
}

func TestAllocateDurationOnNonReturnable(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	material := testutil.SeedResource(t, db, "腻子粉", entity.ResourceTypeMaterial, 50, 20, false)
	project := testutil.SeedProject(t, db, "六号楼", 100000)

	_, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: material.ID, ProjectID: project.ID, Quantity: 5, Hours: ptr(8),
	})
	if err == nil {
		t.Error("不可归还资源按时长分配应报错")
	}
}

func TestListByProjectIncludesCost(t *testing.T) {
	db := testutil.SetupDB(t)
	_, services := testutil.SetupServices(db)
	ctx := context.Background()

	worker := testutil.SeedResource(t, db, "电工", entity.ResourceTypeLabor, 10, 300, true)
	worker.HourRate = ptr(50)
	if err := db.Save(worker).Error; err != nil {
		t.Fatalf("更新时薪失败: %v", err)
	}
	project := testutil.SeedProject(t, db, "七号楼", 100000)

	if _, err := services.Allocation.Allocate(ctx, "u1", &service.AllocateRequest{
		ResourceID: worker.ID, ProjectID: project.ID, Quantity: 2, Hours: ptr(10),
	}); err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	views, err := services.Allocation.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("查询清单失败: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("清单长度 = %d, want 1", len(views))
	}
	if views[0].ResourceName != "电工" {
		t.Errorf("ResourceName = %s, want 电工", views[0].ResourceName)
	}
	// 时薪优先：50 * 10 = 500
	if views[0].Cost != 500 {
		t.Errorf("Cost = %v, want 500", views[0].Cost)
	}
}
