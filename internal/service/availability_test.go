package service

import (
	"testing"

	"github.com/bitfantasy/zhugong/internal/entity"
)

func allocOf(resourceID string, quantity float64) entity.ResourceAllocation {
	return entity.ResourceAllocation{ResourceID: resourceID, Quantity: quantity}
}

func TestAvailable(t *testing.T) {
	resource := &entity.Resource{ID: "r1", Quantity: 100}

	tests := []struct {
		name   string
		allocs []entity.ResourceAllocation
		want   float64
	}{
		{"无分配", nil, 100},
		{"部分占用", []entity.ResourceAllocation{allocOf("r1", 30)}, 70},
		{"多项目累加", []entity.ResourceAllocation{allocOf("r1", 30), allocOf("r1", 50)}, 20},
		{"其他资源不计入", []entity.ResourceAllocation{allocOf("r2", 999), allocOf("r1", 40)}, 60},
		{"超额分配为负", []entity.ResourceAllocation{allocOf("r1", 130)}, -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Available(resource, tt.allocs); got != tt.want {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailableConsumedStillCounts(t *testing.T) {
	resource := &entity.Resource{ID: "r1", Quantity: 100}
	allocs := []entity.ResourceAllocation{
		{ResourceID: "r1", Quantity: 40, Consumed: true},
	}
	// 已消耗的占用仍然占着库存，直到被重置
	if got := Available(resource, allocs); got != 60 {
		t.Errorf("Available() = %v, want 60", got)
	}
}

func TestUtilizationRate(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		allocs   []entity.ResourceAllocation
		want     int
	}{
		{"零库存返回0", 0, []entity.ResourceAllocation{allocOf("r1", 10)}, 0},
		{"无占用", 100, nil, 0},
		{"半数占用", 100, []entity.ResourceAllocation{allocOf("r1", 50)}, 50},
		{"四舍五入", 3, []entity.ResourceAllocation{allocOf("r1", 1)}, 33},
		{"超额超过100", 100, []entity.ResourceAllocation{allocOf("r1", 150)}, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resource := &entity.Resource{ID: "r1", Quantity: tt.quantity}
			if got := UtilizationRate(resource, tt.allocs); got != tt.want {
				t.Errorf("UtilizationRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		quantity  float64
		available float64
		want      string
	}{
		{"可用充足", 100, 80, entity.ResourceStatusAvailable},
		{"低于阈值", 100, 20, entity.ResourceStatusLowStock},
		{"刚好高于阈值", 100, 21, entity.ResourceStatusAvailable},
		{"耗尽", 100, 0, entity.ResourceStatusOutOfStock},
		{"超额为负", 100, -10, entity.ResourceStatusOutOfStock},
		{"零库存", 0, 0, entity.ResourceStatusOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resource := &entity.Resource{Quantity: tt.quantity}
			if got := DeriveStatus(resource, tt.available); got != tt.want {
				t.Errorf("DeriveStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByStatus(t *testing.T) {
	resources := []entity.Resource{
		{Name: "a", Status: entity.ResourceStatusAvailable},
		{Name: "b", Status: entity.ResourceStatusOutOfStock},
		{Name: "c", Status: entity.ResourceStatusLowStock},
		{Name: "d", Status: entity.ResourceStatusAvailable},
		{Name: "e", Status: entity.ResourceStatusOutOfStock},
	}

	sorted := SortByStatus(resources)

	wantOrder := []string{"b", "e", "c", "a", "d"}
	if len(sorted) != len(wantOrder) {
		t.Fatalf("排序后长度 = %d, want %d", len(sorted), len(wantOrder))
	}
	for i, name := range wantOrder {
		if sorted[i].Name != name {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].Name, name)
		}
	}
}

func TestStatusBadge(t *testing.T) {
	if got := StatusBadge(entity.ResourceStatusOutOfStock); got != "critical" {
		t.Errorf("StatusBadge(out_of_stock) = %s, want critical", got)
	}
	if got := StatusBadge(entity.ResourceStatusLowStock); got != "warning" {
		t.Errorf("StatusBadge(low_stock) = %s, want warning", got)
	}
	if got := StatusBadge(entity.ResourceStatusAvailable); got != "info" {
		t.Errorf("StatusBadge(available) = %s, want info", got)
	}
}

func TestClampDisplay(t *testing.T) {
	if got := ClampDisplay(-5); got != 0 {
		t.Errorf("ClampDisplay(-5) = %v, want 0", got)
	}
	if got := ClampDisplay(7); got != 7 {
		t.Errorf("ClampDisplay(7) = %v, want 7", got)
	}
}
