package service

import (
	"math"

	"github.com/bitfantasy/zhugong/internal/entity"
)

// 低库存阈值：可用量占库存量 ≤ 20% 时进入 low_stock
const lowStockRatio = 0.2

// Available 计算资源可用量 = 库存量 - 未释放占用之和
// 允许超额分配，结果可以为负，展示侧自行钳到 0
func Available(resource *entity.Resource, allocs []entity.ResourceAllocation) float64 {
	allocated := 0.0
	for _, a := range allocs {
		if a.ResourceID == resource.ID {
			allocated += a.Quantity
		}
	}
	return resource.Quantity - allocated
}

// UtilizationRate 计算占用率（百分比，四舍五入），库存量为0时返回0
func UtilizationRate(resource *entity.Resource, allocs []entity.ResourceAllocation) int {
	if resource.Quantity <= 0 {
		return 0
	}
	allocated := resource.Quantity - Available(resource, allocs)
	return int(math.Round(allocated / resource.Quantity * 100))
}

// DeriveStatus 按可用量推导资源状态
func DeriveStatus(resource *entity.Resource, available float64) string {
	if resource.Quantity <= 0 || available <= 0 {
		return entity.ResourceStatusOutOfStock
	}
	if available/resource.Quantity <= lowStockRatio {
		return entity.ResourceStatusLowStock
	}
	return entity.ResourceStatusAvailable
}

// StatusBadge 状态到展示级别的映射，不做任何重算
func StatusBadge(status string) string {
	switch status {
	case entity.ResourceStatusOutOfStock:
		return "critical"
	case entity.ResourceStatusLowStock:
		return "warning"
	default:
		return "info"
	}
}

// SortByStatus 资源列表排序：缺货在前，低库存次之，其余保持原有顺序
// 三个桶各自稳定，不是完整比较器
func SortByStatus(resources []entity.Resource) []entity.Resource {
	out := make([]entity.Resource, 0, len(resources))
	lowStock := make([]entity.Resource, 0)
	rest := make([]entity.Resource, 0)

	for _, r := range resources {
		switch r.Status {
		case entity.ResourceStatusOutOfStock:
			out = append(out, r)
		case entity.ResourceStatusLowStock:
			lowStock = append(lowStock, r)
		default:
			rest = append(rest, r)
		}
	}

	out = append(out, lowStock...)
	out = append(out, rest...)
	return out
}

// ClampDisplay 展示用可用量，负值钳到0
func ClampDisplay(available float64) float64 {
	if available < 0 {
		return 0
	}
	return available
}
