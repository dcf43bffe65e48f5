package service

import (
	"github.com/bitfantasy/zhugong/internal/entity"
)

// AllocationCost 计算单条分配的费用
// 计价优先级：时薪 > 日薪 > 数量×单价，命中即返回，不叠加
func AllocationCost(alloc *entity.ResourceAllocation, resource *entity.Resource) float64 {
	if resource.Returnable && resource.HourRate != nil && alloc.Hours != nil {
		return *resource.HourRate * *alloc.Hours
	}
	if resource.Returnable && resource.DayRate != nil && alloc.Days != nil {
		return *resource.DayRate * *alloc.Days
	}
	return alloc.Quantity * resource.Cost
}
