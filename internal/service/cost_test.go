package service

import (
	"testing"

	"github.com/bitfantasy/zhugong/internal/entity"
)

func f64(v float64) *float64 { return &v }

func TestAllocationCost(t *testing.T) {
	tests := []struct {
		name     string
		resource entity.Resource
		alloc    entity.ResourceAllocation
		want     float64
	}{
		{
			name:     "时薪优先",
			resource: entity.Resource{Returnable: true, Cost: 100, HourRate: f64(10), DayRate: f64(200)},
			alloc:    entity.ResourceAllocation{Quantity: 3, Hours: f64(5), Days: f64(2)},
			want:     50,
		},
		{
			name:     "无小时数退到日薪",
			resource: entity.Resource{Returnable: true, Cost: 100, HourRate: f64(10), DayRate: f64(20)},
			alloc:    entity.ResourceAllocation{Quantity: 3, Days: f64(3)},
			want:     60,
		},
		{
			name:     "无费率退到数量计价",
			resource: entity.Resource{Returnable: true, Cost: 7},
			alloc:    entity.ResourceAllocation{Quantity: 4},
			want:     28,
		},
		{
			name:     "不可归还忽略时长费率",
			resource: entity.Resource{Returnable: false, Cost: 7, HourRate: f64(10)},
			alloc:    entity.ResourceAllocation{Quantity: 4, Hours: f64(5)},
			want:     28,
		},
		{
			name:     "有日薪无天数退到数量计价",
			resource: entity.Resource{Returnable: true, Cost: 2, DayRate: f64(20)},
			alloc:    entity.ResourceAllocation{Quantity: 6},
			want:     12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllocationCost(&tt.alloc, &tt.resource); got != tt.want {
				t.Errorf("AllocationCost() = %v, want %v", got, tt.want)
			}
		})
	}
}
