package service

import (
	"testing"
	"time"

	"github.com/bitfantasy/zhugong/internal/entity"
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		total, completed int64
		want             int
	}{
		{0, 0, 0},
		{10, 3, 30},
		{3, 1, 33},
		{3, 2, 67},
		{5, 5, 100},
	}

	for _, tt := range tests {
		if got := CompletionPercentage(tt.total, tt.completed); got != tt.want {
			t.Errorf("CompletionPercentage(%d, %d) = %d, want %d", tt.total, tt.completed, got, tt.want)
		}
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if got := DaysRemaining(nil, now); got != 0 {
		t.Errorf("无截止日应返回0, got %d", got)
	}

	past := now.AddDate(0, 0, -3)
	if got := DaysRemaining(&past, now); got != 0 {
		t.Errorf("已过期应返回0, got %d", got)
	}

	future := now.AddDate(0, 0, 10)
	if got := DaysRemaining(&future, now); got != 10 {
		t.Errorf("DaysRemaining = %d, want 10", got)
	}

	// 不足一天向上取整
	halfDay := now.Add(12 * time.Hour)
	if got := DaysRemaining(&halfDay, now); got != 1 {
		t.Errorf("半天应取整到1, got %d", got)
	}
}

func TestSatisfactionRating(t *testing.T) {
	tests := []struct {
		completion int
		want       int
	}{
		{0, 1},
		{10, 1},
		{30, 2},
		{50, 3},
		{100, 5},
		{120, 5},
	}

	for _, tt := range tests {
		if got := SatisfactionRating(tt.completion); got != tt.want {
			t.Errorf("SatisfactionRating(%d) = %d, want %d", tt.completion, got, tt.want)
		}
	}
}

func TestScheduleStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 29, 0, 0, 0, 0, time.UTC)

	t.Run("无工期", func(t *testing.T) {
		_, status := ScheduleStatus(&entity.Project{}, now)
		if status != "unscheduled" {
			t.Errorf("status = %s, want unscheduled", status)
		}
	})

	t.Run("期中按期", func(t *testing.T) {
		p := &entity.Project{StartDate: &start, EndDate: &end, Completion: 50}
		expected, status := ScheduleStatus(p, now)
		if expected != 50 {
			t.Errorf("expected = %d, want 50", expected)
		}
		if status != "on_track" {
			t.Errorf("status = %s, want on_track", status)
		}
	})

	t.Run("落后", func(t *testing.T) {
		p := &entity.Project{StartDate: &start, EndDate: &end, Completion: 20}
		_, status := ScheduleStatus(p, now)
		if status != "behind" {
			t.Errorf("status = %s, want behind", status)
		}
	})

	t.Run("超前", func(t *testing.T) {
		p := &entity.Project{StartDate: &start, EndDate: &end, Completion: 90}
		_, status := ScheduleStatus(p, now)
		if status != "ahead" {
			t.Errorf("status = %s, want ahead", status)
		}
	})

	t.Run("超过截止日钳到100", func(t *testing.T) {
		late := end.AddDate(0, 1, 0)
		p := &entity.Project{StartDate: &start, EndDate: &end, Completion: 100}
		expected, status := ScheduleStatus(p, late)
		if expected != 100 {
			t.Errorf("expected = %d, want 100", expected)
		}
		if status != "on_track" {
			t.Errorf("status = %s, want on_track", status)
		}
	})
}
