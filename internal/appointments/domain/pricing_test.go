package domain

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		want  time.Duration
	}{
		{"no items", nil, 0},
		{
			"single item",
			[]LineItem{{DurationMinutes: 30, Quantity: 1}},
			30 * time.Minute,
		},
		{
			"quantity multiplies duration",
			[]LineItem{{DurationMinutes: 20, Quantity: 3}},
			60 * time.Minute,
		},
		{
			"mixed items",
			[]LineItem{
				{DurationMinutes: 30, Quantity: 1},
				{DurationMinutes: 20, Quantity: 1},
				{DurationMinutes: 15, Quantity: 2},
			},
			80 * time.Minute,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Duration(tc.items); got != tc.want {
				t.Errorf("Duration() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		want  int64
	}{
		{"no items", nil, 0},
		{
			"oil change plus tire rotation",
			[]LineItem{
				{PriceCents: 3999, Quantity: 1},
				{PriceCents: 2500, Quantity: 1},
			},
			6499,
		},
		{
			"quantity multiplies price",
			[]LineItem{{PriceCents: 1500, Quantity: 4}},
			6000,
		},
		{
			"free inspections cost nothing",
			[]LineItem{
				{PriceCents: 0, Quantity: 2},
				{PriceCents: 3999, Quantity: 1},
			},
			3999,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Total(tc.items); got != tc.want {
				t.Errorf("Total() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEstimatedEnd(t *testing.T) {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	items := []LineItem{
		{DurationMinutes: 30, Quantity: 1},
		{DurationMinutes: 30, Quantity: 1},
	}

	want := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
	if got := EstimatedEnd(start, items); !got.Equal(want) {
		t.Errorf("EstimatedEnd() = %v, want %v", got, want)
	}

	if got := EstimatedEnd(start, nil); !got.Equal(start) {
		t.Errorf("EstimatedEnd() with no items = %v, want start %v", got, start)
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name        string
		status      Status
		scheduledAt time.Time
		want        bool
	}{
		{"scheduled in past", StatusScheduled, past, true},
		{"scheduled in future", StatusScheduled, future, false},
		{"confirmed in past", StatusConfirmed, past, false},
		{"completed in past", StatusCompleted, past, false},
		{"cancelled in past", StatusCancelled, past, false},
		{"scheduled exactly now", StatusScheduled, now, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overdue(tc.status, tc.scheduledAt, now); got != tc.want {
				t.Errorf("Overdue(%q, %v) = %v, want %v", tc.status, tc.scheduledAt, got, tc.want)
			}
		})
	}
}
