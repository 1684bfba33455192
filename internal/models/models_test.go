package models

import "testing"

func TestBuildStats(t *testing.T) {
	totals := []DifficultyCount{{Difficulty: Easy, Count: 2}, {Difficulty: Hard, Count: 1}}
	solved := []DifficultyCount{{Difficulty: Easy, Count: 1}}

	got := BuildStats(3, totals, solved)
	want := Stats{TotalQuestions: 3, TotalDone: 1, TotalEasy: 2, EasyDone: 1, TotalHard: 1}
	if got != want {
		t.Fatalf("BuildStats = %+v, want %+v", got, want)
	}
}

func TestBuildStats_Empty(t *testing.T) {
	if got := BuildStats(0, nil, nil); got != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}

func TestCalculatePaginationMeta(t *testing.T) {
	tests := []struct {
		page, limit, total int
		wantPages          int
		wantNext, wantPrev bool
	}{
		{page: 1, limit: 10, total: 25, wantPages: 3, wantNext: true},
		{page: 3, limit: 10, total: 25, wantPages: 3, wantPrev: true},
		{page: 1, limit: 10, total: 0, wantPages: 0},
		{page: 1, limit: 0, total: 2, wantPages: 2, wantNext: true},
	}

	for _, tc := range tests {
		pages, next, prev := CalculatePaginationMeta(tc.page, tc.limit, tc.total)
		if pages != tc.wantPages || next != tc.wantNext || prev != tc.wantPrev {
			t.Fatalf("CalculatePaginationMeta(%d, %d, %d) = %d, %v, %v", tc.page, tc.limit, tc.total, pages, next, prev)
		}
	}
}

func TestEnvelopes(t *testing.T) {
	list := ListEnvelope([]int{1, 2}, 2)
	if !list.Success || list.Count == nil || *list.Count != 2 {
		t.Fatalf("unexpected list envelope: %+v", list)
	}

	failed := ErrorEnvelope("nope")
	if failed.Success || failed.Error != "nope" || failed.Data != nil {
		t.Fatalf("unexpected error envelope: %+v", failed)
	}
}
