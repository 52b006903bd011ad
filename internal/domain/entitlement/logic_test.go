package entitlement

import (
	"testing"
	"time"
)

func TestRoundHalf(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.2, 1},
		{1.25, 1.5},
		{1.3, 1.5},
		{1.5, 1.5},
		{1.74, 1.5},
		{1.75, 2},
		{10.1, 10},
		{-1.3, -1.5},
	}
	for _, tc := range cases {
		if got := RoundHalf(tc.in); got != tc.want {
			t.Errorf("RoundHalf(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAccruedMonths(t *testing.T) {
	jan1 := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	midYearStart := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	priorYearStart := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name          string
		employeeStart *time.Time
		now           time.Time
		want          int
	}{
		{"january counts as one month", nil, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC), 1},
		{"mid year", nil, time.Date(2026, time.June, 3, 0, 0, 0, 0, time.UTC), 6},
		{"full year capped at twelve", nil, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), 12},
		{"before period start", nil, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 0},
		{"employee started mid year", &midYearStart, time.Date(2026, time.June, 3, 0, 0, 0, 0, time.UTC), 3},
		{"employee started before period", &priorYearStart, time.Date(2026, time.June, 3, 0, 0, 0, 0, time.UTC), 6},
		{"employee starts in the future", &midYearStart, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AccruedMonths(jan1, tc.employeeStart, tc.now); got != tc.want {
				t.Fatalf("AccruedMonths = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRecompute(t *testing.T) {
	lt := LeaveType{MonthlyAccrual: 1.75, CarryForwardCap: 5}
	ent := Entitlement{CarryForward: 2, Taken: 3, Pending: 1}
	now := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)

	Recompute(&ent, lt, nil, 0, now)

	if ent.YearlyEntitlement != 21 {
		t.Fatalf("YearlyEntitlement = %v, want 21", ent.YearlyEntitlement)
	}
	if ent.AccruedActual != 10.5 {
		t.Fatalf("AccruedActual = %v, want 10.5", ent.AccruedActual)
	}
	if ent.AccruedRounded != 10.5 {
		t.Fatalf("AccruedRounded = %v, want 10.5", ent.AccruedRounded)
	}
	// 10.5 accrued + 2 carry - 3 taken - 1 pending
	if ent.Remaining != 8.5 {
		t.Fatalf("Remaining = %v, want 8.5", ent.Remaining)
	}
	wantReset := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !ent.NextResetDate.Equal(wantReset) {
		t.Fatalf("NextResetDate = %v, want %v", ent.NextResetDate, wantReset)
	}
}

func TestRecomputeClampsNegative(t *testing.T) {
	lt := LeaveType{MonthlyAccrual: 1}
	ent := Entitlement{Taken: 20}
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	Recompute(&ent, lt, nil, 0, now)
	if ent.Remaining != 0 {
		t.Fatalf("Remaining = %v, want clamp to 0", ent.Remaining)
	}

	lt.AllowNegative = true
	Recompute(&ent, lt, nil, 0, now)
	if ent.Remaining != -18 {
		t.Fatalf("Remaining = %v, want -18 when negative allowed", ent.Remaining)
	}
}

func TestRecomputeAppliesAdjustments(t *testing.T) {
	lt := LeaveType{MonthlyAccrual: 1}
	ent := Entitlement{}
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	Recompute(&ent, lt, nil, 2.5, now)
	if ent.Remaining != 5.5 {
		t.Fatalf("Remaining = %v, want 5.5 (3 accrued + 2.5 adjusted)", ent.Remaining)
	}
}

func TestSignedAmount(t *testing.T) {
	if got := SignedAmount(AdjustmentAdd, 2); got != 2 {
		t.Fatalf("add: got %v", got)
	}
	if got := SignedAmount(AdjustmentDeduct, 2); got != -2 {
		t.Fatalf("deduct: got %v", got)
	}
	if got := SignedAmount(AdjustmentEncashment, 1.5); got != -1.5 {
		t.Fatalf("encashment: got %v", got)
	}
}

func TestResetCarriesForwardUpToCap(t *testing.T) {
	lt := LeaveType{MonthlyAccrual: 2, CarryForwardCap: 5}
	ent := Entitlement{
		AccruedRounded: 24,
		Taken:          10,
		Pending:        2,
		Remaining:      12,
		NextResetDate:  time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	now := time.Date(2027, time.January, 1, 6, 0, 0, 0, time.UTC)
	Reset(&ent, lt, now)

	if ent.CarryForward != 5 {
		t.Fatalf("CarryForward = %v, want cap of 5", ent.CarryForward)
	}
	if ent.Taken != 0 || ent.Pending != 0 || ent.AccruedRounded != 0 {
		t.Fatalf("usage counters not cleared: %+v", ent)
	}
	if ent.Remaining != 5 {
		t.Fatalf("Remaining = %v, want 5", ent.Remaining)
	}
	wantReset := time.Date(2028, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !ent.NextResetDate.Equal(wantReset) {
		t.Fatalf("NextResetDate = %v, want %v", ent.NextResetDate, wantReset)
	}
	if !ent.LastResetAt.Equal(now) {
		t.Fatalf("LastResetAt = %v, want %v", ent.LastResetAt, now)
	}
}

func TestResetNegativeRemainingCarriesNothing(t *testing.T) {
	lt := LeaveType{CarryForwardCap: 5, AllowNegative: true}
	ent := Entitlement{Remaining: -3, NextResetDate: time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)}

	Reset(&ent, lt, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC))
	if ent.CarryForward != 0 || ent.Remaining != 0 {
		t.Fatalf("expected zero carry for negative balance, got %+v", ent)
	}
}
