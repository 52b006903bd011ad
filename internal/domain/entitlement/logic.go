package entitlement

import (
	"math"
	"time"
)

// RoundHalf rounds days to the nearest half day.
func RoundHalf(days float64) float64 {
	return math.Round(days*2) / 2
}

// AccruedMonths counts full months accrued in the entitlement year up
// to and including the current month. An employee who started after
// the period start only accrues from their start month.
func AccruedMonths(periodStart time.Time, employeeStart *time.Time, now time.Time) int {
	if now.Before(periodStart) {
		return 0
	}
	start := periodStart
	if employeeStart != nil && employeeStart.After(start) {
		start = *employeeStart
	}
	if now.Before(start) {
		return 0
	}
	months := int(now.Month()) - int(start.Month()) + 12*(now.Year()-start.Year()) + 1
	if months < 0 {
		return 0
	}
	if months > 12 {
		months = 12
	}
	return months
}

// Recompute rewrites the derived accrual fields of an entitlement from
// its leave type and the total of adjustments recorded since the last
// reset. Earlier adjustments live on in the carried-forward balance and
// must not be passed in again.
func Recompute(ent *Entitlement, lt LeaveType, employeeStart *time.Time, adjustments float64, now time.Time) {
	periodStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	ent.YearlyEntitlement = lt.MonthlyAccrual * 12
	ent.AccruedActual = lt.MonthlyAccrual * float64(AccruedMonths(periodStart, employeeStart, now))
	if ent.AccruedActual > ent.YearlyEntitlement {
		ent.AccruedActual = ent.YearlyEntitlement
	}
	ent.AccruedRounded = RoundHalf(ent.AccruedActual)
	ent.Remaining = remaining(ent, lt, adjustments)
	if ent.NextResetDate.IsZero() {
		ent.NextResetDate = time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

func remaining(ent *Entitlement, lt LeaveType, adjustments float64) float64 {
	value := ent.AccruedRounded + ent.CarryForward + adjustments - ent.Taken - ent.Pending
	if value < 0 && !lt.AllowNegative {
		return 0
	}
	return value
}

// SignedAmount maps an adjustment to its effect on the remaining
// balance: additions increase it, deductions and encashments reduce it.
func SignedAmount(adjustmentType string, amount float64) float64 {
	if adjustmentType == AdjustmentAdd {
		return amount
	}
	return -amount
}

// Reset rolls an entitlement into a new year. The remaining balance is
// carried forward up to the leave type's cap, usage counters are
// cleared, and the reset date advances one year. LastResetAt records
// the reset moment so adjustments already embedded in the carry are
// never summed into a later recomputation.
func Reset(ent *Entitlement, lt LeaveType, now time.Time) {
	carry := ent.Remaining
	if carry < 0 {
		carry = 0
	}
	if lt.CarryForwardCap >= 0 && carry > lt.CarryForwardCap {
		carry = lt.CarryForwardCap
	}
	ent.CarryForward = carry
	ent.AccruedActual = 0
	ent.AccruedRounded = 0
	ent.Taken = 0
	ent.Pending = 0
	ent.Remaining = carry
	ent.NextResetDate = ent.NextResetDate.AddDate(1, 0, 0)
	ent.LastResetAt = now
}
