package entitlement

import (
	"time"

	"peopleops/internal/domain/configentity"
)

// LeaveType is a configuration entity with the shared draft/approved
// lifecycle; entitlements only accrue against approved types.
type LeaveType struct {
	configentity.Meta
	Name            string  `json:"name"`
	Code            string  `json:"code"`
	MonthlyAccrual  float64 `json:"monthlyAccrual"`
	CarryForwardCap float64 `json:"carryForwardCap"`
	AllowNegative   bool    `json:"allowNegative"`
}

// Entitlement is the computed leave balance for one employee and leave
// type. Created implicitly on first recalculation or adjustment; there
// is no delete path.
type Entitlement struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employeeId"`
	LeaveTypeID       string    `json:"leaveTypeId"`
	YearlyEntitlement float64   `json:"yearlyEntitlement"`
	AccruedActual     float64   `json:"accruedActual"`
	AccruedRounded    float64   `json:"accruedRounded"`
	CarryForward      float64   `json:"carryForward"`
	Taken             float64   `json:"taken"`
	Pending           float64   `json:"pending"`
	Remaining         float64   `json:"remaining"`
	NextResetDate     time.Time `json:"nextResetDate"`
	LastResetAt       time.Time `json:"lastResetAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

const (
	AdjustmentAdd        = "add"
	AdjustmentDeduct     = "deduct"
	AdjustmentEncashment = "encashment"
)

// BalanceAdjustment is an append-only audit record. Rows are never
// edited or deleted.
type BalanceAdjustment struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	LeaveTypeID    string    `json:"leaveTypeId"`
	AdjustmentType string    `json:"adjustmentType"`
	Amount         float64   `json:"amount"`
	Reason         string    `json:"reason"`
	HRUserID       string    `json:"hrUserId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func ValidAdjustmentType(adjustmentType string) bool {
	switch adjustmentType {
	case AdjustmentAdd, AdjustmentDeduct, AdjustmentEncashment:
		return true
	}
	return false
}
