package entitlement

import (
	"context"
	"time"
)

type StoreAPI interface {
	LeaveTypeByID(ctx context.Context, leaveTypeID string) (LeaveType, error)
	Entitlement(ctx context.Context, employeeID, leaveTypeID string) (Entitlement, error)
	ListEntitlements(ctx context.Context, employeeID string, limit, offset int) ([]Entitlement, int, error)
	UpsertEntitlement(ctx context.Context, ent Entitlement) (Entitlement, error)
	AdjustmentTotal(ctx context.Context, employeeID, leaveTypeID string, since time.Time) (float64, error)
	InsertAdjustment(ctx context.Context, adj BalanceAdjustment) (BalanceAdjustment, error)
	ListAdjustments(ctx context.Context, employeeID, leaveTypeID string, limit, offset int) ([]BalanceAdjustment, int, error)
	EmployeeStartDate(ctx context.Context, employeeID string) (*time.Time, error)
	DueForReset(ctx context.Context, now time.Time) ([]Entitlement, error)
}
