package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"peopleops/internal/domain/configentity"
)

// memStore is an in-memory StoreAPI for exercising Service flows that
// span several store calls.
type memStore struct {
	leaveTypes   map[string]LeaveType
	entitlements map[string]Entitlement
	adjustments  []BalanceAdjustment
	employees    map[string]*time.Time
	clock        time.Time
}

func newMemStore() *memStore {
	return &memStore{
		leaveTypes:   map[string]LeaveType{},
		entitlements: map[string]Entitlement{},
		employees:    map[string]*time.Time{},
		clock:        time.Now().UTC(),
	}
}

func entKey(employeeID, leaveTypeID string) string { return employeeID + "|" + leaveTypeID }

func (m *memStore) LeaveTypeByID(_ context.Context, leaveTypeID string) (LeaveType, error) {
	lt, ok := m.leaveTypes[leaveTypeID]
	if !ok {
		return LeaveType{}, ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (m *memStore) Entitlement(_ context.Context, employeeID, leaveTypeID string) (Entitlement, error) {
	ent, ok := m.entitlements[entKey(employeeID, leaveTypeID)]
	if !ok {
		return Entitlement{}, ErrNotFound
	}
	return ent, nil
}

func (m *memStore) ListEntitlements(_ context.Context, employeeID string, limit, offset int) ([]Entitlement, int, error) {
	var items []Entitlement
	for _, ent := range m.entitlements {
		if employeeID == "" || ent.EmployeeID == employeeID {
			items = append(items, ent)
		}
	}
	return items, len(items), nil
}

func (m *memStore) UpsertEntitlement(_ context.Context, ent Entitlement) (Entitlement, error) {
	ent.UpdatedAt = m.clock
	m.entitlements[entKey(ent.EmployeeID, ent.LeaveTypeID)] = ent
	return ent, nil
}

func (m *memStore) AdjustmentTotal(_ context.Context, employeeID, leaveTypeID string, since time.Time) (float64, error) {
	var total float64
	for _, adj := range m.adjustments {
		if adj.EmployeeID != employeeID || adj.LeaveTypeID != leaveTypeID {
			continue
		}
		if adj.CreatedAt.Before(since) {
			continue
		}
		total += SignedAmount(adj.AdjustmentType, adj.Amount)
	}
	return total, nil
}

func (m *memStore) InsertAdjustment(_ context.Context, adj BalanceAdjustment) (BalanceAdjustment, error) {
	adj.CreatedAt = m.clock
	m.adjustments = append(m.adjustments, adj)
	return adj, nil
}

func (m *memStore) ListAdjustments(_ context.Context, employeeID, leaveTypeID string, limit, offset int) ([]BalanceAdjustment, int, error) {
	return m.adjustments, len(m.adjustments), nil
}

func (m *memStore) EmployeeStartDate(_ context.Context, employeeID string) (*time.Time, error) {
	start, ok := m.employees[employeeID]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return start, nil
}

func (m *memStore) DueForReset(_ context.Context, now time.Time) ([]Entitlement, error) {
	var due []Entitlement
	for _, ent := range m.entitlements {
		if !ent.NextResetDate.After(now) {
			due = append(due, ent)
		}
	}
	return due, nil
}

func approvedType(id string, accrual, cap float64) LeaveType {
	lt := LeaveType{MonthlyAccrual: accrual, CarryForwardCap: cap}
	lt.ID = id
	lt.Status = configentity.StatusApproved
	return lt
}

// An adjustment must affect the balance exactly once. After the annual
// reset it is embedded in the carried-forward amount, so recomputing in
// the new year must not sum it in again.
func TestAdjustmentAppliedOnceAcrossReset(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.leaveTypes["lt1"] = approvedType("lt1", 1, 10)
	hired := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	store.employees["emp1"] = &hired
	svc := NewService(store)

	dec := time.Date(2026, time.December, 20, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Recalculate(ctx, "emp1", "lt1", dec); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	store.clock = time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Adjust(ctx, "hr1", AdjustmentInput{
		EmployeeID:     "emp1",
		LeaveTypeID:    "lt1",
		AdjustmentType: AdjustmentAdd,
		Amount:         5,
		Reason:         "service award",
	}); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	ent, err := svc.Recalculate(ctx, "emp1", "lt1", dec)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if ent.Remaining != 17 {
		t.Fatalf("2026 remaining = %v, want 17 (12 accrued + 5 adjusted)", ent.Remaining)
	}

	resetAt := time.Date(2027, time.January, 1, 6, 0, 0, 0, time.UTC)
	summary, err := svc.RunAnnualReset(ctx, resetAt)
	if err != nil {
		t.Fatalf("annual reset: %v", err)
	}
	if summary.EntitlementsReset != 1 {
		t.Fatalf("EntitlementsReset = %d, want 1", summary.EntitlementsReset)
	}

	jan := time.Date(2027, time.January, 31, 0, 0, 0, 0, time.UTC)
	ent, err = svc.Recalculate(ctx, "emp1", "lt1", jan)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if ent.CarryForward != 10 {
		t.Fatalf("CarryForward = %v, want capped 10", ent.CarryForward)
	}
	if ent.Remaining != 11 {
		t.Fatalf("2027 remaining = %v, want 11 (1 accrued + 10 carried)", ent.Remaining)
	}
}

func TestRecalculateUnknownEmployee(t *testing.T) {
	store := newMemStore()
	store.leaveTypes["lt1"] = approvedType("lt1", 1, 10)
	svc := NewService(store)

	_, err := svc.Recalculate(context.Background(), "ghost", "lt1", time.Now().UTC())
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("err = %v, want ErrEmployeeNotFound", err)
	}
}

func TestAdjustUnknownEmployeeInsertsNothing(t *testing.T) {
	store := newMemStore()
	store.leaveTypes["lt1"] = approvedType("lt1", 1, 10)
	svc := NewService(store)

	_, err := svc.Adjust(context.Background(), "hr1", AdjustmentInput{
		EmployeeID:     "ghost",
		LeaveTypeID:    "lt1",
		AdjustmentType: AdjustmentDeduct,
		Amount:         2,
		Reason:         "correction",
	})
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("err = %v, want ErrEmployeeNotFound", err)
	}
	if len(store.adjustments) != 0 {
		t.Fatalf("adjustment was recorded for an unknown employee")
	}
}
