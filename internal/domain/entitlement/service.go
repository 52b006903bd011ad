package entitlement

import (
	"context"
	"errors"
	"strings"
	"time"

	"peopleops/internal/domain/configentity"
)

var (
	ErrNotFound          = errors.New("entitlement not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrLeaveTypeNotFound = errors.New("leave type not found")
	ErrTypeNotApproved   = errors.New("leave type is not approved")
	ErrInvalidAdjustment = errors.New("invalid adjustment")
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Entitlement, int, error) {
	return s.Store.ListEntitlements(ctx, employeeID, limit, offset)
}

func (s *Service) Get(ctx context.Context, employeeID, leaveTypeID string) (Entitlement, error) {
	return s.Store.Entitlement(ctx, employeeID, leaveTypeID)
}

// Recalculate recomputes the accrual-derived fields for one
// (employee, leave type) pair, creating the entitlement on first use.
func (s *Service) Recalculate(ctx context.Context, employeeID, leaveTypeID string, now time.Time) (Entitlement, error) {
	lt, err := s.approvedLeaveType(ctx, leaveTypeID)
	if err != nil {
		return Entitlement{}, err
	}

	ent, err := s.Store.Entitlement(ctx, employeeID, leaveTypeID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Entitlement{}, err
	}
	ent.EmployeeID = employeeID
	ent.LeaveTypeID = leaveTypeID

	startDate, err := s.Store.EmployeeStartDate(ctx, employeeID)
	if err != nil {
		return Entitlement{}, err
	}
	adjustments, err := s.Store.AdjustmentTotal(ctx, employeeID, leaveTypeID, ent.LastResetAt)
	if err != nil {
		return Entitlement{}, err
	}

	Recompute(&ent, lt, startDate, adjustments, now)
	return s.Store.UpsertEntitlement(ctx, ent)
}

type AdjustmentInput struct {
	EmployeeID     string  `json:"employeeId"`
	LeaveTypeID    string  `json:"leaveTypeId"`
	AdjustmentType string  `json:"adjustmentType"`
	Amount         float64 `json:"amount"`
	Reason         string  `json:"reason"`
}

// Adjust appends an immutable balance adjustment and re-derives the
// entitlement it applies to.
func (s *Service) Adjust(ctx context.Context, hrUserID string, input AdjustmentInput) (Entitlement, error) {
	if !ValidAdjustmentType(input.AdjustmentType) {
		return Entitlement{}, ErrInvalidAdjustment
	}
	if input.Amount <= 0 {
		return Entitlement{}, ErrInvalidAdjustment
	}
	if strings.TrimSpace(input.Reason) == "" {
		return Entitlement{}, ErrInvalidAdjustment
	}

	// The adjustment row carries an employee FK; verify the employee
	// up front so a bad ID fails cleanly instead of as a constraint
	// violation.
	if _, err := s.Store.EmployeeStartDate(ctx, input.EmployeeID); err != nil {
		return Entitlement{}, err
	}

	if _, err := s.Store.InsertAdjustment(ctx, BalanceAdjustment{
		EmployeeID:     input.EmployeeID,
		LeaveTypeID:    input.LeaveTypeID,
		AdjustmentType: input.AdjustmentType,
		Amount:         input.Amount,
		Reason:         strings.TrimSpace(input.Reason),
		HRUserID:       hrUserID,
	}); err != nil {
		return Entitlement{}, err
	}

	return s.Recalculate(ctx, input.EmployeeID, input.LeaveTypeID, time.Now().UTC())
}

func (s *Service) ListAdjustments(ctx context.Context, employeeID, leaveTypeID string, limit, offset int) ([]BalanceAdjustment, int, error) {
	return s.Store.ListAdjustments(ctx, employeeID, leaveTypeID, limit, offset)
}

type ResetSummary struct {
	EntitlementsReset int `json:"entitlementsReset"`
}

// RunAnnualReset rolls every due entitlement into the new year.
func (s *Service) RunAnnualReset(ctx context.Context, now time.Time) (ResetSummary, error) {
	var summary ResetSummary

	due, err := s.Store.DueForReset(ctx, now)
	if err != nil {
		return summary, err
	}

	for _, ent := range due {
		lt, err := s.Store.LeaveTypeByID(ctx, ent.LeaveTypeID)
		if err != nil {
			return summary, err
		}
		Reset(&ent, lt, now)
		if _, err := s.Store.UpsertEntitlement(ctx, ent); err != nil {
			return summary, err
		}
		summary.EntitlementsReset++
	}
	return summary, nil
}

func (s *Service) approvedLeaveType(ctx context.Context, leaveTypeID string) (LeaveType, error) {
	lt, err := s.Store.LeaveTypeByID(ctx, leaveTypeID)
	if err != nil {
		return LeaveType{}, err
	}
	if lt.Status != configentity.StatusApproved {
		return LeaveType{}, ErrTypeNotApproved
	}
	return lt, nil
}
