package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopleops/internal/domain/configentity"
)

// LeaveTypeDef binds leave types into the shared config framework.
var LeaveTypeDef = configentity.Def[LeaveType]{
	Name:         "leave_type",
	Table:        "leave_types",
	Columns:      []string{"name", "code", "monthly_accrual", "carry_forward_cap", "allow_negative"},
	SearchColumn: "name",
	Meta:         func(lt *LeaveType) *configentity.Meta { return &lt.Meta },
	Fields: func(lt *LeaveType) []any {
		return []any{&lt.Name, &lt.Code, &lt.MonthlyAccrual, &lt.CarryForwardCap, &lt.AllowNegative}
	},
	Normalize: func(lt *LeaveType) {
		if lt.MonthlyAccrual < 0 {
			lt.MonthlyAccrual = 0
		}
		if lt.CarryForwardCap < 0 {
			lt.CarryForwardCap = 0
		}
	},
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) LeaveTypeByID(ctx context.Context, leaveTypeID string) (LeaveType, error) {
	var lt LeaveType
	err := s.DB.QueryRow(ctx, `
    SELECT id, status, created_at, updated_at,
           name, code, monthly_accrual, carry_forward_cap, allow_negative
    FROM leave_types
    WHERE id = $1
  `, leaveTypeID).Scan(&lt.ID, &lt.Status, &lt.CreatedAt, &lt.UpdatedAt,
		&lt.Name, &lt.Code, &lt.MonthlyAccrual, &lt.CarryForwardCap, &lt.AllowNegative)
	if errors.Is(err, pgx.ErrNoRows) {
		return lt, ErrLeaveTypeNotFound
	}
	return lt, err
}

const entitlementColumns = `
    id, employee_id, leave_type_id, yearly_entitlement,
    accrued_actual, accrued_rounded, carry_forward,
    taken, pending, remaining, next_reset_date, last_reset_at, updated_at`

func scanEntitlement(row pgx.Row) (Entitlement, error) {
	var ent Entitlement
	err := row.Scan(&ent.ID, &ent.EmployeeID, &ent.LeaveTypeID, &ent.YearlyEntitlement,
		&ent.AccruedActual, &ent.AccruedRounded, &ent.CarryForward,
		&ent.Taken, &ent.Pending, &ent.Remaining, &ent.NextResetDate, &ent.LastResetAt, &ent.UpdatedAt)
	return ent, err
}

func (s *Store) Entitlement(ctx context.Context, employeeID, leaveTypeID string) (Entitlement, error) {
	ent, err := scanEntitlement(s.DB.QueryRow(ctx, `
    SELECT `+entitlementColumns+`
    FROM leave_entitlements
    WHERE employee_id = $1 AND leave_type_id = $2
  `, employeeID, leaveTypeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return ent, ErrNotFound
	}
	return ent, err
}

func (s *Store) ListEntitlements(ctx context.Context, employeeID string, limit, offset int) ([]Entitlement, int, error) {
	where := ""
	args := []any{}
	if employeeID != "" {
		where = "WHERE employee_id = $1"
		args = append(args, employeeID)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_entitlements "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + entitlementColumns + " FROM leave_entitlements " + where
	if employeeID != "" {
		query += " ORDER BY updated_at DESC LIMIT $2 OFFSET $3"
	} else {
		query += " ORDER BY updated_at DESC LIMIT $1 OFFSET $2"
	}
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []Entitlement{}
	for rows.Next() {
		ent, err := scanEntitlement(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ent)
	}
	return items, total, rows.Err()
}

func (s *Store) UpsertEntitlement(ctx context.Context, ent Entitlement) (Entitlement, error) {
	return scanEntitlement(s.DB.QueryRow(ctx, `
    INSERT INTO leave_entitlements
      (employee_id, leave_type_id, yearly_entitlement, accrued_actual, accrued_rounded,
       carry_forward, taken, pending, remaining, next_reset_date, last_reset_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    ON CONFLICT (employee_id, leave_type_id)
    DO UPDATE SET
      yearly_entitlement = EXCLUDED.yearly_entitlement,
      accrued_actual = EXCLUDED.accrued_actual,
      accrued_rounded = EXCLUDED.accrued_rounded,
      carry_forward = EXCLUDED.carry_forward,
      taken = EXCLUDED.taken,
      pending = EXCLUDED.pending,
      remaining = EXCLUDED.remaining,
      next_reset_date = EXCLUDED.next_reset_date,
      last_reset_at = EXCLUDED.last_reset_at,
      updated_at = now()
    RETURNING `+entitlementColumns+`
  `, ent.EmployeeID, ent.LeaveTypeID, ent.YearlyEntitlement, ent.AccruedActual, ent.AccruedRounded,
		ent.CarryForward, ent.Taken, ent.Pending, ent.Remaining, ent.NextResetDate, ent.LastResetAt))
}

// AdjustmentTotal sums the signed effect of adjustments recorded at or
// after since. Adjustments from before an annual reset are already part
// of the carried-forward balance and are excluded by the caller passing
// the entitlement's LastResetAt.
func (s *Store) AdjustmentTotal(ctx context.Context, employeeID, leaveTypeID string, since time.Time) (float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT adjustment_type, amount
    FROM leave_balance_adjustments
    WHERE employee_id = $1 AND leave_type_id = $2 AND created_at >= $3
  `, employeeID, leaveTypeID, since)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var total float64
	for rows.Next() {
		var adjustmentType string
		var amount float64
		if err := rows.Scan(&adjustmentType, &amount); err != nil {
			return 0, err
		}
		total += SignedAmount(adjustmentType, amount)
	}
	return total, rows.Err()
}

func (s *Store) InsertAdjustment(ctx context.Context, adj BalanceAdjustment) (BalanceAdjustment, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_balance_adjustments
      (employee_id, leave_type_id, adjustment_type, amount, reason, hr_user_id)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, created_at
  `, adj.EmployeeID, adj.LeaveTypeID, adj.AdjustmentType, adj.Amount, adj.Reason, adj.HRUserID).
		Scan(&adj.ID, &adj.CreatedAt)
	return adj, err
}

func (s *Store) ListAdjustments(ctx context.Context, employeeID, leaveTypeID string, limit, offset int) ([]BalanceAdjustment, int, error) {
	where := "WHERE employee_id = $1"
	args := []any{employeeID}
	if leaveTypeID != "" {
		args = append(args, leaveTypeID)
		where += " AND leave_type_id = $2"
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_balance_adjustments "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	paging := fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, leave_type_id, adjustment_type, amount, reason, hr_user_id, created_at
    FROM leave_balance_adjustments `+where+paging, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []BalanceAdjustment{}
	for rows.Next() {
		var adj BalanceAdjustment
		if err := rows.Scan(&adj.ID, &adj.EmployeeID, &adj.LeaveTypeID, &adj.AdjustmentType,
			&adj.Amount, &adj.Reason, &adj.HRUserID, &adj.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, adj)
	}
	return items, total, rows.Err()
}

func (s *Store) EmployeeStartDate(ctx context.Context, employeeID string) (*time.Time, error) {
	var start *time.Time
	err := s.DB.QueryRow(ctx, "SELECT start_date FROM employees WHERE id = $1", employeeID).Scan(&start)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	return start, err
}

func (s *Store) DueForReset(ctx context.Context, now time.Time) ([]Entitlement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entitlementColumns+`
    FROM leave_entitlements
    WHERE next_reset_date <= $1
    ORDER BY next_reset_date
  `, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Entitlement
	for rows.Next() {
		ent, err := scanEntitlement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, ent)
	}
	return items, rows.Err()
}
