package offboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `
    id, employee_id, COALESCE(contract_id, ''), reason, initiator, status,
    termination_date, COALESCE(employee_comments, ''), COALESCE(hr_comments, ''),
    created_at, updated_at`

func scanRequest(row pgx.Row) (TerminationRequest, error) {
	var req TerminationRequest
	err := row.Scan(&req.ID, &req.EmployeeID, &req.ContractID, &req.Reason, &req.Initiator,
		&req.Status, &req.TerminationDate, &req.EmployeeComments, &req.HRComments,
		&req.CreatedAt, &req.UpdatedAt)
	return req, err
}

func (s *Store) CreateRequest(ctx context.Context, req TerminationRequest) (TerminationRequest, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO termination_requests
      (employee_id, contract_id, reason, initiator, status, termination_date, employee_comments)
    VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, NULLIF($7, ''))
    RETURNING `+requestColumns+`
  `, req.EmployeeID, req.ContractID, req.Reason, req.Initiator, req.Status,
		req.TerminationDate, req.EmployeeComments))
}

func (s *Store) RequestByID(ctx context.Context, requestID string) (TerminationRequest, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx,
		"SELECT "+requestColumns+" FROM termination_requests WHERE id = $1", requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return req, ErrRequestNotFound
	}
	return req, err
}

func (s *Store) ListRequests(ctx context.Context, status, employeeID string, limit, offset int) ([]TerminationRequest, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if employeeID != "" {
		args = append(args, employeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM termination_requests "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	paging := fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx, "SELECT "+requestColumns+" FROM termination_requests "+where+paging, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []TerminationRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, req)
	}
	return items, total, rows.Err()
}

func (s *Store) UpdateRequestStatus(ctx context.Context, requestID, status, hrComments string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE termination_requests
    SET status = $2, hr_comments = NULLIF($3, ''), updated_at = now()
    WHERE id = $1
  `, requestID, status, hrComments)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (s *Store) CreateChecklist(ctx context.Context, requestID string, departments []string) (Checklist, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Checklist{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var checklistID string
	err = tx.QueryRow(ctx, `
    INSERT INTO offboarding_checklists (termination_request_id, overall_status)
    VALUES ($1, $2)
    RETURNING id
  `, requestID, OverallInProgress).Scan(&checklistID)
	if err != nil {
		return Checklist{}, err
	}

	for _, department := range departments {
		if _, err := tx.Exec(ctx, `
      INSERT INTO offboarding_clearances (checklist_id, department, status)
      VALUES ($1, $2, $3)
    `, checklistID, department, ClearancePending); err != nil {
			return Checklist{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Checklist{}, err
	}
	return s.ChecklistByID(ctx, checklistID)
}

func (s *Store) ChecklistByID(ctx context.Context, checklistID string) (Checklist, error) {
	return s.loadChecklist(ctx, "id = $1", checklistID)
}

func (s *Store) ChecklistByRequest(ctx context.Context, requestID string) (Checklist, error) {
	return s.loadChecklist(ctx, "termination_request_id = $1", requestID)
}

func (s *Store) loadChecklist(ctx context.Context, where, arg string) (Checklist, error) {
	var checklist Checklist
	err := s.DB.QueryRow(ctx, `
    SELECT id, termination_request_id, card_returned, overall_status, created_at, updated_at
    FROM offboarding_checklists
    WHERE `+where, arg).Scan(&checklist.ID, &checklist.TerminationRequestID,
		&checklist.CardReturned, &checklist.OverallStatus, &checklist.CreatedAt, &checklist.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return checklist, ErrChecklistNotFound
	}
	if err != nil {
		return checklist, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT department, status, COALESCE(comments, ''), COALESCE(updated_by::text, ''), updated_at
    FROM offboarding_clearances
    WHERE checklist_id = $1
    ORDER BY department
  `, checklist.ID)
	if err != nil {
		return checklist, err
	}
	defer rows.Close()
	for rows.Next() {
		var item Clearance
		if err := rows.Scan(&item.Department, &item.Status, &item.Comments, &item.UpdatedBy, &item.UpdatedAt); err != nil {
			return checklist, err
		}
		checklist.Clearances = append(checklist.Clearances, item)
	}
	if err := rows.Err(); err != nil {
		return checklist, err
	}

	equipmentRows, err := s.DB.Query(ctx, `
    SELECT name, returned, COALESCE(condition, '')
    FROM offboarding_equipment
    WHERE checklist_id = $1
    ORDER BY name
  `, checklist.ID)
	if err != nil {
		return checklist, err
	}
	defer equipmentRows.Close()
	for equipmentRows.Next() {
		var item EquipmentItem
		if err := equipmentRows.Scan(&item.Name, &item.Returned, &item.Condition); err != nil {
			return checklist, err
		}
		checklist.Equipment = append(checklist.Equipment, item)
	}
	return checklist, equipmentRows.Err()
}

func (s *Store) UpdateClearance(ctx context.Context, checklistID string, item Clearance) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE offboarding_clearances
    SET status = $3, comments = NULLIF($4, ''), updated_by = NULLIF($5, '')::uuid, updated_at = now()
    WHERE checklist_id = $1 AND department = $2
  `, checklistID, item.Department, item.Status, item.Comments, item.UpdatedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownDepartment
	}
	return s.touch(ctx, checklistID)
}

func (s *Store) UpsertEquipment(ctx context.Context, checklistID string, item EquipmentItem) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO offboarding_equipment (checklist_id, name, returned, condition)
    VALUES ($1, $2, $3, NULLIF($4, ''))
    ON CONFLICT (checklist_id, name)
    DO UPDATE SET returned = EXCLUDED.returned, condition = EXCLUDED.condition
  `, checklistID, item.Name, item.Returned, item.Condition)
	if err != nil {
		return err
	}
	return s.touch(ctx, checklistID)
}

func (s *Store) SetCardReturned(ctx context.Context, checklistID string, returned bool) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE offboarding_checklists SET card_returned = $2, updated_at = now() WHERE id = $1
  `, checklistID, returned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrChecklistNotFound
	}
	return nil
}

func (s *Store) SetOverallStatus(ctx context.Context, checklistID, overall string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE offboarding_checklists SET overall_status = $2, updated_at = now() WHERE id = $1
  `, checklistID, overall)
	return err
}

func (s *Store) EmployeeName(ctx context.Context, employeeID string) (string, error) {
	var first, last string
	err := s.DB.QueryRow(ctx, "SELECT first_name, last_name FROM employees WHERE id = $1", employeeID).Scan(&first, &last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return first + " " + last, nil
}

func (s *Store) touch(ctx context.Context, checklistID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE offboarding_checklists SET updated_at = now() WHERE id = $1", checklistID)
	return err
}
