package recruitment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("recruitment resource not found")
	ErrInvalidTransition = errors.New("invalid requisition transition")
	ErrValidation        = errors.New("invalid recruitment payload")
)

type Service struct {
	DB *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) CreateTemplate(ctx context.Context, tpl JobTemplate) (JobTemplate, error) {
	if strings.TrimSpace(tpl.Title) == "" || strings.TrimSpace(tpl.Department) == "" {
		return JobTemplate{}, ErrValidation
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_templates (title, department, description)
    VALUES ($1, $2, NULLIF($3, ''))
    RETURNING id, created_at, updated_at
  `, strings.TrimSpace(tpl.Title), strings.TrimSpace(tpl.Department), tpl.Description).
		Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
	return tpl, err
}

func (s *Service) ListTemplates(ctx context.Context, search string, limit, offset int) ([]JobTemplate, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM job_templates "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	paging := fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, department, COALESCE(description, ''), created_at, updated_at
    FROM job_templates `+where+paging, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []JobTemplate{}
	for rows.Next() {
		var tpl JobTemplate
		if err := rows.Scan(&tpl.ID, &tpl.Title, &tpl.Department, &tpl.Description, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, tpl)
	}
	return items, total, rows.Err()
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, tpl JobTemplate) (JobTemplate, error) {
	if strings.TrimSpace(tpl.Title) == "" || strings.TrimSpace(tpl.Department) == "" {
		return JobTemplate{}, ErrValidation
	}
	err := s.DB.QueryRow(ctx, `
    UPDATE job_templates
    SET title = $2, department = $3, description = NULLIF($4, ''), updated_at = now()
    WHERE id = $1
    RETURNING id, created_at, updated_at
  `, id, strings.TrimSpace(tpl.Title), strings.TrimSpace(tpl.Department), tpl.Description).
		Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return tpl, ErrNotFound
	}
	return tpl, err
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM job_templates WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const requisitionColumns = "id, template_id, title, headcount, filled, status, created_at, updated_at"

func scanRequisition(row pgx.Row) (Requisition, error) {
	var req Requisition
	err := row.Scan(&req.ID, &req.TemplateID, &req.Title, &req.Headcount, &req.Filled,
		&req.Status, &req.CreatedAt, &req.UpdatedAt)
	req.FillRate = FillRate(req.Filled, req.Headcount)
	return req, err
}

// CreateRequisition derives an opening from a template; the title
// defaults to the template's when omitted.
func (s *Service) CreateRequisition(ctx context.Context, templateID, title string, headcount int) (Requisition, error) {
	if headcount < 1 {
		return Requisition{}, ErrValidation
	}

	var templateTitle string
	err := s.DB.QueryRow(ctx, "SELECT title FROM job_templates WHERE id = $1", templateID).Scan(&templateTitle)
	if errors.Is(err, pgx.ErrNoRows) {
		return Requisition{}, ErrNotFound
	}
	if err != nil {
		return Requisition{}, err
	}
	if strings.TrimSpace(title) == "" {
		title = templateTitle
	}

	return scanRequisition(s.DB.QueryRow(ctx, `
    INSERT INTO requisitions (template_id, title, headcount, status)
    VALUES ($1, $2, $3, $4)
    RETURNING `+requisitionColumns+`
  `, templateID, strings.TrimSpace(title), headcount, RequisitionDraft))
}

func (s *Service) GetRequisition(ctx context.Context, id string) (Requisition, error) {
	req, err := scanRequisition(s.DB.QueryRow(ctx,
		"SELECT "+requisitionColumns+" FROM requisitions WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return req, ErrNotFound
	}
	return req, err
}

func (s *Service) ListRequisitions(ctx context.Context, status, search string, limit, offset int) ([]Requisition, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM requisitions "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	paging := fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx, "SELECT "+requisitionColumns+" FROM requisitions "+where+paging, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []Requisition{}
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, req)
	}
	return items, total, rows.Err()
}

func (s *Service) Transition(ctx context.Context, id, target string) (Requisition, error) {
	req, err := s.GetRequisition(ctx, id)
	if err != nil {
		return Requisition{}, err
	}
	if !TransitionAllowed(req.Status, target) {
		return Requisition{}, ErrInvalidTransition
	}
	return scanRequisition(s.DB.QueryRow(ctx, `
    UPDATE requisitions SET status = $2, updated_at = now() WHERE id = $1
    RETURNING `+requisitionColumns, id, target))
}

// RecordHire increments the filled count on a published requisition
// and closes it once the headcount is reached.
func (s *Service) RecordHire(ctx context.Context, id string) (Requisition, error) {
	req, err := s.GetRequisition(ctx, id)
	if err != nil {
		return Requisition{}, err
	}
	if req.Status != RequisitionPublished {
		return Requisition{}, ErrInvalidTransition
	}

	filled := req.Filled + 1
	status := req.Status
	if filled >= req.Headcount {
		filled = req.Headcount
		status = RequisitionClosed
	}
	return scanRequisition(s.DB.QueryRow(ctx, `
    UPDATE requisitions SET filled = $2, status = $3, updated_at = now() WHERE id = $1
    RETURNING `+requisitionColumns, id, filled, status))
}
