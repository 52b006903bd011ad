package configentity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Def describes how one configuration entity type maps onto its table.
// The framework is defined once and instantiated per entity, so status
// gating and list semantics cannot drift between entity types.
type Def[T any] struct {
	Name         string
	Table        string
	Columns      []string
	SearchColumn string

	// EditableWhenApproved keeps an entity mutable after approval.
	// Deliberate per-entity policy, not an accident of any one page.
	EditableWhenApproved bool

	Meta      func(*T) *Meta
	Fields    func(*T) []any
	Normalize func(*T)
	Validate  func(*T) error
}

type Resource[T any] struct {
	db  *pgxpool.Pool
	def Def[T]
}

func NewResource[T any](db *pgxpool.Pool, def Def[T]) *Resource[T] {
	return &Resource[T]{db: db, def: def}
}

func (r *Resource[T]) Def() Def[T] {
	return r.def
}

func (r *Resource[T]) selectColumns() string {
	cols := append([]string{"id", "status", "created_at", "updated_at"}, r.def.Columns...)
	return strings.Join(cols, ", ")
}

func (r *Resource[T]) scan(row pgx.Row) (T, error) {
	var entity T
	meta := r.def.Meta(&entity)
	targets := append([]any{&meta.ID, &meta.Status, &meta.CreatedAt, &meta.UpdatedAt}, r.def.Fields(&entity)...)
	err := row.Scan(targets...)
	return entity, err
}

func (r *Resource[T]) List(ctx context.Context, q ListQuery) ([]T, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if q.Search != "" && r.def.SearchColumn != "" {
		args = append(args, "%"+q.Search+"%")
		where += fmt.Sprintf(" AND %s ILIKE $%d", r.def.SearchColumn, len(args))
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(1) FROM %s %s", r.def.Table, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := q.LimitOffset()
	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(
		"SELECT %s FROM %s %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d",
		r.selectColumns(), r.def.Table, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		entity, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, entity)
	}
	return items, total, rows.Err()
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.selectColumns(), r.def.Table)
	entity, err := r.scan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity, ErrNotFound
	}
	return entity, err
}

func (r *Resource[T]) prepare(entity *T) error {
	if r.def.Normalize != nil {
		r.def.Normalize(entity)
	}
	if r.def.Validate != nil {
		return r.def.Validate(entity)
	}
	return nil
}

// Create inserts the entity as a draft and fills its Meta from the row.
func (r *Resource[T]) Create(ctx context.Context, entity *T) error {
	if err := r.prepare(entity); err != nil {
		return err
	}

	placeholders := make([]string, len(r.def.Columns))
	for i := range r.def.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id, status, created_at, updated_at",
		r.def.Table, strings.Join(r.def.Columns, ", "), strings.Join(placeholders, ", "),
	)

	meta := r.def.Meta(entity)
	return r.db.QueryRow(ctx, query, r.def.Fields(entity)...).
		Scan(&meta.ID, &meta.Status, &meta.CreatedAt, &meta.UpdatedAt)
}

func (r *Resource[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := r.prepare(entity); err != nil {
		return err
	}
	status, err := r.currentStatus(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutate(status, r.def.EditableWhenApproved) {
		return ErrNotEditable
	}

	assignments := make([]string, len(r.def.Columns))
	for i, col := range r.def.Columns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	query := fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = now() WHERE id = $1 RETURNING id, status, created_at, updated_at",
		r.def.Table, strings.Join(assignments, ", "),
	)

	values := append([]any{id}, r.def.Fields(entity)...)

	meta := r.def.Meta(entity)
	err = r.db.QueryRow(ctx, query, values...).
		Scan(&meta.ID, &meta.Status, &meta.CreatedAt, &meta.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	status, err := r.currentStatus(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutate(status, r.def.EditableWhenApproved) {
		return ErrNotEditable
	}
	tag, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.def.Table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Resource[T]) UpdateStatus(ctx context.Context, id, target string) error {
	if !ValidStatus(target) {
		return ErrInvalidTransition
	}
	current, err := r.currentStatus(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(current, target) {
		return ErrInvalidTransition
	}
	_, err = r.db.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $2, updated_at = now() WHERE id = $1", r.def.Table),
		id, target)
	return err
}

func (r *Resource[T]) currentStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT status FROM %s WHERE id = $1", r.def.Table), id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return status, err
}
