package costcenters

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qayd-erp/qayd/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]CostCenter, int, error)
	Get(ctx context.Context, id int64) (CostCenter, error)
	Create(ctx context.Context, center CostCenter) (CostCenter, error)
	Update(ctx context.Context, id int64, center CostCenter) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]CostCenter, int, error) {
	query := `SELECT id, code, name, is_active, created_at, updated_at FROM cost_centers WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM cost_centers WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		argCount++
		clause := ` AND is_active = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY code`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var centers []CostCenter
	for rows.Next() {
		var b CostCenter
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		centers = append(centers, b)
	}
	return centers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (CostCenter, error) {
	var b CostCenter
	err := r.db.QueryRow(ctx, `SELECT id, code, name, is_active, created_at, updated_at FROM cost_centers WHERE id = $1`, id).
		Scan(&b.ID, &b.Code, &b.Name, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return CostCenter{}, shared.ErrNotFound
	}
	return b, err
}

func (r *repository) Create(ctx context.Context, center CostCenter) (CostCenter, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO cost_centers (code, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		center.Code, center.Name, center.IsActive, now, now,
	).Scan(&center.ID)
	if err != nil {
		return CostCenter{}, shared.MapDuplicate(err)
	}
	center.CreatedAt = now
	center.UpdatedAt = now
	return center, nil
}

func (r *repository) Update(ctx context.Context, id int64, center CostCenter) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE cost_centers SET code = $1, name = $2, is_active = $3, updated_at = $4 WHERE id = $5`,
		center.Code, center.Name, center.IsActive, time.Now(), id)
	if err != nil {
		return shared.MapDuplicate(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE cost_centers SET is_active = false, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
