package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/suppertable/experience-service/internal/application/experience"
	"github.com/suppertable/experience-service/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func scanExperience(row interface{ Scan(...any) error }) (*domain.Experience, error) {
	var e domain.Experience
	var status string
	err := row.Scan(
		&e.ID, &e.HostID, &e.Title, &e.Description, &e.City, &e.Cuisine,
		&e.StartTime, &e.DurationMinutes, &e.Price, &e.Capacity, &e.SpotsLeft,
		&e.CancellationPolicy, &status,
		&e.PublishedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = domain.ExperienceStatus(status)
	return &e, nil
}

func (r *Repo) Create(ctx context.Context, e *domain.Experience) error {
	_, err := r.db.ExecContext(ctx, insertExperienceSQL,
		e.ID, e.HostID, e.Title, e.Description, e.City, e.Cuisine,
		e.StartTime, e.DurationMinutes, e.Price, e.Capacity, e.SpotsLeft,
		e.CancellationPolicy, string(e.Status), e.PublishedAt, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Experience, error) {
	e, err := scanExperience(r.db.QueryRowContext(ctx, getExperienceSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("experience not found")
	}
	if err != nil {
		return nil, err
	}
	if !e.Status.Valid() {
		return nil, domain.ErrInvalidState("invalid status in db")
	}
	return e, nil
}

func (r *Repo) Update(ctx context.Context, e *domain.Experience) error {
	_, err := r.db.ExecContext(ctx, updateExperienceSQL,
		e.ID,
		e.Title, e.Description, e.City, e.Cuisine,
		e.StartTime, e.DurationMinutes, e.Price, e.Capacity, e.SpotsLeft,
		e.CancellationPolicy, string(e.Status), e.PublishedAt, e.UpdatedAt,
	)
	return err
}

func (r *Repo) DecrementSpots(ctx context.Context, experienceID string, tickets int) error {
	res, err := r.db.ExecContext(ctx, decrementSpotsSQL, experienceID, tickets)
	if err != nil {
		return fmt.Errorf("decrement spots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("experience not found")
	}
	return nil
}

func (r *Repo) IncrementSpots(ctx context.Context, experienceID string, tickets int) error {
	res, err := r.db.ExecContext(ctx, incrementSpotsSQL, experienceID, tickets)
	if err != nil {
		return fmt.Errorf("increment spots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("experience not found")
	}
	return nil
}

func (r *Repo) ListByHost(ctx context.Context, hostID string, page, pageSize int) ([]*domain.Experience, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM experiences WHERE host_id=$1`, hostID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+experienceColumns+`
FROM experiences
WHERE host_id=$1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, hostID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repo) ListPublic(ctx context.Context, f experience.ListFilter) ([]*domain.Experience, int, error) {
	if err := f.Normalize(); err != nil {
		return nil, 0, err
	}

	where := []string{"status = 'published'"}
	args := []any{}
	argN := 1

	add := func(condFmt string, val any) {
		where = append(where, fmt.Sprintf(condFmt, argN))
		args = append(args, val)
		argN++
	}

	if f.City != "" {
		add("city = $%d", f.City)
	}
	if f.Cuisine != "" {
		add("cuisine = $%d", f.Cuisine)
	}
	if f.From != nil {
		add("start_time >= $%d", *f.From)
	}
	if f.To != nil {
		add("start_time <= $%d", *f.To)
	}

	whereSQL := "WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM experiences "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.PageSize
	listSQL := `
SELECT ` + experienceColumns + `
FROM experiences
` + whereSQL + `
ORDER BY start_time ASC, id ASC
LIMIT $` + fmt.Sprintf("%d", argN) + ` OFFSET $` + fmt.Sprintf("%d", argN+1)

	args = append(args, f.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
