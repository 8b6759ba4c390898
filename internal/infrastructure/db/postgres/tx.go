package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/suppertable/experience-service/internal/application/experience"
	"github.com/suppertable/experience-service/internal/domain"
)

func (r *Repo) WithTx(ctx context.Context, fn func(tr experience.TxExperienceRepo) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
		ReadOnly:  false,
	})
	if err != nil {
		return err
	}

	tr := &txRepo{tx: tx}

	defer func() {
		// rollback on panic to avoid a leaked tx
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tr); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepo struct {
	tx *sql.Tx
}

func (r *txRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Experience, error) {
	e, err := scanExperience(r.tx.QueryRowContext(ctx, getExperienceForUpdateSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("experience not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *txRepo) Update(ctx context.Context, e *domain.Experience) error {
	_, err := r.tx.ExecContext(ctx, updateExperienceSQL,
		e.ID,
		e.Title, e.Description, e.City, e.Cuisine,
		e.StartTime, e.DurationMinutes, e.Price, e.Capacity, e.SpotsLeft,
		e.CancellationPolicy, string(e.Status), e.PublishedAt, e.UpdatedAt,
	)
	return err
}

func (r *txRepo) SumConfirmedTickets(ctx context.Context, experienceID string) (int, error) {
	var sum int
	if err := r.tx.QueryRowContext(ctx, sumConfirmedTicketsSQL, experienceID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *txRepo) InsertOutbox(ctx context.Context, msg experience.OutboxMessage) error {
	// JSON stored as text cast to jsonb for lib/pq compatibility.
	// next_retry_at = created_at makes the row immediately pollable.
	_, err := r.tx.ExecContext(ctx, insertOutboxSQL,
		msg.MessageID,
		msg.RoutingKey,
		string(msg.Body),
		msg.CreatedAt.UTC(),
	)
	return err
}
