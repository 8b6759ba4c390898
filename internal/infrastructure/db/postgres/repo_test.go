package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/suppertable/experience-service/internal/application/experience"
	"github.com/suppertable/experience-service/internal/domain"
)

func experienceRows(id string, capacity, spotsLeft int, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "host_id", "title", "description", "city", "cuisine",
		"start_time", "duration_minutes", "price", "capacity", "spots_left",
		"cancellation_policy", "status", "published_at", "created_at", "updated_at",
	}).AddRow(
		id, "host_1", "Dumpling Workshop", "Hands-on", "Taipei", "taiwanese",
		now.Add(72*time.Hour), 120, 65.0, capacity, spotsLeft,
		"48h", status, nil, now, now,
	)
}

func TestRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := New(db)
	now := time.Now().UTC()
	e := &domain.Experience{
		ID: "exp_1", HostID: "host_1", Title: "Dumpling Workshop",
		StartTime: now.Add(72 * time.Hour), DurationMinutes: 120,
		Price: 65, Capacity: 12, SpotsLeft: 12,
		CancellationPolicy: "48h", Status: domain.StatusDraft,
		CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO experiences").
		WithArgs(
			e.ID, e.HostID, e.Title, e.Description, e.City, e.Cuisine,
			e.StartTime, e.DurationMinutes, e.Price, e.Capacity, e.SpotsLeft,
			e.CancellationPolicy, string(e.Status), e.PublishedAt, e.CreatedAt, e.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := New(db)

	t.Run("success_mapping", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM experiences WHERE id =").
			WithArgs("exp_1").
			WillReturnRows(experienceRows("exp_1", 12, 7, "published"))

		e, err := repo.GetByID(context.Background(), "exp_1")
		assert.NoError(t, err)
		assert.Equal(t, "exp_1", e.ID)
		assert.Equal(t, domain.StatusPublished, e.Status)
		assert.Equal(t, 7, e.SpotsLeft)
	})

	t.Run("not_found_mapping", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WithArgs("none").WillReturnError(sql.ErrNoRows)

		e, err := repo.GetByID(context.Background(), "none")
		assert.Error(t, err)
		assert.Nil(t, e)
		assert.Contains(t, err.Error(), "experience not found")
	})
}

func TestRepo_SpotsAdjustments(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := New(db)

	t.Run("decrement_clamped_in_sql", func(t *testing.T) {
		mock.ExpectExec(`UPDATE experiences\s+SET spots_left = GREATEST`).
			WithArgs("exp_1", 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DecrementSpots(context.Background(), "exp_1", 3)
		assert.NoError(t, err)
	})

	t.Run("increment", func(t *testing.T) {
		mock.ExpectExec(`UPDATE experiences\s+SET spots_left = LEAST`).
			WithArgs("exp_1", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.IncrementSpots(context.Background(), "exp_1", 2)
		assert.NoError(t, err)
	})

	t.Run("unknown_id_is_not_found", func(t *testing.T) {
		mock.ExpectExec("UPDATE experiences").
			WithArgs("ghost", 1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DecrementSpots(context.Background(), "ghost", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Reconcile_Tx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := New(db)

	t.Run("lock_sum_update_outbox_commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM experiences WHERE id =(.+)FOR UPDATE").
			WithArgs("exp_1").
			WillReturnRows(experienceRows("exp_1", 20, 15, "published"))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(tickets\), 0\)`).
			WithArgs("exp_1").
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(8))
		mock.ExpectExec("UPDATE experiences SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO outbox").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.WithTx(context.Background(), func(tr experience.TxExperienceRepo) error {
			e, err := tr.GetByIDForUpdate(context.Background(), "exp_1")
			if err != nil {
				return err
			}
			sum, err := tr.SumConfirmedTickets(context.Background(), "exp_1")
			if err != nil {
				return err
			}
			e.SpotsLeft = e.Capacity - sum
			if err := tr.Update(context.Background(), e); err != nil {
				return err
			}
			return tr.InsertOutbox(context.Background(), experience.OutboxMessage{
				MessageID:  "m1",
				RoutingKey: "experience.reconciled",
				Body:       []byte(`{"version":1}`),
				CreatedAt:  time.Now().UTC(),
			})
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_rolls_back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FOR UPDATE").
			WithArgs("exp_1").
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.WithTx(context.Background(), func(tr experience.TxExperienceRepo) error {
			_, err := tr.GetByIDForUpdate(context.Background(), "exp_1")
			return err
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
