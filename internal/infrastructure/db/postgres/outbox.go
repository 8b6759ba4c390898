package postgres

import (
	"context"
	"database/sql"
	"math"
	"math/rand"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/suppertable/experience-service/internal/application/experience"
)

type outboxRow struct {
	ID         int64
	MessageID  string
	RoutingKey string
	Body       []byte
	Attempts   int
}

// SKIP LOCKED lets multiple worker instances poll the same table.
const selectOutboxClaimsSQL = `
SELECT id, message_id, routing_key, body, attempts
FROM outbox
WHERE status = 'pending'
  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY next_retry_at ASC, created_at ASC
LIMIT $1
FOR UPDATE SKIP LOCKED
`

const updateOutboxClaimSQL = `
UPDATE outbox
SET next_retry_at = $2,
    status = 'processing'
WHERE id = $1
`

const markOutboxSentSQL = `
UPDATE outbox
SET status = 'sent',
    sent_at = $2,
    last_error = NULL
WHERE id = $1
`

const markOutboxFailedSQL = `
UPDATE outbox
SET status = 'pending',
    attempts = attempts + 1,
    next_retry_at = $2,
    last_error = $3
WHERE id = $1
`

const markOutboxDeadSQL = `
UPDATE outbox
SET status = 'dead',
    attempts = attempts + 1,
    last_error = $2
WHERE id = $1
`

const maxAttempts = 10

// OutboxWorker drains the shared outbox table. Both the cancellation flow
// and the capacity reconciler insert here; the worker does not care which.
type OutboxWorker struct {
	db  *sql.DB
	pub experience.EventPublisher
}

func NewOutboxWorker(db *sql.DB, pub experience.EventPublisher) *OutboxWorker {
	return &OutboxWorker{db: db, pub: pub}
}

// Start runs the polling loop until ctx is cancelled. Claim in a short tx,
// publish outside any lock, then record the result per row.
func (w *OutboxWorker) Start(ctx context.Context) {
	go func() {
		// startup jitter so multiple instances don't tick in lockstep
		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.processBatch(ctx, 20); err != nil {
					zlog.Warn().Err(err).Msg("outbox batch failed")
				}
			}
		}
	}()
}

func (w *OutboxWorker) processBatch(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = 50
	}

	claimCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := w.db.BeginTx(claimCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(claimCtx, selectOutboxClaimsSQL, limit)
	if err != nil {
		return err
	}
	defer rows.Close()

	var batch []outboxRow
	for rows.Next() {
		var item outboxRow
		if err := rows.Scan(&item.ID, &item.MessageID, &item.RoutingKey, &item.Body, &item.Attempts); err != nil {
			return err
		}
		batch = append(batch, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(batch) == 0 {
		return tx.Commit()
	}

	// push next_retry_at into the future so a crash between claim and result
	// only delays the row instead of double-publishing it immediately
	reservation := time.Now().UTC().Add(30 * time.Second)
	for _, item := range batch {
		if _, err := tx.ExecContext(claimCtx, updateOutboxClaimSQL, item.ID, reservation); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, item := range batch {
		w.processItem(ctx, item)
	}
	return nil
}

func (w *OutboxWorker) processItem(ctx context.Context, item outboxRow) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := w.pub.PublishEvent(pubCtx, item.RoutingKey, item.MessageID, item.Body)

	resCtx, cancelRes := context.WithTimeout(ctx, 3*time.Second)
	defer cancelRes()

	if err != nil {
		errMsg := err.Error()
		if item.Attempts >= maxAttempts {
			zlog.Error().Str("message_id", item.MessageID).Str("routing_key", item.RoutingKey).
				Int("attempts", item.Attempts).Msg("outbox message dead-lettered")
			_, _ = w.db.ExecContext(resCtx, markOutboxDeadSQL, item.ID, errMsg)
			return
		}
		backoff := time.Duration(math.Pow(2, float64(item.Attempts))) * time.Second
		backoff += time.Duration(rand.Intn(1000)) * time.Millisecond
		nextRetry := time.Now().UTC().Add(backoff)
		zlog.Warn().Err(err).Str("message_id", item.MessageID).Time("next_retry", nextRetry).
			Msg("outbox publish failed")
		_, _ = w.db.ExecContext(resCtx, markOutboxFailedSQL, item.ID, nextRetry, errMsg)
		return
	}

	_, _ = w.db.ExecContext(resCtx, markOutboxSentSQL, item.ID, time.Now().UTC())
}
