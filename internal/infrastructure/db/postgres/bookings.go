package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/suppertable/experience-service/internal/application/booking"
	"github.com/suppertable/experience-service/internal/domain"
)

// BookingRepo serves the guest cancellation flow and doubles as the
// booking reader behind capacity checks and stats.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	var b domain.Booking
	var status string
	err := row.Scan(
		&b.ID, &b.ExperienceID, &b.GuestID, &b.Tickets, &b.TotalAmount,
		&status, &b.CancelledAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatus(status)
	return &b, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	if !b.Status.Valid() {
		return nil, domain.ErrInvalidState("invalid status in db")
	}
	return b, nil
}

func (r *BookingRepo) ListByExperience(ctx context.Context, experienceID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsByExperienceSQL, experienceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepo) ListByGuest(ctx context.Context, guestID string) ([]booking.BookingRow, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsByGuestSQL, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.BookingRow
	for rows.Next() {
		var row booking.BookingRow
		var status string
		if err := rows.Scan(
			&row.Booking.ID, &row.Booking.ExperienceID, &row.Booking.GuestID,
			&row.Booking.Tickets, &row.Booking.TotalAmount,
			&status, &row.Booking.CancelledAt, &row.Booking.CreatedAt,
			&row.ExperienceTitle, &row.ExperienceCity, &row.StartTime, &row.Price,
		); err != nil {
			return nil, err
		}
		row.Booking.Status = domain.BookingStatus(status)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepo) WithTx(ctx context.Context, fn func(tr booking.TxBookingRepo) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
		ReadOnly:  false,
	})
	if err != nil {
		return err
	}

	tr := &bookingTxRepo{tx: tx}

	defer func() {
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

type bookingTxRepo struct {
	tx *sql.Tx
}

func (r *bookingTxRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.tx.QueryRowContext(ctx, getBookingForUpdateSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingTxRepo) Update(ctx context.Context, b *domain.Booking) error {
	_, err := r.tx.ExecContext(ctx, updateBookingSQL, b.ID, string(b.Status), b.CancelledAt)
	return err
}

func (r *bookingTxRepo) RestoreSpots(ctx context.Context, experienceID string, tickets int) error {
	_, err := r.tx.ExecContext(ctx, incrementSpotsSQL, experienceID, tickets)
	return err
}

func (r *bookingTxRepo) InsertOutbox(ctx context.Context, msg booking.OutboxMessage) error {
	_, err := r.tx.ExecContext(ctx, insertOutboxSQL,
		msg.MessageID,
		msg.RoutingKey,
		string(msg.Body),
		msg.CreatedAt.UTC(),
	)
	return err
}
