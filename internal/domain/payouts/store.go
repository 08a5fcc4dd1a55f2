package payouts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) InsertReceipt(ctx context.Context, r Receipt) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payouts (id, person_email, person_name, amount, period_start, logged_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, r.ID, r.PersonEmail, r.PersonName, r.Amount, r.PeriodStart, r.LoggedAt)
	return err
}

func (s *Store) DeleteReceipt(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM payouts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListReceipts(ctx context.Context) ([]Receipt, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, person_email, person_name, amount, period_start, logged_at
    FROM payouts
    ORDER BY logged_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Receipt
	for rows.Next() {
		var r Receipt
		if err := rows.Scan(&r.ID, &r.PersonEmail, &r.PersonName, &r.Amount, &r.PeriodStart, &r.LoggedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PeriodAnchor reads the singleton pay-period row. The second value is the
// payroll-reset checkpoint, nil until the first mark-paid.
func (s *Store) PeriodAnchor(ctx context.Context) (time.Time, *time.Time, error) {
	var start time.Time
	var clearedAt *time.Time
	err := s.DB.QueryRow(ctx, `SELECT start_date, cleared_at FROM pay_period WHERE id = 1`).Scan(&start, &clearedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil, pgx.ErrNoRows
	}
	return start, clearedAt, err
}

// SeedPeriod inserts the anchor if none exists yet.
func (s *Store) SeedPeriod(ctx context.Context, start time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO pay_period (id, start_date)
    VALUES (1, $1)
    ON CONFLICT (id) DO NOTHING
  `, start)
	return err
}

func (s *Store) SetPeriodStart(ctx context.Context, start time.Time) error {
	_, err := s.DB.Exec(ctx, `UPDATE pay_period SET start_date = $1 WHERE id = 1`, start)
	return err
}

// AdvancePeriod moves the anchor forward only when it still equals the
// expected start, stamping the clear checkpoint in the same statement. The
// guard turns a double click into a zero-row update instead of a double
// advance.
func (s *Store) AdvancePeriod(ctx context.Context, expectedStart, newStart, clearedAt time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE pay_period
    SET start_date = $2, cleared_at = $3
    WHERE id = 1 AND start_date = $1
  `, expectedStart, newStart, clearedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
