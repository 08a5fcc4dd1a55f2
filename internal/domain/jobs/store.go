package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("assignment not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const assignmentColumns = `
    id, COALESCE(sale_id, ''), COALESCE(worker_email, ''), COALESCE(worker2_email, ''),
    COALESCE(when_text, ''), COALESCE(status, 'offered'), duration_hours,
    done, is_past, COALESCE(price, ''), done_at, created_at`

func scanAssignment(row pgx.Row) (Assignment, error) {
	var a Assignment
	err := row.Scan(&a.ID, &a.SaleID, &a.WorkerEmail, &a.Worker2Email, &a.When,
		&a.Status, &a.DurationHours, &a.Done, &a.IsPast, &a.Price, &a.DoneAt, &a.CreatedAt)
	return a, err
}

func (s *Store) List(ctx context.Context) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+assignmentColumns+` FROM assignments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Assignment, error) {
	a, err := scanAssignment(s.DB.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, ErrNotFound
	}
	return a, err
}

func (s *Store) Create(ctx context.Context, a Assignment) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO assignments (sale_id, worker_email, worker2_email, when_text, status, duration_hours, done, is_past, price, done_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, a.SaleID, a.WorkerEmail, a.Worker2Email, a.When, CanonicalStatus(a.Status),
		a.DurationHours, a.Done, a.IsPast, a.Price, a.DoneAt).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, a Assignment) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE assignments
    SET sale_id = $2, worker_email = $3, worker2_email = $4, when_text = $5,
        status = $6, duration_hours = $7, done = $8, is_past = $9, price = $10, done_at = $11
    WHERE id = $1
  `, a.ID, a.SaleID, a.WorkerEmail, a.Worker2Email, a.When, CanonicalStatus(a.Status),
		a.DurationHours, a.Done, a.IsPast, a.Price, a.DoneAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Complete marks the work performed, stamping done_at for pay-period
// attribution.
func (s *Store) Complete(ctx context.Context, id string, doneAt time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE assignments
    SET status = $2, done = TRUE, done_at = $3
    WHERE id = $1
  `, id, StatusCompleted, doneAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
