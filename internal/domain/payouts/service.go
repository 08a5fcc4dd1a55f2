package payouts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewpay/internal/domain/earnings"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Record appends a receipt. Calling it twice for the same person and period
// records two receipts; bulk actions that want one receipt per person must
// dedupe before calling.
func (s *Service) Record(ctx context.Context, email, name string, amount float64, periodStart time.Time) (Receipt, error) {
	receipt := Receipt{
		ID:          uuid.NewString(),
		PersonEmail: email,
		PersonName:  name,
		Amount:      amount,
		PeriodStart: earnings.DayStart(periodStart),
		LoggedAt:    time.Now(),
	}
	if err := s.store.InsertReceipt(ctx, receipt); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.store.DeleteReceipt(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Receipt, error) {
	return s.store.ListReceipts(ctx)
}

// CurrentPeriod returns the persisted pay period, seeding today's window on
// first use.
func (s *Service) CurrentPeriod(ctx context.Context) (earnings.Period, error) {
	start, _, err := s.store.PeriodAnchor(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		period := earnings.ResetPeriod(time.Now())
		if err := s.store.SeedPeriod(ctx, period.Start()); err != nil {
			return earnings.Period{}, err
		}
		return period, nil
	}
	if err != nil {
		return earnings.Period{}, err
	}
	return earnings.NewPeriod(start), nil
}

// ClearedAt is the last payroll-reset checkpoint; views hide items paid out
// before it.
func (s *Service) ClearedAt(ctx context.Context) (*time.Time, error) {
	_, clearedAt, err := s.store.PeriodAnchor(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return clearedAt, err
}

// SetPeriod re-anchors the window at an admin-chosen date.
func (s *Service) SetPeriod(ctx context.Context, start time.Time) (earnings.Period, error) {
	period := earnings.NewPeriod(start)
	if err := s.store.SetPeriodStart(ctx, period.Start()); err != nil {
		return earnings.Period{}, err
	}
	return period, nil
}

// ResetPeriod re-anchors at today's midnight, for when the anchor drifts.
func (s *Service) ResetPeriod(ctx context.Context) (earnings.Period, error) {
	return s.SetPeriod(ctx, time.Now())
}

// MarkPayrollPaid advances the pay period by 14 days, keyed on the period
// start the caller believes is current. Replaying with a start the anchor
// has already moved past is a no-op that reports advanced=false; a start
// ahead of the anchor is a mismatch error. This makes the advance safe
// against double clicks and concurrent admins.
func (s *Service) MarkPayrollPaid(ctx context.Context, expectedStart time.Time) (earnings.Period, bool, error) {
	expected := earnings.NewPeriod(expectedStart)

	current, err := s.CurrentPeriod(ctx)
	if err != nil {
		return earnings.Period{}, false, err
	}

	if current.Start().After(expected.Start()) {
		// Already advanced past this cycle.
		return current, false, nil
	}
	if current.Start().Before(expected.Start()) {
		return earnings.Period{}, false, ErrPeriodMismatch
	}

	next := current.Advance()
	advanced, err := s.store.AdvancePeriod(ctx, current.Start(), next.Start(), time.Now())
	if err != nil {
		return earnings.Period{}, false, err
	}
	if !advanced {
		// Lost a race with another admin; re-read and report the winner's
		// anchor.
		current, err = s.CurrentPeriod(ctx)
		return current, false, err
	}
	return next, true, nil
}
