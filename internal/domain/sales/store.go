package sales

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("sale not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context) ([]Sale, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, COALESCE(seller_email, ''), COALESCE(customer_name, ''),
           COALESCE(address, ''), COALESCE(price, ''), COALESCE(notes, ''),
           COALESCE(status, 'unassigned'), sold_at, created_at
    FROM sales
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.SellerEmail, &sale.CustomerName, &sale.Address,
			&sale.Price, &sale.Notes, &sale.Status, &sale.SoldAt, &sale.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Sale, error) {
	var sale Sale
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(seller_email, ''), COALESCE(customer_name, ''),
           COALESCE(address, ''), COALESCE(price, ''), COALESCE(notes, ''),
           COALESCE(status, 'unassigned'), sold_at, created_at
    FROM sales
    WHERE id = $1
  `, id).Scan(&sale.ID, &sale.SellerEmail, &sale.CustomerName, &sale.Address,
		&sale.Price, &sale.Notes, &sale.Status, &sale.SoldAt, &sale.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, ErrNotFound
	}
	return sale, err
}

func (s *Store) Create(ctx context.Context, sale Sale) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO sales (seller_email, customer_name, address, price, notes, status, sold_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, sale.SellerEmail, sale.CustomerName, sale.Address, sale.Price, sale.Notes,
		sale.Status, sale.SoldAt).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, sale Sale) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE sales
    SET seller_email = $2, customer_name = $3, address = $4, price = $5,
        notes = $6, status = $7, sold_at = $8
    WHERE id = $1
  `, sale.ID, sale.SellerEmail, sale.CustomerName, sale.Address, sale.Price,
		sale.Notes, sale.Status, sale.SoldAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
