package roster

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("person not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context) ([]Person, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT email, name, role, created_at
    FROM people
    ORDER BY name, email
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.Email, &p.Name, &p.Role, &p.CreatedAt); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *Store) Get(ctx context.Context, email string) (Person, error) {
	var p Person
	err := s.DB.QueryRow(ctx, `
    SELECT email, name, role, created_at
    FROM people
    WHERE email = $1
  `, email).Scan(&p.Email, &p.Name, &p.Role, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Person{}, ErrNotFound
	}
	return p, err
}

func (s *Store) Create(ctx context.Context, p Person) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO people (email, name, role)
    VALUES ($1,$2,$3)
  `, p.Email, p.Name, p.Role)
	return err
}

func (s *Store) Update(ctx context.Context, p Person) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE people
    SET name = $2, role = $3
    WHERE email = $1
  `, p.Email, p.Name, p.Role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the person record only. Sales and assignments keep their
// raw email references; computations render those as-is.
func (s *Store) Delete(ctx context.Context, email string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM people WHERE email = $1`, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
