package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const customerColumns = `id, first_name, last_name, email, phone_number, address, date_of_birth, created_at, updated_at`

const getCustomerSQL = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

const listCustomersSQL = `SELECT ` + customerColumns + ` FROM customers ORDER BY id`

// updated_at only moves forward so concurrent writers with skewed clocks
// cannot rewind it.
const updateCustomerSQL = `UPDATE customers SET
	phone_number = COALESCE($2, phone_number),
	address = COALESCE($3, address),
	email = COALESCE($4, email),
	updated_at = GREATEST(updated_at, $5)
WHERE id = $1
RETURNING ` + customerColumns

type dbtx interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// PostgresRepository stores customers in the customers table.
type PostgresRepository struct {
	db dbtx
}

// NewPostgresRepository wraps a pgx pool or transaction.
func NewPostgresRepository(db dbtx) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(ctx, getCustomerSQL, id))
	if err != nil {
		return nil, fmt.Errorf("customers: get %d: %w", id, err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("customers: list: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customers: list: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, patch Patch, at time.Time) (*Customer, error) {
	row := r.db.QueryRow(ctx, updateCustomerSQL, id, patch.PhoneNumber, patch.Address, patch.Email, at)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, fmt.Errorf("customers: update %d: %w", id, err)
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var (
		c                                  Customer
		first, last, email, phone, address pgtype.Text
		dob                                pgtype.Date
		createdAt, updatedAt               pgtype.Timestamptz
	)
	err := row.Scan(&c.ID, &first, &last, &email, &phone, &address, &dob, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.FirstName = first.String
	c.LastName = last.String
	c.Email = email.String
	c.PhoneNumber = phone.String
	c.Address = address.String
	if dob.Valid {
		c.DateOfBirth = dob.Time.Format(DateOfBirthLayout)
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}
