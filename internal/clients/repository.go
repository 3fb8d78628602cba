package clients

import (
	"context"
	"database/sql"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/db"
)

type Repository struct {
	db *db.DB
}

func NewRepository(db *db.DB) *Repository {
	return &Repository{db: db}
}

// All queries are scoped by user id: an artisan only ever sees their own
// clients.

func (r *Repository) List(ctx context.Context, userID int64) ([]Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, email, phone, address, postal_code, city, siret,
		       created_at, updated_at
		FROM clients
		WHERE user_id = $1
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Client{}
	for rows.Next() {
		var c Client
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone,
			&c.Address, &c.PostalCode, &c.City, &c.Siret,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, c)
	}

	return list, rows.Err()
}

func (r *Repository) Get(ctx context.Context, userID, id int64) (*Client, error) {
	var c Client

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, email, phone, address, postal_code, city, siret,
		       created_at, updated_at
		FROM clients
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone,
		&c.Address, &c.PostalCode, &c.City, &c.Siret,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *Repository) Create(ctx context.Context, c *Client) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO clients (user_id, name, email, phone, address, postal_code, city, siret)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`,
		c.UserID, c.Name, c.Email, c.Phone,
		c.Address, c.PostalCode, c.City, c.Siret,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *Repository) Update(ctx context.Context, c *Client) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, address = $4,
		    postal_code = $5, city = $6, siret = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
	`,
		c.Name, c.Email, c.Phone, c.Address,
		c.PostalCode, c.City, c.Siret,
		c.ID, c.UserID,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM clients
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}
