package credentials

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("account already exists")
)

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Register(
	ctx context.Context,
	email string,
	password string,
	companyName string,
) (int64, error) {

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)
		)
	`, email).Scan(&exists)

	if err != nil {
		return 0, err
	}

	if exists {
		return 0, ErrAlreadyRegistered
	}

	hash, version, err := HashPassword(password)
	if err != nil {
		return 0, err
	}

	var userID int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, hash_version, company_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, email, hash, version, companyName).Scan(&userID)

	if err != nil {
		return 0, err
	}

	return userID, nil
}

func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (int64, error) {

	var (
		userID       int64
		passwordHash string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID, &passwordHash)

	if err != nil {
		// hide whether the account exists or not
		return 0, ErrInvalidCredentials
	}

	if err := VerifyPassword(passwordHash, password); err != nil {
		return 0, ErrInvalidCredentials
	}

	return userID, nil
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*User, error) {
	var u User

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, company_name, siret, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&u.ID,
		&u.Email,
		&u.CompanyName,
		&u.Siret,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}
