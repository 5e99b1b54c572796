package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/staybnb/webserver/internal/logger"
	"github.com/staybnb/webserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email_address, first_name, last_name, password_hash,
		house_number, street_name, country, post_code, created_at`

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM "user" WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM "user" WHERE email_address = $1`
	return r.getOne(ctx, query, email)
}

// Create inserts user and returns it with ID and CreatedAt assigned by the
// database. A second account with the same email yields ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO "user" (email_address, first_name, last_name, password_hash,
			house_number, street_name, country, post_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.HouseNumber,
		user.StreetName,
		user.Country,
		user.PostCode,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		switch pqErrorCode(err) {
		case pgerrcode.UniqueViolation:
			return types.User{}, ErrDuplicateEmail
		case pgerrcode.StringDataRightTruncationDataException, pgerrcode.NotNullViolation:
			return types.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		logger.FromContext(ctx).Err(err).Str("func", "*UserRepository.Create").Msg("insert user failed")
		return types.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (types.User, error) {
	var user types.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.HouseNumber,
		&user.StreetName,
		&user.Country,
		&user.PostCode,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
