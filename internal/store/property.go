package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/jackc/pgerrcode"
	"github.com/staybnb/webserver/internal/logger"
	"github.com/staybnb/webserver/types"
)

// PropertyRepository handles persistence for listings.
type PropertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create inserts property and returns it with ID and CreatedAt set.
//
// A negative or non-finite price is rejected with ErrInvalidInput before any
// SQL runs. A HostID without a matching user yields ErrForeignKeyViolation.
func (r *PropertyRepository) Create(ctx context.Context, property types.Property) (types.Property, error) {
	if property.PricePerNight < 0 || math.IsNaN(property.PricePerNight) || math.IsInf(property.PricePerNight, 0) {
		return types.Property{}, fmt.Errorf("%w: price per night must be a non-negative number", ErrInvalidInput)
	}

	var image sql.NullString
	if property.Image != nil {
		image = sql.NullString{String: *property.Image, Valid: true}
	}

	const query = `
		INSERT INTO property (title, description, location, price_per_night, image, host_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		property.Title,
		property.Description,
		property.Location,
		property.PricePerNight,
		image,
		property.HostID,
	).Scan(&property.ID, &property.CreatedAt)
	if err != nil {
		switch pqErrorCode(err) {
		case pgerrcode.ForeignKeyViolation:
			return types.Property{}, ErrForeignKeyViolation
		case pgerrcode.CheckViolation, pgerrcode.StringDataRightTruncationDataException, pgerrcode.NotNullViolation:
			return types.Property{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		logger.FromContext(ctx).Err(err).Str("func", "*PropertyRepository.Create").Msg("insert property failed")
		return types.Property{}, fmt.Errorf("create property: %w", err)
	}
	return property, nil
}

// ListByHost returns the host's listings in creation order.
func (r *PropertyRepository) ListByHost(ctx context.Context, hostID int) ([]types.Property, error) {
	const query = `
		SELECT id, title, description, location, price_per_night, image, host_id, created_at
		FROM property
		WHERE host_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := make([]types.Property, 0)
	for rows.Next() {
		var property types.Property
		var image sql.NullString
		if err := rows.Scan(
			&property.ID,
			&property.Title,
			&property.Description,
			&property.Location,
			&property.PricePerNight,
			&image,
			&property.HostID,
			&property.CreatedAt,
		); err != nil {
			return nil, err
		}
		if image.Valid {
			name := image.String
			property.Image = &name
		}
		properties = append(properties, property)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return properties, nil
}
