package store

import (
	"context"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/staybnb/webserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var propertyRowColumns = []string{
	"id", "title", "description", "location", "price_per_night", "image", "host_id", "created_at",
}

func TestPropertyRepository_Create_WithImage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPropertyRepository(db)
	image := "cabin.png"
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO property`)).
		WithArgs("Cabin", "Cosy", "Alps", 99.5, image, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, now))

	created, err := repo.Create(context.Background(), types.Property{
		Title:         "Cabin",
		Description:   "Cosy",
		Location:      "Alps",
		PricePerNight: 99.5,
		Image:         &image,
		HostID:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, created.ID)
	assert.Equal(t, 99.5, created.PricePerNight)
	require.NotNil(t, created.Image)
	assert.Equal(t, "cabin.png", *created.Image)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Create_WithoutImage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPropertyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO property`)).
		WithArgs("Cabin", "Cosy", "Alps", 120.0, nil, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))

	created, err := repo.Create(context.Background(), types.Property{
		Title: "Cabin", Description: "Cosy", Location: "Alps", PricePerNight: 120, HostID: 1,
	})
	require.NoError(t, err)
	assert.Nil(t, created.Image)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Create_RejectsBadPriceWithoutQuery(t *testing.T) {
	for _, price := range []float64{-5, math.NaN(), math.Inf(1)} {
		db, mock := newMockDB(t)
		repo := NewPropertyRepository(db)

		_, err := repo.Create(context.Background(), types.Property{Title: "x", PricePerNight: price, HostID: 1})
		assert.ErrorIs(t, err, ErrInvalidInput)
		// No query may have been issued.
		require.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestPropertyRepository_Create_UnknownHost(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPropertyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO property`)).
		WillReturnError(pqError(pgerrcode.ForeignKeyViolation))

	_, err := repo.Create(context.Background(), types.Property{Title: "x", HostID: 999})
	assert.ErrorIs(t, err, ErrForeignKeyViolation)
}

func TestPropertyRepository_Create_CheckViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPropertyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO property`)).
		WillReturnError(pqError(pgerrcode.CheckViolation))

	_, err := repo.Create(context.Background(), types.Property{Title: "x", HostID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPropertyRepository_ListByHost(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPropertyRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE host_id = $1`) + `\s+ORDER BY id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(propertyRowColumns).
			AddRow(1, "First", "d", "l", 50.0, nil, 1, now).
			AddRow(2, "Second", "d", "l", 75.25, "sea.jpg", 1, now))

	props, err := repo.ListByHost(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "First", props[0].Title)
	assert.Nil(t, props[0].Image)
	assert.Equal(t, "Second", props[1].Title)
	require.NotNil(t, props[1].Image)
	assert.Equal(t, "sea.jpg", *props[1].Image)
	assert.Equal(t, 75.25, props[1].PricePerNight)
}

func TestPropertyRepository_ListByHost_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPropertyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM property`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(propertyRowColumns))

	props, err := repo.ListByHost(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, props)
	assert.Empty(t, props)
}
