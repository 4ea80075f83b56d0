package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wedding-site-api/internal/model"
	"wedding-site-api/internal/repository"
	"wedding-site-api/internal/testutil"
	apperrors "wedding-site-api/pkg/app_errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRsvpRepository_FindByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		repo := repository.NewSQLiteRsvpRepository(db)
		id := createTestRsvp(t, db, "Ada", "ada@example.com", 2)

		found, err := repo.FindByEmail(ctx, "ada@example.com")

		require.NoError(t, err)
		assert.Equal(t, id, found.ID)
		assert.Equal(t, "Ada", found.Name)
		assert.True(t, found.Attending)
		assert.Equal(t, 2, found.GuestCount)
		assert.Nil(t, found.DietaryRestrictions)
		assert.True(t, found.CreatedAt.Equal(testNow))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := repository.NewSQLiteRsvpRepository(testutil.NewSQLite(t))

		_, err := repo.FindByEmail(ctx, "nobody@example.com")

		assert.ErrorIs(t, err, apperrors.ErrRsvpNotFound)
	})
}

func TestSQLiteRsvpRepository_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		repo := repository.NewSQLiteRsvpRepository(db)

		id, err := repo.Insert(ctx, model.RsvpInput{
			Name:                "Grace",
			Email:               "grace@example.com",
			Attending:           true,
			GuestCount:          3,
			DietaryRestrictions: strPtr("vegan"),
		}, testNow)

		require.NoError(t, err)
		assert.NotZero(t, id)

		found, err := repo.FindByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, found.ID)
		assert.Equal(t, 3, found.GuestCount)
		require.NotNil(t, found.DietaryRestrictions)
		assert.Equal(t, "vegan", *found.DietaryRestrictions)
		assert.True(t, found.UpdatedAt.Equal(found.CreatedAt))
	})

	t.Run("NotAttendingStoresZeroGuests", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		repo := repository.NewSQLiteRsvpRepository(db)

		_, err := repo.Insert(ctx, model.RsvpInput{
			Name:       "Linus",
			Email:      "linus@example.com",
			Attending:  false,
			GuestCount: 4,
		}, testNow)
		require.NoError(t, err)

		found, err := repo.FindByEmail(ctx, "linus@example.com")
		require.NoError(t, err)
		assert.False(t, found.Attending)
		assert.Equal(t, 0, found.GuestCount)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		repo := repository.NewSQLiteRsvpRepository(db)
		createTestRsvp(t, db, "Ada", "ada@example.com", 1)

		_, err := repo.Insert(ctx, model.RsvpInput{
			Name:       "Ada Again",
			Email:      "ada@example.com",
			Attending:  true,
			GuestCount: 1,
		}, testNow)

		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
		assertRowCount(t, db, "rsvp", 1)
	})

	t.Run("GuestCountOutOfRangeRejectedByStore", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		repo := repository.NewSQLiteRsvpRepository(db)

		_, err := repo.Insert(ctx, model.RsvpInput{
			Name:       "Too Many",
			Email:      "many@example.com",
			Attending:  true,
			GuestCount: 6,
		}, testNow)

		require.Error(t, err)
		assert.False(t, errors.Is(err, apperrors.ErrDuplicateEmail))
		assertRowCount(t, db, "rsvp", 0)
	})
}

func TestSQLiteRsvpRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		repo := repository.NewSQLiteRsvpRepository(db)
		id := createTestRsvp(t, db, "Ada", "ada@example.com", 1)
		later := testNow.Add(24 * time.Hour)

		affected, err := repo.Update(ctx, "ada@example.com", model.RsvpInput{
			Name:       "Ada Lovelace",
			Email:      "ada@example.com",
			Attending:  true,
			GuestCount: 4,
			Message:    strPtr("See you there"),
		}, later)

		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		found, err := repo.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, found.ID)
		assert.Equal(t, "Ada Lovelace", found.Name)
		assert.Equal(t, 4, found.GuestCount)
		require.NotNil(t, found.Message)
		assert.Equal(t, "See you there", *found.Message)
		assert.True(t, found.CreatedAt.Equal(testNow))
		assert.True(t, found.UpdatedAt.Equal(later))
	})

	t.Run("ClearsOptionalFields", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		repo := repository.NewSQLiteRsvpRepository(db)
		_, err := repo.Insert(ctx, model.RsvpInput{
			Name: "Ada", Email: "ada@example.com", Attending: true, GuestCount: 1,
			DietaryRestrictions: strPtr("nuts"),
		}, testNow)
		require.NoError(t, err)

		_, err = repo.Update(ctx, "ada@example.com", model.RsvpInput{
			Name: "Ada", Email: "ada@example.com", Attending: false,
		}, testNow)
		require.NoError(t, err)

		found, err := repo.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Nil(t, found.DietaryRestrictions)
		assert.False(t, found.Attending)
		assert.Equal(t, 0, found.GuestCount)
	})

	t.Run("NoMatchingRow", func(t *testing.T) {
		repo := repository.NewSQLiteRsvpRepository(testutil.NewSQLite(t))

		affected, err := repo.Update(ctx, "ghost@example.com", model.RsvpInput{
			Name: "Ghost", Email: "ghost@example.com", Attending: true, GuestCount: 1,
		}, testNow)

		require.NoError(t, err)
		assert.Zero(t, affected)
	})
}

func TestSQLiteRsvpRepository_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		repo := repository.NewSQLiteRsvpRepository(testutil.NewSQLite(t))

		stats, err := repo.Stats(ctx)

		require.NoError(t, err)
		assert.Equal(t, &model.RsvpStats{}, stats)
	})

	t.Run("Aggregates", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		repo := repository.NewSQLiteRsvpRepository(db)
		createTestRsvp(t, db, "Solo", "solo@example.com", 1)
		createTestRsvp(t, db, "Pair", "pair@example.com", 2)
		createTestRsvp(t, db, "Family", "family@example.com", 5)
		_, err := repo.Insert(ctx, model.RsvpInput{
			Name: "Regrets", Email: "regrets@example.com", Attending: false,
		}, testNow)
		require.NoError(t, err)

		stats, err := repo.Stats(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.TotalResponses)
		assert.Equal(t, int64(8), stats.TotalGuests)
		assert.Equal(t, int64(2), stats.PlusOnes)
	})
}

func TestSQLiteRsvpRepository_DriverErrors(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewSQLiteRsvpRepository(db)
	driverErr := errors.New("disk I/O error")

	t.Run("FindByEmail", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rsvp").
			WithArgs("ada@example.com").
			WillReturnError(driverErr)

		_, err := repo.FindByEmail(ctx, "ada@example.com")

		assert.ErrorIs(t, err, driverErr)
		assert.False(t, errors.Is(err, apperrors.ErrRsvpNotFound))
	})

	t.Run("Insert", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO rsvp").WillReturnError(driverErr)

		_, err := repo.Insert(ctx, model.RsvpInput{Name: "Ada", Email: "ada@example.com"}, testNow)

		assert.ErrorIs(t, err, driverErr)
	})

	t.Run("Update", func(t *testing.T) {
		mock.ExpectExec("UPDATE rsvp").WillReturnError(driverErr)

		_, err := repo.Update(ctx, "ada@example.com", model.RsvpInput{Name: "Ada"}, testNow)

		assert.ErrorIs(t, err, driverErr)
	})

	t.Run("Stats", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rsvp").WillReturnError(driverErr)

		_, err := repo.Stats(ctx)

		assert.ErrorIs(t, err, driverErr)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
