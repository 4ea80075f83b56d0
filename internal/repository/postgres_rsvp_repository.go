package repository

import (
	"context"
	"errors"
	"time"

	"wedding-site-api/internal/model"
	apperrors "wedding-site-api/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PostgresRsvpRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRsvpRepository(pool *pgxpool.Pool) RsvpRepository {
	return &PostgresRsvpRepository{
		pool: pool,
	}
}

func (r *PostgresRsvpRepository) FindByEmail(ctx context.Context, email string) (*model.Rsvp, error) {
	query := `
		SELECT id, name, email, attending, guest_count, dietary_restrictions, message, created_at, updated_at
		FROM rsvp
		WHERE email = $1
	`

	var rsvp model.Rsvp
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&rsvp.ID,
		&rsvp.Name,
		&rsvp.Email,
		&rsvp.Attending,
		&rsvp.GuestCount,
		&rsvp.DietaryRestrictions,
		&rsvp.Message,
		&rsvp.CreatedAt,
		&rsvp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRsvpNotFound
		}
		return nil, err
	}
	return &rsvp, nil
}

func (r *PostgresRsvpRepository) Insert(ctx context.Context, input model.RsvpInput, now time.Time) (int64, error) {
	query := `
		INSERT INTO rsvp (name, email, attending, guest_count, dietary_restrictions, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		input.Name, input.Email, input.Attending, storedGuestCount(input),
		input.DietaryRestrictions, input.Message, now,
	).Scan(&id)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return 0, apperrors.ErrDuplicateEmail
		}
		return 0, err
	}
	return id, nil
}

func (r *PostgresRsvpRepository) Update(ctx context.Context, email string, input model.RsvpInput, now time.Time) (int64, error) {
	query := `
		UPDATE rsvp
		SET name = $1,
			attending = $2,
			guest_count = $3,
			dietary_restrictions = $4,
			message = $5,
			updated_at = $6
		WHERE email = $7
	`
	result, err := r.pool.Exec(ctx, query,
		input.Name, input.Attending, storedGuestCount(input),
		input.DietaryRestrictions, input.Message, now, email,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *PostgresRsvpRepository) Stats(ctx context.Context) (*model.RsvpStats, error) {
	var stats model.RsvpStats
	err := r.pool.QueryRow(ctx, statsQuery).Scan(
		&stats.TotalResponses,
		&stats.TotalGuests,
		&stats.PlusOnes,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
