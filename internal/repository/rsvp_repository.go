package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wedding-site-api/internal/model"
	apperrors "wedding-site-api/pkg/app_errors"

	"github.com/mattn/go-sqlite3"
)

// RsvpRepository RSVP 紀錄存取；所有 SQL 皆為參數化查詢
type RsvpRepository interface {
	// FindByEmail 找不到時回傳 apperrors.ErrRsvpNotFound
	FindByEmail(ctx context.Context, email string) (*model.Rsvp, error)
	// Insert 回傳新紀錄 id；email 重複時回傳 apperrors.ErrDuplicateEmail
	Insert(ctx context.Context, input model.RsvpInput, now time.Time) (int64, error)
	// Update 回傳受影響筆數
	Update(ctx context.Context, email string, input model.RsvpInput, now time.Time) (int64, error)
	Stats(ctx context.Context) (*model.RsvpStats, error)
}

type SQLiteRsvpRepository struct {
	db *sql.DB
}

func NewSQLiteRsvpRepository(db *sql.DB) RsvpRepository {
	return &SQLiteRsvpRepository{
		db: db,
	}
}

func (r *SQLiteRsvpRepository) FindByEmail(ctx context.Context, email string) (*model.Rsvp, error) {
	query := `
		SELECT id, name, email, attending, guest_count, dietary_restrictions, message, created_at, updated_at
		FROM rsvp
		WHERE email = ?
	`

	var rsvp model.Rsvp
	err := r.db.QueryRowContext(ctx, query, email).Scan(
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrRsvpNotFound
		}
		return nil, err
	}
	return &rsvp, nil
}

func (r *SQLiteRsvpRepository) Insert(ctx context.Context, input model.RsvpInput, now time.Time) (int64, error) {
	query := `
		INSERT INTO rsvp (name, email, attending, guest_count, dietary_restrictions, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		input.Name, input.Email, input.Attending, storedGuestCount(input),
		input.DietaryRestrictions, input.Message, now, now,
	)
	if err != nil {
		if isSQLiteConstraint(err, sqlite3.ErrConstraintUnique) {
			return 0, apperrors.ErrDuplicateEmail
		}
		return 0, err
	}
	return result.LastInsertId()
}

func (r *SQLiteRsvpRepository) Update(ctx context.Context, email string, input model.RsvpInput, now time.Time) (int64, error) {
	query := `
		UPDATE rsvp
		SET name = ?,
			attending = ?,
			guest_count = ?,
			dietary_restrictions = ?,
			message = ?,
			updated_at = ?
		WHERE email = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		input.Name, input.Attending, storedGuestCount(input),
		input.DietaryRestrictions, input.Message, now, email,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SQLiteRsvpRepository) Stats(ctx context.Context) (*model.RsvpStats, error) {
	var stats model.RsvpStats
	err := r.db.QueryRowContext(ctx, statsQuery).Scan(
		&stats.TotalResponses,
		&stats.TotalGuests,
		&stats.PlusOnes,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

const statsQuery = `
	SELECT
		COUNT(*),
		COALESCE(SUM(guest_count), 0),
		COUNT(CASE WHEN guest_count > 1 THEN 1 END)
	FROM rsvp
`

// storedGuestCount 不出席時人數一律存 0
func storedGuestCount(input model.RsvpInput) int {
	if !input.Attending {
		return 0
	}
	return input.GuestCount
}

func isSQLiteConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == code
}
