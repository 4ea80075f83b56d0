package repository

import (
	"context"
	"time"

	"wedding-site-api/internal/model"
	apperrors "wedding-site-api/pkg/app_errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSongRequestRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSongRequestRepository(pool *pgxpool.Pool) SongRequestRepository {
	return &PostgresSongRequestRepository{
		pool: pool,
	}
}

func (r *PostgresSongRequestRepository) ExistsDuplicate(ctx context.Context, songTitle string, artist *string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM song_requests
			WHERE LOWER(song_title) = LOWER($1)
			AND (artist IS NULL OR LOWER(artist) = LOWER($2))
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, songTitle, artistOrEmpty(artist)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSongRequestRepository) Create(ctx context.Context, input model.SongRequestInput, now time.Time) (*model.SongRequest, error) {
	query := `
		INSERT INTO song_requests (song_title, artist, rsvp_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, song_title, artist, rsvp_id, added_to_playlist, created_at
	`
	var song model.SongRequest
	err := r.pool.QueryRow(ctx, query, input.SongTitle, input.Artist, input.RsvpID, now).Scan(
		&song.ID,
		&song.SongTitle,
		&song.Artist,
		&song.RsvpID,
		&song.AddedToPlaylist,
		&song.CreatedAt,
	)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, apperrors.ErrRsvpNotFound
		}
		return nil, err
	}
	return &song, nil
}

func (r *PostgresSongRequestRepository) List(ctx context.Context, rsvpID *int64) ([]*model.SongRequest, error) {
	query := `
		SELECT sr.id, sr.song_title, sr.artist, sr.rsvp_id, sr.added_to_playlist, sr.created_at, r.name
		FROM song_requests sr
		LEFT JOIN rsvp r ON sr.rsvp_id = r.id
		WHERE ($1::BIGINT IS NULL OR sr.rsvp_id = $1)
		ORDER BY sr.created_at DESC, sr.id DESC
	`
	rows, err := r.pool.Query(ctx, query, rsvpID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := make([]*model.SongRequest, 0)
	for rows.Next() {
		var song model.SongRequest
		err := rows.Scan(
			&song.ID,
			&song.SongTitle,
			&song.Artist,
			&song.RsvpID,
			&song.AddedToPlaylist,
			&song.CreatedAt,
			&song.RequestedBy,
		)
		if err != nil {
			return nil, err
		}
		songs = append(songs, &song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return songs, nil
}
