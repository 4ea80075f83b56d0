package repository

import (
	"context"
	"database/sql"
	"time"

	"wedding-site-api/internal/model"
	apperrors "wedding-site-api/pkg/app_errors"

	"github.com/mattn/go-sqlite3"
)

type SongRequestRepository interface {
	// ExistsDuplicate 標題不分大小寫相同，且既有紀錄沒有歌手或歌手相同
	ExistsDuplicate(ctx context.Context, songTitle string, artist *string) (bool, error)
	// Create rsvp_id 不存在時回傳 apperrors.ErrRsvpNotFound
	Create(ctx context.Context, input model.SongRequestInput, now time.Time) (*model.SongRequest, error)
	// List 依建立時間新到舊排序，rsvpID 為 nil 時不篩選
	List(ctx context.Context, rsvpID *int64) ([]*model.SongRequest, error)
}

type SQLiteSongRequestRepository struct {
	db *sql.DB
}

func NewSQLiteSongRequestRepository(db *sql.DB) SongRequestRepository {
	return &SQLiteSongRequestRepository{
		db: db,
	}
}

func (r *SQLiteSongRequestRepository) ExistsDuplicate(ctx context.Context, songTitle string, artist *string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM song_requests
			WHERE LOWER(song_title) = LOWER(?)
			AND (artist IS NULL OR LOWER(artist) = LOWER(?))
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, songTitle, artistOrEmpty(artist)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *SQLiteSongRequestRepository) Create(ctx context.Context, input model.SongRequestInput, now time.Time) (*model.SongRequest, error) {
	query := `
		INSERT INTO song_requests (song_title, artist, rsvp_id, created_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, input.SongTitle, input.Artist, input.RsvpID, now)
	if err != nil {
		if isSQLiteConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return nil, apperrors.ErrRsvpNotFound
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.SongRequest{
		ID:        id,
		SongTitle: input.SongTitle,
		Artist:    input.Artist,
		RsvpID:    input.RsvpID,
		CreatedAt: now,
	}, nil
}

func (r *SQLiteSongRequestRepository) List(ctx context.Context, rsvpID *int64) ([]*model.SongRequest, error) {
	query := `
		SELECT sr.id, sr.song_title, sr.artist, sr.rsvp_id, sr.added_to_playlist, sr.created_at, r.name
		FROM song_requests sr
		LEFT JOIN rsvp r ON sr.rsvp_id = r.id
		WHERE (? IS NULL OR sr.rsvp_id = ?)
		ORDER BY sr.created_at DESC, sr.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, rsvpID, rsvpID)
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

func artistOrEmpty(artist *string) string {
	if artist == nil {
		return ""
	}
	return *artist
}
