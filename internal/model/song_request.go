package model

import "time"

type SongRequest struct {
	ID              int64     `json:"id" db:"id"`
	SongTitle       string    `json:"song_title" db:"song_title"`
	Artist          *string   `json:"artist" db:"artist"`
	RsvpID          *int64    `json:"rsvp_id,omitempty" db:"rsvp_id"`
	AddedToPlaylist bool      `json:"added_to_playlist" db:"added_to_playlist"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	RequestedBy     *string   `json:"requested_by" db:"requested_by"`
}

type SongRequestSubmission struct {
	SongTitle any `json:"songTitle"`
	Artist    any `json:"artist"`
	RsvpID    any `json:"rsvpId"`
}

type SongRequestInput struct {
	SongTitle string
	Artist    *string
	RsvpID    *int64
}

type ListSongRequestsQuery struct {
	RsvpID *int64 `form:"rsvpId"`
}
