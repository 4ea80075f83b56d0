package validation

import (
	"wedding-site-api/internal/model"
	apperrors "wedding-site-api/pkg/app_errors"
)

const (
	MsgSongTitleRequired = "Song title is required"
	MsgRsvpIDInvalid     = "RSVP ID must be an integer"
	MsgArtistNotText     = "Artist must be text"
)

func ValidateSongRequest(sub model.SongRequestSubmission) (model.SongRequestInput, error) {
	verr := &apperrors.ValidationError{}
	var input model.SongRequestInput

	input.SongTitle, _ = toText(sub.SongTitle)
	if input.SongTitle == "" {
		verr.Add("songTitle", MsgSongTitleRequired)
	}

	var ok bool
	if input.Artist, ok = optional(sub.Artist); !ok {
		verr.Add("artist", MsgArtistNotText)
	}

	if sub.RsvpID != nil {
		id, ok := parseInt(sub.RsvpID)
		if !ok {
			verr.Add("rsvpId", MsgRsvpIDInvalid)
		} else {
			rsvpID := int64(id)
			input.RsvpID = &rsvpID
		}
	}

	if err := verr.Err(); err != nil {
		return model.SongRequestInput{}, err
	}
	return input, nil
}
