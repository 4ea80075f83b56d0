package apperrors

import (
	"errors"
	"strings"
)

var (
	ErrRsvpNotFound         = errors.New("rsvp not found")
	ErrDuplicateEmail       = errors.New("rsvp with this email already exists")
	ErrRsvpInvariant        = errors.New("rsvp update affected no rows")
	ErrPersistence          = errors.New("persistence failure")
	ErrDuplicateSongRequest = errors.New("song has already been requested")
	ErrInappropriateContent = errors.New("song request contains inappropriate content")
	ErrStatsNotCached       = errors.New("rsvp stats not cached")
)

// FieldError 單一欄位的驗證錯誤
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 收集所有欄位錯誤，順序與欄位宣告順序一致
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Err 沒有錯誤時回傳 nil，避免回傳帶 nil 指標的 error interface
func (e *ValidationError) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
