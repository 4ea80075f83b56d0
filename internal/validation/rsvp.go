// Package validation holds the RSVP and song request rules shared with the web client.
// Each rule is evaluated independently and every violation is reported, in field order.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"wedding-site-api/internal/model"
	apperrors "wedding-site-api/pkg/app_errors"

	"github.com/go-playground/validator/v10"
)

const (
	MinGuestCount = 1
	MaxGuestCount = 5

	MsgNameRequired       = "Name is required"
	MsgEmailInvalid       = "Valid email is required"
	MsgAttendanceRequired = "Attendance status is required"
	MsgGuestCountRange    = "Guest count must be between 1 and 5"
	MsgDietaryNotText     = "Dietary restrictions must be text"
	MsgMessageNotText     = "Message must be text"
)

var validate = validator.New()

// ValidateRsvp 回傳正規化後的輸入；驗證失敗時 error 一定是 *apperrors.ValidationError
func ValidateRsvp(sub model.RsvpSubmission) (model.RsvpInput, error) {
	verr := &apperrors.ValidationError{}
	var input model.RsvpInput

	input.Name, _ = toText(sub.Name)
	if input.Name == "" {
		verr.Add("name", MsgNameRequired)
	}

	email, _ := toText(sub.Email)
	input.Email = NormalizeEmail(email)
	if !IsEmail(input.Email) {
		verr.Add("email", MsgEmailInvalid)
	}

	attending, ok := parseBool(sub.Attending)
	if !ok {
		verr.Add("attending", MsgAttendanceRequired)
	}
	input.Attending = attending

	if ok && attending {
		count, ok := parseInt(sub.GuestCount)
		if !ok || count < MinGuestCount || count > MaxGuestCount {
			verr.Add("guestCount", MsgGuestCountRange)
		}
		input.GuestCount = count
	}

	if input.DietaryRestrictions, ok = optional(sub.DietaryRestrictions); !ok {
		verr.Add("dietaryRestrictions", MsgDietaryNotText)
	}
	if input.Message, ok = optional(sub.Message); !ok {
		verr.Add("message", MsgMessageNotText)
	}

	if err := verr.Err(); err != nil {
		return model.RsvpInput{}, err
	}
	return input, nil
}

// NormalizeEmail 將 email 轉為小寫，upsert 比對因此不分大小寫
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsEmail(email string) bool {
	if email == "" {
		return false
	}
	return validate.Var(email, "required,email") == nil
}

// toText 將 JSON 純量轉為去除空白的字串，數字與布林值會被轉成文字；
// null 視為空字串，陣列與物件回傳 false
func toText(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case json.Number:
		return s.String(), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

func optional(v any) (*string, bool) {
	s, ok := toText(v)
	if !ok {
		return nil, false
	}
	if s == "" {
		return nil, true
	}
	return &s, true
}

// parseBool accepts JSON booleans plus the string and numeric forms browsers send from form controls.
func parseBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.TrimSpace(b) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	case float64:
		switch b {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case json.Number:
		return parseBool(b.String())
	}
	return false, false
}

func parseInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := strconv.Atoi(n.String())
		return i, err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
