package model

import "time"

// Rsvp 每個受邀單位一筆，以 email 為唯一鍵
type Rsvp struct {
	ID                  int64     `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	Email               string    `json:"email" db:"email"`
	Attending           bool      `json:"attending" db:"attending"`
	GuestCount          int       `json:"guest_count" db:"guest_count"`
	DietaryRestrictions *string   `json:"dietary_restrictions,omitempty" db:"dietary_restrictions"`
	Message             *string   `json:"message,omitempty" db:"message"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// RsvpSubmission 原始請求內容；欄位皆不定型別，型別錯誤交由 validation 回報而非綁定失敗
type RsvpSubmission struct {
	Name                any `json:"name"`
	Email               any `json:"email"`
	Attending           any `json:"attending"`
	GuestCount          any `json:"guestCount"`
	DietaryRestrictions any `json:"dietaryRestrictions"`
	Message             any `json:"message"`
}

// RsvpInput 驗證並正規化後的輸入
type RsvpInput struct {
	Name                string
	Email               string
	Attending           bool
	GuestCount          int
	DietaryRestrictions *string
	Message             *string
}

// SubmitResult Created 為 false 表示更新了既有紀錄
type SubmitResult struct {
	Created bool
	Record  *Rsvp
}

type RsvpStats struct {
	TotalResponses int64 `json:"total_responses"`
	TotalGuests    int64 `json:"total_guests"`
	PlusOnes       int64 `json:"plus_ones"`
}

// RsvpEvent 寫入成功後發佈，供 worker 更新統計快取
type RsvpEvent struct {
	RsvpID     int64     `json:"rsvp_id"`
	Email      string    `json:"email"`
	Created    bool      `json:"created"`
	OccurredAt time.Time `json:"occurred_at"`
}
