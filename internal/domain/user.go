package domain

import "time"

type User struct {
	UserID      string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	Name        string    `json:"name" db:"name"`
	Gender      string    `json:"gender" db:"gender"`
	PitchLine   string    `json:"pitch_line" db:"pitch_line"`
	Personality []string  `json:"personality" db:"personality"`
	ToxicTraits []string  `json:"toxic_traits" db:"toxic_traits"`
	Interests   []string  `json:"interests" db:"interests"`
	Avatar      string    `json:"avatar" db:"avatar"`
	Coins       int       `json:"coins" db:"coins"`
	CreatedAt   time.Time `json:"created" db:"created_at"`
	UpdatedAt   time.Time `json:"updated" db:"updated_at"`
}

type CreateProfileRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Name        string   `json:"name" validate:"required"`
	Gender      string   `json:"gender" validate:"required,oneof=male female other"`
	PitchLine   string   `json:"pitch_line"`
	Personality []string `json:"personality"`
	ToxicTraits []string `json:"toxic_traits"`
	Interests   []string `json:"interests"`
	Avatar      string   `json:"avatar"`
}
