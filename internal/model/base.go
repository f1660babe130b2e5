package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TimeLayout is the wire format for appointment timestamps,
// e.g. "2030-01-01 10:00:00".
const TimeLayout = "2006-01-02 15:04:05"

// ClockLayout is the wire format for time-of-day values, e.g. "09:00:00".
const ClockLayout = "15:04:05"
