package models

import (
	"fmt"
	"time"
)

const (
	HeartRateMin = 30
	HeartRateMax = 250
	RatingMin    = 1
	RatingMax    = 5
)

// Execution is one logged workout against an assigned day. Saving the
// first execution for a day marks that day completed.
type Execution struct {
	ID              int64     `json:"id"`
	AssignedDayID   int64     `json:"assigned_day_id"`
	PerformedAt     time.Time `json:"performed_at"`
	Comments        string    `json:"comments"`
	Pace            string    `json:"pace"`
	AvgHeartRate    *int      `json:"avg_heart_rate,omitempty"`
	MaxHeartRate    *int      `json:"max_heart_rate,omitempty"`
	DistanceKM      *float64  `json:"distance_km,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Rating          *int      `json:"rating,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ComputedPace derives minutes:seconds per kilometer from distance and
// duration. Undefined (nil) when distance is zero or either value is
// missing.
func (e *Execution) ComputedPace() *string {
	if e.DistanceKM == nil || e.DurationMinutes == nil || *e.DistanceKM <= 0 {
		return nil
	}
	minutesPerKM := float64(*e.DurationMinutes) / *e.DistanceKM
	minutes := int(minutesPerKM)
	seconds := int((minutesPerKM - float64(minutes)) * 60)
	pace := fmt.Sprintf("%d:%02d/km", minutes, seconds)
	return &pace
}

// ExecutionImage is an attachment for an execution (watch captures, route
// maps, heart rate screenshots).
type ExecutionImage struct {
	ID          int64     `json:"id"`
	ExecutionID int64     `json:"execution_id"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
