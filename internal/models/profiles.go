package models

import (
	"math"
	"time"
)

// Coach extends a User with the coach-side profile. New coaches start
// inactive and are flipped active once their payment is confirmed.
type Coach struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Specialty string    `json:"specialty"`
	Phone     string    `json:"phone"`
	Bio       string    `json:"bio"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Trainee extends a User with the student-side profile. Every trainee
// belongs to exactly one coach.
type Trainee struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	CoachID   int64      `json:"coach_id"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Phone     string     `json:"phone"`
	WeightKG  *float64   `json:"weight_kg,omitempty"`
	HeightM   *float64   `json:"height_m,omitempty"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Age returns whole calendar years at the given reference date, or nil
// when no birth date is recorded.
func (t *Trainee) Age(now time.Time) *int {
	if t.BirthDate == nil {
		return nil
	}
	birth := *t.BirthDate
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return &years
}

// BMI returns weight / height² rounded to two decimals. Undefined unless
// both measurements are present and height is positive.
func (t *Trainee) BMI() *float64 {
	if t.WeightKG == nil || t.HeightM == nil || *t.HeightM <= 0 {
		return nil
	}
	bmi := math.Round(*t.WeightKG / (*t.HeightM * *t.HeightM) * 100) / 100
	return &bmi
}
