package models

import (
	"testing"
	"time"
)

func TestWeekdayOf(t *testing.T) {
	// 2025-06-02 is a Monday.
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	expected := []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
	for offset, want := range expected {
		got := WeekdayOf(start.AddDate(0, 0, offset))
		if got != want {
			t.Fatalf("day %d: expected %s, got %s", offset, want, got)
		}
	}
}

func TestWeekdayValid(t *testing.T) {
	if !Monday.Valid() {
		t.Fatal("expected monday to be valid")
	}
	if Weekday("Monday").Valid() {
		t.Fatal("expected capitalized weekday to be invalid")
	}
	if Weekday("someday").Valid() {
		t.Fatal("expected unknown weekday to be invalid")
	}
}

func TestTemplateDayIsRestDay(t *testing.T) {
	routineID := int64(5)
	if (&TemplateDay{RoutineID: &routineID}).IsRestDay() {
		t.Fatal("day with routine should not be a rest day")
	}
	if !(&TemplateDay{}).IsRestDay() {
		t.Fatal("day without routine should be a rest day")
	}
}
