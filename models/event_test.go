package models

import (
	"testing"
	"time"

	"github.com/RichardToddFidelis/reporting-backend/utils"
)

func floatPtr(v float64) *float64 { return &v }

func TestBoxEventBoundsOrdering(t *testing.T) {
	base := NewBoxEvent{
		Name:        "box",
		Description: "test box",
		MaxLat:      floatPtr(10),
		MinLat:      floatPtr(-10),
		MaxLon:      floatPtr(20),
		MinLon:      floatPtr(-20),
	}

	if err := base.validate(); err != nil {
		t.Fatalf("valid box rejected: %v", err)
	}

	reversedLat := base
	reversedLat.MaxLat = floatPtr(-10)
	reversedLat.MinLat = floatPtr(10)
	if err := reversedLat.validate(); !utils.IsValidationError(err) {
		t.Fatalf("reversed lat bounds: got %v, want validation error", err)
	}

	equalLat := base
	equalLat.MaxLat = floatPtr(5)
	equalLat.MinLat = floatPtr(5)
	if err := equalLat.validate(); !utils.IsValidationError(err) {
		t.Fatalf("equal lat bounds: got %v, want validation error", err)
	}

	reversedLon := base
	reversedLon.MaxLon = floatPtr(-20)
	reversedLon.MinLon = floatPtr(20)
	if err := reversedLon.validate(); !utils.IsValidationError(err) {
		t.Fatalf("reversed lon bounds: got %v, want validation error", err)
	}
}

func TestDatePartsOf(t *testing.T) {
	cases := []struct {
		date    string
		quarter int
		year    int
		month   int
		day     int
	}{
		{"2026-01-01", 1, 2026, 1, 1},
		{"2026-03-31", 1, 2026, 3, 31},
		{"2026-04-01", 2, 2026, 4, 1},
		{"2026-06-30", 2, 2026, 6, 30},
		{"2026-09-15", 3, 2026, 9, 15},
		{"2026-12-31", 4, 2026, 12, 31},
	}
	for _, tc := range cases {
		d, err := time.Parse(dateLayout, tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		quarter, year, month, day := DatePartsOf(d)
		if quarter != tc.quarter || year != tc.year || month != tc.month || day != tc.day {
			t.Errorf("DatePartsOf(%s) = (%d %d %d %d), want (%d %d %d %d)",
				tc.date, quarter, year, month, day, tc.quarter, tc.year, tc.month, tc.day)
		}
	}
}

func TestJobStatusIsValid(t *testing.T) {
	for _, s := range []JobStatus{JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed} {
		if !s.IsValid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if JobStatus("DONE").IsValid() {
		t.Error("unexpected valid status DONE")
	}
	if JobStatus("").IsValid() {
		t.Error("unexpected valid empty status")
	}
}
