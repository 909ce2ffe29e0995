package domain

import (
	"testing"
	"time"
)

func TestPatient_AgeAt_IgnoresDayAndMonth(t *testing.T) {
	p := &Patient{DateOfBirth: time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)}

	for _, now := range []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC),
	} {
		if got := p.AgeAt(now); got != 24 {
			t.Fatalf("AgeAt(%s) = %d, want 24", now.Format(DateLayout), got)
		}
	}
}

func TestPatient_AgeAt_BornThisYear(t *testing.T) {
	p := &Patient{DateOfBirth: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	if got := p.AgeAt(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
