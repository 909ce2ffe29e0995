package domain

import (
	"time"

	"github.com/google/uuid"
)

// Gender of a patient record.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

// Patient is a record owned by exactly one doctor. SSN is write-only: it is
// stored but never rendered.
type Patient struct {
	ID          uuid.UUID
	DoctorID    uuid.UUID
	FullName    string
	Gender      Gender
	Phone       string
	DateOfBirth time.Time
	Address     string
	SSN         string
	CreatedAt   time.Time
}

// AgeAt returns the difference in calendar years between now and the birth
// date. Day and month are ignored: born 2000-12-31, any day of 2024 gives 24.
func (p *Patient) AgeAt(now time.Time) int {
	return now.Year() - p.DateOfBirth.Year()
}

// PatientFilter narrows clinic patient listings. Empty fields are ignored.
// Gender matches exactly; Phone and FullName match case-insensitive substrings.
type PatientFilter struct {
	Gender   string
	Phone    string
	FullName string
}
