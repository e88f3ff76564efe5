package models

import (
	"strings"
	"time"
)

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleAdmin Role = "ADMIN"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(s)) {
	case RolePatient:
		return RolePatient, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusMissed Status = "missed"
	StatusCanceled Status = "canceled"
	StatusUnknown Status = "unknown"
)

// ParseStatus folds anything outside the four known values into StatusUnknown
// so that sorting stays total.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(s)) {
	case StatusConfirmed:
		return StatusConfirmed
	case StatusCompleted:
		return StatusCompleted
	case StatusMissed:
		return StatusMissed
	case StatusCanceled:
		return StatusCanceled
	}
	return StatusUnknown
}

type Session struct {
	ID     string
	UserID int64
	Role   Role
	Token  string
}

type CalendarDay struct {
	Date    time.Time
	Weekday string
	Label   string
	IsPast  bool
}

// Key is the canonical per-day cache and count key.
func (d CalendarDay) Key() string {
	return FormatDate(d.Date)
}

// FormatDate is the single local-date formatter used everywhere a Y-M-D
// string is built or compared.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// NormalizeSlot appends seconds to HH:MM slot strings. Slots already carrying
// seconds pass through unchanged.
func NormalizeSlot(slot string) string {
	if len(slot) == 5 {
		return slot + ":00"
	}
	return slot
}

type Appointment struct {
	ID          int64
	DoctorName  string
	Specialty   string
	Date        string
	Time        string
	RawDateTime time.Time
	Status      Status
	PatientName string
}
