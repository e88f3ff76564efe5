package appointments

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"clinic-portal/internal/models"
)

// PageSize is the fixed number of rows per appointments page.
const PageSize = 8

// MinCancelNotice is how far ahead an appointment must be for a patient to
// cancel it on their own.
const MinCancelNotice = 24 * time.Hour

var statusPriority = map[models.Status]int{
	models.StatusConfirmed: 1,
	models.StatusCompleted: 2,
	models.StatusMissed:    3,
	models.StatusCanceled:  4,
}

func priority(s models.Status) int {
	if p, ok := statusPriority[s]; ok {
		return p
	}
	return 5
}

// Less orders appointments by status priority (confirmed, completed, missed,
// canceled, then anything unknown), and by appointment time within equal
// priority. Every pair is comparable.
func Less(a, b models.Appointment) bool {
	pa, pb := priority(a.Status), priority(b.Status)
	if pa != pb {
		return pa < pb
	}
	return a.RawDateTime.Before(b.RawDateTime)
}

// Sort sorts in place, stably.
func Sort(appts []models.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		return Less(appts[i], appts[j])
	})
}

// CancelDecision is the UI-observable outcome of a cancel attempt check.
type CancelDecision string

const (
	// CancelAllowed means the caller may proceed with the cancellation.
	CancelAllowed CancelDecision = "allowed"
	// CancelContactAdmin means the appointment is too close for the patient
	// to cancel themselves. This is a normal branch, not an error.
	CancelContactAdmin CancelDecision = "contact_admin"
	// CancelUnavailable means the appointment is not in a cancellable status.
	CancelUnavailable CancelDecision = "unavailable"
)

// CancelEligibility decides whether role may cancel the appointment at now.
// Admins may cancel any confirmed appointment; patients need at least
// MinCancelNotice before the appointment time. The patient notice check
// needs a known appointment time, so a zero RawDateTime is unavailable.
func CancelEligibility(appt models.Appointment, role models.Role, now time.Time) CancelDecision {
	if appt.Status != models.StatusConfirmed {
		return CancelUnavailable
	}
	if role == models.RoleAdmin {
		return CancelAllowed
	}
	if appt.RawDateTime.IsZero() {
		return CancelUnavailable
	}
	if appt.RawDateTime.Sub(now) >= MinCancelNotice {
		return CancelAllowed
	}
	return CancelContactAdmin
}

// MarkMissed transitions a completed appointment to missed. The role check is
// the caller's responsibility; a non-completed status is a contract violation.
func MarkMissed(appt *models.Appointment) error {
	const op = "appointments.MarkMissed"

	if appt.Status != models.StatusCompleted {
		return fmt.Errorf("%s: status %q is not completed", op, appt.Status)
	}

	appt.Status = models.StatusMissed

	return nil
}

// Filter keeps appointments whose patient name contains the search term,
// case-insensitively. An empty term keeps everything. Filtering runs before
// pagination, so page counts follow the filtered size.
func Filter(appts []models.Appointment, term string) []models.Appointment {
	if term == "" {
		return appts
	}

	term = strings.ToLower(term)

	out := make([]models.Appointment, 0, len(appts))
	for _, a := range appts {
		if strings.Contains(strings.ToLower(a.PatientName), term) {
			out = append(out, a)
		}
	}

	return out
}

// TotalPages is ceil(count/PageSize), at least 1.
func TotalPages(count int) int {
	pages := (count + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Page returns the 1-based page slice of an already sorted collection.
func Page(sorted []models.Appointment, pageNumber int) []models.Appointment {
	if pageNumber < 1 {
		pageNumber = 1
	}

	start := (pageNumber - 1) * PageSize
	if start >= len(sorted) {
		return nil
	}

	end := start + PageSize
	if end > len(sorted) {
		end = len(sorted)
	}

	return sorted[start:end]
}
