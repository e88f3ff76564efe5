package availability

import (
	"context"
	"fmt"
	"sync"
)

// Source is the remote side of the availability data: per-day appointment
// counts for a date range and open slots for a single day.
type Source interface {
	AppointmentCounts(ctx context.Context, token string, doctorID int64, startDate, endDate string) (map[string]int, error)
	AvailableSlots(ctx context.Context, token string, doctorID int64, date string) ([]string, error)
}

// Store caches fetched availability per key. A failed fetch leaves the prior
// cached value for that key untouched, so callers can keep showing stale data.
// Keys are independent of each other: a fetch for one doctor or date never
// blocks or invalidates another, and the last completed fetch per key wins.
type Store struct {
	src Source

	mu     sync.RWMutex
	counts map[int64]map[string]int
	slots  map[string][]string
}

func New(src Source) *Store {
	return &Store{
		src:    src,
		counts: make(map[int64]map[string]int),
		slots:  make(map[string][]string),
	}
}

func slotKey(doctorID int64, date string) string {
	return fmt.Sprintf("%d|%s", doctorID, date)
}

// Counts fetches the per-day appointment counts for a doctor and date range
// and replaces the doctor's cached counts with the result. On failure the
// cached value is returned alongside the error.
func (s *Store) Counts(ctx context.Context, token string, doctorID int64, startDate, endDate string) (map[string]int, error) {
	const op = "availability.Store.Counts"

	counts, err := s.src.AppointmentCounts(ctx, token, doctorID, startDate, endDate)
	if err != nil {
		return s.CachedCounts(doctorID), fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.counts[doctorID] = counts
	s.mu.Unlock()

	return counts, nil
}

// Slots fetches the open slots for a doctor and date and replaces the cached
// value for that (doctor, date) key. On failure the cached value is returned
// alongside the error.
func (s *Store) Slots(ctx context.Context, token string, doctorID int64, date string) ([]string, error) {
	const op = "availability.Store.Slots"

	slots, err := s.src.AvailableSlots(ctx, token, doctorID, date)
	if err != nil {
		stale, _ := s.CachedSlots(doctorID, date)
		return stale, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.slots[slotKey(doctorID, date)] = slots
	s.mu.Unlock()

	return slots, nil
}

// CachedCounts returns the last successfully fetched counts for a doctor.
func (s *Store) CachedCounts(doctorID int64) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.counts[doctorID]
}

// CachedCount returns the known appointment count for a single day. Days the
// store has never seen count as zero.
func (s *Store) CachedCount(doctorID int64, date string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.counts[doctorID][date]
}

// CachedSlots returns the last successfully fetched slots for a (doctor, date)
// key and whether the key has ever been fetched.
func (s *Store) CachedSlots(doctorID int64, date string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots, ok := s.slots[slotKey(doctorID, date)]
	return slots, ok
}
