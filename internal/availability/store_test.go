package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceStub struct {
	counts map[string]int
	slots  []string
	err    error

	countCalls int
	slotCalls  int
}

func (s *sourceStub) AppointmentCounts(ctx context.Context, token string, doctorID int64, startDate, endDate string) (map[string]int, error) {
	s.countCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.counts, nil
}

func (s *sourceStub) AvailableSlots(ctx context.Context, token string, doctorID int64, date string) ([]string, error) {
	s.slotCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.slots, nil
}

func TestCounts_ReplacesPerDoctor(t *testing.T) {
	src := &sourceStub{counts: map[string]int{"2024-06-12": 3, "2024-06-13": 0}}
	store := New(src)

	counts, err := store.Counts(context.Background(), "tok", 7, "2024-06-10", "2024-06-14")
	require.NoError(t, err)
	assert.Equal(t, 3, counts["2024-06-12"])
	assert.Equal(t, 3, store.CachedCount(7, "2024-06-12"))
	assert.Equal(t, 0, store.CachedCount(7, "2024-06-13"))

	// A later fetch for the same doctor fully replaces the prior window.
	src.counts = map[string]int{"2024-06-17": 5}
	_, err = store.Counts(context.Background(), "tok", 7, "2024-06-17", "2024-06-21")
	require.NoError(t, err)
	assert.Equal(t, 0, store.CachedCount(7, "2024-06-12"))
	assert.Equal(t, 5, store.CachedCount(7, "2024-06-17"))
}

func TestCounts_KeepsStaleOnError(t *testing.T) {
	src := &sourceStub{counts: map[string]int{"2024-06-12": 2}}
	store := New(src)

	_, err := store.Counts(context.Background(), "tok", 7, "2024-06-10", "2024-06-14")
	require.NoError(t, err)

	src.err = errors.New("upstream down")
	stale, err := store.Counts(context.Background(), "tok", 7, "2024-06-10", "2024-06-14")
	require.Error(t, err)
	assert.Equal(t, 2, stale["2024-06-12"])
	assert.Equal(t, 2, store.CachedCount(7, "2024-06-12"))
}

func TestSlots_LastFetchPerKeyWins(t *testing.T) {
	src := &sourceStub{slots: []string{"09:00", "10:00"}}
	store := New(src)

	slots, err := store.Slots(context.Background(), "tok", 7, "2024-06-12")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, slots)

	src.slots = []string{"10:00"}
	_, err = store.Slots(context.Background(), "tok", 7, "2024-06-12")
	require.NoError(t, err)

	cached, ok := store.CachedSlots(7, "2024-06-12")
	require.True(t, ok)
	assert.Equal(t, []string{"10:00"}, cached)
}

func TestSlots_KeysAreIndependent(t *testing.T) {
	src := &sourceStub{slots: []string{"09:00"}}
	store := New(src)

	_, err := store.Slots(context.Background(), "tok", 7, "2024-06-12")
	require.NoError(t, err)

	// A failing fetch for another date must not disturb the first key.
	src.err = errors.New("upstream down")
	_, err = store.Slots(context.Background(), "tok", 7, "2024-06-13")
	require.Error(t, err)

	cached, ok := store.CachedSlots(7, "2024-06-12")
	require.True(t, ok)
	assert.Equal(t, []string{"09:00"}, cached)

	_, ok = store.CachedSlots(7, "2024-06-13")
	assert.False(t, ok)
}

func TestSlots_StaleValueReturnedWithError(t *testing.T) {
	src := &sourceStub{slots: []string{"09:00"}}
	store := New(src)

	_, err := store.Slots(context.Background(), "tok", 7, "2024-06-12")
	require.NoError(t, err)

	src.err = errors.New("timeout")
	stale, err := store.Slots(context.Background(), "tok", 7, "2024-06-12")
	require.Error(t, err)
	assert.Equal(t, []string{"09:00"}, stale)
}
