package session

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"clinic-portal/internal/models"
	"clinic-portal/pkg/response"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewWithClient(client, time.Hour), mr
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)

	id, err := store.Create(context.Background(), 42, models.RolePatient, "jwt-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	sess, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.UserID != 42 || sess.Role != models.RolePatient || sess.Token != "jwt-1" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.ID != id {
		t.Fatalf("session id mismatch: %s != %s", sess.ID, id)
	}
}

func TestGet_UnknownID(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, response.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got: %v", err)
	}
}

func TestGet_ExpiredByTTL(t *testing.T) {
	store, mr := newTestStore(t)

	id, err := store.Create(context.Background(), 1, models.RoleAdmin, "jwt-2")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(context.Background(), id)
	if !errors.Is(err, response.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got: %v", err)
	}
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)

	id, err := store.Create(context.Background(), 1, models.RoleAdmin, "jwt-3")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Get(context.Background(), id); !errors.Is(err, response.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired after delete, got: %v", err)
	}

	// Idempotent.
	if err := store.Delete(context.Background(), id); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
