package session

import (
	"testing"
	"time"
)

func TestStore_PutGet(t *testing.T) {
	store := NewStore(time.Hour)

	sess := &Session{ChatID: 1, UserID: 2, State: StateAwaitingTitle}
	store.Put(sess)

	got := store.Get(1, 2)
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.State != StateAwaitingTitle {
		t.Errorf("State = %q, want %q", got.State, StateAwaitingTitle)
	}
	if store.Get(1, 3) != nil {
		t.Error("different user must not share a session")
	}
	if store.Get(9, 2) != nil {
		t.Error("different chat must not share a session")
	}
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(time.Hour)
	store.Put(&Session{ChatID: 1, UserID: 2})

	store.Delete(1, 2)
	if store.Get(1, 2) != nil {
		t.Error("session survived Delete")
	}
}

func TestStore_ExpiresOnRead(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	store.Put(&Session{ChatID: 1, UserID: 2})

	time.Sleep(25 * time.Millisecond)
	if store.Get(1, 2) != nil {
		t.Error("expired session returned from Get")
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d after expiry read, want 0", store.Len())
	}
}

func TestStore_Evict(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	store.Put(&Session{ChatID: 1, UserID: 2})
	store.Put(&Session{ChatID: 1, UserID: 3})

	store.evict(time.Now().Add(time.Second))
	if store.Len() != 0 {
		t.Errorf("Len = %d after evict, want 0", store.Len())
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewStore(0)
	store.Put(&Session{ChatID: 1, UserID: 2})

	store.evict(time.Now().Add(24 * time.Hour))
	if store.Get(1, 2) == nil {
		t.Error("session with disabled TTL expired")
	}
}
