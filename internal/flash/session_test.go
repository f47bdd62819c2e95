package flash

import (
	"context"
	"errors"
	"testing"

	"toastd/internal/storage"
	"toastd/internal/toast"
)

func TestSessionSurvivesOneRedirect(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	defer st.Close()

	// Request 1: raise a toast, then redirect.
	s1, err := Begin(ctx, st, "")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if !ValidSessionID(s1.ID) {
		t.Fatalf("generated id %q is not valid", s1.ID)
	}
	store := toast.NewStore(s1.Bag, nopLogger())
	if err := store.AddMessage("success", "Saved"); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := s1.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Request 2: render consumes.
	s2, err := Begin(ctx, st, s1.ID)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	msgs, err := toast.NewStore(s2.Bag, nopLogger()).GetAllMessages(false)
	if err != nil {
		t.Fatalf("GetAllMessages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if err := s2.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Request 3: nothing left.
	s3, err := Begin(ctx, st, s1.ID)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if s3.Bag.Len() != 0 {
		t.Fatalf("bag len = %d after consume", s3.Bag.Len())
	}
	if _, ok, _ := st.Load(ctx, s1.ID); ok {
		t.Fatal("empty session should be deleted from storage")
	}
}

func TestSessionBumpAcrossRequests(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	defer st.Close()

	id := NewSessionID()
	for i := 0; i < 2; i++ {
		s, err := Begin(ctx, st, id)
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		if err := toast.NewStore(s.Bag, nopLogger()).AddMessage("warning", "Disk"); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
		if err := s.Commit(ctx); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}

	s, err := Begin(ctx, st, id)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	msgs, err := toast.NewStore(s.Bag, nopLogger()).GetAllMessages(true)
	if err != nil {
		t.Fatalf("GetAllMessages: %v", err)
	}
	r := msgs[toast.Identify("warning", "Disk")]
	if r == nil || r.Count() != 2 {
		t.Fatalf("want one record with 2 occurrences, got %+v", msgs)
	}
}

func TestBeginRejectsInvalidID(t *testing.T) {
	if _, err := Begin(context.Background(), storage.NewMemory(), "../x"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
}
