package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/steveyegge/td/internal/storage"
)

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, "todos"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get on empty store: got %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "todos", "[]"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := s.Get(ctx, "todos")
	if err != nil || v != "[]" {
		t.Fatalf("Get = %q, %v", v, err)
	}
	if err := s.Delete(ctx, "todos"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "todos"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get after Delete: got %v, want ErrNotFound", err)
	}
}

func TestKeysSorted(t *testing.T) {
	ctx := context.Background()
	s := NewWithData(map[string]string{"todos": "[]", "darkMode": "true", "draft": "{}"})
	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"darkMode", "draft", "todos"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
}

func TestRejectsInvalidKey(t *testing.T) {
	if err := New().Set(context.Background(), "", "x"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Fatalf("Set with empty key: got %v, want ErrInvalidKey", err)
	}
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Close()
	if err := s.Set(ctx, "k", "v"); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("Set after Close: got %v, want ErrClosed", err)
	}
}
