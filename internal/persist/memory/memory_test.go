package memory

import (
	"context"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, found, err := s.Get(ctx, "k"); found || err != nil {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}
	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found || v != "v2" {
		t.Fatalf("unexpected get: %q %v %v", v, found, err)
	}
}

func TestNewSeededCopiesInput(t *testing.T) {
	seed := map[string]string{"a": "1"}
	s := NewSeeded(seed)
	seed["a"] = "2"
	if v, _, _ := s.Get(context.Background(), "a"); v != "1" {
		t.Fatalf("seed map aliased: %q", v)
	}
}
