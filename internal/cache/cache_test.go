package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	if _, ok, err := c.Get(ctx, "g1", "equal"); ok || err != nil {
		t.Fatalf("Get on empty cache = ok %v, err %v", ok, err)
	}

	if _, err := c.Set(ctx, "g1", "equal", 0, []byte("a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := c.Set(ctx, "g1", "split", 0, []byte("b")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := c.Set(ctx, "g2", "equal", 0, []byte("c")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, _ := c.Get(ctx, "g1", "split")
	if !ok || string(got) != "b" {
		t.Errorf("Get(g1, split) = %q, %v", got, ok)
	}

	if err := c.Invalidate(ctx, "g1"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	for _, field := range []string{"equal", "split"} {
		if _, ok, _ := c.Get(ctx, "g1", field); ok {
			t.Errorf("Expected g1/%s to be invalidated", field)
		}
	}
	if _, ok, _ := c.Get(ctx, "g2", "equal"); !ok {
		t.Error("Invalidate(g1) dropped g2")
	}
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, err := c.Set(ctx, "g1", "equal", 0, []byte("a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	now = now.Add(59 * time.Second)
	if _, ok, _ := c.Get(ctx, "g1", "equal"); !ok {
		t.Error("Entry expired early")
	}

	now = now.Add(time.Second)
	if _, ok, _ := c.Get(ctx, "g1", "equal"); ok {
		t.Error("Entry did not expire")
	}
}

func TestMemory_Generation(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	gen, err := c.Generation(ctx, "g1")
	if err != nil {
		t.Fatalf("Generation failed: %v", err)
	}

	// A write lands after the reader took its generation.
	if err := c.Invalidate(ctx, "g1"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	stored, err := c.Set(ctx, "g1", "equal", gen, []byte("stale"))
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if stored {
		t.Error("Set stored a value computed before Invalidate")
	}
	if _, ok, _ := c.Get(ctx, "g1", "equal"); ok {
		t.Error("Expected no cached value")
	}

	next, _ := c.Generation(ctx, "g1")
	if next != gen+1 {
		t.Errorf("Generation = %d, want %d", next, gen+1)
	}
	if stored, _ := c.Set(ctx, "g1", "equal", next, []byte("fresh")); !stored {
		t.Error("Set with current generation was dropped")
	}
	got, ok, _ := c.Get(ctx, "g1", "equal")
	if !ok || string(got) != "fresh" {
		t.Errorf("Get(g1, equal) = %q, %v", got, ok)
	}

	// Other groups keep their own generation.
	if other, _ := c.Generation(ctx, "g2"); other != 0 {
		t.Errorf("Generation(g2) = %d, want 0", other)
	}
}
