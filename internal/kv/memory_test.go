package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := m.Set(ctx, "a", []byte("one")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := m.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != "one" {
		t.Errorf("Get = %q, want %q", v, "one")
	}

	// Set is an upsert.
	if err := m.Set(ctx, "a", []byte("two")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _ = m.Get(ctx, "a")
	if string(v) != "two" {
		t.Errorf("Get after upsert = %q, want %q", v, "two")
	}
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Set(ctx, "a", []byte("abc")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _ := m.Get(ctx, "a")
	v[0] = 'X'
	v2, _ := m.Get(ctx, "a")
	if string(v2) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", v2)
	}
}

func TestMemory_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := m.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestMemory_DeleteMany(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for i := 0; i < 5; i++ {
		if err := m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v")); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	// Mix of live and absent keys.
	if err := m.DeleteMany(ctx, []string{"k0", "k2", "nope", "k4"}); err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestMemory_ScanPrefixExact(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed := map[string]string{
		"tenant:alice:note:1": "a1",
		"tenant:alice:note:2": "a2",
		"tenant:aliceX:note:1": "imposter",
		"tenant:bob:note:1":   "b1",
		"tenant:alice:profile": "not-a-note",
	}
	for k, v := range seed {
		if err := m.Set(ctx, k, []byte(v)); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	values, err := m.ScanPrefix(ctx, "tenant:alice:note:")
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	got := make(map[string]bool)
	for _, v := range values {
		got[string(v)] = true
	}
	if len(got) != 2 || !got["a1"] || !got["a2"] {
		t.Errorf("ScanPrefix = %v, want exactly {a1, a2}", got)
	}
}

func TestMemory_ScanPrefixAfterDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for i := 0; i < 4; i++ {
		if err := m.Set(ctx, fmt.Sprintf("p:%d", i), []byte{byte('0' + i)}); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if err := m.Delete(ctx, "p:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	values, err := m.ScanPrefix(ctx, "p:")
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	if len(values) != 3 {
		t.Errorf("ScanPrefix returned %d values, want 3 (no ghost entries)", len(values))
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("w%d:%d", n, j)
				_ = m.Set(ctx, key, []byte("x"))
				_, _ = m.ScanPrefix(ctx, fmt.Sprintf("w%d:", n))
				_ = m.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}
