package internal

import (
	"testing"
	"time"
)

func TestSessionCache(t *testing.T) {
	c := NewSessionCache(time.Minute)

	if _, ok := c.Get(); ok {
		t.Fatal("Get() on a new cache should miss")
	}

	c.Set([]Session{{ID: "session_1"}})
	got, ok := c.Get()
	if !ok || len(got) != 1 || got[0].ID != "session_1" {
		t.Fatalf("Get() = %v, %v", got, ok)
	}

	// callers get a copy
	got[0].ID = "mutated"
	again, _ := c.Get()
	if again[0].ID != "session_1" {
		t.Error("mutating a returned list must not change the cache")
	}

	c.Invalidate()
	if _, ok := c.Get(); ok {
		t.Error("Get() after Invalidate() should miss")
	}
}

func TestSessionCache_Expiry(t *testing.T) {
	c := NewSessionCache(50 * time.Millisecond)
	c.Set([]Session{{ID: "session_1"}})

	time.Sleep(120 * time.Millisecond)
	if _, ok := c.Get(); ok {
		t.Error("Get() after the TTL should miss")
	}
}
