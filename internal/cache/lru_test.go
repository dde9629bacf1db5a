// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUCacheGetAdd(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for absent key")
	}

	c.Add("a", "OPEN")
	got, ok := c.Get("a")
	if !ok || got != "OPEN" {
		t.Fatalf("Get(a) = %q, %v; want OPEN, true", got, ok)
	}

	c.Add("a", "SECURE")
	got, _ = c.Get("a")
	if got != "SECURE" {
		t.Fatalf("Get(a) after update = %q; want SECURE", got)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d; want 1", c.Len())
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)
	for i := 0; i < 3; i++ {
		c.Add(fmt.Sprintf("k%d", i), i)
	}

	// Touch k0 so k1 becomes the oldest.
	if _, ok := c.Get("k0"); !ok {
		t.Fatal("k0 should be present")
	}

	c.Add("k3", 3)

	if c.Contains("k1") {
		t.Fatal("k1 should have been evicted as least recently used")
	}
	for _, key := range []string{"k0", "k2", "k3"} {
		if !c.Contains(key) {
			t.Fatalf("%s should still be present", key)
		}
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[string](10, 20*time.Millisecond)
	c.Add("a", "v")

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestLRUCacheAccessExtendsTTL(t *testing.T) {
	c := NewLRUCache[string](10, 50*time.Millisecond)
	c.Add("a", "v")

	// Keep touching the entry past the original deadline.
	for i := 0; i < 3; i++ {
		time.Sleep(30 * time.Millisecond)
		if _, ok := c.Get("a"); !ok {
			t.Fatalf("entry expired despite access on iteration %d", i)
		}
	}
}

func TestLRUCacheCleanupExpired(t *testing.T) {
	c := NewLRUCache[string](10, 20*time.Millisecond)
	c.Add("a", "v")
	c.Add("b", "v")

	time.Sleep(30 * time.Millisecond)
	c.Add("c", "v")

	if removed := c.CleanupExpired(); removed != 2 {
		t.Fatalf("CleanupExpired = %d; want 2", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d; want 1", c.Len())
	}
}

func TestLRUCacheStats(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)
	c.Add("a", "v")
	c.Get("a")
	c.Get("nope")

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Fatalf("Stats = %d hits, %d misses, %d size; want 1, 1, 1", hits, misses, size)
	}
}
