package cache

import (
	"testing"
	"time"
)

func TestTTLCache(t *testing.T) {
	t.Run("get returns stored value before expiry", func(t *testing.T) {
		c := New[string, int](time.Minute, time.Minute)
		defer c.Close()

		c.Set("a", 1)
		got, ok := c.Get("a")
		if !ok || got != 1 {
			t.Fatalf("expected (1, true), got (%d, %t)", got, ok)
		}
	})

	t.Run("get misses after expiry", func(t *testing.T) {
		c := New[string, int](10*time.Millisecond, time.Minute)
		defer c.Close()

		c.Set("a", 1)
		time.Sleep(20 * time.Millisecond)

		if _, ok := c.Get("a"); ok {
			t.Fatal("expected expired entry to miss")
		}
	})

	t.Run("delete removes entry", func(t *testing.T) {
		c := New[string, int](time.Minute, time.Minute)
		defer c.Close()

		c.Set("a", 1)
		c.Delete("a")
		if _, ok := c.Get("a"); ok {
			t.Fatal("expected deleted entry to miss")
		}
	})

	t.Run("purge empties the cache", func(t *testing.T) {
		c := New[string, int](time.Minute, time.Minute)
		defer c.Close()

		c.Set("a", 1)
		c.Set("b", 2)
		c.Purge()

		if _, ok := c.Get("a"); ok {
			t.Fatal("expected purged cache to miss")
		}
		if _, ok := c.Get("b"); ok {
			t.Fatal("expected purged cache to miss")
		}
	})

	t.Run("set overwrites existing value", func(t *testing.T) {
		c := New[string, int](time.Minute, time.Minute)
		defer c.Close()

		c.Set("a", 1)
		c.Set("a", 2)
		if got, _ := c.Get("a"); got != 2 {
			t.Fatalf("expected overwritten value 2, got %d", got)
		}
	})
}
