// ABOUTME: Tests for the durable session cache
// ABOUTME: Verifies record round-trips, corrupt-file tolerance, and cookie expiry

package session

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_SaveLoadClear(t *testing.T) {
	cache := NewCache(t.TempDir())

	if u, _ := cache.Load(); u != nil {
		t.Error("expected empty cache before save")
	}

	if err := cache.Save(&User{Username: "marie", IsPremium: true}, true); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	u, remember := cache.Load()
	if u == nil || u.Username != "marie" || !u.IsPremium {
		t.Errorf("unexpected loaded record: %+v", u)
	}
	if !remember {
		t.Error("expected remember flag to round-trip")
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if u, _ := cache.Load(); u != nil {
		t.Error("expected empty cache after clear")
	}
}

func TestCache_CorruptFileYieldsNoUser(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}

	cache := NewCache(dir)
	if u, _ := cache.Load(); u != nil {
		t.Error("expected corrupt file to yield no user")
	}
}

func TestCache_ClearMissingFileIsFine(t *testing.T) {
	cache := NewCache(t.TempDir())
	if err := cache.Clear(); err != nil {
		t.Errorf("Clear on missing file should not error: %v", err)
	}
	if err := cache.ClearCookies(); err != nil {
		t.Errorf("ClearCookies on missing file should not error: %v", err)
	}
}

func TestCookies_RoundTrip(t *testing.T) {
	cache := NewCache(t.TempDir())

	in := []*http.Cookie{{Name: "session", Value: "abc123", Path: "/"}}
	if err := cache.SaveCookies(in); err != nil {
		t.Fatalf("SaveCookies failed: %v", err)
	}

	out := cache.LoadCookies()
	if len(out) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(out))
	}
	if out[0].Name != "session" || out[0].Value != "abc123" {
		t.Errorf("unexpected cookie: %+v", out[0])
	}
}

func TestCookies_ExpiredAreDropped(t *testing.T) {
	cache := NewCache(t.TempDir())

	in := []*http.Cookie{
		{Name: "stale", Value: "old", Expires: time.Now().Add(-time.Hour)},
		{Name: "session", Value: "live", Expires: time.Now().Add(time.Hour)},
	}
	if err := cache.SaveCookies(in); err != nil {
		t.Fatalf("SaveCookies failed: %v", err)
	}

	out := cache.LoadCookies()
	if len(out) != 1 {
		t.Fatalf("expected expired cookie to be dropped, got %d cookies", len(out))
	}
	if out[0].Name != "session" {
		t.Errorf("expected surviving cookie to be the live one, got %s", out[0].Name)
	}
}

func TestCache_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir)
	if err := cache.Save(&User{Username: "marie"}, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}
