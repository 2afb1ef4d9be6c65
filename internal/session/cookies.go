// ABOUTME: Session cookie snapshot for persistent ("remember me") sessions
// ABOUTME: A browser keeps cookies for free; a CLI has to write them down

package session

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type cookieSnapshot struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

func (c *Cache) cookieFile() string {
	return filepath.Join(c.configDir, "cookies.json")
}

// LoadCookies reads persisted session cookies, dropping any that expired
func (c *Cache) LoadCookies() []*http.Cookie {
	data, err := os.ReadFile(c.cookieFile())
	if err != nil {
		return nil
	}

	var snaps []cookieSnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil
	}

	now := time.Now()
	var cookies []*http.Cookie
	for _, s := range snaps {
		if !s.Expires.IsZero() && s.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    s.Name,
			Value:   s.Value,
			Path:    s.Path,
			Domain:  s.Domain,
			Expires: s.Expires,
		})
	}
	return cookies
}

// SaveCookies persists the given cookies with owner-only permissions
func (c *Cache) SaveCookies(cookies []*http.Cookie) error {
	if err := os.MkdirAll(c.configDir, 0700); err != nil {
		return err
	}

	snaps := make([]cookieSnapshot, 0, len(cookies))
	for _, ck := range cookies {
		snaps = append(snaps, cookieSnapshot{
			Name:    ck.Name,
			Value:   ck.Value,
			Path:    ck.Path,
			Domain:  ck.Domain,
			Expires: ck.Expires,
		})
	}

	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.cookieFile(), data, 0600)
}

// ClearCookies removes the cookie snapshot
func (c *Cache) ClearCookies() error {
	err := os.Remove(c.cookieFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
