// ABOUTME: Durable client-side session record stored in the XDG config directory
// ABOUTME: The CLI analogue of the browser's local storage user entry

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// User is the minimal record of the authenticated principal
type User struct {
	Username  string `json:"username"`
	IsPremium bool   `json:"is_premium"`
}

// Cache persists the current user record and session cookies on disk
type Cache struct {
	configDir string
}

type cachedRecord struct {
	User     *User `json:"user"`
	Remember bool  `json:"remember"`
}

// NewCache creates a cache rooted at the given config directory
func NewCache(configDir string) *Cache {
	return &Cache{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lettre")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lettre")
}

func (c *Cache) recordFile() string {
	return filepath.Join(c.configDir, "session.json")
}

// Load reads the cached user record. A missing or corrupt file yields
// no user rather than an error; the record is advisory until verified.
func (c *Cache) Load() (*User, bool) {
	data, err := os.ReadFile(c.recordFile())
	if err != nil {
		return nil, false
	}

	var rec cachedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}
	return rec.User, rec.Remember
}

// Save writes the user record to disk
func (c *Cache) Save(u *User, remember bool) error {
	if err := os.MkdirAll(c.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cachedRecord{User: u, Remember: remember}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.recordFile(), data, 0600)
}

// Clear removes the user record
func (c *Cache) Clear() error {
	err := os.Remove(c.recordFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
