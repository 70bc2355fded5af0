package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Preference keys.
const (
	PrefDisplayName = "display_name"
	PrefTheme       = "theme"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// GetPreference returns the stored value for key, or "" with ok=false when unset.
func (s *Store) GetPreference(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, true, nil
}

// SetPreference upserts a preference value.
func (s *Store) SetPreference(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

// DisplayName returns the persisted display name, "" if none was saved.
func (s *Store) DisplayName() (string, error) {
	name, _, err := s.GetPreference(PrefDisplayName)
	return name, err
}

// SetDisplayName persists the display name.
func (s *Store) SetDisplayName(name string) error {
	return s.SetPreference(PrefDisplayName, name)
}

// Theme returns the persisted theme, defaulting to light.
func (s *Store) Theme() (string, error) {
	theme, _, err := s.GetPreference(PrefTheme)
	if err != nil {
		return ThemeLight, err
	}
	return NormalizeTheme(theme), nil
}

// SetTheme persists the theme. Unknown names are stored as light.
func (s *Store) SetTheme(theme string) error {
	return s.SetPreference(PrefTheme, NormalizeTheme(theme))
}

// IsTheme reports whether theme names a known theme.
func IsTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

// NormalizeTheme maps anything other than "dark" to light.
func NormalizeTheme(theme string) string {
	if theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// ToggleTheme returns the other theme.
func ToggleTheme(theme string) string {
	if NormalizeTheme(theme) == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
