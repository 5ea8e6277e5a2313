package store

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Store is the host-owned state behind the weather commands.
type Store interface {
	weather.LocationStore
	weather.SettingsStore

	// Prune removes expired last locations and reports how many went away.
	Prune() (int, error)
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// Open returns the backend named by driver ("memory" or "sqlite").
func Open(driver, sqlitePath string, defaults weather.ChannelSettings, maxAge time.Duration) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(defaults, maxAge), nil
	case "sqlite":
		s, err := NewSQLite(sqlitePath, defaults, maxAge)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
