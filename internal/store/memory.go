package store

import (
	"sync"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// lastLocation is a remembered location and when it was last used.
type lastLocation struct {
	Location  string
	UpdatedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory implementation of the host state:
// per-user last locations and per-channel settings.
type MemoryStore struct {
	mu sync.RWMutex

	// key: user identity (nick!user@host)
	locations map[string]lastLocation
	// key: channel name, "" for private messages
	channels map[string]weather.ChannelSettings

	defaults weather.ChannelSettings
	maxAge   time.Duration // 0 = keep forever
	now      func() time.Time
}

// NewMemoryStore creates a new MemoryStore. Channels without settings get defaults.
// If maxAge is <= 0, last locations never expire.
func NewMemoryStore(defaults weather.ChannelSettings, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		locations: make(map[string]lastLocation),
		channels:  make(map[string]weather.ChannelSettings),
		defaults:  defaults,
		maxAge:    maxAge,
		now:       time.Now,
	}
}

// LastLocation returns the most recent location used by user.
func (s *MemoryStore) LastLocation(user string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.locations[user]
	if !ok || s.expired(entry.UpdatedAt) {
		return "", weather.ErrNotStored
	}
	return entry.Location, nil
}

// SetLastLocation remembers location for user.
func (s *MemoryStore) SetLastLocation(user, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locations[user] = lastLocation{Location: location, UpdatedAt: s.now()}
	return nil
}

// ChannelSettings returns the settings for channel, or the defaults.
func (s *MemoryStore) ChannelSettings(channel string) (weather.ChannelSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cs, ok := s.channels[channel]; ok {
		return cs, nil
	}
	return s.defaults, nil
}

// SetChannelSettings overrides the settings for channel.
func (s *MemoryStore) SetChannelSettings(channel string, settings weather.ChannelSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.channels[channel] = settings
	return nil
}

// Prune drops last locations older than maxAge and returns how many were removed.
func (s *MemoryStore) Prune() (int, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for user, entry := range s.locations {
		if s.expired(entry.UpdatedAt) {
			delete(s.locations, user)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) expired(ts time.Time) bool {
	return s.maxAge > 0 && ts.Before(s.now().Add(-s.maxAge))
}
