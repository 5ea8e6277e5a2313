package weather

import (
	"context"
)

// Provider abstracts one weather site (HamWeather, CNN, Weather Underground).
type Provider interface {
	ID() SourceID
	Fetch(ctx context.Context, query string) (Reading, error)
}

// LocationStore remembers the last location each user asked about.
// LastLocation returns ErrNotStored when nothing is remembered.
type LocationStore interface {
	LastLocation(user string) (string, error)
	SetLastLocation(user, location string) error
}

// SettingsStore holds per-channel display and source preferences.
// Channels without explicit settings get the store's defaults.
type SettingsStore interface {
	ChannelSettings(channel string) (ChannelSettings, error)
	SetChannelSettings(channel string, settings ChannelSettings) error
}
