package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// SQLiteStore keeps host state in a SQLite file (pure Go driver modernc.org/sqlite).
// Timestamps are stored as unix nanoseconds.
type SQLiteStore struct {
	db       *sql.DB
	defaults weather.ChannelSettings
	maxAge   time.Duration
	now      func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS last_locations (
	user       TEXT PRIMARY KEY,
	location   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS channel_settings (
	channel       TEXT PRIMARY KEY,
	unit          TEXT NOT NULL,
	convert_units INTEGER NOT NULL,
	source        TEXT NOT NULL
);`

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string, defaults weather.ChannelSettings, maxAge time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Println("warning: could not set WAL mode:", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db, defaults: defaults, maxAge: maxAge, now: time.Now}, nil
}

func (s *SQLiteStore) LastLocation(user string) (string, error) {
	var location string
	var updatedAt int64
	err := s.db.QueryRow(`SELECT location, updated_at FROM last_locations WHERE user = ?`, user).
		Scan(&location, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", weather.ErrNotStored
	}
	if err != nil {
		return "", err
	}

	if s.maxAge > 0 && updatedAt < s.now().Add(-s.maxAge).UnixNano() {
		return "", weather.ErrNotStored
	}
	return location, nil
}

func (s *SQLiteStore) SetLastLocation(user, location string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO last_locations(user, location, updated_at) VALUES(?,?,?)`,
		user, location, s.now().UnixNano())
	return err
}

func (s *SQLiteStore) ChannelSettings(channel string) (weather.ChannelSettings, error) {
	var unit, source string
	var convert bool
	err := s.db.QueryRow(`SELECT unit, convert_units, source FROM channel_settings WHERE channel = ?`, channel).
		Scan(&unit, &convert, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return s.defaults, nil
	}
	if err != nil {
		return weather.ChannelSettings{}, err
	}

	return weather.ChannelSettings{
		Preference: weather.Preference{Unit: weather.Unit(unit), Convert: convert},
		Source:     weather.SourceID(source),
	}, nil
}

func (s *SQLiteStore) SetChannelSettings(channel string, cs weather.ChannelSettings) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO channel_settings(channel, unit, convert_units, source) VALUES(?,?,?,?)`,
		channel, string(cs.Unit), cs.Convert, string(cs.Source))
	return err
}

// Prune deletes last locations older than maxAge.
func (s *SQLiteStore) Prune() (int, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.maxAge).UnixNano()
	res, err := s.db.Exec(`DELETE FROM last_locations WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
