package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/weather"
)

func TestOpen(t *testing.T) {
	s, err := Open("memory", "", weather.DefaultChannelSettings(), 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open("sqlite", filepath.Join(t.TempDir(), "w.db"), weather.DefaultChannelSettings(), 0)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("redis", "", weather.DefaultChannelSettings(), 0)
	assert.Error(t, err)
}
