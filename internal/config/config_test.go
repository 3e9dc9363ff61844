package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSearch = `
zipcodes:
  priority: ["93001", "93035"]
  additional: ["93041"]
property_types: ["single_family", "multi_family"]
filters:
  min_price: 400000
  max_price: 1500000
  min_lot_size_sqft: 3000
  max_longitude: -119.2
`

func writeSearch(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("RENTCAST_API_KEY", "rc-key")
	t.Setenv("CHECK_TIMES", "07:30,19:00")
	t.Setenv("EMAIL_TO", "a@example.com, b@example.com")

	cfg, err := Load(writeSearch(t, sampleSearch))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "rc-key", cfg.Providers.RentcastKey)
	assert.Equal(t, 50, cfg.Providers.RentcastLimit)
	assert.Equal(t, []string{"07:30", "19:00"}, cfg.Schedule.CheckTimes)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Email.To)

	assert.Equal(t, []string{"93001", "93035", "93041"}, cfg.Search.AllZipcodes())
	assert.Equal(t, 400000, cfg.Search.Filters.MinPrice)
	require.NotNil(t, cfg.Search.Filters.MaxLongitude)
	assert.InDelta(t, -119.2, *cfg.Search.Filters.MaxLongitude, 0.001)
}

func TestLoadRejectsEmptyZipcodes(t *testing.T) {
	_, err := Load(writeSearch(t, "zipcodes: {}\n"))
	assert.Error(t, err)
}

func TestLoadMissingSearchFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
