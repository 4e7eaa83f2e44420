package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expedia_inspired/internal/domain"
)

func TestExpandAll(t *testing.T) {
	runs := expand(run{Domain: "all", Days: 5})
	require.Len(t, runs, 3)
	for _, r := range runs {
		assert.Equal(t, 5, r.Days)
		assert.NotEqual(t, "all", r.Domain)
	}
	assert.Equal(t, []run{{Domain: "cars"}}, expand(run{Domain: "cars"}))
}

func TestRunOptions(t *testing.T) {
	opt, err := run{Domain: "stays", StartDate: "2025-03-01", MaxHotels: 2}.options()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), opt.StartDate)
	assert.Equal(t, 2, opt.MaxHotels)

	_, err = run{StartDate: "03/01/2025"}.options()
	assert.ErrorIs(t, err, domain.ErrGenerationInput)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`workers: 3
runs:
  - domain: cars
    days: 7
    seed: demo
    full_combinations: true
  - domain: stays
    max_hotels_per_location: 5
    start_date: "2025-06-01"
`), 0o644))

	got, err := loadProfile(p)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Workers)
	require.Len(t, got.Runs, 2)
	assert.Equal(t, run{Domain: "cars", Days: 7, Seed: "demo", FullCombinations: true}, got.Runs[0])
	assert.Equal(t, 5, got.Runs[1].MaxHotels)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("runs: []\n"), 0o644))
	_, err = loadProfile(empty)
	assert.Error(t, err)
}
