package jsonfs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/storage/jsonfs"
)

func TestWriteAllThenLoadKeepsShape(t *testing.T) {
	ctx := context.Background()
	s := jsonfs.New(t.TempDir())

	keyed := domain.FileRef{Dir: "stays", Name: "stays_search.json", Shape: domain.Keyed("stays")}
	single := domain.FileRef{Dir: "cruises", Name: "cruise_details.json", Shape: domain.Single("cruise_details")}

	kb, err := jsonfs.Encode(keyed.Shape, []map[string]any{{"id": "stay-1"}, {"id": "stay-2"}})
	require.NoError(t, err)
	sb, err := jsonfs.Encode(single.Shape, map[string]any{"id": "cruise-1"})
	require.NoError(t, err)
	require.NoError(t, s.WriteAll(ctx, []domain.Blob{{Ref: keyed, Body: kb}, {Ref: single, Body: sb}}))

	raw, err := os.ReadFile(filepath.Join(s.Root(), "stays", "stays_search.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "{\n  \"stays\": [\n")

	recs, err := s.Load(ctx, keyed)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "stay-2", recs[1]["id"])

	one, err := s.Load(ctx, single)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "cruise-1", one[0]["id"])
}

func TestLoadFailuresAreSourceUnavailable(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := jsonfs.New(root)

	_, err := s.Load(ctx, domain.FileRef{Dir: "cars", Name: "cars_search.json", Shape: domain.Flat})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "cars"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cars", "bad.json"), []byte("[{"), 0o644))
	_, err = s.Load(ctx, domain.FileRef{Dir: "cars", Name: "bad.json", Shape: domain.Flat})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	require.NoError(t, os.WriteFile(filepath.Join(root, "cars", "wrapped.json"), []byte(`{"cars": []}`), 0o644))
	_, err = s.Load(ctx, domain.FileRef{Dir: "cars", Name: "wrapped.json", Shape: domain.Keyed("stays")})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestLoadEmptyListIsNotAnError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "packages", "p.json"), []byte(`[]`), 0o644))

	recs, err := jsonfs.New(root).Load(context.Background(), domain.FileRef{Dir: "packages", Name: "p.json", Shape: domain.Flat})
	require.NoError(t, err)
	assert.Empty(t, recs)
}
