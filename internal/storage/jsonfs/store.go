// Package jsonfs is the file-backed corpus store. Every Load re-reads the file.
package jsonfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"expedia_inspired/internal/adapters/observability"
	"expedia_inspired/internal/domain"
)

type Store struct{ root string }

func New(root string) *Store { return &Store{root: root} }

func (s *Store) Root() string { return s.root }

func (s *Store) path(dir, name string) string { return filepath.Join(s.root, dir, name) }

// Load reads ref and unwraps its records according to ref.Shape.
func (s *Store) Load(ctx context.Context, ref domain.FileRef) ([]domain.Record, error) {
	start := time.Now()
	body, err := s.LoadRaw(ctx, ref.Dir, ref.Name)
	if err != nil {
		return nil, err
	}
	recs, err := Unwrap(ref.Shape, body)
	if err != nil {
		observability.ObserveCorpusRead(ref.Dir, ref.Name, "corrupt", time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, ref.Path(), err)
	}
	observability.ObserveCorpusRead(ref.Dir, ref.Name, "ok", time.Since(start))
	return recs, nil
}

// LoadRaw returns the file bytes untouched.
func (s *Store) LoadRaw(ctx context.Context, dir, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := os.ReadFile(s.path(dir, name))
	if err != nil {
		status := "corrupt"
		if errors.Is(err, fs.ErrNotExist) {
			status = "missing"
		}
		observability.ObserveCorpusRead(dir, name, status, 0)
		return nil, fmt.Errorf("%w: %s/%s: %v", domain.ErrSourceUnavailable, dir, name, err)
	}
	return body, nil
}

// WriteAll writes every blob, overwriting prior content.
func (s *Store) WriteAll(ctx context.Context, blobs []domain.Blob) error {
	for _, b := range blobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := filepath.Join(s.root, b.Ref.Dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
		if err := os.WriteFile(s.path(b.Ref.Dir, b.Ref.Name), b.Body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", b.Ref.Path(), err)
		}
		log.Debug().Str("file", b.Ref.Path()).Int("bytes", len(b.Body)).Msg("corpus file written")
	}
	return nil
}

// Unwrap decodes body and extracts the record list for shape.
func Unwrap(shape domain.Shape, body []byte) ([]domain.Record, error) {
	switch shape.Kind {
	case domain.ShapeKeyed:
		var wrapper map[string][]domain.Record
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, err
		}
		list, ok := wrapper[shape.Key]
		if !ok {
			return nil, fmt.Errorf("missing %q key", shape.Key)
		}
		return list, nil
	case domain.ShapeSingle:
		var wrapper map[string]domain.Record
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, err
		}
		rec, ok := wrapper[shape.Key]
		if !ok {
			return nil, fmt.Errorf("missing %q key", shape.Key)
		}
		return []domain.Record{rec}, nil
	default:
		var list []domain.Record
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
}

// Encode wraps v according to shape and marshals it with two-space indent.
// For ShapeSingle, v must be the single object.
func Encode(shape domain.Shape, v any) ([]byte, error) {
	var payload any = v
	if shape.Kind == domain.ShapeKeyed || shape.Kind == domain.ShapeSingle {
		payload = map[string]any{shape.Key: v}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
