package generator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"expedia_inspired/internal/catalog"
	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/query"
	"expedia_inspired/internal/storage/jsonfs"
)

// Link keeps the search entries whose id is present in details, in order.
func Link[S, D any](search []S, details []D, searchID func(S) string, detailID func(D) string) []S {
	known := make(map[string]struct{}, len(details))
	for _, d := range details {
		known[detailID(d)] = struct{}{}
	}
	out := make([]S, 0, len(search))
	for _, s := range search {
		if _, ok := known[searchID(s)]; ok {
			out = append(out, s)
		}
	}
	return out
}

func recordID(r domain.Record) string {
	s, _ := query.IDKey(r["id"])
	return s
}

// Corpus is the on-disk side of a relink: load both projections, write back
// the pruned search files.
type Corpus interface {
	MetaSource
	Load(ctx context.Context, ref domain.FileRef) ([]domain.Record, error)
	WriteAll(ctx context.Context, blobs []domain.Blob) error
}

// Relink prunes every search file of a domain against its detail file and
// rewrites them in their original shape. It returns the number of entries dropped.
func Relink(ctx context.Context, c Corpus, name string) (int, error) {
	d, ok := catalog.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownDomain, name)
	}
	if d.Details.Shape.Kind == domain.ShapeSingle {
		return 0, fmt.Errorf("%w: %s details hold a single record", domain.ErrGenerationInput, name)
	}
	details, err := c.Load(ctx, d.Details)
	if err != nil {
		return 0, err
	}

	var outs []Output
	dropped := 0
	for _, ref := range d.SearchFiles() {
		search, err := c.Load(ctx, ref)
		if err != nil {
			return 0, err
		}
		kept := Link(search, details, recordID, recordID)
		dropped += len(search) - len(kept)
		outs = append(outs, Output{Ref: ref, Data: kept, Count: len(kept)})
	}
	blobs, err := Encode(outs)
	if err != nil {
		return 0, err
	}
	if err := c.WriteAll(ctx, blobs); err != nil {
		return 0, err
	}
	log.Info().Str("domain", name).Int("dropped", dropped).Msg("search files relinked")
	return dropped, nil
}

// Encode marshals every output before anything is written.
func Encode(outs []Output) ([]domain.Blob, error) {
	blobs := make([]domain.Blob, 0, len(outs))
	for _, o := range outs {
		body, err := jsonfs.Encode(o.Ref.Shape, o.Data)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", o.Ref.Path(), err)
		}
		blobs = append(blobs, domain.Blob{Ref: o.Ref, Body: body})
	}
	return blobs, nil
}
