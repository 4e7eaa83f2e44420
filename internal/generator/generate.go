package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"expedia_inspired/internal/adapters/observability"
	"expedia_inspired/internal/catalog"
	"expedia_inspired/internal/domain"
)

// Options are the knobs of one run. Zero values fall back to per-domain defaults.
type Options struct {
	Seed             string
	Days             int
	StartDate        time.Time
	FullCombinations bool
	// MaxPerCombo caps brands per car combination in capped mode.
	MaxPerCombo int
	// MaxHotels caps hotels per stay location.
	MaxHotels int
}

func (o Options) withDefaults(name string) Options {
	if o.Seed == "" {
		o.Seed = name
	}
	if o.Days <= 0 {
		o.Days = 30
	}
	if o.StartDate.IsZero() {
		o.StartDate = time.Now().UTC()
	}
	y, m, d := o.StartDate.Date()
	o.StartDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if o.MaxPerCombo <= 0 {
		o.MaxPerCombo = 3
	}
	if o.MaxHotels <= 0 {
		o.MaxHotels = 3
	}
	return o
}

// Output is one corpus file worth of records.
type Output struct {
	Ref   domain.FileRef
	Data  any
	Count int
}

// Domains lists what Generate can produce.
func Domains() []string { return []string{catalog.Cars, catalog.Flights, catalog.Stays} }

// Generate builds every file of a domain in memory.
func Generate(ctx context.Context, src MetaSource, name string, opt Options) ([]Output, error) {
	opt = opt.withDefaults(name)
	var (
		outs []Output
		err  error
	)
	switch name {
	case catalog.Cars:
		outs, err = generateCars(ctx, src, opt)
	case catalog.Stays:
		outs, err = generateStays(ctx, src, opt)
	case catalog.Flights:
		outs, err = generateFlights(ctx, src, opt)
	default:
		return nil, fmt.Errorf("%w: no generator for %s", domain.ErrUnknownDomain, name)
	}
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// Sink receives the encoded corpus files.
type Sink interface {
	WriteAll(ctx context.Context, blobs []domain.Blob) error
}

// Run generates a domain and writes it. Nothing is written unless every file
// was produced and encoded.
func Run(ctx context.Context, src MetaSource, dst Sink, name string, opt Options) ([]Output, error) {
	start := time.Now()
	outs, err := Generate(ctx, src, name, opt)
	if err != nil {
		return nil, err
	}
	blobs, err := Encode(outs)
	if err != nil {
		return nil, err
	}
	if err := dst.WriteAll(ctx, blobs); err != nil {
		return nil, err
	}
	for _, o := range outs {
		observability.ObserveGenerated(o.Ref.Dir, o.Ref.Name, o.Count)
		log.Info().Str("domain", name).Str("file", o.Ref.Path()).Int("records", o.Count).Msg("generated")
	}
	log.Info().Str("domain", name).Dur("took", time.Since(start)).Msg("generation finished")
	return outs, nil
}

func mustDomain(name string) catalog.Domain {
	d, ok := catalog.Lookup(name)
	if !ok {
		panic("generator: domain not registered: " + name)
	}
	return d
}
