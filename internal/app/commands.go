package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/generator"
)

// GenerationService regenerates corpus domains and evicts cached details.
type GenerationService struct {
	store domain.CorpusStore
	cache domain.Cache
}

func NewGenerationService(s domain.CorpusStore, c domain.Cache) *GenerationService {
	return &GenerationService{store: s, cache: c}
}

// Generate rebuilds one domain from the meta tables and writes it wholesale.
func (s *GenerationService) Generate(ctx context.Context, name string, opt generator.Options) ([]generator.Output, error) {
	outs, err := generator.Run(ctx, s.store, s.store, name, opt)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, name)
	return outs, nil
}

// Relink prunes a domain's search files against its details on disk.
func (s *GenerationService) Relink(ctx context.Context, name string) (int, error) {
	n, err := generator.Relink(ctx, s.store, name)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, name)
	return n, nil
}

// invalidate is best effort; a stale detail only lives until its TTL.
func (s *GenerationService) invalidate(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	n, err := s.cache.DelPrefix(ctx, "detail:"+name+":")
	if err != nil {
		log.Warn().Err(err).Str("domain", name).Msg("detail cache invalidation failed")
		return
	}
	log.Debug().Str("domain", name).Int("keys", n).Msg("detail cache invalidated")
}
