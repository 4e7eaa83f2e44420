package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v3"

	"expedia_inspired/internal/adapters/observability"
	redisad "expedia_inspired/internal/adapters/redis"
	"expedia_inspired/internal/app"
	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/generator"
	"expedia_inspired/internal/shared"
	"expedia_inspired/internal/storage/jsonfs"
)

// run is one generation job, either from flags or from a profile file.
type run struct {
	Domain           string `yaml:"domain"`
	Seed             string `yaml:"seed"`
	Days             int    `yaml:"days"`
	StartDate        string `yaml:"start_date"`
	FullCombinations bool   `yaml:"full_combinations"`
	MaxPerCombo      int    `yaml:"max_per_combo"`
	MaxHotels        int    `yaml:"max_hotels_per_location"`
	Relink           bool   `yaml:"relink"`
}

type profile struct {
	Workers int   `yaml:"workers"`
	Runs    []run `yaml:"runs"`
}

func (r run) options() (generator.Options, error) {
	opt := generator.Options{
		Seed:             r.Seed,
		Days:             r.Days,
		FullCombinations: r.FullCombinations,
		MaxPerCombo:      r.MaxPerCombo,
		MaxHotels:        r.MaxHotels,
	}
	if r.StartDate != "" {
		d, err := time.Parse(time.DateOnly, r.StartDate)
		if err != nil {
			return opt, fmt.Errorf("%w: start date %q: %v", domain.ErrGenerationInput, r.StartDate, err)
		}
		opt.StartDate = d
	}
	return opt, nil
}

func loadProfile(path string) (profile, error) {
	var p profile
	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("profile %s: %w", path, err)
	}
	if len(p.Runs) == 0 {
		return p, fmt.Errorf("profile %s has no runs", path)
	}
	return p, nil
}

func main() {
	var (
		r           run
		profilePath string
		workers     int
	)
	flag.StringVar(&r.Domain, "domain", "all", "domain to generate: cars, stays, flights or all")
	flag.IntVar(&r.Days, "days", 30, "number of days of inventory")
	flag.StringVar(&r.StartDate, "start-date", "", "first inventory day (YYYY-MM-DD), defaults to today")
	flag.StringVar(&r.Seed, "seed", "", "random seed, defaults to the domain name")
	flag.BoolVar(&r.FullCombinations, "full-combinations", false, "cars: every brand for every location/type/date")
	flag.IntVar(&r.MaxPerCombo, "max-per-combo", 3, "cars: brands per combination in capped mode")
	flag.IntVar(&r.MaxHotels, "max-hotels-per-location", 3, "stays: hotels per location")
	flag.BoolVar(&r.Relink, "relink", false, "only prune search files against existing details")
	flag.StringVar(&profilePath, "profile", "", "YAML file with a list of runs, overrides the other flags")
	flag.IntVar(&workers, "workers", 2, "domains generated concurrently")
	flag.Parse()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv)

	runs := expand(r)
	if profilePath != "" {
		p, err := loadProfile(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("profile load failed")
		}
		runs = nil
		for _, pr := range p.Runs {
			runs = append(runs, expand(pr)...)
		}
		if p.Workers > 0 {
			workers = p.Workers
		}
	}
	if workers < 1 {
		workers = 1
	}

	ctx := context.Background()

	var cache domain.Cache
	if cfg.CacheEnabled() {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, cached details will expire on their own")
		} else {
			defer rc.Close()
			cache = rc
		}
	}
	svc := app.NewGenerationService(jsonfs.New(cfg.DataDir), cache)

	log.Info().Str("data", cfg.DataDir).Int("runs", len(runs)).Int("workers", workers).Msg("generator starting")

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, job := range runs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(job run) {
			defer wg.Done()
			defer sem.Release(1)
			if err := execute(ctx, svc, job); err != nil {
				log.Error().Err(err).Str("domain", job.Domain).Msg("generation failed")
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(job)
	}
	wg.Wait()

	if failed > 0 {
		log.Error().Int("failed", failed).Msg("generator finished with errors")
		os.Exit(1)
	}
	log.Info().Msg("generator finished")
}

// expand turns "all" into one run per generated domain.
func expand(r run) []run {
	if !strings.EqualFold(r.Domain, "all") && r.Domain != "" {
		return []run{r}
	}
	var out []run
	for _, name := range generator.Domains() {
		c := r
		c.Domain = name
		out = append(out, c)
	}
	return out
}

func execute(ctx context.Context, svc *app.GenerationService, job run) error {
	if job.Relink {
		n, err := svc.Relink(ctx, job.Domain)
		if err != nil {
			return err
		}
		log.Info().Str("domain", job.Domain).Int("dropped", n).Msg("relinked")
		return nil
	}
	opt, err := job.options()
	if err != nil {
		return err
	}
	outs, err := svc.Generate(ctx, job.Domain, opt)
	if err != nil {
		return err
	}
	total := 0
	for _, o := range outs {
		total += o.Count
	}
	log.Info().Str("domain", job.Domain).Int("files", len(outs)).Int("records", total).Msg("domain written")
	return nil
}
