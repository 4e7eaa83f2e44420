package app

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"expedia_inspired/internal/catalog"
	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/query"
)

// QueryService is the read path over the corpus. The corpus file is loaded on
// every call; only detail lookups may be cached, and only when a TTL is set.
type QueryService struct {
	store    domain.CorpusStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(s domain.CorpusStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: s, cache: c, cacheTTL: ttl}
}

func lookup(name string) (catalog.Domain, error) {
	d, ok := catalog.Lookup(name)
	if !ok {
		return catalog.Domain{}, fmt.Errorf("%w: %s", domain.ErrUnknownDomain, name)
	}
	return d, nil
}

// Search filters and sorts one domain's search file. Parameters that are not
// filters of the domain are ignored; sort_by picks the order.
func (s *QueryService) Search(ctx context.Context, name string, params url.Values) (domain.Result, error) {
	d, err := lookup(name)
	if err != nil {
		return domain.Result{}, err
	}
	variant := ""
	if d.VariantParam != "" {
		variant = params.Get(d.VariantParam)
	}
	ref, ok := d.SearchFile(variant)
	if !ok {
		return domain.Result{}, fmt.Errorf("%w: unknown %s %q", domain.ErrMalformedCriteria, d.VariantParam, variant)
	}
	crit, err := query.ParseCriteria(d.Spec, params)
	if err != nil {
		return domain.Result{}, err
	}
	recs, err := s.store.Load(ctx, ref)
	if err != nil {
		return domain.Result{}, err
	}
	res := query.Search(recs, d.Spec, crit, params.Get("sort_by"))
	if name == catalog.ThingsToDo {
		for i, r := range res.Items {
			res.Items[i] = catalog.WithImage(r)
		}
	}
	return res, nil
}

func (s *QueryService) cacheOn() bool { return s.cache != nil && s.cacheTTL > 0 }

// Details resolves a single detail record. query.FindByID treats a miss as an
// empty result; Details turns it into ErrNotFound so handlers can answer 404.
func (s *QueryService) Details(ctx context.Context, name, id string) (domain.Record, error) {
	d, err := lookup(name)
	if err != nil {
		return nil, err
	}
	if err := d.IDPolicy.Check(id); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("detail:%s:%s", name, id)
	if s.cacheOn() {
		var hit domain.Record
		if ok, _ := s.cache.Get(ctx, key, &hit); ok {
			return hit, nil
		}
	}

	recs, err := s.store.Load(ctx, d.Details)
	if err != nil {
		return nil, err
	}
	rec, ok := query.FindByID(recs, d.IDPolicy, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, name, id)
	}
	if name == catalog.ThingsToDo {
		rec = catalog.WithImage(rec)
	}
	if s.cacheOn() {
		_ = s.cache.Set(ctx, key, rec, int(s.cacheTTL.Seconds()))
	}
	return rec, nil
}

// Related lists the records of a domain relation whose foreign key equals id.
func (s *QueryService) Related(ctx context.Context, name, relation, id string) ([]domain.Record, error) {
	d, err := lookup(name)
	if err != nil {
		return nil, err
	}
	rel, ok := d.Relations[relation]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s", domain.ErrUnknownDomain, name, relation)
	}
	recs, err := s.store.Load(ctx, rel.File)
	if err != nil {
		return nil, err
	}
	return query.Related(recs, rel.ForeignKey, id), nil
}

// FlightStatus returns the first status entry for a flight number.
func (s *QueryService) FlightStatus(ctx context.Context, flightNumber string) (domain.Record, error) {
	rows, err := s.Related(ctx, catalog.Flights, "status", flightNumber)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: flight %s", domain.ErrNotFound, flightNumber)
	}
	return rows[0], nil
}

// ThingsByCategory groups the things-to-do search file by category.
func (s *QueryService) ThingsByCategory(ctx context.Context, category string) ([]catalog.CategoryGroup, error) {
	d, err := lookup(catalog.ThingsToDo)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.Load(ctx, d.Search)
	if err != nil {
		return nil, err
	}
	return catalog.GroupByCategory(recs, category), nil
}

// metaFiles maps the dropdown routes to their meta-ui tables.
var metaFiles = map[string]string{
	"stays/locations": "stays_locations.json",
	"stays/amenities": "stays_amenities.json",
	"stays/stars":     "stays_stars.json",
	"airports":        "airports.json",
	"airlines":        "airlines.json",
	"cars/locations":  "car_locations.json",
	"cars/brands":     "car_brands.json",
	"currencies":      "currencies.json",
	"languages":       "languages.json",
}

// MetaNames lists the served meta tables.
func MetaNames() []string {
	out := make([]string, 0, len(metaFiles))
	for k := range metaFiles {
		out = append(out, k)
	}
	return out
}

// Meta returns a meta-ui table verbatim.
func (s *QueryService) Meta(ctx context.Context, name string) ([]byte, error) {
	file, ok := metaFiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: meta table %s", domain.ErrNotFound, name)
	}
	return s.store.LoadRaw(ctx, catalog.MetaDir, file)
}
