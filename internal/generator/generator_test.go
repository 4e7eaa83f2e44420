package generator_test

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expedia_inspired/internal/catalog"
	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/generator"
	"expedia_inspired/internal/storage/jsonfs"
)

type metaMap map[string]string

func (m metaMap) LoadRaw(_ context.Context, dir, name string) ([]byte, error) {
	if dir != catalog.MetaDir {
		return nil, fs.ErrNotExist
	}
	b, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return []byte(b), nil
}

var meta = metaMap{
	"car_locations.json": `[
		{"id": "lax", "city": "Los Angeles", "country": "USA", "airport_code": "LAX", "lat": 33.94, "lng": -118.40},
		{"id": "mia", "city": "Miami", "country": "USA", "airport_code": "MIA", "lat": 25.79, "lng": -80.29}
	]`,
	"car_brands.json": `[
		{"name": "Toyota", "logo": "t.png"}, {"name": "BMW", "logo": "b.png"},
		{"name": "Ford", "logo": "f.png"}, {"name": "Audi", "logo": "a.png"}
	]`,
	"stays_locations.json": `[
		{"id": "nyc", "city": "New York", "area": "Manhattan", "state": "NY", "country": "USA", "lat": 40.7, "lng": -74.0,
		 "airports": ["JFK"], "popular_areas": ["Times Square", "SoHo", "Chelsea"], "type": ["City"]},
		{"id": "mib", "city": "Miami Beach", "area": "South Beach", "state": "FL", "country": "USA", "lat": 25.8, "lng": -80.1,
		 "airports": ["MIA"], "popular_areas": ["Ocean Drive"], "type": ["Beach"]}
	]`,
	"stays_amenities.json": `{"categories": [
		{"name": "General", "amenities": ["Free WiFi", "Laundry", "Elevator", "Non-smoking rooms"]},
		{"name": "Wellness", "amenities": ["Spa", "Sauna", "Yoga classes"]}
	]}`,
	"airlines.json": `[{"code": "AA", "name": "American Airlines", "logo": "aa.png"}, {"code": "JL", "name": "Japan Airlines", "logo": "jl.png"}]`,
	"airports.json": `[
		{"code": "JFK", "name": "John F. Kennedy International", "city": "New York", "country": "USA"},
		{"code": "LAX", "name": "Los Angeles International", "city": "Los Angeles", "country": "USA"},
		{"code": "NRT", "name": "Narita International Airport", "city": "Tokyo", "country": "Japan"}
	]`,
}

var start = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func without(name string) metaMap {
	out := metaMap{}
	for k, v := range meta {
		if k != name {
			out[k] = v
		}
	}
	return out
}

func ids(t *testing.T, s *jsonfs.Store, ref domain.FileRef) []string {
	t.Helper()
	recs, err := s.Load(context.Background(), ref)
	require.NoError(t, err)
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, fmt.Sprint(r["id"]))
	}
	return out
}

func TestSeededIsPure(t *testing.T) {
	a, b := generator.Seeded("cars:0:lax:lax:suv:manual"), generator.Seeded("cars:0:lax:lax:suv:manual")
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, generator.Seeded("x").Uint64(), generator.Seeded("y").Uint64())
}

func TestSampleDistinctAndBounded(t *testing.T) {
	xs := []int{1, 2, 3, 4, 5}
	got := generator.Sample(generator.Seeded("s"), xs, 3)
	require.Len(t, got, 3)
	seen := map[int]bool{}
	for _, v := range got {
		assert.False(t, seen[v])
		seen[v] = true
	}
	assert.Len(t, generator.Sample(generator.Seeded("s"), xs, 9), 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, xs)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 40.8, generator.Round(48*0.85, 1))
	assert.Equal(t, 12.35, generator.Round(12.345, 2))
}

func TestCarsCappedOneDay(t *testing.T) {
	ctx := context.Background()
	s := jsonfs.New(t.TempDir())
	outs, err := generator.Run(ctx, meta, s, catalog.Cars, generator.Options{
		Seed: "cars", Days: 1, MaxPerCombo: 3, StartDate: start,
	})
	require.NoError(t, err)
	require.Len(t, outs, 2)

	d, _ := catalog.Lookup(catalog.Cars)
	search, details := ids(t, s, d.Search), ids(t, s, d.Details)
	// 2 same-city pairs x 12 types x 2 transmissions x 4 flag pairs x 2 fuel policies x 3 brands
	assert.Len(t, search, 2*12*2*4*2*3)
	assert.Equal(t, len(search), len(details))
	assert.Subset(t, details, search)
	assert.Equal(t, "10001", search[0])

	recs, err := s.Load(ctx, d.Search)
	require.NoError(t, err)
	first := recs[0]
	price := first["price"].(map[string]any)
	member := first["member_price"].(map[string]any)
	assert.Equal(t, generator.Round(price["total"].(float64)*0.85, 1), member["total"])
	pickup := first["pickup"].(map[string]any)
	assert.Equal(t, "2025-03-01T10:00", pickup["datetime"])
	assert.Equal(t, pickup["city"], first["dropoff"].(map[string]any)["city"])
}

func TestCarsFullCombinationsCrossesCities(t *testing.T) {
	outs, err := generator.Generate(context.Background(), meta, catalog.Cars, generator.Options{
		Days: 1, FullCombinations: true, StartDate: start,
	})
	require.NoError(t, err)
	search := outs[0].Data.([]generator.CarSearch)
	// 4 location pairs x 12 x 2 x 4 x 2 x 4 brands
	assert.Len(t, search, 4*12*2*4*2*4)

	crossed := false
	for _, c := range search {
		if c.Pickup.City != c.Dropoff.City {
			crossed = true
			break
		}
	}
	assert.True(t, crossed)
}

func TestGenerationIsByteIdentical(t *testing.T) {
	ctx := context.Background()
	for _, name := range generator.Domains() {
		t.Run(name, func(t *testing.T) {
			a, b := t.TempDir(), t.TempDir()
			opt := generator.Options{Days: 2, StartDate: start}
			_, err := generator.Run(ctx, meta, jsonfs.New(a), name, opt)
			require.NoError(t, err)
			_, err = generator.Run(ctx, meta, jsonfs.New(b), name, opt)
			require.NoError(t, err)

			d, _ := catalog.Lookup(name)
			refs := append(d.SearchFiles(), d.Details)
			for _, ref := range refs {
				x, err := os.ReadFile(filepath.Join(a, ref.Dir, ref.Name))
				require.NoError(t, err)
				y, err := os.ReadFile(filepath.Join(b, ref.Dir, ref.Name))
				require.NoError(t, err)
				assert.Equal(t, x, y, ref.Path())
			}
		})
	}
}

func TestSeedChangesOutput(t *testing.T) {
	ctx := context.Background()
	a, err := generator.Generate(ctx, meta, catalog.Stays, generator.Options{Seed: "one", StartDate: start, Days: 1})
	require.NoError(t, err)
	b, err := generator.Generate(ctx, meta, catalog.Stays, generator.Options{Seed: "two", StartDate: start, Days: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a[0].Data, b[0].Data)
}

func TestMissingMetaWritesNothing(t *testing.T) {
	cases := map[string]string{
		catalog.Cars:    "car_brands.json",
		catalog.Stays:   "stays_amenities.json",
		catalog.Flights: "airports.json",
	}
	for name, missing := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			_, err := generator.Run(context.Background(), without(missing), jsonfs.New(root), name, generator.Options{Days: 1, StartDate: start})
			require.ErrorIs(t, err, domain.ErrGenerationInput)

			entries, err := os.ReadDir(root)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestMalformedMetaIsGenerationInput(t *testing.T) {
	bad := without("car_locations.json")
	bad["car_locations.json"] = `{"not": "a list"}`
	_, err := generator.Generate(context.Background(), bad, catalog.Cars, generator.Options{})
	assert.ErrorIs(t, err, domain.ErrGenerationInput)
}

func TestStaysRelationsPointAtStays(t *testing.T) {
	outs, err := generator.Generate(context.Background(), meta, catalog.Stays, generator.Options{
		Days: 3, MaxHotels: 2, StartDate: start,
	})
	require.NoError(t, err)
	require.Len(t, outs, 5)

	search := outs[0].Data.([]generator.StaySearch)
	details := outs[1].Data.([]generator.StayDetails)
	require.Len(t, search, 4)
	require.Len(t, details, 4)
	assert.Equal(t, "stay-10000", search[0].ID)

	known := map[string]generator.StaySearch{}
	for _, s := range search {
		known[s.ID] = s
		assert.Equal(t, generator.Round(s.Price*0.9, 2), s.MemberPrice)
		assert.Contains(t, s.Amenities, "Free WiFi")
	}

	reviews := outs[2].Data.([]generator.Review)
	perStay := map[string]int{}
	for _, r := range reviews {
		require.Contains(t, known, r.StayID)
		perStay[r.StayID]++
	}
	for id, s := range known {
		assert.Equal(t, min(10, s.ReviewsCount/100), perStay[id], id)
	}
	for _, n := range outs[3].Data.([]generator.Nearby) {
		assert.Contains(t, known, n.StayID)
	}
	avail := outs[4].Data.([]generator.Availability)
	assert.Len(t, avail, 4*3)
	assert.Equal(t, "2025-03-01", avail[0].CheckIn)
}

func TestFlightsSearchIDsResolve(t *testing.T) {
	ctx := context.Background()
	s := jsonfs.New(t.TempDir())
	_, err := generator.Run(ctx, meta, s, catalog.Flights, generator.Options{Days: 1, StartDate: start})
	require.NoError(t, err)

	d, _ := catalog.Lookup(catalog.Flights)
	details := ids(t, s, d.Details)
	total := 0
	for _, ref := range d.SearchFiles() {
		search := ids(t, s, ref)
		assert.NotEmpty(t, search, ref.Name)
		assert.Subset(t, details, search, ref.Name)
		total += len(search)
	}
	assert.Len(t, details, total)

	oneWay := ids(t, s, d.Variants["one_way"])
	// capped: one cabin per airline and ordered airport pair
	assert.Len(t, oneWay, 2*3*2)

	status, err := s.Load(ctx, d.Relations["status"].File)
	require.NoError(t, err)
	assert.NotEmpty(t, status)
}

func TestLinkDropsOrphans(t *testing.T) {
	search := []string{"a", "b", "c", "d"}
	details := []int{3, 1}
	id := func(s string) string { return s }
	key := func(n int) string { return string(rune('a' + n - 1)) }
	assert.Equal(t, []string{"a", "c"}, generator.Link(search, details, id, key))
	assert.Empty(t, generator.Link(search, nil, id, key))
}

func TestRelinkPrunesOnDiskSearch(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := jsonfs.New(root)
	d, _ := catalog.Lookup(catalog.Stays)

	search, err := jsonfs.Encode(d.Search.Shape, []map[string]any{{"id": "stay-1"}, {"id": "stay-2"}, {"id": "stay-3"}})
	require.NoError(t, err)
	details, err := jsonfs.Encode(d.Details.Shape, []map[string]any{{"id": "stay-3"}, {"id": "stay-1"}})
	require.NoError(t, err)
	require.NoError(t, s.WriteAll(ctx, []domain.Blob{{Ref: d.Search, Body: search}, {Ref: d.Details, Body: details}}))

	dropped, err := generator.Relink(ctx, s, catalog.Stays)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"stay-1", "stay-3"}, ids(t, s, d.Search))

	_, err = generator.Relink(ctx, s, "spaceships")
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)
}

func TestUnknownDomain(t *testing.T) {
	_, err := generator.Generate(context.Background(), meta, catalog.Cruises, generator.Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)
}
