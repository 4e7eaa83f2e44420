package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"expedia_inspired/internal/catalog"
	"expedia_inspired/internal/domain"
)

// MetaSource reads the meta-ui tables the generators draw from.
type MetaSource interface {
	LoadRaw(ctx context.Context, dir, name string) ([]byte, error)
}

type CarLocation struct {
	ID          string  `json:"id"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	AirportCode *string `json:"airport_code"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type CarBrand struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type StayLocation struct {
	ID           string   `json:"id"`
	City         string   `json:"city"`
	Area         string   `json:"area"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Airports     []string `json:"airports"`
	PopularAreas []string `json:"popular_areas"`
	Type         []string `json:"type"`
}

type amenityTable struct {
	Categories []struct {
		Name      string   `json:"name"`
		Amenities []string `json:"amenities"`
	} `json:"categories"`
}

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// loadList decodes a non-empty meta table. Any failure is ErrGenerationInput.
func loadList[T any](ctx context.Context, src MetaSource, name string) ([]T, error) {
	body, err := src.LoadRaw(ctx, catalog.MetaDir, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrGenerationInput, name, err)
	}
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrGenerationInput, name, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrGenerationInput, name)
	}
	return out, nil
}

// loadAmenities flattens the category table into amenity names.
func loadAmenities(ctx context.Context, src MetaSource) ([]string, error) {
	const name = "stays_amenities.json"
	body, err := src.LoadRaw(ctx, catalog.MetaDir, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrGenerationInput, name, err)
	}
	var t amenityTable
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrGenerationInput, name, err)
	}
	var out []string
	for _, c := range t.Categories {
		out = append(out, c.Amenities...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s has no amenities", domain.ErrGenerationInput, name)
	}
	return out, nil
}
