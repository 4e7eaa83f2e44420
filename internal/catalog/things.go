package catalog

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"expedia_inspired/internal/domain"
)

const defaultThingImage = "https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=800&h=600&fit=crop"

var thingImages = map[string]string{
	"ttd-1": "https://images.unsplash.com/photo-1566576912321-d58ddd7a6088?w=800&h=600&fit=crop",
	"ttd-2": "https://images.unsplash.com/photo-1541961017774-22349e4a1262?w=800&h=600&fit=crop",
	"ttd-3": "https://images.unsplash.com/photo-1559339352-11d035aa65de?w=800&h=600&fit=crop",
	"ttd-4": "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop",
	"ttd-5": "https://images.unsplash.com/photo-1566576912321-d58ddd7a6088?w=800&h=600&fit=crop",
}

// ThingImage returns the display image for a things-to-do id.
func ThingImage(id string) string {
	if u, ok := thingImages[id]; ok {
		return u
	}
	return defaultThingImage
}

// WithImage returns a copy of r carrying an imageUrl field.
func WithImage(r domain.Record) domain.Record {
	out := make(domain.Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	id, _ := r["id"].(string)
	out["imageUrl"] = ThingImage(id)
	return out
}

type CategoryItem struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Rating        any      `json:"rating"`
	ReviewsCount  any      `json:"reviewsCount"`
	Duration      any      `json:"duration"`
	Price         any      `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Currency      string   `json:"currency"`
	ImageURL      string   `json:"imageUrl"`
	Tags          []string `json:"tags"`
	MemberPrice   bool     `json:"memberPrice"`
}

type CategoryGroup struct {
	Category string         `json:"category"`
	Items    []CategoryItem `json:"items"`
}

// GroupByCategory groups things-to-do in first-seen category order. An empty
// category keeps every record; a category with no records yields an empty list.
func GroupByCategory(records []domain.Record, category string) []CategoryGroup {
	fold := cases.Fold()
	want := fold.String(category)

	groups := []CategoryGroup{}
	index := map[string]int{}
	for _, r := range records {
		cat, _ := r["category"].(string)
		if category != "" && fold.String(cat) != want {
			continue
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CategoryGroup{Category: cat, Items: []CategoryItem{}})
		}
		id, _ := r["id"].(string)
		title, _ := r["name"].(string)
		groups[i].Items = append(groups[i].Items, CategoryItem{
			ID:           numericSuffix(id),
			Title:        title,
			Rating:       r["rating"],
			ReviewsCount: r["reviews_count"],
			Duration:     r["duration"],
			Price:        r["price"],
			Currency:     "USD",
			ImageURL:     ThingImage(id),
			Tags:         []string{"Free cancellation"},
		})
	}
	return groups
}

// numericSuffix turns "ttd-12" into 12; ids without a numeric suffix map to 0.
func numericSuffix(id string) int {
	if i := strings.LastIndexByte(id, '-'); i >= 0 {
		id = id[i+1:]
	}
	n, _ := strconv.Atoi(id)
	return n
}
