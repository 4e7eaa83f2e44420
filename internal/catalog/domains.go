package catalog

import (
	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/query"
)

const (
	Cars       = "cars"
	Stays      = "stays"
	Flights    = "flights"
	Cruises    = "cruises"
	Packages   = "packages"
	ThingsToDo = "things-to-do"
	Activities = "activities"
)

// MetaDir holds the dropdown tables, which double as generator inputs.
const MetaDir = "meta-ui"

var popularity = map[string]query.SortKey{
	"rating":     {Path: "rating", Desc: true},
	"popularity": {Path: "popularity", Desc: true},
}

var reviewPopularity = map[string]query.SortKey{
	"rating":     {Path: "rating", Desc: true},
	"popularity": {Path: "reviews_count", Desc: true},
}

func init() {
	register(Domain{
		Name:     Cars,
		Search:   file("cars", "cars_search.json", domain.Flat),
		Details:  file("cars", "car_details.json", domain.Flat),
		IDPolicy: query.IDNormalized,
		Spec: query.Spec{
			Filters: []query.Filter{
				query.F("pickup_location", query.OpLocation, query.KindString, "pickup.city", "pickup.airport_code"),
				query.F("dropoff_location", query.OpLocation, query.KindString, "dropoff.city", "dropoff.airport_code"),
				query.F("car_type", query.OpIn, query.KindStrings, "car_type"),
				query.F("company", query.OpIn, query.KindStrings, "company"),
				query.F("price_min", query.OpMin, query.KindNumber, "price.total"),
				query.F("price_max", query.OpMax, query.KindNumber, "price.total"),
				query.F("seats_min", query.OpMin, query.KindNumber, "capacity.seats"),
				query.F("transmission", query.OpEq, query.KindString, "transmission"),
				query.F("fuel_policy", query.OpEq, query.KindString, "fuel_policy"),
				query.F("free_cancellation", query.OpBool, query.KindBool, "free_cancellation"),
				query.F("airport_hotel_transfer", query.OpBool, query.KindBool, "airport_hotel_transfer"),
			},
			Sorts: query.With(query.PriceSorts("price.total"), popularity),
		},
	})

	register(Domain{
		Name:     Stays,
		Search:   file("stays", "stays_search.json", domain.Keyed("stays")),
		Details:  file("stays", "stays_details.json", domain.Keyed("stays")),
		IDPolicy: query.IDStrict,
		Spec: query.Spec{
			Filters: []query.Filter{
				query.F("location", query.OpContains, query.KindString, "location"),
				query.F("price_min", query.OpMin, query.KindNumber, "price"),
				query.F("price_max", query.OpMax, query.KindNumber, "price"),
				query.F("rating", query.OpMin, query.KindNumber, "rating"),
				query.F("stars", query.OpNumEq, query.KindNumber, "stars"),
				query.F("amenities", query.OpAll, query.KindStrings, "amenities"),
			},
			Sorts: query.With(query.PriceSorts("price"), reviewPopularity),
		},
		Relations: map[string]Relation{
			"reviews":      {File: file("stays", "stays_reviews.json", domain.Flat), ForeignKey: "stay_id"},
			"nearby":       {File: file("stays", "stays_nearby.json", domain.Flat), ForeignKey: "stay_id"},
			"availability": {File: file("stays", "stays_availability.json", domain.Flat), ForeignKey: "stay_id"},
		},
	})

	register(Domain{
		Name:   Flights,
		Search: file("flights", "one_way.json", domain.Flat),
		Variants: map[string]domain.FileRef{
			"one_way":    file("flights", "one_way.json", domain.Flat),
			"round_trip": file("flights", "round_trip.json", domain.Flat),
			"multi_city": file("flights", "multi_city.json", domain.Flat),
		},
		VariantParam: "trip_type",
		Details:      file("flights", "flight_details.json", domain.Keyed("flights")),
		IDPolicy:     query.IDStrict,
		Spec: query.Spec{
			Filters: []query.Filter{
				query.F("origin", query.OpLocation, query.KindString, "legs.0.segments.0.from.city", "legs.0.segments.0.from.code"),
				query.F("destination", query.OpLocation, query.KindString, "legs.0.segments.0.to.city", "legs.0.segments.0.to.code"),
				query.F("airline", query.OpIn, query.KindStrings, "airline.code"),
				query.F("stops_max", query.OpMax, query.KindNumber, "stops"),
				query.F("seat_class", query.OpHas, query.KindString, "seat_classes"),
				query.F("price_min", query.OpMin, query.KindNumber, "price.total"),
				query.F("price_max", query.OpMax, query.KindNumber, "price.total"),
				query.F("depart_date", query.OpPrefix, query.KindString, "legs.0.segments.0.depart_utc"),
			},
			Sorts: query.With(query.PriceSorts("price.total"), map[string]query.SortKey{
				"duration": {Path: "duration_total_minutes"},
			}),
		},
		Relations: map[string]Relation{
			"status": {File: file("flights", "flight_status.json", domain.Flat), ForeignKey: "flight_number"},
		},
	})

	register(Domain{
		Name:     Cruises,
		Search:   file("cruises", "cruises_search.json", domain.Keyed("cruises")),
		Details:  file("cruises", "cruise_details.json", domain.Single("cruise_details")),
		IDPolicy: query.IDStrict,
		Spec: query.Spec{
			Filters: []query.Filter{
				query.F("departure_date", query.OpAtLeast, query.KindString, "departure_date").MustHave(),
				query.F("cruise_line", query.OpEq, query.KindString, "cruise_line"),
				query.F("nights", query.OpNumEq, query.KindNumber, "nights"),
				query.F("destination", query.OpContains, query.KindString, "destination"),
				query.F("departure_port", query.OpContains, query.KindString, "departure_port"),
				query.F("price_min", query.OpMin, query.KindNumber, "price"),
				query.F("price_max", query.OpMax, query.KindNumber, "price"),
			},
			Sorts: query.With(query.PriceSorts("price"), map[string]query.SortKey{
				"rating":   {Path: "rating", Desc: true},
				"duration": {Path: "nights"},
			}),
		},
	})

	register(Domain{
		Name:     Packages,
		Search:   file("packages", "packages_search.json", domain.Flat),
		Details:  file("packages", "package_details.json", domain.Flat),
		IDPolicy: query.IDInteger,
		Spec: query.Spec{
			Filters: []query.Filter{
				query.F("destination", query.OpContains, query.KindString, "destination"),
				query.F("package_type", query.OpIn, query.KindStrings, "package_type"),
				query.F("price_min", query.OpMin, query.KindNumber, "price.amount"),
				query.F("price_max", query.OpMax, query.KindNumber, "price.amount"),
				query.F("rating_min", query.OpMin, query.KindNumber, "rating"),
			},
			Sorts: query.With(query.PriceSorts("price.amount"), popularity),
		},
	})

	register(Domain{
		Name:     ThingsToDo,
		Search:   file("things_to_do", "things_to_do_search.json", domain.Keyed("things_to_do")),
		Details:  file("things_to_do", "thing_details.json", domain.Keyed("activities")),
		IDPolicy: query.IDStrict,
		Spec: query.Spec{
			Filters: []query.Filter{
				query.F("location", query.OpContains, query.KindString, "location").MustHave(),
				query.F("date", query.OpHas, query.KindString, "available_dates").MustHave(),
				query.F("category", query.OpEq, query.KindString, "category"),
				query.F("duration", query.OpEq, query.KindString, "duration"),
				query.F("min_rating", query.OpMin, query.KindNumber, "rating"),
				query.F("price_min", query.OpMin, query.KindNumber, "price"),
				query.F("price_max", query.OpMax, query.KindNumber, "price"),
			},
			Sorts: query.With(query.PriceSorts("price"), reviewPopularity),
		},
	})

	register(Domain{
		Name:     Activities,
		Search:   file("activities", "activities_search.json", domain.Flat),
		Details:  file("activities", "activity_details.json", domain.Flat),
		IDPolicy: query.IDStrict,
		Spec: query.Spec{
			Filters: []query.Filter{
				query.F("location", query.OpContains, query.KindString, "location"),
				query.F("category", query.OpEq, query.KindString, "category"),
				query.F("duration", query.OpEq, query.KindString, "duration"),
				query.F("rating_min", query.OpMin, query.KindNumber, "rating"),
				query.F("price_min", query.OpMin, query.KindNumber, "price"),
				query.F("price_max", query.OpMax, query.KindNumber, "price"),
			},
			Sorts: query.With(query.PriceSorts("price"), reviewPopularity),
		},
	})
}
