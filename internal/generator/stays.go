package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"expedia_inspired/internal/catalog"
)

var (
	starRatings    = []int{3, 4, 5}
	stayCurrencies = []string{"USD", "EUR", "GBP", "JPY", "AED", "SGD"}
	hotelChains    = []string{
		"Marriott", "Hilton", "Hyatt", "InterContinental", "Four Seasons", "Ritz-Carlton",
		"W Hotels", "Sheraton", "Westin", "Renaissance", "Courtyard", "Residence Inn",
	}
)

var (
	starPriceRange = map[int][2]float64{3: {80, 150}, 4: {150, 350}, 5: {300, 1200}}
	cityMultiplier = map[string]float64{
		"New York": 1.8, "Miami Beach": 1.5, "San Francisco": 1.6, "Paris": 1.4,
		"Dubai": 1.3, "Tokyo": 1.7, "Las Vegas": 1.2, "Singapore": 1.5,
	}
	// units of currency per USD
	currencyRate = map[string]float64{"USD": 1.0, "EUR": 0.85, "GBP": 0.75, "JPY": 110.0, "AED": 3.67, "SGD": 1.35}
)

var (
	starAmenities = map[int][]string{
		3: {"24-hour front desk", "Parking", "Flat-screen TV"},
		4: {"Pool", "Gym", "Restaurant", "Bar", "Concierge service"},
		5: {"Spa", "Infinity Pool", "Michelin Restaurant", "Butler Service", "Private Beach"},
	}
	placeAmenities = map[string][]string{
		"Beach":    {"Beachfront", "Water Sports", "Private Beach"},
		"Mountain": {"Ski-in/Ski-out", "Mountain View"},
		"City":     {"City Views", "Business Center", "Shopping"},
	}
)

func stayPhoto(id string) string {
	return "https://images.unsplash.com/photo-" + id + "?w=800&h=600&fit=crop"
}

func stayPhotos(ids ...string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = stayPhoto(id)
	}
	return out
}

var (
	starPhotos = map[int][]string{
		3: stayPhotos("1566073771259-6a8506099945", "1445019980597-93fa8acb246c", "1618773928121-c32242e63f39"),
		4: stayPhotos("1602002418816-5c0aeef426aa", "1519823551278-64ac92734fb1", "1506748686214-e9df14d4d9d0", "1542314831-068cd1dbfeeb"),
		5: stayPhotos("1573843981267-be1999ff37cd", "1549294413-26f195f4d04d", "1566073771259-6a8506099945", "1445019980597-93fa8acb246c", "1618773928121-c32242e63f39"),
	}
	placePhotos = map[string][]string{
		"Beach":    stayPhotos("1602002418816-5c0aeef426aa", "1519823551278-64ac92734fb1"),
		"City":     stayPhotos("1542314831-068cd1dbfeeb", "1566073771259-6a8506099945"),
		"Mountain": stayPhotos("1445019980597-93fa8acb246c", "1618773928121-c32242e63f39"),
	}
	roomPhotos = stayPhotos("1591088398332-8a7791972843", "1522708323590-d24dbb6b0267", "1586023492125-27b2c045efd7", "1560448204-e02f11c3d0e2", "1571896349842-33c89424de2d")
)

var (
	roomTypes = map[int][]string{
		3: {"Standard Room", "Deluxe Room", "Suite"},
		4: {"Standard Room", "Deluxe Room", "Executive Suite", "Family Room"},
		5: {"Deluxe Room", "Executive Suite", "Presidential Suite", "Villa", "Penthouse"},
	}
	roomMultiplier = map[string]float64{
		"Standard Room": 1.0, "Deluxe Room": 1.3, "Executive Suite": 1.8, "Family Room": 1.5,
		"Presidential Suite": 3.0, "Villa": 2.5, "Penthouse": 4.0,
	}
	bedConfigs = map[string][]string{
		"Standard Room":      {"1 Queen Bed", "1 King Bed", "2 Twin Beds"},
		"Deluxe Room":        {"1 King Bed", "2 Queen Beds"},
		"Executive Suite":    {"1 King Bed", "1 King Bed + Sofa Bed"},
		"Family Room":        {"2 Queen Beds", "1 King Bed + 2 Twin Beds"},
		"Presidential Suite": {"1 King Bed", "1 King Bed + Separate Bedroom"},
		"Villa":              {"1 King Bed + 2 Twin Beds", "2 King Beds"},
		"Penthouse":          {"1 King Bed + Separate Bedroom", "2 King Beds + Study"},
	}
)

var (
	cancellationPolicies = []string{
		"Free cancellation until 3 days before check-in",
		"Free cancellation until 7 days before check-in",
		"Free cancellation until 14 days before check-in",
		"Non-refundable rate",
	}
	nearbyTypes = []string{"Restaurant", "Shopping", "Attraction", "Transport", "Entertainment"}
)

const stayMemberDiscount = 0.9

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type StaySearch struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Location           string      `json:"location"`
	Price              float64     `json:"price"`
	Currency           string      `json:"currency"`
	MemberPrice        float64     `json:"member_price"`
	Rating             float64     `json:"rating"`
	ReviewsCount       int         `json:"reviews_count"`
	IsCancellable      bool        `json:"is_cancellable"`
	CancellationPolicy string      `json:"cancellation_policy"`
	Stars              int         `json:"stars"`
	Amenities          []string    `json:"amenities"`
	Thumbnail          string      `json:"thumbnail"`
	Coordinates        Coordinates `json:"coordinates"`
	Description        string      `json:"description"`
	Photos             []string    `json:"photos"`
}

type Room struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	PricePerNight float64  `json:"price_per_night"`
	Currency      string   `json:"currency"`
	MaxOccupancy  int      `json:"max_occupancy"`
	BedType       string   `json:"bed_type"`
	Amenities     []string `json:"amenities"`
	Photos        []string `json:"photos"`
	Cancellation  string   `json:"cancellation"`
	Available     bool     `json:"available"`
}

type StayDetails struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Location           string      `json:"location"`
	Address            string      `json:"address"`
	Description        string      `json:"description"`
	Stars              int         `json:"stars"`
	Rating             float64     `json:"rating"`
	ReviewsCount       int         `json:"reviews_count"`
	Coordinates        Coordinates `json:"coordinates"`
	IsCancellable      bool        `json:"is_cancellable"`
	CancellationPolicy string      `json:"cancellation_policy"`
	Thumbnail          string      `json:"thumbnail"`
	Photos             []string    `json:"photos"`
	Rooms              []Room      `json:"rooms"`
	Price              float64     `json:"price"`
	Currency           string      `json:"currency"`
	MemberPrice        float64     `json:"member_price"`
}

type Review struct {
	ID           string `json:"id"`
	StayID       string `json:"stay_id"`
	UserName     string `json:"user_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	Date         string `json:"date"`
	HelpfulVotes int    `json:"helpful_votes"`
}

type Nearby struct {
	ID       string  `json:"id"`
	StayID   string  `json:"stay_id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Distance float64 `json:"distance"`
	Rating   float64 `json:"rating"`
}

type RoomAvailability struct {
	RoomID        string  `json:"room_id"`
	Available     bool    `json:"available"`
	PricePerNight float64 `json:"price_per_night"`
	Currency      string  `json:"currency"`
}

type Availability struct {
	ID       string             `json:"id"`
	StayID   string             `json:"stay_id"`
	CheckIn  string             `json:"check_in"`
	CheckOut string             `json:"check_out"`
	Rooms    []RoomAvailability `json:"rooms"`
}

const isoDate = "2006-01-02"

func hotelName(r *rand.Rand, loc StayLocation, stars int) string {
	if stars == 5 {
		prefixes := []string{"The", "Grand", "Royal", "Imperial", "Palace"}
		suffixes := []string{"Hotel", "Resort", "Tower", "Plaza", "Manor"}
		if r.Float64() < 0.7 {
			chain := Choice(r, hotelChains)
			return fmt.Sprintf("%s %s %s", chain, loc.City, Choice(r, suffixes))
		}
		prefix := Choice(r, prefixes)
		return fmt.Sprintf("%s %s %s", prefix, loc.City, Choice(r, suffixes))
	}
	chains := []string{"", "Best Western", "Comfort Inn", "Holiday Inn", "Quality Inn"}
	suffixes := []string{"Hotel", "Inn", "Suites", "Lodge"}
	if r.Float64() < 0.8 {
		if chain := Choice(r, chains); chain != "" {
			return chain + " " + loc.City
		}
	}
	return loc.City + " " + Choice(r, suffixes)
}

func hotelPrice(r *rand.Rand, stars int, loc StayLocation, currency string) float64 {
	band := starPriceRange[stars]
	mult, ok := cityMultiplier[loc.City]
	if !ok {
		mult = 1.0
	}
	usd := Uniform(r, band[0], band[1]) * mult
	rate, ok := currencyRate[currency]
	if !ok {
		rate = 1.0
	}
	return Round(usd/rate, 2)
}

func hotelAmenities(r *rand.Rand, stars int, loc StayLocation, pool []string) []string {
	out := []string{"Free WiFi", "Air Conditioning"}
	out = append(out, starAmenities[stars]...)
	for _, t := range loc.Type {
		out = append(out, placeAmenities[t]...)
	}
	var rest []string
	for _, a := range pool {
		if !slices.Contains(out, a) {
			rest = append(rest, a)
		}
	}
	return append(out, Sample(r, rest, IntRange(r, 2, 5))...)
}

func hotelPhotos(r *rand.Rand, stars int, loc StayLocation) []string {
	photos := slices.Clone(starPhotos[stars])
	for _, t := range loc.Type {
		photos = append(photos, placePhotos[t]...)
	}
	n := min(IntRange(r, stars+2, stars+4), len(photos))
	return Sample(r, photos, n)
}

func hotelRooms(r *rand.Rand, stars int, base float64, currency string) []Room {
	var rooms []Room
	for i, kind := range roomTypes[stars] {
		mult, ok := roomMultiplier[kind]
		if !ok {
			mult = 1.0
		}
		price := Round(base*mult*Uniform(r, 0.9, 1.1), 2)
		beds := bedConfigs[kind]
		if len(beds) == 0 {
			beds = []string{"1 King Bed"}
		}
		bed := Choice(r, beds)
		// two guests per word mentioning a bed, at most six
		words := 0
		for _, w := range strings.Fields(bed) {
			if strings.Contains(w, "Bed") {
				words++
			}
		}
		view := "Garden View"
		if strings.Contains(kind, "City") {
			view = "City View"
		}
		rooms = append(rooms, Room{
			ID:            fmt.Sprintf("room-%03d", i+1),
			Type:          kind,
			PricePerNight: price,
			Currency:      currency,
			MaxOccupancy:  min(6, words*2),
			BedType:       bed,
			Amenities:     []string{"Air Conditioning", "Mini Bar", "Free WiFi", "Flat-screen TV", view},
			Photos:        Sample(r, roomPhotos, IntRange(r, 1, 3)),
			Cancellation:  "Free cancellation until 3 days before check-in",
			Available:     Choice(r, []bool{true, true, true, false}),
		})
	}
	return rooms
}

func hotelDescription(r *rand.Rand, loc StayLocation, stars int) string {
	areas := loc.PopularAreas
	if len(areas) > 2 {
		areas = areas[:2]
	}
	return Choice(r, []string{
		fmt.Sprintf("Experience luxury and comfort in the heart of %s. Perfect for both business and leisure travelers.", loc.City),
		fmt.Sprintf("A %d-star accommodation offering world-class amenities and exceptional service in %s.", stars, loc.City),
		fmt.Sprintf("Located in %s, this hotel provides easy access to %s.", loc.Area, strings.Join(areas, ", ")),
		fmt.Sprintf("Discover the perfect blend of comfort and style in %s, featuring modern amenities and stunning views.", loc.City),
	})
}

type stayCorpus struct {
	search       []StaySearch
	details      []StayDetails
	reviews      []Review
	nearby       []Nearby
	availability []Availability
}

func generateStays(ctx context.Context, src MetaSource, opt Options) ([]Output, error) {
	locations, err := loadList[StayLocation](ctx, src, "stays_locations.json")
	if err != nil {
		return nil, err
	}
	amenityPool, err := loadAmenities(ctx, src)
	if err != nil {
		return nil, err
	}

	var c stayCorpus
	// hotels, reviews, nearby places and availability rows share one counter
	counter := 10000

	for _, loc := range locations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hotels := min(opt.MaxHotels, IntRange(Seeded(opt.Seed+":"+loc.ID), 2, 4))

		for idx := 0; idx < hotels; idx++ {
			r := Seeded(fmt.Sprintf("%s:%s:%d", opt.Seed, loc.ID, idx))

			stars := Choice(r, starRatings)
			currency := Choice(r, stayCurrencies)
			name := hotelName(r, loc, stars)
			price := hotelPrice(r, stars, loc, currency)
			amenities := hotelAmenities(r, stars, loc, amenityPool)
			photos := hotelPhotos(r, stars, loc)
			thumbnail := ""
			if len(photos) > 0 {
				thumbnail = photos[0]
			}

			id := fmt.Sprintf("stay-%03d", counter)
			counter++

			description := hotelDescription(r, loc, stars)
			policy := Choice(r, cancellationPolicies)
			cancellable := !strings.Contains(policy, "Non-refundable")
			rating := Round(Uniform(r, 3.5, 5.0), 1)
			reviewsCount := IntRange(r, 100, 8000)
			location := loc.City + ", " + loc.Country
			coords := Coordinates{Lat: loc.Lat, Lng: loc.Lng}
			member := Round(price*stayMemberDiscount, 2)

			c.search = append(c.search, StaySearch{
				ID: id, Name: name, Location: location, Price: price, Currency: currency,
				MemberPrice: member, Rating: rating, ReviewsCount: reviewsCount,
				IsCancellable: cancellable, CancellationPolicy: policy, Stars: stars,
				Amenities: amenities, Thumbnail: thumbnail, Coordinates: coords,
				Description: description, Photos: photos,
			})

			address := fmt.Sprintf("%d %s Street, %s, %s %d",
				IntRange(r, 100, 9999), loc.Area, loc.City, loc.State, IntRange(r, 10000, 99999))
			rooms := hotelRooms(r, stars, price, currency)

			c.details = append(c.details, StayDetails{
				ID: id, Name: name, Location: location, Address: address, Description: description,
				Stars: stars, Rating: rating, ReviewsCount: reviewsCount, Coordinates: coords,
				IsCancellable: cancellable, CancellationPolicy: policy, Thumbnail: thumbnail,
				Photos: photos, Rooms: rooms, Price: price, Currency: currency, MemberPrice: member,
			})

			for i := 0; i < min(10, reviewsCount/100); i++ {
				rr := Seeded(fmt.Sprintf("%s:%s:review:%d", opt.Seed, id, i))
				c.reviews = append(c.reviews, Review{
					ID:           fmt.Sprintf("review-%06d", counter),
					StayID:       id,
					UserName:     fmt.Sprintf("Guest%d", IntRange(rr, 1000, 9999)),
					Rating:       IntRange(rr, 1, 5),
					Comment:      "Great stay, highly recommended!",
					Date:         opt.StartDate.AddDate(0, 0, -IntRange(rr, 1, 365)).Format(isoDate),
					HelpfulVotes: IntRange(rr, 0, 20),
				})
				counter++
			}

			for i, n := 0, IntRange(r, 3, 8); i < n; i++ {
				nr := Seeded(fmt.Sprintf("%s:%s:nearby:%d", opt.Seed, id, i))
				c.nearby = append(c.nearby, Nearby{
					ID:       fmt.Sprintf("nearby-%06d", counter),
					StayID:   id,
					Name:     fmt.Sprintf("%s %d", Choice(nr, nearbyTypes), IntRange(nr, 1, 100)),
					Type:     Choice(nr, nearbyTypes),
					Distance: Round(Uniform(nr, 0.1, 2.0), 1),
					Rating:   Round(Uniform(nr, 3.0, 5.0), 1),
				})
				counter++
			}

			for day := 0; day < opt.Days; day++ {
				ar := Seeded(fmt.Sprintf("%s:%s:availability:%d", opt.Seed, id, day))
				checkIn := opt.StartDate.AddDate(0, 0, day)
				checkOut := checkIn.AddDate(0, 0, IntRange(r, 1, 7))
				slots := make([]RoomAvailability, 0, len(rooms))
				for _, room := range rooms {
					slots = append(slots, RoomAvailability{
						RoomID:        room.ID,
						Available:     Choice(ar, []bool{true, true, true, false}),
						PricePerNight: room.PricePerNight,
						Currency:      room.Currency,
					})
				}
				c.availability = append(c.availability, Availability{
					ID:       fmt.Sprintf("avail-%06d", counter),
					StayID:   id,
					CheckIn:  checkIn.Format(isoDate),
					CheckOut: checkOut.Format(isoDate),
					Rooms:    slots,
				})
				counter++
			}
		}
	}

	c.search = Link(c.search, c.details,
		func(s StaySearch) string { return s.ID },
		func(d StayDetails) string { return d.ID })

	return c.outputs(), nil
}

func (c stayCorpus) outputs() []Output {
	d := mustDomain(catalog.Stays)
	rel := func(name string) Output {
		ref := d.Relations[name].File
		switch name {
		case "reviews":
			return Output{Ref: ref, Data: nonNil(c.reviews), Count: len(c.reviews)}
		case "nearby":
			return Output{Ref: ref, Data: nonNil(c.nearby), Count: len(c.nearby)}
		default:
			return Output{Ref: ref, Data: nonNil(c.availability), Count: len(c.availability)}
		}
	}
	return []Output{
		{Ref: d.Search, Data: nonNil(c.search), Count: len(c.search)},
		{Ref: d.Details, Data: nonNil(c.details), Count: len(c.details)},
		rel("reviews"),
		rel("nearby"),
		rel("availability"),
	}
}

// nonNil keeps empty collections encoding as [] rather than null.
func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
