package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"expedia_inspired/internal/catalog"
)

var (
	carTypes      = []string{"mini", "economy", "compact", "midsize", "standard", "fullsize", "premium", "luxury", "suv", "convertible", "sports", "van"}
	transmissions = []string{"automatic", "manual"}
	fuelPolicies  = []string{"full_to_full", "prepurchase"}
	carCurrencies = []string{"USD", "EUR", "GBP"}
)

var carBaseRate = map[string]float64{
	"mini": 28, "economy": 32, "compact": 36, "midsize": 42, "standard": 48, "fullsize": 55,
	"premium": 75, "luxury": 110, "suv": 70, "convertible": 95, "sports": 90, "van": 65,
}

var carSeats = map[string]int{
	"mini": 4, "economy": 5, "compact": 5, "midsize": 5, "standard": 5, "fullsize": 5,
	"premium": 5, "luxury": 5, "suv": 7, "convertible": 4, "sports": 4, "van": 8,
}

var carModels = map[string]map[string][]string{
	"Toyota":        {"economy": {"Yaris", "Corolla"}, "suv": {"RAV4", "Highlander"}, "compact": {"Corolla"}, "midsize": {"Camry"}, "van": {"Sienna"}},
	"Honda":         {"economy": {"Fit"}, "compact": {"Civic"}, "suv": {"CR-V"}, "midsize": {"Accord"}},
	"BMW":           {"luxury": {"5 Series", "3 Series"}, "sports": {"M4"}},
	"Mercedes-Benz": {"luxury": {"C-Class", "E-Class"}, "premium": {"GLC"}},
	"Audi":          {"premium": {"A4"}, "luxury": {"A6"}},
	"Chevrolet":     {"midsize": {"Malibu"}, "sports": {"Camaro"}, "suv": {"Tahoe"}},
	"Volkswagen":    {"economy": {"Polo"}, "compact": {"Golf"}},
	"Hyundai":       {"midsize": {"Sonata"}, "compact": {"i30"}},
	"Peugeot":       {"compact": {"308"}, "economy": {"208"}},
	"Ford":          {"midsize": {"Fusion"}, "sports": {"Mustang"}, "suv": {"Explorer"}},
}

func carPhoto(id string) string {
	return "https://images.unsplash.com/photo-" + id + "?w=640&h=360&fit=crop"
}

func carPhotos(ids ...string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = carPhoto(id)
	}
	return out
}

var carTypePhotos = map[string][]string{
	"mini":        carPhotos("1549317661-bd32c8ce0db2", "1552519507-da3b142c6e3d", "1580273916550-e323be2ae537"),
	"economy":     carPhotos("1590362891991-f776e747a588", "1549399542-7e3f8b79c341", "1471444928139-48c5bf5173f8"),
	"compact":     carPhotos("1519641471654-76ce0107ad1b", "1580273916550-e323be2ae537", "1471444928139-48c5bf5173f8"),
	"midsize":     carPhotos("1549399542-7e3f8b79c341", "1519641471654-76ce0107ad1b", "1589974725932-171b6cb613ec"),
	"standard":    carPhotos("1589974725932-171b6cb613ec", "1549399542-7e3f8b79c341", "1581465706166-4bf9c2a02c16"),
	"fullsize":    carPhotos("1589974725932-171b6cb613ec", "1581465706166-4bf9c2a02c16", "1519641471654-76ce0107ad1b"),
	"premium":     carPhotos("1603584173870-7f23fdae1b7a", "1589974725932-171b6cb613ec", "1581465706166-4bf9c2a02c16"),
	"luxury":      carPhotos("1523983388277-336a66bf9bcd", "1603584173870-7f23fdae1b7a", "1589974725932-171b6cb613ec"),
	"suv":         carPhotos("1519641471654-76ce0107ad1b", "1589974725932-171b6cb613ec", "1581465706166-4bf9c2a02c16"),
	"convertible": carPhotos("1552519507-da3b142c6e3d", "1584345604476-8ec5e12e42dd", "1589974725932-171b6cb613ec"),
	"sports":      carPhotos("1552519507-da3b142c6e3d", "1584345604476-8ec5e12e42dd", "1523983388277-336a66bf9bcd"),
	"van":         carPhotos("1581465706166-4bf9c2a02c16", "1589974725932-171b6cb613ec", "1519641471654-76ce0107ad1b"),
}

var carBrandPhotos = map[string][]string{
	"BMW":           carPhotos("1523983388277-336a66bf9bcd", "1589974725932-171b6cb613ec", "1581465706166-4bf9c2a02c16"),
	"Mercedes-Benz": carPhotos("1563720360172-67b8f3dce741", "1589974725932-171b6cb613ec", "1581465706166-4bf9c2a02c16"),
	"Audi":          carPhotos("1603584173870-7f23fdae1b7a", "1589974725932-171b6cb613ec", "1581465706166-4bf9c2a02c16"),
	"Toyota":        carPhotos("1590362891991-f776e747a588", "1589974725932-171b6cb613ec", "1581465706166-4bf9c2a02c16"),
	"Honda":         carPhotos("1519641471654-76ce0107ad1b", "1589974725932-171b6cb613ec", "1581465706166-4bf9c2a02c16"),
}

type CarCapacity struct {
	Seats int `json:"seats"`
	Bags  int `json:"bags"`
}

type CarPrice struct {
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
	PerDay   float64 `json:"per_day"`
}

type CarPlace struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	AirportCode *string `json:"airport_code"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Datetime    string  `json:"datetime"`
}

type CarSearch struct {
	ID                   int         `json:"id"`
	Company              string      `json:"company"`
	CompanyLogo          string      `json:"company_logo"`
	CarModel             string      `json:"car_model"`
	CarType              string      `json:"car_type"`
	Transmission         string      `json:"transmission"`
	Capacity             CarCapacity `json:"capacity"`
	AirConditioning      bool        `json:"air_conditioning"`
	FuelPolicy           string      `json:"fuel_policy"`
	FreeCancellation     bool        `json:"free_cancellation"`
	AirportHotelTransfer bool        `json:"airport_hotel_transfer"`
	Price                CarPrice    `json:"price"`
	MemberPrice          CarPrice    `json:"member_price"`
	Rating               float64     `json:"rating"`
	Popularity           int         `json:"popularity"`
	Pickup               CarPlace    `json:"pickup"`
	Dropoff              CarPlace    `json:"dropoff"`
	Photos               []string    `json:"photos"`
}

type CarDesk struct {
	Address  string  `json:"address"`
	City     string  `json:"city"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Datetime string  `json:"datetime"`
}

type CarTerms struct {
	Deposit        string `json:"deposit"`
	MinAge         int    `json:"min_age"`
	DriversLicense string `json:"drivers_license"`
	CrossBorder    string `json:"cross_border"`
}

type CarRate struct {
	PerDay   float64 `json:"per_day"`
	Days     int     `json:"days"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

type CarDetails struct {
	ID                 int         `json:"id"`
	Company            string      `json:"company"`
	CompanyLogo        string      `json:"company_logo"`
	CarModel           string      `json:"car_model"`
	Year               int         `json:"year"`
	CarType            string      `json:"car_type"`
	Doors              int         `json:"doors"`
	Transmission       string      `json:"transmission"`
	Fuel               string      `json:"fuel"`
	FuelPolicy         string      `json:"fuel_policy"`
	AirConditioning    bool        `json:"air_conditioning"`
	Capacity           CarCapacity `json:"capacity"`
	Included           []string    `json:"included"`
	ExtrasAvailable    []string    `json:"extras_available"`
	Terms              CarTerms    `json:"terms"`
	Pickup             CarDesk     `json:"pickup"`
	Dropoff            CarDesk     `json:"dropoff"`
	Photos             []string    `json:"photos"`
	Price              CarRate     `json:"price"`
	MemberPrice        CarRate     `json:"member_price"`
	CancellationPolicy string      `json:"cancellation_policy"`
}

const carMemberDiscount = 0.85

const isoMinutes = "2006-01-02T15:04"

func carCapacity(carType string) CarCapacity {
	seats, ok := carSeats[carType]
	if !ok {
		seats = 5
	}
	bags := max(1, seats/2)
	if carType == "suv" || carType == "van" {
		bags++
	}
	return CarCapacity{Seats: seats, Bags: bags}
}

func carModel(r *rand.Rand, brand, carType string) string {
	opts := carModels[brand][carType]
	if len(opts) == 0 {
		opts = []string{strings.ToUpper(carType[:1]) + carType[1:]}
	}
	return brand + " " + Choice(r, opts)
}

func carPhotoSet(r *rand.Rand, carType, brand string) []string {
	base, ok := carTypePhotos[carType]
	if !ok {
		base = carTypePhotos["economy"]
	}
	if branded, ok := carBrandPhotos[brand]; ok && (carType == "premium" || carType == "luxury") {
		n := IntRange(r, 3, 4)
		if n <= len(branded) {
			return Sample(r, branded, n)
		}
		return append(Sample(r, branded, len(branded)), Sample(r, base, n-len(branded))...)
	}
	return Sample(r, base, IntRange(r, 2, 3))
}

type carPair struct{ pick, drop CarLocation }

func generateCars(ctx context.Context, src MetaSource, opt Options) ([]Output, error) {
	locations, err := loadList[CarLocation](ctx, src, "car_locations.json")
	if err != nil {
		return nil, err
	}
	brands, err := loadList[CarBrand](ctx, src, "car_brands.json")
	if err != nil {
		return nil, err
	}

	var pairs []carPair
	for _, p := range locations {
		for _, d := range locations {
			if !opt.FullCombinations && p.ID != d.ID {
				continue
			}
			pairs = append(pairs, carPair{p, d})
		}
	}

	var (
		search  []CarSearch
		details []CarDetails
		nextID  = 10000
	)
	boolPairs := [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}}

	for day := 0; day < opt.Days; day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pickupAt := opt.StartDate.AddDate(0, 0, day).Add(10 * time.Hour)
		dropoffAt := pickupAt.AddDate(0, 0, 1)
		days := max(1, int(dropoffAt.Sub(pickupAt).Hours()/24))

		for _, pair := range pairs {
			for _, carType := range carTypes {
				for _, trans := range transmissions {
					r := Seeded(fmt.Sprintf("%s:%d:%s:%s:%s:%s", opt.Seed, day, pair.pick.ID, pair.drop.ID, carType, trans))
					selected := brands
					if !opt.FullCombinations {
						selected = Sample(r, brands, min(3, len(brands)))
					}
					for _, flags := range boolPairs {
						freeCancel, transfer := flags[0], flags[1]
						for _, fuelPolicy := range fuelPolicies {
							currency := Choice(r, carCurrencies)
							combo := 0
							for _, brand := range selected {
								if !opt.FullCombinations && combo >= opt.MaxPerCombo {
									break
								}
								nextID++
								cs, cd := drawCar(r, carSlot{
									id: nextID, brand: brand, carType: carType, transmission: trans,
									fuelPolicy: fuelPolicy, currency: currency, freeCancel: freeCancel, transfer: transfer,
									pick: pair.pick, drop: pair.drop, pickupAt: pickupAt, dropoffAt: dropoffAt, days: days,
								})
								search = append(search, cs)
								details = append(details, cd)
								combo++
							}
						}
					}
				}
			}
		}
	}

	search = Link(search, details,
		func(s CarSearch) string { return fmt.Sprint(s.ID) },
		func(d CarDetails) string { return fmt.Sprint(d.ID) })

	d := mustDomain(catalog.Cars)
	return []Output{
		{Ref: d.Search, Data: search, Count: len(search)},
		{Ref: d.Details, Data: nonNil(details), Count: len(details)},
	}, nil
}

// carSlot is one position of the combination grid.
type carSlot struct {
	id                    int
	brand                 CarBrand
	carType, transmission string
	fuelPolicy, currency  string
	freeCancel, transfer  bool
	pick, drop            CarLocation
	pickupAt, dropoffAt   time.Time
	days                  int
}

// drawCar consumes r in a fixed order so both projections share every value.
func drawCar(r *rand.Rand, s carSlot) (CarSearch, CarDetails) {
	capacity := carCapacity(s.carType)
	base, ok := carBaseRate[s.carType]
	if !ok {
		base = 50
	}
	perDay := Round(base*Uniform(r, 0.85, 1.25), 1)
	total := Round(perDay*float64(s.days), 1)
	rating := Round(Uniform(r, 3.9, 4.9), 1)
	popularity := IntRange(r, 100, 1200)
	year := Choice(r, []int{2020, 2021, 2022, 2023, 2024})
	fuel := "petrol"
	if s.carType != "sports" {
		fuel = Choice(r, []string{"petrol", "diesel", "hybrid"})
	}
	model := carModel(r, s.brand.Name, s.carType)
	photos := carPhotoSet(r, s.carType, s.brand.Name)

	memberPerDay := Round(perDay*carMemberDiscount, 1)
	memberTotal := Round(total*carMemberDiscount, 1)

	search := CarSearch{
		ID:                   s.id,
		Company:              s.brand.Name,
		CompanyLogo:          s.brand.Logo,
		CarModel:             model,
		CarType:              s.carType,
		Transmission:         s.transmission,
		Capacity:             capacity,
		AirConditioning:      true,
		FuelPolicy:           s.fuelPolicy,
		FreeCancellation:     s.freeCancel,
		AirportHotelTransfer: s.transfer,
		Price:                CarPrice{Total: total, Currency: s.currency, PerDay: perDay},
		MemberPrice:          CarPrice{Total: memberTotal, Currency: s.currency, PerDay: memberPerDay},
		Rating:               rating,
		Popularity:           popularity,
		Pickup:               carPlace(s.pick, s.pickupAt),
		Dropoff:              carPlace(s.drop, s.dropoffAt),
		Photos:               photos,
	}

	doors := 4
	if capacity.Seats > 5 {
		doors = 5
	}
	cancellation := "Non-refundable rate"
	if s.freeCancel {
		cancellation = "Free cancellation up to 24h before pickup"
	}
	details := CarDetails{
		ID:              s.id,
		Company:         s.brand.Name,
		CompanyLogo:     s.brand.Logo,
		CarModel:        model,
		Year:            year,
		CarType:         s.carType,
		Doors:           doors,
		Transmission:    s.transmission,
		Fuel:            fuel,
		FuelPolicy:      s.fuelPolicy,
		AirConditioning: true,
		Capacity:        capacity,
		Included:        []string{"Collision Damage Waiver", "Theft Protection", "Unlimited mileage"},
		ExtrasAvailable: []string{"GPS", "Child seat", "Additional driver"},
		Terms: CarTerms{
			Deposit:        fmt.Sprintf("%s %d", s.currency, Choice(r, []int{200, 250, 300, 400})),
			MinAge:         Choice(r, []int{21, 23, 25}),
			DriversLicense: "Valid license held for 1+ year",
			CrossBorder:    Choice(r, []string{"Not allowed", "On request", "Allowed within CA"}),
		},
		Pickup:             carDesk(s.pick, s.pickupAt),
		Dropoff:            carDesk(s.drop, s.dropoffAt),
		Photos:             photos,
		Price:              CarRate{PerDay: perDay, Days: s.days, Total: total, Currency: s.currency},
		MemberPrice:        CarRate{PerDay: memberPerDay, Days: s.days, Total: memberTotal, Currency: s.currency},
		CancellationPolicy: cancellation,
	}
	return search, details
}

func carPlace(l CarLocation, at time.Time) CarPlace {
	return CarPlace{City: l.City, Country: l.Country, AirportCode: l.AirportCode, Lat: l.Lat, Lng: l.Lng, Datetime: at.Format(isoMinutes)}
}

func carDesk(l CarLocation, at time.Time) CarDesk {
	return CarDesk{Address: l.City + " Rental Car Center", City: l.City, Lat: l.Lat, Lng: l.Lng, Datetime: at.Format(isoMinutes)}
}
