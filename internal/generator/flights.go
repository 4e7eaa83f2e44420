package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"expedia_inspired/internal/catalog"
)

var (
	seatClasses      = []string{"economy", "premium_economy", "business", "first"}
	flightCurrencies = []string{"USD", "EUR", "JPY", "SGD", "AUD"}
	stopOptions      = []int{0, 1, 2}
)

const flightMemberDiscount = 0.9

type Baggage struct {
	CarryOn string `json:"carry_on"`
	Checked string `json:"checked"`
}

type FlightPrice struct {
	Total       int    `json:"total"`
	Currency    string `json:"currency"`
	MemberPrice int    `json:"member_price"`
}

type Segment struct {
	FlightNumber    string  `json:"flight_number"`
	Airline         string  `json:"airline"`
	From            Airport `json:"from"`
	To              Airport `json:"to"`
	DepartUTC       string  `json:"depart_utc"`
	ArriveUTC       string  `json:"arrive_utc"`
	DurationMinutes int     `json:"duration_minutes"`
}

type Leg struct {
	Direction string    `json:"direction"`
	Segments  []Segment `json:"segments"`
}

type Flight struct {
	ID                   string      `json:"id"`
	TripType             string      `json:"trip_type"`
	Airline              Airline     `json:"airline"`
	Stops                int         `json:"stops"`
	SeatClasses          []string    `json:"seat_classes"`
	Price                FlightPrice `json:"price"`
	DurationTotalMinutes int         `json:"duration_total_minutes"`
	Baggage              Baggage     `json:"baggage"`
	Legs                 []Leg       `json:"legs"`
}

type Fare struct {
	BaseFare      int     `json:"base_fare"`
	Taxes         int     `json:"taxes"`
	Total         int     `json:"total"`
	MemberPrice   int     `json:"member_price"`
	Baggage       Baggage `json:"baggage"`
	SeatSelection string  `json:"seat_selection"`
	Changes       string  `json:"changes"`
	Cancellation  string  `json:"cancellation"`
	MilesEarned   string  `json:"miles_earned"`
}

type AirlineDetails struct {
	Name         string  `json:"name"`
	Alliance     string  `json:"alliance"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
}

type Feature struct {
	Available bool     `json:"available"`
	Price     string   `json:"price,omitempty"`
	Type      string   `json:"type,omitempty"`
	Features  []string `json:"features,omitempty"`
}

type CabinAmenities struct {
	WiFi          Feature           `json:"wifi"`
	Entertainment Feature           `json:"entertainment"`
	Power         Feature           `json:"power"`
	SeatPitch     map[string]string `json:"seat_pitch"`
}

type Aircraft struct {
	Type    string            `json:"type"`
	SeatMap bool              `json:"seat_map"`
	Layout  map[string]string `json:"layout"`
}

type FlightDetails struct {
	ID              string          `json:"id"`
	AirlineDetails  AirlineDetails  `json:"airline_details"`
	FareDetails     map[string]Fare `json:"fare_details"`
	Amenities       CabinAmenities  `json:"amenities"`
	AircraftDetails Aircraft        `json:"aircraft_details"`
}

type FlightStatus struct {
	FlightNumber       string `json:"flight_number"`
	Status             string `json:"status"`
	Gate               string `json:"gate"`
	Terminal           string `json:"terminal"`
	EstimatedDepartUTC string `json:"estimated_depart_utc"`
	DelayMinutes       int    `json:"delay_minutes"`
}

const utcHour = "2006-01-02T15:00:00Z"

func drawSegment(r *rand.Rand, al Airline, from, to Airport, depart time.Time) Segment {
	minutes := IntRange(r, 60, 1440)
	arrive := depart.Add(time.Duration(minutes) * time.Minute)
	return Segment{
		FlightNumber:    fmt.Sprintf("%s %d", al.Code, IntRange(r, 100, 9999)),
		Airline:         al.Code,
		From:            from,
		To:              to,
		DepartUTC:       depart.Format(utcHour),
		ArriveUTC:       arrive.Format(utcHour),
		DurationMinutes: minutes,
	}
}

func drawFare(r *rand.Rand) (FlightPrice, Baggage) {
	total := IntRange(r, 100, 2000)
	price := FlightPrice{
		Total:       total,
		Currency:    Choice(r, flightCurrencies),
		MemberPrice: int(float64(total) * flightMemberDiscount),
	}
	bag := Baggage{
		CarryOn: fmt.Sprintf("%dkg", IntRange(r, 7, 15)),
		Checked: fmt.Sprintf("%dkg", IntRange(r, 23, 32)),
	}
	return price, bag
}

type cabin struct {
	stops int
	class string
}

// cabins expands the stops by seat class grid, or draws one cell in capped mode.
func cabins(r *rand.Rand, full bool, stops []int) []cabin {
	if !full {
		return []cabin{{Choice(r, stops), Choice(r, seatClasses)}}
	}
	var out []cabin
	for _, s := range stops {
		for _, c := range seatClasses {
			out = append(out, cabin{s, c})
		}
	}
	return out
}

func legMinutes(legs []Leg) int {
	total := 0
	for _, l := range legs {
		for _, s := range l.Segments {
			total += s.DurationMinutes
		}
	}
	return total
}

type flightSet struct {
	oneWay, roundTrip, multiCity []Flight
}

func generateFlightSearch(opt Options, airlines []Airline, airports []Airport) flightSet {
	var set flightSet
	for day := 0; day < opt.Days; day++ {
		date := opt.StartDate.AddDate(0, 0, day)
		stamp := date.Format("20060102")
		for _, al := range airlines {
			for _, org := range airports {
				for _, dst := range airports {
					if org.Code == dst.Code {
						continue
					}
					r := Seeded(fmt.Sprintf("%s:route:%d:%s:%s:%s", opt.Seed, day, al.Code, org.Code, dst.Code))
					depart := date.Add(time.Duration(IntRange(r, 6, 22)) * time.Hour)
					back := depart.AddDate(0, 0, IntRange(r, 1, 14))
					for _, cell := range cabins(r, opt.FullCombinations, stopOptions) {
						stops, class := cell.stops, cell.class

						out := drawSegment(r, al, org, dst, depart)
						price, bag := drawFare(r)
						legs := []Leg{{Direction: "outbound", Segments: []Segment{out}}}
						set.oneWay = append(set.oneWay, Flight{
							ID:       fmt.Sprintf("ow-%s-%s-%s-%s-%d-%s", al.Code, org.Code, dst.Code, stamp, stops, class),
							TripType: "one_way", Airline: al, Stops: stops, SeatClasses: []string{class},
							Price: price, DurationTotalMinutes: legMinutes(legs), Baggage: bag, Legs: legs,
						})

						out = drawSegment(r, al, org, dst, depart)
						ret := drawSegment(r, al, dst, org, back)
						price, bag = drawFare(r)
						legs = []Leg{
							{Direction: "outbound", Segments: []Segment{out}},
							{Direction: "return", Segments: []Segment{ret}},
						}
						set.roundTrip = append(set.roundTrip, Flight{
							ID:       fmt.Sprintf("rt-%s-%s-%s-%s-%s-%d-%s", al.Code, org.Code, dst.Code, stamp, back.Format("20060102"), stops, class),
							TripType: "round_trip", Airline: al, Stops: stops, SeatClasses: []string{class},
							Price: price, DurationTotalMinutes: legMinutes(legs), Baggage: bag, Legs: legs,
						})
					}
				}
			}

			if len(airports) < 3 {
				continue
			}
			r := Seeded(fmt.Sprintf("%s:multi:%d:%s", opt.Seed, day, al.Code))
			for _, cell := range cabins(r, opt.FullCombinations, []int{2}) {
				stops, class := cell.stops, cell.class
				stopsAt := Sample(r, airports, 3)
				var legs []Leg
				for i := range 3 {
					seg := drawSegment(r, al, stopsAt[i], stopsAt[(i+1)%3], date.Add(time.Duration(i*6)*time.Hour))
					legs = append(legs, Leg{Direction: fmt.Sprintf("segment_%d", i+1), Segments: []Segment{seg}})
				}
				price, bag := drawFare(r)
				set.multiCity = append(set.multiCity, Flight{
					ID: fmt.Sprintf("mc-%s-%s-%s-%s-%s-%d-%s", al.Code,
						stopsAt[0].Code, stopsAt[1].Code, stopsAt[2].Code, stamp, stops, class),
					TripType: "multi_city", Airline: al, Stops: stops, SeatClasses: []string{class},
					Price: price, DurationTotalMinutes: legMinutes(legs), Baggage: bag, Legs: legs,
				})
			}
		}
	}
	return set
}

func flightDetails(seed string, f Flight) FlightDetails {
	r := Seeded(seed + ":details:" + f.ID)
	d := FlightDetails{
		ID: f.ID,
		AirlineDetails: AirlineDetails{
			Name:         f.Airline.Name,
			Alliance:     Choice(r, []string{"Oneworld", "SkyTeam", "Star Alliance"}),
			Rating:       Round(Uniform(r, 3.5, 5.0), 1),
			ReviewsCount: IntRange(r, 1000, 50000),
		},
		FareDetails: map[string]Fare{},
		Amenities: CabinAmenities{
			WiFi:          Feature{Available: true, Price: "$8/hour or $20/flight"},
			Entertainment: Feature{Available: true, Type: "Personal TV", Features: []string{"Movies", "TV Shows", "Games"}},
			Power:         Feature{Available: true, Type: "110V + USB"},
			SeatPitch:     map[string]string{},
		},
		AircraftDetails: Aircraft{
			Type:    Choice(r, []string{"Boeing 787-9", "Airbus A350-1000", "Boeing 777-300ER"}),
			SeatMap: true,
			Layout:  map[string]string{},
		},
	}
	for _, class := range f.SeatClasses {
		base := IntRange(r, 100, 2000)
		taxes := IntRange(r, 20, 300)
		d.FareDetails[class] = Fare{
			BaseFare:    base,
			Taxes:       taxes,
			Total:       base + taxes,
			MemberPrice: int(float64(base+taxes) * flightMemberDiscount),
			Baggage: Baggage{
				CarryOn: fmt.Sprintf("%dkg included", IntRange(r, 7, 15)),
				Checked: fmt.Sprintf("%dkg included", IntRange(r, 23, 32)),
			},
			SeatSelection: Choice(r, []string{"Included", "Available from $10"}),
			Changes:       Choice(r, []string{"Flexible changes", "Changes allowed with fee"}),
			Cancellation:  Choice(r, []string{"Refundable", "Non-refundable", "Refundable with fee"}),
			MilesEarned:   fmt.Sprintf("%d%% of miles flown", IntRange(r, 50, 200)),
		}
		d.Amenities.SeatPitch[class] = fmt.Sprintf("%d inches", IntRange(r, 30, 80))
		d.AircraftDetails.Layout[class] = Choice(r, []string{"3-3-3", "2-4-2", "1-2-1"})
	}
	return d
}

func flightStatuses(seed string, f Flight) []FlightStatus {
	var out []FlightStatus
	for _, leg := range f.Legs {
		for _, seg := range leg.Segments {
			r := Seeded(seed + ":status:" + f.ID + ":" + seg.FlightNumber)
			out = append(out, FlightStatus{
				FlightNumber:       seg.FlightNumber,
				Status:             Choice(r, []string{"on_time", "delayed", "scheduled"}),
				Gate:               Choice(r, []string{"A1", "B2", "C3", "D4", "E5"}),
				Terminal:           Choice(r, []string{"T1", "T2", "T3", "T4", "T5"}),
				EstimatedDepartUTC: seg.DepartUTC,
				DelayMinutes:       Choice(r, []int{0, 10, 20, 30, 45}),
			})
		}
	}
	return out
}

func generateFlights(ctx context.Context, src MetaSource, opt Options) ([]Output, error) {
	airlines, err := loadList[Airline](ctx, src, "airlines.json")
	if err != nil {
		return nil, err
	}
	airports, err := loadList[Airport](ctx, src, "airports.json")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := generateFlightSearch(opt, airlines, airports)

	var (
		details  []FlightDetails
		statuses []FlightStatus
	)
	for _, group := range [][]Flight{set.oneWay, set.roundTrip, set.multiCity} {
		for _, f := range group {
			details = append(details, flightDetails(opt.Seed, f))
			statuses = append(statuses, flightStatuses(opt.Seed, f)...)
		}
	}

	byID := func(f Flight) string { return f.ID }
	detailID := func(d FlightDetails) string { return d.ID }
	set.oneWay = Link(set.oneWay, details, byID, detailID)
	set.roundTrip = Link(set.roundTrip, details, byID, detailID)
	set.multiCity = Link(set.multiCity, details, byID, detailID)

	d := mustDomain(catalog.Flights)
	return []Output{
		{Ref: d.Variants["one_way"], Data: set.oneWay, Count: len(set.oneWay)},
		{Ref: d.Variants["round_trip"], Data: set.roundTrip, Count: len(set.roundTrip)},
		{Ref: d.Variants["multi_city"], Data: set.multiCity, Count: len(set.multiCity)},
		{Ref: d.Details, Data: nonNil(details), Count: len(details)},
		{Ref: d.Relations["status"].File, Data: nonNil(statuses), Count: len(statuses)},
	}, nil
}
