package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"expedia_inspired/internal/domain"
)

// BookingService covers bookings plus the traveler and card wallets of a user.
type BookingService struct {
	repo domain.AccountRepository
	now  func() time.Time
}

func NewBookingService(r domain.AccountRepository) *BookingService {
	return &BookingService{repo: r, now: func() time.Time { return time.Now().UTC() }}
}

func (s *BookingService) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	b.BookedAt = s.now()
	return s.repo.CreateBooking(ctx, b)
}

// List returns a user's bookings, a guest session's bookings, or every guest
// booking when neither is given. The user id wins over the session.
func (s *BookingService) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	if f.UserID != nil {
		f.SessionID = nil
	}
	out, err := s.repo.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Booking{}
	}
	return out, nil
}

// NewTraveler is the input of AddTraveler. Nil fields get demo defaults.
type NewTraveler struct {
	Email            string          `json:"email" validate:"omitempty,email"`
	Name             string          `json:"name" validate:"required"`
	FrequentFlyer    *string         `json:"frequent_flyer"`
	Membership       *string         `json:"membership"`
	PersonalInfo     json.RawMessage `json:"personal_info"`
	FlightPreference json.RawMessage `json:"flight_preference"`
	Passports        json.RawMessage `json:"passports"`
	TSAInfo          json.RawMessage `json:"tsa_info"`
}

var (
	defaultPersonalInfo     = json.RawMessage(`{"dob":"1990-01-01","gender":"male","nationality":"USA"}`)
	defaultFlightPreference = json.RawMessage(`{"seat":"aisle","meal":"vegetarian","class":"economy"}`)
	defaultPassports        = json.RawMessage(`[{"number":"X1234567","country":"USA","expiry":"2030-12-31"}]`)
	defaultTSAInfo          = json.RawMessage(`{"tsa_precheck":true,"known_traveler_number":"987654321"}`)
)

func orRaw(v, def json.RawMessage) json.RawMessage {
	if len(v) == 0 || string(v) == "null" {
		return def
	}
	return v
}

func orStr(v *string, def string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return &def
	}
	return v
}

func (s *BookingService) user(ctx context.Context, email string) (domain.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return domain.User{}, fmt.Errorf("user: %w", err)
	}
	return u, nil
}

func (s *BookingService) AddTraveler(ctx context.Context, in NewTraveler) (domain.Traveler, error) {
	u, err := s.user(ctx, in.Email)
	if err != nil {
		return domain.Traveler{}, err
	}
	return s.repo.AddTraveler(ctx, domain.Traveler{
		UserID:           u.ID,
		Name:             in.Name,
		FrequentFlyer:    orStr(in.FrequentFlyer, "AA123456"),
		Membership:       orStr(in.Membership, "Gold"),
		PersonalInfo:     orRaw(in.PersonalInfo, defaultPersonalInfo),
		FlightPreference: orRaw(in.FlightPreference, defaultFlightPreference),
		Passports:        orRaw(in.Passports, defaultPassports),
		TSAInfo:          orRaw(in.TSAInfo, defaultTSAInfo),
		CreatedAt:        s.now(),
	})
}

func (s *BookingService) Travelers(ctx context.Context, email string) ([]domain.Traveler, error) {
	u, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListTravelers(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Traveler{}
	}
	return out, nil
}

func (s *BookingService) RemoveTraveler(ctx context.Context, email string, travelerID int64) error {
	u, err := s.user(ctx, email)
	if err != nil {
		return err
	}
	return s.repo.DeleteTraveler(ctx, u.ID, travelerID)
}

// NewCard is the input of AddPaymentMethod. Only the last four digits of the
// card number are kept.
type NewCard struct {
	Email          string  `json:"email" validate:"omitempty,email"`
	CardType       string  `json:"card_type" validate:"required"`
	Cardholder     string  `json:"cardholder" validate:"required"`
	CardNumber     string  `json:"card_number" validate:"required,min=4"`
	ExpMonth       string  `json:"exp_month" validate:"required"`
	ExpYear        string  `json:"exp_year" validate:"required"`
	CSC            string  `json:"csc" validate:"required"`
	BillingAddress *string `json:"billing_address"`
}

func (s *BookingService) AddPaymentMethod(ctx context.Context, in NewCard) (domain.PaymentMethod, error) {
	u, err := s.user(ctx, in.Email)
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	digits := strings.ReplaceAll(strings.TrimSpace(in.CardNumber), " ", "")
	if len(digits) < 4 {
		return domain.PaymentMethod{}, fmt.Errorf("%w: card number too short", domain.ErrMalformedCriteria)
	}
	return s.repo.AddPaymentMethod(ctx, domain.PaymentMethod{
		UserID:         u.ID,
		CardType:       in.CardType,
		Cardholder:     in.Cardholder,
		Last4:          digits[len(digits)-4:],
		ExpMonth:       in.ExpMonth,
		ExpYear:        in.ExpYear,
		CSC:            in.CSC,
		BillingAddress: in.BillingAddress,
		CreatedAt:      s.now(),
	})
}

func (s *BookingService) PaymentMethods(ctx context.Context, email string) ([]domain.PaymentMethod, error) {
	u, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListPaymentMethods(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.PaymentMethod{}
	}
	return out, nil
}
