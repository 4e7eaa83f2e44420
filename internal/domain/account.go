package domain

import (
	"encoding/json"
	"time"
)

type User struct {
	ID                int64     `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	FirstName         *string   `json:"first_name"`
	LastName          *string   `json:"last_name"`
	Phone             *string   `json:"phone"`
	Bio               *string   `json:"bio"`
	DOB               *string   `json:"dob"`
	Gender            *string   `json:"gender"`
	AccessibilityNote *string   `json:"accessibility_note"`
	EmergencyContact  *string   `json:"emergency_contact"`
	Address           *string   `json:"address"`
	IsVerified        bool      `json:"is_verified"`
	CreatedAt         time.Time `json:"created_at"`
}

type OTPCode struct {
	ID        int64
	Email     string
	Code      string
	ExpiresAt time.Time
	Used      bool
	Kind      string
}

// ProfilePatch carries optional profile fields; nil means unchanged.
type ProfilePatch struct {
	FirstName         *string
	LastName          *string
	Password          *string
	Phone             *string
	Bio               *string
	DOB               *string
	Gender            *string
	AccessibilityNote *string
	EmergencyContact  *string
	Address           *string
}

type Booking struct {
	ID          int64     `json:"id"`
	BookingType string    `json:"booking_type"`
	ItemID      int64     `json:"item_id"`
	Details     *string   `json:"details"`
	Price       *float64  `json:"price"`
	UserID      *int64    `json:"user_id"`
	SessionID   *string   `json:"session_id"`
	BookedAt    time.Time `json:"booked_at"`
}

// BookingFilter selects bookings by owner. With both fields nil every guest booking matches.
type BookingFilter struct {
	UserID    *int64
	SessionID *string
}

type Traveler struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"-"`
	Name             string          `json:"name"`
	FrequentFlyer    *string         `json:"frequent_flyer"`
	Membership       *string         `json:"membership"`
	PersonalInfo     json.RawMessage `json:"personal_info"`
	FlightPreference json.RawMessage `json:"flight_preference"`
	Passports        json.RawMessage `json:"passports"`
	TSAInfo          json.RawMessage `json:"tsa_info"`
	CreatedAt        time.Time       `json:"created_at"`
}

type PaymentMethod struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"-"`
	CardType       string    `json:"card_type"`
	Cardholder     string    `json:"cardholder"`
	Last4          string    `json:"last4"`
	ExpMonth       string    `json:"exp_month"`
	ExpYear        string    `json:"exp_year"`
	CSC            string    `json:"csc"`
	BillingAddress *string   `json:"billing_address"`
	CreatedAt      time.Time `json:"created_at"`
}
