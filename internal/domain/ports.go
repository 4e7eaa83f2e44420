package domain

import (
	"context"
	"time"
)

// CorpusStore reads and writes the JSON fixture corpus.
type CorpusStore interface {
	Load(ctx context.Context, ref FileRef) ([]Record, error)
	LoadRaw(ctx context.Context, dir, name string) ([]byte, error)
	WriteAll(ctx context.Context, blobs []Blob) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) (int, error)
}

type AccountRepository interface {
	// Users
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, u User) (User, error)
	UpdateUser(ctx context.Context, u User) error

	// OTP
	ReplaceOTP(ctx context.Context, otp OTPCode) error
	ConsumeOTP(ctx context.Context, email, code string, now time.Time) error

	// Bookings
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]Booking, error)

	// Travelers and payment methods
	AddTraveler(ctx context.Context, t Traveler) (Traveler, error)
	ListTravelers(ctx context.Context, userID int64) ([]Traveler, error)
	DeleteTraveler(ctx context.Context, userID, travelerID int64) error
	AddPaymentMethod(ctx context.Context, pm PaymentMethod) (PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, userID int64) ([]PaymentMethod, error)
}

// OTPPurpose selects the mail template.
type OTPPurpose string

const (
	PurposeSignup        OTPPurpose = "signup"
	PurposeLogin         OTPPurpose = "login"
	PurposePasswordReset OTPPurpose = "password_reset"
)

type Mailer interface {
	SendOTP(ctx context.Context, to, code string, purpose OTPPurpose) error
}

type Credentials interface {
	HashPassword(password string) (string, error)
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
}
