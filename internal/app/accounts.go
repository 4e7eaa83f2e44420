package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	"expedia_inspired/internal/domain"
)

const (
	defaultOTPExpiry = 10 * time.Minute
	otpKind          = "unified"
	autoRegisterPass = "temp_password"
)

type AccountConfig struct {
	// DevMode echoes the code in the send-otp response.
	DevMode bool
	// StaticOTP, when set, replaces the random six digit code.
	StaticOTP string
	// PhoneRegion is the default region for numbers without a country code.
	PhoneRegion string
	OTPExpiry   time.Duration
}

type AccountService struct {
	repo  domain.AccountRepository
	mail  domain.Mailer
	creds domain.Credentials
	cfg   AccountConfig
	now   func() time.Time
}

func NewAccountService(r domain.AccountRepository, m domain.Mailer, c domain.Credentials, cfg AccountConfig) *AccountService {
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = "US"
	}
	if cfg.OTPExpiry <= 0 {
		cfg.OTPExpiry = defaultOTPExpiry
	}
	return &AccountService{repo: r, mail: m, creds: c, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

type OTPSent struct {
	Message          string `json:"message"`
	Email            string `json:"email"`
	OTPCode          string `json:"otp_code,omitempty"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
	ActionType       string `json:"action_type"`
	UserExists       bool   `json:"user_exists"`
}

type Login struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
	ActionType  string      `json:"action_type"`
	Message     string      `json:"message"`
}

func (s *AccountService) findUser(ctx context.Context, email string) (domain.User, bool, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return u, true, nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.User{}, false, nil
	default:
		return domain.User{}, false, err
	}
}

func (s *AccountService) newCode() (string, error) {
	if s.cfg.StaticOTP != "" {
		return s.cfg.StaticOTP, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendOTP replaces any pending code for email and mails a new one.
func (s *AccountService) SendOTP(ctx context.Context, email string) (OTPSent, error) {
	email = strings.TrimSpace(email)
	_, exists, err := s.findUser(ctx, email)
	if err != nil {
		return OTPSent{}, err
	}
	code, err := s.newCode()
	if err != nil {
		return OTPSent{}, err
	}
	if err := s.repo.ReplaceOTP(ctx, domain.OTPCode{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.cfg.OTPExpiry),
		Kind:      otpKind,
	}); err != nil {
		return OTPSent{}, err
	}

	action, purpose := "registration", domain.PurposeSignup
	if exists {
		action, purpose = "login", domain.PurposeLogin
	}
	if err := s.mail.SendOTP(ctx, email, code, purpose); err != nil {
		return OTPSent{}, fmt.Errorf("send otp: %w", err)
	}

	out := OTPSent{
		Message:          fmt.Sprintf("OTP sent to %s for %s", email, action),
		Email:            email,
		ExpiresInMinutes: int(s.cfg.OTPExpiry.Minutes()),
		ActionType:       action,
		UserExists:       exists,
	}
	if s.cfg.DevMode {
		out.OTPCode = code
	}
	return out, nil
}

// VerifyOTP consumes a code and logs the user in, registering unknown emails.
func (s *AccountService) VerifyOTP(ctx context.Context, email, code string) (Login, error) {
	email = strings.TrimSpace(email)
	if err := s.repo.ConsumeOTP(ctx, email, strings.TrimSpace(code), s.now()); err != nil {
		return Login{}, err
	}

	u, exists, err := s.findUser(ctx, email)
	if err != nil {
		return Login{}, err
	}
	action, msg := "login", "Login successful"
	if exists {
		if !u.IsVerified {
			u.IsVerified = true
			if err := s.repo.UpdateUser(ctx, u); err != nil {
				return Login{}, err
			}
		}
	} else {
		if u, err = s.register(ctx, email); err != nil {
			return Login{}, err
		}
		action, msg = "registration", "Auto-registration and login successful"
	}

	token, err := s.creds.IssueToken(u.Email)
	if err != nil {
		return Login{}, err
	}
	log.Info().Int64("user_id", u.ID).Str("action", action).Msg("otp verified")
	return Login{AccessToken: token, TokenType: "bearer", User: u, ActionType: action, Message: msg}, nil
}

func (s *AccountService) register(ctx context.Context, email string) (domain.User, error) {
	name, err := s.uniqueUsername(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	hash, err := s.creds.HashPassword(autoRegisterPass)
	if err != nil {
		return domain.User{}, err
	}
	return s.repo.CreateUser(ctx, domain.User{
		Username:     name,
		Email:        email,
		PasswordHash: hash,
		IsVerified:   true,
		CreatedAt:    s.now(),
	})
}

// uniqueUsername tries the email local part, then local_1, local_2, ...
func (s *AccountService) uniqueUsername(ctx context.Context, email string) (string, error) {
	base, _, _ := strings.Cut(email, "@")
	candidate := base
	for i := 1; ; i++ {
		taken, err := s.repo.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

func (s *AccountService) Profile(ctx context.Context, email string) (domain.User, error) {
	return s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
}

// UpdateProfile applies the non-nil fields of p. Blank values clear a field;
// a blank password is ignored.
func (s *AccountService) UpdateProfile(ctx context.Context, email string, p domain.ProfilePatch) (domain.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return domain.User{}, err
	}

	updated := false
	set := func(dst **string, v *string) {
		if v == nil {
			return
		}
		updated = true
		t := strings.TrimSpace(*v)
		if t == "" {
			*dst = nil
			return
		}
		*dst = &t
	}
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.Phone, p.Phone)
	set(&u.Bio, p.Bio)
	set(&u.DOB, p.DOB)
	set(&u.Gender, p.Gender)
	set(&u.AccessibilityNote, p.AccessibilityNote)
	set(&u.EmergencyContact, p.EmergencyContact)
	set(&u.Address, p.Address)

	if u.Phone != nil {
		e164 := normalizePhone(*u.Phone, s.cfg.PhoneRegion)
		u.Phone = &e164
	}
	if p.Password != nil && strings.TrimSpace(*p.Password) != "" {
		hash, err := s.creds.HashPassword(*p.Password)
		if err != nil {
			return domain.User{}, err
		}
		u.PasswordHash = hash
		updated = true
	}
	if !updated {
		return domain.User{}, domain.ErrNoFieldsToUpdate
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// normalizePhone formats to E.164 when the number parses and is valid,
// otherwise returns the input unchanged.
func normalizePhone(in, region string) string {
	num, err := phonenumbers.Parse(in, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return in
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
