package app_test

import (
	"context"
	"errors"
	"testing"

	"expedia_inspired/internal/app"
	"expedia_inspired/internal/domain"
)

func TestBookings_ListByOwner(t *testing.T) {
	repo := &memAccounts{}
	svc := app.NewBookingService(repo)
	ctx := context.Background()

	uid := int64(7)
	for _, b := range []domain.Booking{
		{BookingType: "car", ItemID: 10001, UserID: &uid},
		{BookingType: "stay", ItemID: 1, SessionID: ptr("sess-a")},
		{BookingType: "flight", ItemID: 2, SessionID: ptr("sess-b")},
	} {
		got, err := svc.Create(ctx, b)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if got.BookedAt.IsZero() {
			t.Fatalf("booked_at not set")
		}
	}

	mine, _ := svc.List(ctx, domain.BookingFilter{UserID: &uid, SessionID: ptr("sess-a")})
	if len(mine) != 1 || mine[0].BookingType != "car" {
		t.Fatalf("user id should win over session: %+v", mine)
	}
	sess, _ := svc.List(ctx, domain.BookingFilter{SessionID: ptr("sess-b")})
	if len(sess) != 1 || sess[0].BookingType != "flight" {
		t.Fatalf("session: %+v", sess)
	}
	guests, _ := svc.List(ctx, domain.BookingFilter{})
	if len(guests) != 2 {
		t.Fatalf("guest bookings: %+v", guests)
	}
	none, err := svc.List(ctx, domain.BookingFilter{SessionID: ptr("nobody")})
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil list, got %+v %v", none, err)
	}
}

func TestTravelers_DefaultsAndRemove(t *testing.T) {
	repo := &memAccounts{}
	repo.users = append(repo.users, domain.User{ID: 100, Email: "sam@example.com"})
	svc := app.NewBookingService(repo)
	ctx := context.Background()

	tr, err := svc.AddTraveler(ctx, app.NewTraveler{Email: "sam@example.com", Name: "Sam Doe", Membership: ptr("Silver")})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if *tr.FrequentFlyer != "AA123456" || *tr.Membership != "Silver" {
		t.Fatalf("unexpected loyalty fields: %v %v", *tr.FrequentFlyer, *tr.Membership)
	}
	if string(tr.Passports) == "" || string(tr.TSAInfo) == "" || tr.UserID != 100 {
		t.Fatalf("defaults not applied: %+v", tr)
	}

	list, _ := svc.Travelers(ctx, "sam@example.com")
	if len(list) != 1 {
		t.Fatalf("travelers: %+v", list)
	}
	if err := svc.RemoveTraveler(ctx, "sam@example.com", tr.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveTraveler(ctx, "sam@example.com", tr.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second remove: %v", err)
	}
	if _, err := svc.Travelers(ctx, "ghost@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user: %v", err)
	}
}

func TestPaymentMethods_KeepLast4(t *testing.T) {
	repo := &memAccounts{}
	repo.users = append(repo.users, domain.User{ID: 5, Email: "sam@example.com"})
	svc := app.NewBookingService(repo)
	ctx := context.Background()

	pm, err := svc.AddPaymentMethod(ctx, app.NewCard{
		Email: "sam@example.com", CardType: "visa", Cardholder: "Sam Doe",
		CardNumber: "4111 1111 1111 1234", ExpMonth: "12", ExpYear: "2030", CSC: "123",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if pm.Last4 != "1234" {
		t.Fatalf("last4: %q", pm.Last4)
	}
	if _, err := svc.AddPaymentMethod(ctx, app.NewCard{Email: "sam@example.com", CardNumber: " 12 "}); !errors.Is(err, domain.ErrMalformedCriteria) {
		t.Fatalf("short number: %v", err)
	}
	cards, _ := svc.PaymentMethods(ctx, "sam@example.com")
	if len(cards) != 1 {
		t.Fatalf("cards: %+v", cards)
	}
}
