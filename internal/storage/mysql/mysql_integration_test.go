//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"expedia_inspired/internal/domain"
	mysqlrepo "expedia_inspired/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint64(i int64) *int64     { return &i }
func pfloat(f float64) *float64 { return &f }

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=expedia",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "expedia")

	pool.MaxWait = 2 * time.Minute
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = mysqlrepo.Open(context.Background(), dsn)
		return e
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := mysqlrepo.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// ---------- the test ----------
func TestRepo_MySQL_AccountsAndBookings(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	// users
	u, err := repo.CreateUser(ctx, domain.User{Username: "jane", Email: "jane@example.com", PasswordHash: "h", IsVerified: true, CreatedAt: now})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if _, err := repo.CreateUser(ctx, domain.User{Username: "jane2", Email: "jane@example.com", PasswordHash: "h", CreatedAt: now}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate email: %v", err)
	}
	if taken, err := repo.UsernameTaken(ctx, "jane"); err != nil || !taken {
		t.Fatalf("UsernameTaken: %v %v", taken, err)
	}

	u.Phone = pstr("+16502530000")
	if err := repo.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if err := repo.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser unchanged: %v", err)
	}
	got, err := repo.GetUserByEmail(ctx, "jane@example.com")
	if err != nil || got.Phone == nil || *got.Phone != "+16502530000" || got.FirstName != nil {
		t.Fatalf("GetUserByEmail: %+v %v", got, err)
	}
	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing user: %v", err)
	}

	// otp
	otp := domain.OTPCode{Email: "jane@example.com", Code: "111111", ExpiresAt: now.Add(10 * time.Minute), Kind: "unified"}
	if err := repo.ReplaceOTP(ctx, otp); err != nil {
		t.Fatalf("ReplaceOTP: %v", err)
	}
	otp.Code = "222222"
	if err := repo.ReplaceOTP(ctx, otp); err != nil {
		t.Fatalf("ReplaceOTP again: %v", err)
	}
	if err := repo.ConsumeOTP(ctx, "jane@example.com", "111111", now); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("replaced code should be gone: %v", err)
	}
	if err := repo.ConsumeOTP(ctx, "jane@example.com", "222222", now.Add(11*time.Minute)); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expired code: %v", err)
	}
	if err := repo.ConsumeOTP(ctx, "jane@example.com", "222222", now); err != nil {
		t.Fatalf("ConsumeOTP: %v", err)
	}
	if err := repo.ConsumeOTP(ctx, "jane@example.com", "222222", now); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("reuse: %v", err)
	}

	// bookings
	for _, b := range []domain.Booking{
		{BookingType: "car", ItemID: 10001, Price: pfloat(42.5), UserID: pint64(u.ID), BookedAt: now},
		{BookingType: "stay", ItemID: 3, SessionID: pstr("sess-a"), BookedAt: now},
		{BookingType: "flight", ItemID: 9, Details: pstr(`{"seat":"12A"}`), SessionID: pstr("sess-b"), BookedAt: now},
	} {
		if _, err := repo.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}
	mine, _ := repo.ListBookings(ctx, domain.BookingFilter{UserID: pint64(u.ID)})
	if len(mine) != 1 || mine[0].Price == nil || *mine[0].Price != 42.5 {
		t.Fatalf("user bookings: %+v", mine)
	}
	sess, _ := repo.ListBookings(ctx, domain.BookingFilter{SessionID: pstr("sess-b")})
	if len(sess) != 1 || sess[0].Details == nil {
		t.Fatalf("session bookings: %+v", sess)
	}
	guests, _ := repo.ListBookings(ctx, domain.BookingFilter{})
	if len(guests) != 2 {
		t.Fatalf("guest bookings: %+v", guests)
	}

	// travelers and payment methods
	tr, err := repo.AddTraveler(ctx, domain.Traveler{
		UserID: u.ID, Name: "Jane Doe", Membership: pstr("Gold"),
		Passports: json.RawMessage(`[{"number":"X1"}]`), CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("AddTraveler: %v", err)
	}
	list, _ := repo.ListTravelers(ctx, u.ID)
	if len(list) != 1 || list[0].PersonalInfo != nil || len(list[0].Passports) == 0 {
		t.Fatalf("ListTravelers: %+v", list)
	}
	if err := repo.DeleteTraveler(ctx, u.ID+1, tr.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("delete of another user's traveler: %v", err)
	}
	if err := repo.DeleteTraveler(ctx, u.ID, tr.ID); err != nil {
		t.Fatalf("DeleteTraveler: %v", err)
	}

	if _, err := repo.AddPaymentMethod(ctx, domain.PaymentMethod{
		UserID: u.ID, CardType: "visa", Cardholder: "Jane", Last4: "1234",
		ExpMonth: "12", ExpYear: "2030", CSC: "123", CreatedAt: now,
	}); err != nil {
		t.Fatalf("AddPaymentMethod: %v", err)
	}
	cards, _ := repo.ListPaymentMethods(ctx, u.ID)
	if len(cards) != 1 || cards[0].Last4 != "1234" || cards[0].BillingAddress != nil {
		t.Fatalf("ListPaymentMethods: %+v", cards)
	}
}
