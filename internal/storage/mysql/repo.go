package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"expedia_inspired/internal/domain"
)

var _ domain.AccountRepository = (*Repo)(nil)

const errDuplicateEntry = 1062

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b json.RawMessage) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return append(json.RawMessage(nil), b...)
}

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects with pool limits suited to a small API and checks the link.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ---------- users ----------

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var (
		u                                    domain.User
		first, last, phone, bio, dob, gender sql.NullString
		accessibility, emergency, address    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getUserByEmailSQL, email).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&first, &last, &phone, &bio, &dob, &gender,
		&accessibility, &emergency, &address,
		&u.IsVerified, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	if err != nil {
		return domain.User{}, err
	}
	u.FirstName, u.LastName, u.Phone = strPtr(first), strPtr(last), strPtr(phone)
	u.Bio, u.DOB, u.Gender = strPtr(bio), strPtr(dob), strPtr(gender)
	u.AccessibilityNote, u.EmergencyContact, u.Address = strPtr(accessibility), strPtr(emergency), strPtr(address)
	return u, nil
}

func (r *Repo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx, usernameTakenSQL, username).Scan(&taken)
	return taken, err
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Username, u.Email, u.PasswordHash,
		valStr(u.FirstName), valStr(u.LastName), valStr(u.Phone), valStr(u.Bio),
		valStr(u.DOB), valStr(u.Gender), valStr(u.AccessibilityNote),
		valStr(u.EmergencyContact), valStr(u.Address),
		u.IsVerified, u.CreatedAt,
	)
	if isDuplicate(err) {
		return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrAlreadyExists, u.Email)
	}
	if err != nil {
		return domain.User{}, err
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, updateUserSQL,
		u.PasswordHash,
		valStr(u.FirstName), valStr(u.LastName), valStr(u.Phone), valStr(u.Bio),
		valStr(u.DOB), valStr(u.Gender), valStr(u.AccessibilityNote),
		valStr(u.EmergencyContact), valStr(u.Address),
		u.IsVerified, u.ID,
	)
	if err != nil {
		return err
	}
	// unchanged rows report 0 affected
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, u.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, u.ID)
		}
	}
	return nil
}

// ---------- otp ----------

func (r *Repo) ReplaceOTP(ctx context.Context, otp domain.OTPCode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteOTPByEmailSQL, otp.Email); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, insertOTPSQL, otp.Email, otp.Code, otp.Kind, otp.ExpiresAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) ConsumeOTP(ctx context.Context, email, code string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, consumeOTPSQL, email, code, now)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInvalidOTP
	}
	return nil
}

// ---------- bookings ----------

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	res, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.BookingType, b.ItemID, valStr(b.Details), valF64(b.Price),
		valInt64(b.UserID), valStr(b.SessionID), b.BookedAt,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *Repo) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	var (
		rows *sql.Rows
		err  error
	)
	switch {
	case f.UserID != nil:
		rows, err = r.db.QueryContext(ctx, listBookingsByUserSQL, *f.UserID)
	case f.SessionID != nil:
		rows, err = r.db.QueryContext(ctx, listBookingsBySessionSQL, *f.SessionID)
	default:
		rows, err = r.db.QueryContext(ctx, listGuestBookingsSQL)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		var (
			b         domain.Booking
			details   sql.NullString
			price     sql.NullFloat64
			userID    sql.NullInt64
			sessionID sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.BookingType, &b.ItemID, &details, &price, &userID, &sessionID, &b.BookedAt); err != nil {
			return nil, err
		}
		b.Details, b.SessionID = strPtr(details), strPtr(sessionID)
		if price.Valid {
			p := price.Float64
			b.Price = &p
		}
		if userID.Valid {
			id := userID.Int64
			b.UserID = &id
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ---------- travelers ----------

func (r *Repo) AddTraveler(ctx context.Context, t domain.Traveler) (domain.Traveler, error) {
	res, err := r.db.ExecContext(ctx, insertTravelerSQL,
		t.UserID, t.Name, valStr(t.FrequentFlyer), valStr(t.Membership),
		valJSON(t.PersonalInfo), valJSON(t.FlightPreference), valJSON(t.Passports), valJSON(t.TSAInfo),
		t.CreatedAt,
	)
	if err != nil {
		return domain.Traveler{}, err
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return domain.Traveler{}, err
	}
	return t, nil
}

func (r *Repo) ListTravelers(ctx context.Context, userID int64) ([]domain.Traveler, error) {
	rows, err := r.db.QueryContext(ctx, listTravelersSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Traveler{}
	for rows.Next() {
		var (
			t                         domain.Traveler
			ff, membership            sql.NullString
			personal, pref, pass, tsa []byte
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &ff, &membership, &personal, &pref, &pass, &tsa, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.FrequentFlyer, t.Membership = strPtr(ff), strPtr(membership)
		t.PersonalInfo, t.FlightPreference = rawJSON(personal), rawJSON(pref)
		t.Passports, t.TSAInfo = rawJSON(pass), rawJSON(tsa)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteTraveler(ctx context.Context, userID, travelerID int64) error {
	res, err := r.db.ExecContext(ctx, deleteTravelerSQL, travelerID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: traveler %d", domain.ErrNotFound, travelerID)
	}
	return nil
}

// ---------- payment methods ----------

func (r *Repo) AddPaymentMethod(ctx context.Context, pm domain.PaymentMethod) (domain.PaymentMethod, error) {
	res, err := r.db.ExecContext(ctx, insertPaymentSQL,
		pm.UserID, pm.CardType, pm.Cardholder, pm.Last4, pm.ExpMonth, pm.ExpYear, pm.CSC,
		valStr(pm.BillingAddress), pm.CreatedAt,
	)
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	if pm.ID, err = res.LastInsertId(); err != nil {
		return domain.PaymentMethod{}, err
	}
	return pm, nil
}

func (r *Repo) ListPaymentMethods(ctx context.Context, userID int64) ([]domain.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx, listPaymentsSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.PaymentMethod{}
	for rows.Next() {
		var (
			pm      domain.PaymentMethod
			billing sql.NullString
		)
		if err := rows.Scan(&pm.ID, &pm.UserID, &pm.CardType, &pm.Cardholder, &pm.Last4,
			&pm.ExpMonth, &pm.ExpYear, &pm.CSC, &billing, &pm.CreatedAt); err != nil {
			return nil, err
		}
		pm.BillingAddress = strPtr(billing)
		out = append(out, pm)
	}
	return out, rows.Err()
}
