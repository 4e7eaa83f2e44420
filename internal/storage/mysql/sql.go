package mysql

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const userColumns = `
  id, username, email, password,
  first_name, last_name, phone, bio, dob, gender,
  accessibility_note, emergency_contact, address,
  is_verified, created_at`

const getUserByEmailSQL = `SELECT` + userColumns + `
FROM users
WHERE email = ?`

const usernameTakenSQL = `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`

const insertUserSQL = `
INSERT INTO users
  (username, email, password, first_name, last_name, phone, bio, dob, gender,
   accessibility_note, emergency_contact, address, is_verified, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateUserSQL = `
UPDATE users SET
  password           = ?,
  first_name         = ?,
  last_name          = ?,
  phone              = ?,
  bio                = ?,
  dob                = ?,
  gender             = ?,
  accessibility_note = ?,
  emergency_contact  = ?,
  address            = ?,
  is_verified        = ?
WHERE id = ?
`

// -----------------------------------------------------------------------------
// OTP
// -----------------------------------------------------------------------------

const deleteOTPByEmailSQL = `DELETE FROM otp_codes WHERE email = ?`

const insertOTPSQL = `
INSERT INTO otp_codes (email, code, otp_type, expires_at, is_used)
VALUES (?, ?, ?, ?, FALSE)
`

// Marks a matching code used; zero affected rows means invalid, used or expired.
const consumeOTPSQL = `
UPDATE otp_codes
SET is_used = TRUE
WHERE email = ? AND code = ? AND is_used = FALSE AND expires_at > ?
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO bookings (booking_type, item_id, details, price, user_id, session_id, booked_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const bookingColumns = `SELECT id, booking_type, item_id, details, price, user_id, session_id, booked_at FROM bookings`

const (
	listBookingsByUserSQL    = bookingColumns + ` WHERE user_id = ? ORDER BY booked_at DESC, id DESC`
	listBookingsBySessionSQL = bookingColumns + ` WHERE session_id = ? AND user_id IS NULL ORDER BY booked_at DESC, id DESC`
	listGuestBookingsSQL     = bookingColumns + ` WHERE user_id IS NULL ORDER BY booked_at DESC, id DESC`
)

// -----------------------------------------------------------------------------
// TRAVELERS / PAYMENT METHODS
// -----------------------------------------------------------------------------

const insertTravelerSQL = `
INSERT INTO travelers
  (user_id, name, frequent_flyer, membership, personal_info, flight_preference, passports, tsa_info, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listTravelersSQL = `
SELECT id, user_id, name, frequent_flyer, membership,
       personal_info, flight_preference, passports, tsa_info, created_at
FROM travelers
WHERE user_id = ?
ORDER BY id
`

const deleteTravelerSQL = `DELETE FROM travelers WHERE id = ? AND user_id = ?`

const insertPaymentSQL = `
INSERT INTO payment_methods
  (user_id, card_type, cardholder, last4, exp_month, exp_year, csc, billing_address, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listPaymentsSQL = `
SELECT id, user_id, card_type, cardholder, last4, exp_month, exp_year, csc, billing_address, created_at
FROM payment_methods
WHERE user_id = ?
ORDER BY id
`
