package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"expedia_inspired/internal/app"
	"expedia_inspired/internal/catalog"
	"expedia_inspired/internal/domain"
)

type Handlers struct {
	Q        *app.QueryService
	Accounts *app.AccountService
	Bookings *app.BookingService
	// Creds lets a bearer token stand in for the email parameter.
	Creds    domain.Credentials
	Validate *validator.Validate
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.Validate == nil {
		h.Validate = validator.New()
	}
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Expedia Inspired API"})
	})
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	if h.Q != nil {
		h.mountInventory(s.mux)
	}
	if h.Accounts != nil {
		s.mux.Route("/auth", func(r chi.Router) {
			r.Post("/send-otp", h.sendOTP)
			r.Post("/verify-otp", h.verifyOTP)
			r.Get("/profile", h.getProfile)
			r.Put("/profile", h.updateProfile)
		})
	}
	if h.Bookings != nil {
		s.mux.Post("/bookings/create", h.createBooking)
		s.mux.Get("/bookings/list", h.listBookings)
		s.mux.Route("/travelers", func(r chi.Router) {
			r.Post("/", h.addTraveler)
			r.Get("/", h.listTravelers)
			r.Delete("/{id}", h.removeTraveler)
		})
		s.mux.Route("/payment-methods", func(r chi.Router) {
			r.Post("/", h.addPaymentMethod)
			r.Get("/", h.listPaymentMethods)
		})
	}
}

func (h *Handlers) mountInventory(m chi.Router) {
	for _, name := range catalog.Names() {
		m.Get("/"+name+"/search", h.search(name))
		m.Get("/"+name+"/details/{id}", h.details(name))
	}
	for _, rel := range []string{"reviews", "nearby", "availability"} {
		m.Get("/stays/{id}/"+rel, h.related(catalog.Stays, rel))
	}
	m.Get("/flights/status/{flight_number}", h.flightStatus)
	m.Get("/things-to-do/by-category", h.thingsByCategory)
	m.Get("/meta-ui/*", h.meta)
}

// ---------- inventory ----------

func (h *Handlers) search(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.Q.Search(r.Context(), name, r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *Handlers) details(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.Q.Details(r.Context(), name, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeCacheable(w, r, rec)
	}
}

func (h *Handlers) related(name, relation string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.Q.Related(r.Context(), name, relation, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeCacheable(w, r, rows)
	}
}

func (h *Handlers) flightStatus(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Q.FlightStatus(r.Context(), chi.URLParam(r, "flight_number"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) thingsByCategory(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Q.ThingsByCategory(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handlers) meta(w http.ResponseWriter, r *http.Request) {
	b, err := h.Q.Meta(r.Context(), strings.Trim(chi.URLParam(r, "*"), "/"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !json.Valid(b) {
		writeError(w, fmt.Errorf("%w: meta table is not valid JSON", domain.ErrSourceUnavailable))
		return
	}
	writeCacheable(w, r, json.RawMessage(b))
}

// ---------- auth ----------

type sendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	OTPCode string `json:"otp_code" validate:"required"`
}

type updateProfileRequest struct {
	Email             string  `json:"email" validate:"omitempty,email"`
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	Password          *string `json:"password"`
	Phone             *string `json:"phone"`
	Bio               *string `json:"bio"`
	DOB               *string `json:"dob"`
	Gender            *string `json:"gender"`
	AccessibilityNote *string `json:"accessibility_note"`
	EmergencyContact  *string `json:"emergency_contact"`
	Address           *string `json:"address"`
}

func (h *Handlers) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := decode(w, r, h.Validate, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Accounts.SendOTP(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decode(w, r, h.Validate, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Accounts.VerifyOTP(r.Context(), req.Email, req.OTPCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// callerEmail prefers the bearer token subject over the supplied email.
func (h *Handlers) callerEmail(r *http.Request, supplied string) (string, error) {
	if auth := r.Header.Get("Authorization"); auth != "" && h.Creds != nil {
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			return "", fmt.Errorf("%w: expected bearer token", domain.ErrUnauthorized)
		}
		return h.Creds.ParseToken(strings.TrimSpace(raw))
	}
	if strings.TrimSpace(supplied) == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrMalformedCriteria)
	}
	return supplied, nil
}

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	email, err := h.callerEmail(r, r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := h.Accounts.Profile(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decode(w, r, h.Validate, &req); err != nil {
		writeError(w, err)
		return
	}
	email, err := h.callerEmail(r, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := h.Accounts.UpdateProfile(r.Context(), email, domain.ProfilePatch{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Password:          req.Password,
		Phone:             req.Phone,
		Bio:               req.Bio,
		DOB:               req.DOB,
		Gender:            req.Gender,
		AccessibilityNote: req.AccessibilityNote,
		EmergencyContact:  req.EmergencyContact,
		Address:           req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Profile updated", "user": u})
}

// ---------- bookings ----------

type bookingRequest struct {
	BookingType string   `json:"booking_type" validate:"required"`
	ItemID      int64    `json:"item_id" validate:"required"`
	Details     *string  `json:"details"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	UserID      *int64   `json:"user_id"`
	SessionID   *string  `json:"session_id"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decode(w, r, h.Validate, &req); err != nil {
		writeError(w, err)
		return
	}
	b := domain.Booking{
		BookingType: req.BookingType,
		ItemID:      req.ItemID,
		Details:     req.Details,
		Price:       req.Price,
		UserID:      req.UserID,
		SessionID:   req.SessionID,
	}
	if b.UserID == nil && b.SessionID == nil {
		if sid := SessionID(r.Context()); sid != "" {
			b.SessionID = &sid
		}
	}
	out, err := h.Bookings.Create(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f domain.BookingFilter
	switch {
	case q.Get("user_id") != "":
		id, err := strconv.ParseInt(q.Get("user_id"), 10, 64)
		if err != nil {
			writeError(w, fmt.Errorf("%w: user_id must be an integer", domain.ErrMalformedCriteria))
			return
		}
		f.UserID = &id
	case q.Get("session_id") != "":
		sid := q.Get("session_id")
		f.SessionID = &sid
	default:
		if sid := SessionID(r.Context()); sid != "" {
			f.SessionID = &sid
		}
	}
	out, err := h.Bookings.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) addTraveler(w http.ResponseWriter, r *http.Request) {
	var req app.NewTraveler
	if err := decode(w, r, h.Validate, &req); err != nil {
		writeError(w, err)
		return
	}
	email, err := h.callerEmail(r, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	req.Email = email
	out, err := h.Bookings.AddTraveler(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listTravelers(w http.ResponseWriter, r *http.Request) {
	email, err := h.callerEmail(r, r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Bookings.Travelers(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) removeTraveler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	email, err := h.callerEmail(r, r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Bookings.RemoveTraveler(r.Context(), email, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Traveler removed"})
}

func (h *Handlers) addPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req app.NewCard
	if err := decode(w, r, h.Validate, &req); err != nil {
		writeError(w, err)
		return
	}
	email, err := h.callerEmail(r, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	req.Email = email
	out, err := h.Bookings.AddPaymentMethod(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listPaymentMethods(w http.ResponseWriter, r *http.Request) {
	email, err := h.callerEmail(r, r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Bookings.PaymentMethods(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
