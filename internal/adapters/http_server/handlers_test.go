package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "expedia_inspired/internal/adapters/http_server"
	"expedia_inspired/internal/app"
	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/storage/jsonfs"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func newTestServer(t *testing.T, opt server.Options) (http.Handler, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "cars/cars_search.json", `[
		{"id": 10001, "car_type": "suv", "price": {"total": 80}, "capacity": {"seats": 7}},
		{"id": 10002, "car_type": "economy", "price": {"total": 30}, "capacity": {"seats": 4}}
	]`)
	writeFile(t, root, "cars/car_details.json", `[{"id": 10001, "car_model": "Ford Explorer"}]`)
	writeFile(t, root, "stays/stays_reviews.json", `[{"id": "r1", "stay_id": "stay-10000"}]`)
	writeFile(t, root, "meta-ui/currencies.json", `["USD", "EUR"]`)
	writeFile(t, root, "things_to_do/things_to_do_search.json", `{"things_to_do": [
		{"id": "ttd-1", "name": "Museum tour", "category": "Culture", "location": "Paris, France", "available_dates": ["2025-03-01"]}
	]}`)

	q := app.NewQueryService(jsonfs.New(root), nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := server.New(ctx, opt)
	srv.MountHandlers(&server.Handlers{
		Q:        q,
		Accounts: app.NewAccountService(nil, nil, nil, app.AccountConfig{}),
	})
	return srv.Mux(), root
}

func get(h http.Handler, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRootAndHealth(t *testing.T) {
	h, _ := newTestServer(t, server.Options{})

	rr := get(h, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Welcome to Expedia Inspired API"}`, rr.Body.String())

	rr = get(h, "/healthz", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
}

func TestSearch_FiltersAndSorts(t *testing.T) {
	h, _ := newTestServer(t, server.Options{})

	rr := get(h, "/cars/search?seats_min=5&sort_by=price_asc", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		Count int              `json:"count"`
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Count)
	assert.EqualValues(t, 10001, res.Items[0]["id"])

	rr = get(h, "/cars/search?car_type=convertible", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":0,"items":[]}`, rr.Body.String())
}

func TestSearch_ErrorMapping(t *testing.T) {
	h, _ := newTestServer(t, server.Options{})

	rr := get(h, "/cars/search?price_min=cheap", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	rr = get(h, "/cruises/search?departure_date=2025-01-01", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = get(h, "/things-to-do/search", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "location and date are required")

	rr = get(h, "/spaceships/search", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDetails_ETagAnd304(t *testing.T) {
	h, _ := newTestServer(t, server.Options{})

	rr := get(h, "/cars/details/10001", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	etag := rr.Header().Get("ETag")
	require.True(t, strings.HasPrefix(etag, `W/"`))
	assert.Contains(t, rr.Body.String(), "Ford Explorer")

	rr = get(h, "/cars/details/10001", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = get(h, "/cars/details/99999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	var p map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.EqualValues(t, 404, p["status"])
}

func TestRelatedMetaAndCategories(t *testing.T) {
	h, _ := newTestServer(t, server.Options{})

	rr := get(h, "/stays/stay-10000/reviews", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":"r1","stay_id":"stay-10000"}]`, rr.Body.String())

	rr = get(h, "/stays/stay-404/reviews", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = get(h, "/meta-ui/currencies", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["USD","EUR"]`, rr.Body.String())

	rr = get(h, "/meta-ui/planets", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = get(h, "/things-to-do/by-category?category=culture", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"category":"Culture"`)
}

func TestSessionCookieIsIssuedAndKept(t *testing.T) {
	h, _ := newTestServer(t, server.Options{})

	rr := get(h, "/healthz", nil)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "session_id", c.Name)
	assert.Len(t, c.Value, 36)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 30*24*60*60, c.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "existing"})
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	assert.Equal(t, "existing", rr2.Result().Cookies()[0].Value)
}

func TestRateLimitPerClient(t *testing.T) {
	h, _ := newTestServer(t, server.Options{RateRPS: 0.001, RateBurst: 2})

	from := func(addr, xff string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = addr
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, from("203.0.113.7:5000", "").Code)
	assert.Equal(t, http.StatusOK, from("203.0.113.7:5001", "").Code)
	rr := from("203.0.113.7:5002", "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))

	// a forged forwarding header does not open a fresh bucket
	assert.Equal(t, http.StatusTooManyRequests, from("203.0.113.7:5003", "10.9.8.7").Code)

	assert.Equal(t, http.StatusOK, from("198.51.100.1:6000", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t, server.Options{CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/cars/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = get(h, "/healthz", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestSendOTP_ValidatesBody(t *testing.T) {
	h, _ := newTestServer(t, server.Options{})

	for _, body := range []string{`{"email": "not-an-email"}`, `{}`, `{"email":`} {
		req := httptest.NewRequest(http.MethodPost, "/auth/send-otp", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

// accountsRepo serves one known user and records what gets stored.
type accountsRepo struct {
	domain.AccountRepository
	user     domain.User
	traveler domain.Traveler
	card     domain.PaymentMethod
}

func (r *accountsRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	if email != r.user.Email {
		return domain.User{}, domain.ErrNotFound
	}
	return r.user, nil
}

func (r *accountsRepo) AddTraveler(_ context.Context, tr domain.Traveler) (domain.Traveler, error) {
	tr.ID = 1
	r.traveler = tr
	return tr, nil
}

func (r *accountsRepo) AddPaymentMethod(_ context.Context, pm domain.PaymentMethod) (domain.PaymentMethod, error) {
	pm.ID = 1
	r.card = pm
	return pm, nil
}

// bearerCreds accepts "tok:<email>".
type bearerCreds struct{}

func (bearerCreds) HashPassword(p string) (string, error) { return p, nil }
func (bearerCreds) IssueToken(sub string) (string, error) { return "tok:" + sub, nil }
func (bearerCreds) ParseToken(raw string) (string, error) {
	sub, ok := strings.CutPrefix(raw, "tok:")
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return sub, nil
}

func TestAddTravelerAndCard_BearerTokenPicksTheUser(t *testing.T) {
	repo := &accountsRepo{user: domain.User{ID: 7, Email: "sam@example.com"}}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv := server.New(ctx, server.Options{})
	srv.MountHandlers(&server.Handlers{Bookings: app.NewBookingService(repo), Creds: bearerCreds{}})
	h := srv.Mux()

	post := func(path, bearer, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	rr := post("/travelers/", "tok:sam@example.com", `{"name": "Sam Doe"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.EqualValues(t, 7, repo.traveler.UserID)

	// the token wins over a body email
	rr = post("/payment-methods/", "tok:sam@example.com", `{"email": "other@example.com",
		"card_type": "visa", "cardholder": "Sam Doe", "card_number": "4111 1111 1111 1234",
		"exp_month": "12", "exp_year": "2030", "csc": "123"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.EqualValues(t, 7, repo.card.UserID)
	assert.Equal(t, "1234", repo.card.Last4)

	rr = post("/travelers/", "", `{"name": "Sam Doe"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = post("/travelers/", "garbage", `{"name": "Sam Doe"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
