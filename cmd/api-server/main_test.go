package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jamesatitpong11/labflow-sub001/internal/database"
	"github.com/jamesatitpong11/labflow-sub001/internal/identifier"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
	"github.com/jamesatitpong11/labflow-sub001/internal/password"
	"github.com/jamesatitpong11/labflow-sub001/internal/ratelimit"
	"github.com/jamesatitpong11/labflow-sub001/internal/session"
	"github.com/jmoiron/sqlx"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sessionRows struct {
	mu   sync.Mutex
	rows map[string]model.Session
}

func (s *sessionRows) Replace(_ context.Context, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, row := range s.rows {
		if row.Username == sess.Username {
			delete(s.rows, k)
		}
	}
	s.rows[sess.Username+"/"+sess.SessionID] = sess
	return nil
}

func (s *sessionRows) Get(_ context.Context, username, sessionID string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.rows[username+"/"+sessionID]
	if !ok {
		return model.Session{}, model.NewError("session", model.ErrNotFound)
	}
	return sess, nil
}

func (s *sessionRows) Touch(_ context.Context, username, sessionID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.rows[username+"/"+sessionID]
	if !ok {
		return false, nil
	}
	sess.LastActivity = at
	s.rows[username+"/"+sessionID] = sess
	return true, nil
}

func (s *sessionRows) Delete(_ context.Context, username, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, username+"/"+sessionID)
	return nil
}

func (s *sessionRows) DeleteByUsername(_ context.Context, username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, sess := range s.rows {
		if sess.Username == username {
			delete(s.rows, k)
			n++
		}
	}
	return n, nil
}

func (s *sessionRows) DeleteInactive(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, sess := range s.rows {
		if sess.LastActivity.Before(before) {
			delete(s.rows, k)
			n++
		}
	}
	return n, nil
}

type userRows map[string]model.User

func (u userRows) GetByUsername(_ context.Context, username string) (model.User, error) {
	user, ok := u[username]
	if !ok {
		return model.User{}, model.NewError("user", model.ErrNotFound)
	}
	return user, nil
}

type testApp struct {
	*application
	mock  sqlmock.Sqlmock
	clock *testClock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		conn.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := database.Wrap(sqlx.NewDb(conn, "pgx"))

	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	clock := &testClock{now: time.Date(2024, time.March, 15, 10, 0, 0, 0, loc)}

	hash, err := password.Hash("wonderland", password.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := userRows{
		"alice": {Username: "alice", PasswordHash: hash, Name: "Alice", Role: _roleAdmin},
		"bob":   {Username: "bob", PasswordHash: hash, Name: "Bob", Role: _roleStaff},
	}

	var cfg config
	cfg.ids.location = loc
	cfg.ids.patient = identifier.Scheme{Era: identifier.EraBuddhist, Granularity: identifier.GranularityMonth, Location: loc}
	cfg.ids.visit = cfg.ids.patient
	cfg.auth.bcryptCost = password.MinCost

	app := &application{
		config: cfg,
		db:     db,
		logger: logger,
		sessions: session.NewManager(logger, &sessionRows{rows: make(map[string]model.Session)}, users,
			session.NewCache(16, session.DefaultTTL), session.Options{Now: clock.Now}),
		patientIDs: identifier.New(logger, database.NewPatientDAO(logger, db), identifier.Options{
			Entity: "patient",
			Scheme: cfg.ids.patient,
		}),
		visitIDs: identifier.New(logger, database.NewVisitDAO(logger, db), identifier.Options{
			Entity: "visit",
			Scheme: cfg.ids.visit,
		}),
		loginLimiter: ratelimit.NewIPRateLimiter(1, 2),
		now:          clock.Now,
	}

	return &testApp{application: app, mock: mock, clock: clock}
}

// login opens a session and returns the headers that authenticate as username.
func (ta *testApp) login(t *testing.T, username string) http.Header {
	t.Helper()

	sess, _, err := ta.sessions.Login(context.Background(), username, "wonderland", "test")
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}

	h := make(http.Header)
	h.Set(_headerSessionID, sess.SessionID)
	h.Set(_headerUsername, sess.Username)
	return h
}

func (ta *testApp) do(method, target, body string, headers http.Header) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, r)
	req.RemoteAddr = "192.0.2.10:4321"
	for k, v := range headers {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	ta.routes().ServeHTTP(rec, req)
	return rec
}
