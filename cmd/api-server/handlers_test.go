package main

import (
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var _patientColumns = []string{
	"id", "created_at", "updated_at", "deleted_at", "ln", "id_card",
	"title", "first_name", "last_name", "gender", "birth_date", "phone", "address",
}

func expectPatientBucket(mock sqlmock.Sqlmock, prefix string, lns ...string) {
	rows := sqlmock.NewRows([]string{"ln"})
	for _, ln := range lns {
		rows.AddRow(ln)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT ln FROM patients WHERE ln LIKE $1")).
		WithArgs(prefix + "%").
		WillReturnRows(rows)
}

func expectPatientExists(mock sqlmock.Sqlmock, ln string, exists bool) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE ln = $1")).
		WithArgs(ln).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestHandleNextLN(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	expectPatientBucket(ta.mock, "6703", "67030001", "67030002", "67030003")
	expectPatientExists(ta.mock, "67030004", false)

	rec := ta.do(http.MethodGet, "/api/v1/patients/next-ln", "", headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec.Body.Bytes())
	if body["id"] != "67030004" {
		t.Errorf("id = %v, want 67030004", body["id"])
	}
	if body["scheme"] != "buddhist/month" {
		t.Errorf("scheme = %v, want buddhist/month", body["scheme"])
	}
}

func TestHandleNextLNForDate(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	expectPatientBucket(ta.mock, "6612")
	expectPatientExists(ta.mock, "66120001", false)

	rec := ta.do(http.MethodGet, "/api/v1/patients/next-ln?date=2023-12-31", "", headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if got := decodeBody(t, rec.Body.Bytes())["id"]; got != "66120001" {
		t.Errorf("id = %v, want 66120001", got)
	}
}

func TestHandleNextLNBadDate(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	rec := ta.do(http.MethodGet, "/api/v1/patients/next-ln?date=15/03/2024", "", headers)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleAddPatient(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	expectPatientBucket(ta.mock, "6703", "67030001", "67030002", "67030003")
	expectPatientExists(ta.mock, "67030004", false)
	ta.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	now := time.Now()
	ta.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM patients WHERE")).
		WithArgs("67030004").
		WillReturnRows(sqlmock.NewRows(_patientColumns).
			AddRow(4, now, now, nil, "67030004", nil, "", "Somchai", "Jaidee", "male", nil, "", ""))

	rec := ta.do(http.MethodPost, "/api/v1/patients",
		`{"firstName":"Somchai","lastName":"Jaidee","gender":"male"}`, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	patient, _ := decodeBody(t, rec.Body.Bytes())["patient"].(map[string]any)
	if patient["ln"] != "67030004" {
		t.Errorf("ln = %v, want 67030004", patient["ln"])
	}
}

func TestHandleAddPatientRetriesTakenLN(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	expectPatientBucket(ta.mock, "6703", "67030001")
	expectPatientExists(ta.mock, "67030002", false)
	ta.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "patients_ln_key"})

	expectPatientBucket(ta.mock, "6703", "67030001", "67030002")
	expectPatientExists(ta.mock, "67030003", false)
	ta.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	now := time.Now()
	ta.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM patients WHERE")).
		WithArgs("67030003").
		WillReturnRows(sqlmock.NewRows(_patientColumns).
			AddRow(3, now, now, nil, "67030003", nil, "", "Malee", "Sukjai", "female", nil, "", ""))

	rec := ta.do(http.MethodPost, "/api/v1/patients",
		`{"firstName":"Malee","lastName":"Sukjai","gender":"female"}`, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	patient, _ := decodeBody(t, rec.Body.Bytes())["patient"].(map[string]any)
	if patient["ln"] != "67030003" {
		t.Errorf("ln = %v, want 67030003", patient["ln"])
	}
}

func TestHandleAddPatientDuplicateIDCard(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	expectPatientBucket(ta.mock, "6703")
	expectPatientExists(ta.mock, "67030001", false)
	ta.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "patients_id_card_key"})

	rec := ta.do(http.MethodPost, "/api/v1/patients",
		`{"firstName":"Somchai","lastName":"Jaidee","idCard":"1101700230708"}`, headers)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusConflict, rec.Body)
	}
}

func TestHandleAddPatientValidation(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	rec := ta.do(http.MethodPost, "/api/v1/patients",
		`{"firstName":"","lastName":"Jaidee","idCard":"1101700230705","gender":"x"}`, headers)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	fields, _ := decodeBody(t, rec.Body.Bytes())["FieldErrors"].(map[string]any)
	for _, key := range []string{"firstName", "idCard", "gender"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field error for %s in %v", key, fields)
		}
	}
}

func TestHandleAddPatientExhausted(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	for i := 0; i < 10; i++ {
		expectPatientBucket(ta.mock, "6703")
		expectPatientExists(ta.mock, "67030001", true)
	}

	rec := ta.do(http.MethodPost, "/api/v1/patients", `{"firstName":"A","lastName":"B"}`, headers)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusServiceUnavailable, rec.Body)
	}
	if got := decodeBody(t, rec.Body.Bytes())["code"]; got != "identifier_exhausted" {
		t.Errorf("code = %v, want identifier_exhausted", got)
	}
}

func TestHandleAddVisitUnknownPatient(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	ta.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM patients WHERE")).
		WithArgs("67039999").
		WillReturnRows(sqlmock.NewRows(_patientColumns))

	rec := ta.do(http.MethodPost, "/api/v1/visits", `{"patientLn":"67039999"}`, headers)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body)
	}
}

func TestHandleNextVisitNumber(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	ta.mock.ExpectQuery(regexp.QuoteMeta("SELECT visit_number FROM visits WHERE visit_number LIKE $1")).
		WithArgs("6703%").
		WillReturnRows(sqlmock.NewRows([]string{"visit_number"}).AddRow("67030041"))
	ta.mock.ExpectQuery(regexp.QuoteMeta("FROM visits WHERE visit_number = $1")).
		WithArgs("67030042").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	rec := ta.do(http.MethodGet, "/api/v1/visits/next-number", "", headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if got := decodeBody(t, rec.Body.Bytes())["id"]; got != "67030042" {
		t.Errorf("id = %v, want 67030042", got)
	}
}

func TestHandleDeleteUser(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     int
	}{
		{"existing user", 1, http.StatusNoContent},
		{"unknown user", 0, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			headers := ta.login(t, "alice")

			ta.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE username = $1")).
				WithArgs("carol").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			rec := ta.do(http.MethodDelete, "/api/v1/users/carol", "", headers)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestHandleAddPatientStalledStore(t *testing.T) {
	ta := newTestApp(t)
	ta.config.db.timeout = 50 * time.Millisecond
	headers := ta.login(t, "bob")

	ta.mock.ExpectQuery(regexp.QuoteMeta("SELECT ln FROM patients WHERE ln LIKE $1")).
		WithArgs("6703%").
		WillDelayFor(5 * time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"ln"}))

	start := time.Now()
	rec := ta.do(http.MethodPost, "/api/v1/patients", `{"firstName":"A","lastName":"B"}`, headers)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusInternalServerError, rec.Body)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("request took %v, want it bounded by the store timeout", elapsed)
	}
}

var _userColumns = []string{"id", "created_at", "updated_at", "username", "password_hash", "name", "role"}

func TestHandleUpdateUserRoleEndsSession(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.login(t, "alice")
	bob := ta.login(t, "bob")

	ta.mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role = $1, updated_at = $2 WHERE username = $3")).
		WithArgs("admin", sqlmock.AnyArg(), "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	ta.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE username = $1")).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(_userColumns).AddRow(2, now, now, "bob", "x", "Bob", "admin"))

	rec := ta.do(http.MethodPatch, "/api/v1/users/bob", `{"role":"admin"}`, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	user, _ := decodeBody(t, rec.Body.Bytes())["user"].(map[string]any)
	if user["role"] != "admin" {
		t.Errorf("role = %v, want admin", user["role"])
	}

	rec = ta.do(http.MethodGet, "/api/v1/auth/me", "", bob)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after role change status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleUpdateUserValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown role", `{"role":"root"}`, "role"},
		{"short password", `{"password":"abc"}`, "password"},
		{"password over 72 bytes", `{"password":"` + strings.Repeat("ก", 25) + `"}`, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			admin := ta.login(t, "alice")

			rec := ta.do(http.MethodPatch, "/api/v1/users/bob", tt.body, admin)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body)
			}
			fields, _ := decodeBody(t, rec.Body.Bytes())["FieldErrors"].(map[string]any)
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("missing field error for %s in %v", tt.field, fields)
			}
		})
	}
}

func TestHandleUpdateUserMissing(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.login(t, "alice")

	ta.mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET name = $1, updated_at = $2 WHERE username = $3")).
		WithArgs("Carol", sqlmock.AnyArg(), "carol").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := ta.do(http.MethodPatch, "/api/v1/users/carol", `{"name":"Carol"}`, admin)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNotFound, rec.Body)
	}
}
