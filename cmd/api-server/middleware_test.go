package main

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	return out
}

func TestAuthenticate(t *testing.T) {
	t.Run("missing headers", func(t *testing.T) {
		ta := newTestApp(t)

		rec := ta.do(http.MethodGet, "/api/v1/auth/me", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if got := decodeBody(t, rec.Body.Bytes())["code"]; got != "invalid_session" {
			t.Errorf("code = %v, want invalid_session", got)
		}
	})

	t.Run("valid session", func(t *testing.T) {
		ta := newTestApp(t)
		headers := ta.login(t, "bob")

		rec := ta.do(http.MethodGet, "/api/v1/auth/me", "", headers)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
		}
		user, _ := decodeBody(t, rec.Body.Bytes())["user"].(map[string]any)
		if user["username"] != "bob" {
			t.Errorf("user = %v, want bob", user)
		}
		if _, ok := user["passwordHash"]; ok {
			t.Error("password hash leaked into response")
		}
	})

	t.Run("expired session", func(t *testing.T) {
		ta := newTestApp(t)
		headers := ta.login(t, "bob")

		ta.clock.Advance(31 * time.Minute)

		rec := ta.do(http.MethodGet, "/api/v1/auth/me", "", headers)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if got := decodeBody(t, rec.Body.Bytes())["code"]; got != "session_expired" {
			t.Errorf("code = %v, want session_expired", got)
		}
	})

	t.Run("replaced by a newer login", func(t *testing.T) {
		ta := newTestApp(t)
		first := ta.login(t, "bob")
		ta.login(t, "bob")

		rec := ta.do(http.MethodGet, "/api/v1/auth/me", "", first)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if got := decodeBody(t, rec.Body.Bytes())["code"]; got != "session_expired" {
			t.Errorf("code = %v, want session_expired", got)
		}
	})
}

func TestLoginAndLogout(t *testing.T) {
	ta := newTestApp(t)

	rec := ta.do(http.MethodPost, "/api/v1/auth/login", `{"username":"bob","password":"wonderland"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec.Body.Bytes())
	sid, _ := body["sessionId"].(string)
	if sid == "" {
		t.Fatalf("login response has no sessionId: %v", body)
	}

	headers := make(http.Header)
	headers.Set(_headerSessionID, sid)
	headers.Set(_headerUsername, "bob")

	if rec := ta.do(http.MethodPost, "/api/v1/auth/logout", "", headers); rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d: %s", rec.Code, rec.Body)
	}

	if rec := ta.do(http.MethodGet, "/api/v1/auth/me", "", headers); rec.Code != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	ta := newTestApp(t)

	rec := ta.do(http.MethodPost, "/api/v1/auth/login", `{"username":"bob","password":"nope"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if got := decodeBody(t, rec.Body.Bytes())["code"]; got != "invalid_credentials" {
		t.Errorf("code = %v, want invalid_credentials", got)
	}
}

func TestRateLimitLogin(t *testing.T) {
	ta := newTestApp(t)

	body := `{"username":"bob","password":"nope"}`
	for i := 0; i < 2; i++ {
		if rec := ta.do(http.MethodPost, "/api/v1/auth/login", body, nil); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want %d", i+1, rec.Code, http.StatusUnauthorized)
		}
	}

	rec := ta.do(http.MethodPost, "/api/v1/auth/login", body, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRequireRole(t *testing.T) {
	ta := newTestApp(t)
	headers := ta.login(t, "bob")

	rec := ta.do(http.MethodDelete, "/api/v1/users/carol", "", headers)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestStatus(t *testing.T) {
	ta := newTestApp(t)

	rec := ta.do(http.MethodGet, "/api/v1/status", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decodeBody(t, rec.Body.Bytes())["status"]; got != "OK" {
		t.Errorf("status body = %v, want OK", got)
	}
}
