package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"frieren/internal/auth"
)

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestApp(t)

	resp, body := env.do(t, "POST", "/auth/login", map[string]string{"username": "Frieren", "password": adminPass}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d body=%v", resp.StatusCode, body)
	}
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("session cookie missing")
	}
	if !session.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
	admin := body["admin"].(map[string]any)
	if admin["username"] != adminUser {
		t.Fatalf("unexpected admin: %v", admin)
	}

	resp, body = env.do(t, "GET", "/auth/me", nil, session.Value)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: want 200, got %d", resp.StatusCode)
	}
	if body["admin"].(map[string]any)["username"] != adminUser {
		t.Fatalf("me: unexpected body %v", body)
	}
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	env := newTestApp(t)
	env.login(t)

	cases := []struct {
		name string
		body any
	}{
		{"wrong password", map[string]string{"username": adminUser, "password": "wrong-pass"}},
		{"unknown user", map[string]string{"username": "himmel", "password": adminPass}},
		{"too short", map[string]string{"username": "ab", "password": "x"}},
		{"empty", map[string]string{}},
	}
	for _, tc := range cases {
		resp, body := env.do(t, "POST", "/auth/login", tc.body, "", "X-Forwarded-For", "10.5.0.1")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: want 401, got %d", tc.name, resp.StatusCode)
		}
		if body["error"] != "Invalid credentials" {
			t.Errorf("%s: unexpected body %v", tc.name, body)
		}
	}
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestApp(t)
	creds := map[string]string{"username": adminUser, "password": "wrong-pass"}

	for i := 0; i < 5; i++ {
		resp, _ := env.do(t, "POST", "/auth/login", creds, "", "X-Forwarded-For", "10.6.6.6")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: want 401, got %d", i+1, resp.StatusCode)
		}
	}

	// Even the right password is refused once the budget is spent.
	good := map[string]string{"username": adminUser, "password": adminPass}
	resp, body := env.do(t, "POST", "/auth/login", good, "", "X-Forwarded-For", "10.6.6.6")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("6th attempt: want 429, got %d", resp.StatusCode)
	}
	if v, _ := body["retryAfter"].(float64); v <= 0 {
		t.Fatalf("want positive retryAfter, got %v", body)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("Retry-After header missing")
	}

	env.clock.advance(15 * time.Minute)
	if resp, _ := env.do(t, "POST", "/auth/login", good, "", "X-Forwarded-For", "10.6.6.6"); resp.StatusCode != http.StatusOK {
		t.Fatalf("after window: want 200, got %d", resp.StatusCode)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestApp(t)
	cookie := env.login(t)

	resp, body := env.do(t, "POST", "/auth/logout", nil, cookie)
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("logout: %d %v", resp.StatusCode, body)
	}
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName && c.Value != "" {
			t.Fatalf("logout should blank the cookie, got %q", c.Value)
		}
	}
}
