package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"frieren/internal/auth"
	"frieren/internal/config"
	"frieren/internal/http/handlers"
	"frieren/internal/ratelimit"
	"frieren/internal/repos"
)

const (
	adminUser = "frieren"
	adminPass = "zoltraak"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	app   *fiber.App
	db    *sqlx.DB
	deps  *handlers.Deps
	clock *clock
}

// newTestApp wires the real routes over an in-memory SQLite store and a
// limiter with a controllable clock.
func newTestApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		DBDSN:     ":memory:",
		JWTSecret: "test-secret",
		AdminUser: adminUser,
		AdminPass: adminPass,
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	clk := &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	deps := handlers.NewDeps(cfg, repos.NewOrderRepo(db), repos.NewAdminRepo(db), ratelimit.NewMemoryWithClock(clk.now))

	engine := html.New("../../web/templates", ".html")
	app := handlers.NewApp(engine, deps)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	handlers.Mount(app, deps)
	return &testEnv{app: app, db: db, deps: deps, clock: clk}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie string, hdr ...string) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie})
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

// login signs in as the bootstrap admin and returns the session cookie.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	resp, body := e.do(t, "POST", "/auth/login", map[string]string{"username": adminUser, "password": adminPass}, "", "X-Forwarded-For", "10.9.9.9")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: want 200, got %d body=%v", resp.StatusCode, body)
	}
	tok := cookieValue(resp, auth.CookieName)
	if tok == "" {
		t.Fatal("login: session cookie missing")
	}
	return tok
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func validOrder() map[string]any {
	return map[string]any{
		"clientName":  "Asha Rao",
		"clientEmail": "asha@example.com",
		"clientPhone": "9876543210",
		"services": map[string]any{
			"frontend": map[string]any{"tier": "modern", "price": 3000},
			"backend":  map[string]any{"tier": "", "price": 0},
			"database": map[string]any{"features": []string{}, "price": 0},
			"payment":  map[string]any{"included": false, "price": 0},
		},
		"totalPrice": 3000,
	}
}

// submit posts an order as if from the given client address.
func (e *testEnv) submit(t *testing.T, ip string, order map[string]any) (*http.Response, map[string]any) {
	t.Helper()
	return e.do(t, "POST", "/orders", order, "", "X-Forwarded-For", ip)
}

func rawRequest(method, path, body, contentType string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}
