package handlers_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"
)

func TestSubmitOrderCreates(t *testing.T) {
	env := newTestApp(t)

	resp, body := env.submit(t, "10.0.0.1", validOrder())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("want 201, got %d body=%v", resp.StatusCode, body)
	}
	if body["success"] != true || body["orderId"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["message"] != "Order submitted successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestSubmitOrderRejectsMissingBackend(t *testing.T) {
	env := newTestApp(t)

	o := validOrder()
	o["services"].(map[string]any)["payment"] = map[string]any{"included": true, "price": 3500}
	resp, body := env.submit(t, "10.0.0.2", o)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d body=%v", resp.StatusCode, body)
	}
	details, _ := body["details"].(map[string]any)
	if _, ok := details["services.backend"]; !ok {
		t.Fatalf("expected services.backend detail, got %v", body)
	}
}

func TestSubmitOrderRejectsBadFields(t *testing.T) {
	env := newTestApp(t)

	o := validOrder()
	o["clientPhone"] = "12345"
	o["clientEmail"] = "nope"
	resp, body := env.submit(t, "10.0.0.3", o)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
	details, _ := body["details"].(map[string]any)
	for _, f := range []string{"clientPhone", "clientEmail"} {
		if _, ok := details[f]; !ok {
			t.Errorf("expected %s in details, got %v", f, details)
		}
	}
}

func TestSubmitOrderMalformedBody(t *testing.T) {
	env := newTestApp(t)

	req := rawRequest("POST", "/orders", "{not json", "application/json")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}

// The server total replaces whatever the browser claimed.
func TestSubmitOrderIgnoresClientTotal(t *testing.T) {
	env := newTestApp(t)

	o := validOrder()
	o["totalPrice"] = 1
	o["services"].(map[string]any)["frontend"] = map[string]any{"tier": "modern", "price": 1}
	_, body := env.submit(t, "10.0.0.4", o)
	id, _ := body["orderId"].(string)
	if id == "" {
		t.Fatalf("submit failed: %v", body)
	}

	cookie := env.login(t)
	resp, got := env.do(t, "GET", "/orders/"+id, nil, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: want 200, got %d", resp.StatusCode)
	}
	order := got["order"].(map[string]any)
	if order["totalPrice"] != float64(3000) {
		t.Fatalf("want stored total 3000, got %v", order["totalPrice"])
	}
	fe := order["services"].(map[string]any)["frontend"].(map[string]any)
	if fe["price"] != float64(3000) {
		t.Fatalf("want frontend price 3000, got %v", fe["price"])
	}
	if order["status"] != "pending" {
		t.Fatalf("want pending, got %v", order["status"])
	}
}

func TestSubmitOrderRateLimited(t *testing.T) {
	env := newTestApp(t)

	for i := 0; i < 3; i++ {
		resp, body := env.submit(t, "10.1.1.1", validOrder())
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("order %d: want 201, got %d body=%v", i+1, resp.StatusCode, body)
		}
	}

	resp, body := env.submit(t, "10.1.1.1", validOrder())
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("4th order: want 429, got %d", resp.StatusCode)
	}
	ra, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || ra <= 0 {
		t.Fatalf("want positive Retry-After header, got %q", resp.Header.Get("Retry-After"))
	}
	if v, _ := body["retryAfter"].(float64); v <= 0 {
		t.Fatalf("want positive retryAfter in body, got %v", body)
	}

	// Other clients keep their own budget.
	if resp, _ := env.submit(t, "10.1.1.2", validOrder()); resp.StatusCode != http.StatusCreated {
		t.Fatalf("other ip: want 201, got %d", resp.StatusCode)
	}

	env.clock.advance(time.Hour)
	if resp, _ := env.submit(t, "10.1.1.1", validOrder()); resp.StatusCode != http.StatusCreated {
		t.Fatalf("after window: want 201, got %d", resp.StatusCode)
	}
}

// Rejected submissions still spend the budget: the check runs first.
func TestInvalidOrdersCountTowardLimit(t *testing.T) {
	env := newTestApp(t)

	bad := validOrder()
	bad["clientName"] = ""
	for i := 0; i < 3; i++ {
		env.submit(t, "10.2.2.2", bad)
	}
	if resp, _ := env.submit(t, "10.2.2.2", validOrder()); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d", resp.StatusCode)
	}
}
