package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestAvailabilityPollRateLimited(t *testing.T) {
	app, _ := newTestApp(t)

	var got429 bool
	for i := 0; i < 5; i++ {
		resp, err := app.Test(jsonReq("GET", "/api/v1/availability?listingId=l-meera-maggi", nil, ""), -1)
		if err != nil {
			t.Fatal(err)
		}
		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusTooManyRequests:
			got429 = true
		default:
			t.Fatalf("unexpected status %d", resp.StatusCode)
		}
	}
	if !got429 {
		t.Fatal("availability poll never throttled")
	}
}

func TestAvailabilityBadge(t *testing.T) {
	app, db := newTestApp(t)

	check := func(listingID, want string) {
		t.Helper()
		resp, err := app.Test(jsonReq("GET", "/api/v1/availability?listingId="+listingID, nil, ""), -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("availability status %d", resp.StatusCode)
		}
		var body struct {
			Status string `json:"status"`
		}
		decodeBody(t, resp, &body)
		if body.Status != want {
			t.Fatalf("%s: want %s, got %s", listingID, want, body.Status)
		}
	}

	check("l-meera-maggi", "IN_STOCK")  // seeded stock 15
	check("l-rohan-casio", "LOW_STOCK") // seeded stock 2
	db.MustExec(`UPDATE seller_listings SET stock=0 WHERE id='l-rohan-casio'`)
	check("l-rohan-casio", "OUT_OF_STOCK")
}

func TestOversizedBodyRejected(t *testing.T) {
	app, _ := newTestApp(t)

	big := bytes.Repeat([]byte("a"), 2<<20) // 2 MiB, over the 1 MiB cap
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized body, got %d", resp.StatusCode)
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app, _ := newTestApp(t)
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	resp, err := app.Test(jsonReq("GET", "/nope", nil, ""), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
