package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"hostelmart/internal/repos"
)

func TestSeededPasswordsAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatal("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessAndFailure(t *testing.T) {
	app, _ := newTestApp(t)

	// wrong password
	resp, err := app.Test(jsonReq("POST", "/login", fiber.Map{
		"email": "asha@hostelmart.test", "password": "wrongpass!",
	}, ""), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}

	// unknown account answers exactly like a wrong password
	resp, err = app.Test(jsonReq("POST", "/login", fiber.Map{
		"email": "nobody@hostelmart.test", "password": "Passw0rd!",
	}, ""), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown account, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error != "invalid email or password" {
		t.Fatalf("unknown account must not be distinguishable: %q", body.Error)
	}

	// malformed email never reaches the password check
	resp, err = app.Test(jsonReq("POST", "/login", fiber.Map{
		"email": "not an email", "password": "Passw0rd!",
	}, ""), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", resp.StatusCode)
	}

	// good credentials bind the session
	sid := loginAs(t, app, "asha@hostelmart.test")
	resp, err = app.Test(jsonReq("GET", "/cart", nil, sid), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app, _ := newTestApp(t)

	for _, target := range []string{"/cart", "/orders", "/reviews/eligible", "/notifications"} {
		resp, err := app.Test(jsonReq("GET", target, nil, ""), -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without session, got %d", target, resp.StatusCode)
		}
	}

	// a made-up session id is not a session
	resp, err := app.Test(jsonReq("GET", "/cart", nil, "bogus-sid"), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown sid, got %d", resp.StatusCode)
	}
}

func TestLogoutUnbindsSession(t *testing.T) {
	app, _ := newTestApp(t)
	sid := loginAs(t, app, "asha@hostelmart.test")

	resp, err := app.Test(jsonReq("POST", "/logout", nil, sid), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("GET", "/cart", nil, sid), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestBannedUserLockedOut(t *testing.T) {
	app, db := newTestApp(t)
	sid := loginAs(t, app, "asha@hostelmart.test")

	db.MustExec(`UPDATE users SET banned=1 WHERE id='u-asha'`)

	resp, err := app.Test(jsonReq("GET", "/cart", nil, sid), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for banned user, got %d", resp.StatusCode)
	}
}

func TestBuyerCannotUseSellerRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	sid := loginAs(t, app, "asha@hostelmart.test")

	resp, err := app.Test(jsonReq("GET", "/seller/orders", nil, sid), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer on seller route, got %d", resp.StatusCode)
	}
}
