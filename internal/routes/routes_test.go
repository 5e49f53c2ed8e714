package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/payment"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type stubGateway struct{}

func (stubGateway) Name() string      { return "stub" }
func (stubGateway) PublicKey() string { return "pk_stub" }

func (stubGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*payment.Order, error) {
	return &payment.Order{ID: "order_" + receipt, Amount: amount, Currency: currency}, nil
}

func (stubGateway) VerifyPayment(_ context.Context, _, _, signature string) error {
	if signature != "good" {
		return payment.ErrInvalidSignature
	}
	return nil
}

func (stubGateway) ParseWebhook([]byte, string) (*payment.Event, error) {
	return nil, payment.ErrUnknownEvent
}

type client struct {
	t      *testing.T
	app    *fiber.App
	token  string
	cookie string
}

func newServer(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:        "routes-test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		CORSOrigins:      "*",
	}

	table := onboarding.DefaultTable()
	mirror := onboarding.NewCookieMirror(table, false)
	pages := cache.Noop{}

	ob := services.NewOnboardingService(db, table)
	auth := services.NewAuthService(db, cfg, nil, ob)
	profiles := services.NewProfileService(db, ob)
	waitlists := services.NewWaitlistService(db, ob, pages)
	subscribers := services.NewSubscriberService(db, waitlists, stubGateway{})
	payments := services.NewPaymentService(db, stubGateway{})
	uploads := services.NewUploadService(db, nil, waitlists, "")

	app := fiber.New()
	app.Use(requestid.New())
	Setup(app, cfg, Handlers{
		Auth:       handlers.NewAuthHandler(auth, mirror),
		Health:     handlers.NewHealthHandler(db, pages),
		Onboarding: handlers.NewOnboardingHandler(ob, mirror),
		Profile:    handlers.NewProfileHandler(profiles, waitlists, mirror, table),
		Waitlist:   handlers.NewWaitlistHandler(waitlists, mirror, table),
		Page:       handlers.NewPageHandler(profiles, waitlists, table),
		Subscriber: handlers.NewSubscriberHandler(subscribers),
		Payment:    handlers.NewPaymentHandler(payments),
		Upload:     handlers.NewUploadHandler(uploads),
		Gate:       middleware.NewOnboardingGate(table, mirror, ob),
	})
	return app
}

// do sends a request and keeps the onboarding cookie like a browser would.
func (c *client) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: onboarding.CookieName, Value: c.cookie})
	}

	resp, err := c.app.Test(req, -1)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == onboarding.CookieName {
			c.cookie = ck.Value
		}
	}

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			c.t.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
		}
	}
	return resp, out
}

func (c *client) expect(method, path string, body interface{}, code int) map[string]interface{} {
	c.t.Helper()
	resp, out := c.do(method, path, body)
	if resp.StatusCode != code {
		c.t.Fatalf("%s %s: status = %d, want %d (%v)", method, path, resp.StatusCode, code, out)
	}
	return out
}

func register(t *testing.T, app *fiber.App, email string) *client {
	t.Helper()
	c := &client{t: t, app: app}
	out := c.expect(fiber.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": "password123",
	}, fiber.StatusCreated)
	c.token, _ = out["access_token"].(string)
	if c.token == "" || c.cookie != "profile" {
		t.Fatalf("register: token %q cookie %q", c.token, c.cookie)
	}
	return c
}

func TestWizardEndToEnd(t *testing.T) {
	app := newServer(t)
	c := register(t, app, "creator@example.com")

	// Skipping ahead is redirected to the current step.
	resp, _ := c.do(fiber.MethodGet, "/wait-list/setup/content", nil)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/profile" {
		t.Fatalf("skip ahead: %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	denied := c.expect(fiber.MethodGet, "/api/waitlists/mine", nil, fiber.StatusForbidden)
	if denied["redirect_to"] != "/profile" {
		t.Fatalf("denied = %v", denied)
	}

	out := c.expect(fiber.MethodPost, "/api/profile", map[string]string{"full_name": "Jane Doe"}, fiber.StatusOK)
	if out["onboarding_status"] != "course" || c.cookie != "course" {
		t.Fatalf("profile save: %v cookie %q", out, c.cookie)
	}
	resp, _ = c.do(fiber.MethodGet, "/wait-list/setup/content", nil)
	if resp.Header.Get("Location") != "/wait-list/setup/course" {
		t.Fatalf("content before course: %q", resp.Header.Get("Location"))
	}

	mine := c.expect(fiber.MethodGet, "/api/waitlists/mine", nil, fiber.StatusOK)
	id, _ := mine["id"].(string)
	base := "/api/waitlists/" + id

	bad := c.expect(fiber.MethodPatch, base, map[string]string{"slug": "bread-club"}, fiber.StatusBadRequest)
	if bad["field"] != "title" {
		t.Fatalf("invalid course: %v", bad)
	}
	snap := c.expect(fiber.MethodGet, "/api/onboarding", nil, fiber.StatusOK)
	if snap["status"] != "course" {
		t.Fatalf("status after invalid course = %v", snap["status"])
	}

	c.expect(fiber.MethodPatch, base, map[string]string{
		"title": "Sourdough 101", "bio_html": "<p>Bake</p>", "about_html": "<p>About</p>", "slug": "bread-club",
	}, fiber.StatusOK)
	c.expect(fiber.MethodPatch, base+"/content", map[string]interface{}{
		"media":            []string{"https://cdn.example.com/a.jpg"},
		"banner_video_url": "https://cdn.example.com/banner.mp4",
		"benefits":         []string{"Lifetime access"},
		"faqs":             []map[string]string{{"question": "When?", "answer": "Soon"}},
	}, fiber.StatusOK)
	if c.cookie != "price" {
		t.Fatalf("cookie after content = %q", c.cookie)
	}

	price := map[string]interface{}{
		"currency": "INR", "price_amount": 49900, "launch_date": "2026-12-01", "button_label": "Reserve",
	}
	draft := c.expect(fiber.MethodPatch, base+"/price", price, fiber.StatusOK)
	if draft["status"] != "saved" || draft["onboarding_status"] != "price" {
		t.Fatalf("draft = %v", draft)
	}
	c.expect(fiber.MethodGet, "/api/subscribers?waitlist_id="+id, nil, fiber.StatusForbidden)

	price["publish"] = true
	live := c.expect(fiber.MethodPatch, base+"/price", price, fiber.StatusOK)
	if live["status"] != "published" || live["onboarding_status"] != "completed" || c.cookie != "completed" {
		t.Fatalf("publish = %v cookie %q", live, c.cookie)
	}

	// Finished creators may revisit any step.
	page := c.expect(fiber.MethodGet, "/wait-list/setup/course", nil, fiber.StatusOK)
	if page["step"] != "course" || page["waitlist_id"] != id {
		t.Fatalf("page = %v", page)
	}
	access := c.expect(fiber.MethodGet, "/api/onboarding/access?path=/wait-list/setup/price", nil, fiber.StatusOK)
	if access["allow"] != true || access["gated"] != true {
		t.Fatalf("access = %v", access)
	}

	// A visitor joins and pays.
	visitor := &client{t: t, app: app}
	public := visitor.expect(fiber.MethodGet, "/api/public/waitlists/bread-club", nil, fiber.StatusOK)
	if public["title"] != "Sourdough 101" {
		t.Fatalf("public = %v", public)
	}
	joined := visitor.expect(fiber.MethodPost, "/api/public/waitlists/bread-club/join", map[string]string{"email": "fan@example.com"}, fiber.StatusCreated)
	order, _ := joined["order"].(map[string]interface{})
	orderID, _ := order["order_id"].(string)
	if orderID == "" {
		t.Fatalf("joined = %v", joined)
	}
	visitor.expect(fiber.MethodPost, "/api/payment/verify", map[string]string{
		"order_id": orderID, "payment_id": "pay_1", "signature": "forged",
	}, fiber.StatusBadRequest)
	visitor.expect(fiber.MethodPost, "/api/payment/verify", map[string]string{
		"order_id": orderID, "payment_id": "pay_1", "signature": "good",
	}, fiber.StatusOK)

	list := c.expect(fiber.MethodGet, "/api/subscribers?waitlist_id="+id, nil, fiber.StatusOK)
	data, _ := list["data"].([]interface{})
	if list["total"] != float64(1) || len(data) != 1 {
		t.Fatalf("list = %v", list)
	}
	if sub, _ := data[0].(map[string]interface{}); sub["status"] != "PAID" {
		t.Fatalf("subscriber = %v", sub)
	}
}

func TestStaleCookieDoesNotOpenStepAPIs(t *testing.T) {
	app := newServer(t)
	c := register(t, app, "stale@example.com")
	c.cookie = "completed"

	out := c.expect(fiber.MethodGet, "/api/waitlists/mine", nil, fiber.StatusForbidden)
	if out["redirect_to"] != "/profile" || c.cookie != "profile" {
		t.Fatalf("out = %v cookie %q", out, c.cookie)
	}
}

func TestReservedHandleConflict(t *testing.T) {
	app := newServer(t)
	c := register(t, app, "reserved@example.com")

	out := c.expect(fiber.MethodPost, "/api/profile", map[string]string{"full_name": "Admin", "handle": "admin"}, fiber.StatusConflict)
	if out["error"] != true {
		t.Fatalf("out = %v", out)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := newServer(t)
	anon := &client{t: t, app: app}
	anon.expect(fiber.MethodGet, "/api/profile", nil, fiber.StatusUnauthorized)
	anon.expect(fiber.MethodGet, "/dashboard", nil, fiber.StatusUnauthorized)
	anon.expect(fiber.MethodGet, "/api/health", nil, fiber.StatusOK)
	anon.expect(fiber.MethodGet, "/api/public/waitlists/nope-nope", nil, fiber.StatusNotFound)
}

func TestUploadsDisabledWithoutStore(t *testing.T) {
	app := newServer(t)
	c := register(t, app, "uploader@example.com")
	c.expect(fiber.MethodPost, "/api/uploads/presign", map[string]string{
		"target": "user.image", "kind": "IMAGE", "filename": "me.png", "content_type": "image/png",
	}, fiber.StatusServiceUnavailable)
}
