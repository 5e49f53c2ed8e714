package onboarding

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	CookieName   = "onboardingStatus"
	CookieMaxAge = 30 * 24 * time.Hour
)

// CookieMirror keeps a client-side copy of the persisted status. It is a
// read-through cache: the persisted record is the source of truth and
// Sync rewrites the cookie whenever a full check sees a different value.
type CookieMirror struct {
	table  *Table
	secure bool
}

func NewCookieMirror(table *Table, secure bool) *CookieMirror {
	return &CookieMirror{table: table, secure: secure}
}

// Read returns the mirrored status. ok is false when the cookie is missing or
// holds a value the table does not know; callers must then do a full check.
func (m *CookieMirror) Read(c *fiber.Ctx) (Status, bool) {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return m.table.First(), false
	}
	s := Status(raw)
	if _, ok := m.table.index[s]; !ok {
		return m.table.First(), false
	}
	return s, true
}

// Write sets the cookie to s. It is not HTTP-only; the frontend's edge
// check reads it.
func (m *CookieMirror) Write(c *fiber.Ctx, s Status) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    string(m.table.Normalize(s)),
		Path:     "/",
		MaxAge:   int(CookieMaxAge / time.Second),
		Expires:  time.Now().Add(CookieMaxAge),
		Secure:   m.secure,
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Sync rewrites the cookie when it disagrees with the persisted status.
// It reports whether a rewrite happened.
func (m *CookieMirror) Sync(c *fiber.Ctx, persisted Status) bool {
	persisted = m.table.Normalize(persisted)
	if cached, ok := m.Read(c); ok && cached == persisted {
		return false
	}
	m.Write(c, persisted)
	return true
}
