// Package identity resolves the anonymous device identity that scopes
// progress before a child's grown-up signs in. The id is a random UUID
// minted once per device and persisted on the client; the server reads it
// from a header (SPA clients) or a cookie (everything else) and mints a new
// one when neither is present. A client that cannot persist anything simply
// gets a fresh id each time and accrues no durable anonymous progress.
package identity

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	HeaderName = "X-Device-ID"
	CookieName = "device_id"

	cookieMaxAge = 5 * 365 * 24 * time.Hour
)

// NewDeviceID mints a fresh device identifier.
func NewDeviceID() string {
	return uuid.NewString()
}

// FromRequest returns the device id the request carries, or "" if it has
// none. Malformed ids are treated as absent rather than rejected.
func FromRequest(c *fiber.Ctx) string {
	for _, raw := range []string{c.Get(HeaderName), c.Cookies(CookieName)} {
		if raw == "" {
			continue
		}
		if _, err := uuid.Parse(raw); err == nil {
			return raw
		}
	}
	return ""
}

// Resolve returns the request's device id, minting and setting a cookie when
// the request carries none. Repeated calls from the same device return the
// same id as long as the client keeps the cookie.
func Resolve(c *fiber.Ctx) string {
	if id := FromRequest(c); id != "" {
		return id
	}

	id := NewDeviceID()
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    id,
		Expires:  time.Now().Add(cookieMaxAge),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id
}
