package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHandler(t *testing.T, handler fiber.Handler, headers map[string]string) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	req := httptest.NewRequest("GET", "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	_, err := app.Test(req)
	require.NoError(t, err)
}

func TestFromRequestReadsHeader(t *testing.T) {
	id := uuid.NewString()
	runHandler(t, func(c *fiber.Ctx) error {
		assert.Equal(t, id, FromRequest(c))
		return nil
	}, map[string]string{HeaderName: id})
}

func TestFromRequestFallsBackToCookie(t *testing.T) {
	id := uuid.NewString()
	runHandler(t, func(c *fiber.Ctx) error {
		assert.Equal(t, id, FromRequest(c))
		return nil
	}, map[string]string{"Cookie": CookieName + "=" + id})
}

func TestFromRequestIgnoresMalformedIDs(t *testing.T) {
	runHandler(t, func(c *fiber.Ctx) error {
		assert.Empty(t, FromRequest(c))
		return nil
	}, map[string]string{HeaderName: "not-a-uuid"})
}

func TestFromRequestHeaderWinsOverCookie(t *testing.T) {
	headerID := uuid.NewString()
	cookieID := uuid.NewString()
	runHandler(t, func(c *fiber.Ctx) error {
		assert.Equal(t, headerID, FromRequest(c))
		return nil
	}, map[string]string{
		HeaderName: headerID,
		"Cookie":   CookieName + "=" + cookieID,
	})
}

func TestResolveMintsWhenAbsent(t *testing.T) {
	runHandler(t, func(c *fiber.Ctx) error {
		id := Resolve(c)
		_, err := uuid.Parse(id)
		assert.NoError(t, err, "minted id must be a uuid")
		assert.Contains(t, string(c.Response().Header.PeekCookie(CookieName)), id)
		return nil
	}, nil)
}

func TestResolveKeepsExistingID(t *testing.T) {
	id := uuid.NewString()
	runHandler(t, func(c *fiber.Ctx) error {
		assert.Equal(t, id, Resolve(c))
		return nil
	}, map[string]string{HeaderName: id})
}
