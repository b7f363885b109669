package session

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-portal/internal/storage"
)

// BrowserCookie identifies a browser's storage bucket.
const BrowserCookie = "wp_browser"

const (
	localsKey     = "session.store"
	browserMaxAge = 400 * 24 * 60 * 60
)

// Provider makes a browser's Store available to every handler mounted
// after its middleware.
type Provider struct {
	backend      storage.Backend
	secureCookie bool
}

// NewProvider creates a Provider over backend.
func NewProvider(backend storage.Backend, secureCookie bool) *Provider {
	return &Provider{backend: backend, secureCookie: secureCookie}
}

// Mount builds the Store for browserID and initializes it from storage
// exactly once. Transitions after mount are logged.
func (p *Provider) Mount(ctx context.Context, browserID string) *Store {
	st := NewStore(p.backend.Bucket(browserID))
	st.Initialize(ctx)
	st.Subscribe(func(s Session) {
		log.Printf("INFO: session: browser=%s status=%s", browserID, s.Status)
	})
	return st
}

// Middleware resolves the browser id cookie (issuing one when missing or
// malformed) and mounts that browser's Store for the rest of the chain.
func (p *Provider) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The id outlives this request as a bucket key, so the app must run
		// with fiber.Config.Immutable; fiber otherwise reuses the buffer.
		id := c.Cookies(BrowserCookie)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     BrowserCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   browserMaxAge,
				HTTPOnly: true,
				Secure:   p.secureCookie,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		Bind(c, p.Mount(c.UserContext(), id))
		return c.Next()
	}
}

// Bind attaches st to the request so From can find it.
func Bind(c *fiber.Ctx, st *Store) {
	c.Locals(localsKey, st)
}

// From returns the Store mounted for this request. Calling it from a handler
// that is not behind Provider.Middleware is a wiring bug and panics.
func From(c *fiber.Ctx) *Store {
	st, ok := c.Locals(localsKey).(*Store)
	if !ok || st == nil {
		panic("session: From called outside the session provider; register Provider.Middleware before this handler")
	}
	return st
}
