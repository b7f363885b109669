package guard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-portal/internal/nav"
	"github.com/i474232898/weather-portal/internal/session"
)

// Verdict is the outcome of evaluating a guarded route.
type Verdict int

const (
	// Pending: the session has not been restored yet. Nothing guarded is
	// rendered and no redirect is issued.
	Pending Verdict = iota
	Allow
	Redirect
)

// Decision is what the guard wants done for one evaluation.
type Decision struct {
	Verdict  Verdict
	Redirect nav.Directive
}

// Evaluate decides whether guarded content may render for s.
func Evaluate(s session.Session) Decision {
	switch s.Status {
	case session.StatusAuthenticated:
		return Decision{Verdict: Allow}
	case session.StatusUnauthenticated:
		return Decision{
			Verdict:  Redirect,
			Redirect: nav.Directive{To: nav.SignIn, Replace: true},
		}
	default:
		return Decision{Verdict: Pending}
	}
}

// Require gates the handlers after it on the mounted session. It must run
// behind session.Provider.Middleware.
func Require() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := Evaluate(session.From(c).Snapshot())
		switch d.Verdict {
		case Allow:
			return c.Next()
		case Redirect:
			// A redirect response never enters browser history, which gives
			// the replace semantics the directive asks for.
			return c.Redirect(d.Redirect.To, fiber.StatusFound)
		default:
			c.Set(fiber.HeaderRetryAfter, "1")
			c.Set(fiber.HeaderCacheControl, "no-store")
			return c.Status(fiber.StatusServiceUnavailable).SendString("checking session")
		}
	}
}
