package httpapi

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/weather-portal/internal/guard"
	"github.com/i474232898/weather-portal/internal/nav"
	"github.com/i474232898/weather-portal/internal/session"
)

// NewApp builds the fiber app with the portal's error handling and global
// middleware.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-portal",
		DisableStartupMessage: true,
		// Form values and the browser id cookie end up in browser storage,
		// which outlives the request buffers fiber would otherwise reuse.
		Immutable:    true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: errorPage,
	})

	app.Use(logger.New())
	app.Use(recover.New())
	return app
}

// errorPage logs the underlying error and shows the browser a generic
// page. Only fiber's own client errors keep their message.
func errorPage(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "The page could not be shown. Please try again."
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		if code < fiber.StatusInternalServerError {
			message = e.Message
		}
	}
	log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	return renderFailure(c, code, message)
}

// RegisterRoutes wires the pages into the Fiber app. Everything after the
// provider middleware can reach the browser's session; the weather and
// history views additionally sit behind the route guard.
func RegisterRoutes(app *fiber.App, provider *session.Provider, s *Server) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-portal",
		})
	})

	app.Use(provider.Middleware())

	app.Get(nav.Root, s.handleLanding)
	app.Get(nav.SignIn, s.authForm(s.signInPage))
	app.Post(nav.SignIn, s.authSubmit(s.signInPage))
	app.Get(nav.SignUp, s.authForm(s.signUpPage))
	app.Post(nav.SignUp, s.authSubmit(s.signUpPage))
	app.Post(nav.SignOut, s.handleSignOut)

	requireAuth := guard.Require()
	app.Get(nav.Weather, requireAuth, s.handleWeather)
	app.Get(nav.History, requireAuth, s.handleHistory)

	app.Use(func(c *fiber.Ctx) error {
		return c.Redirect(nav.Root, fiber.StatusFound)
	})
}
