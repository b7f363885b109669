package httpapi

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-portal/internal/nav"
	"github.com/i474232898/weather-portal/internal/remote"
	"github.com/i474232898/weather-portal/internal/session"
)

// credentialsForm is the body of the sign-in and sign-up forms.
type credentialsForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type authView struct {
	Action               string
	Email                string
	PasswordAutocomplete string
	AltHref              string
	AltText              string
}

// authPage describes one of the two credential pages.
type authPage struct {
	title    string
	fallback string
	view     authView
	call     func(ctx context.Context, email, password string) (string, error)
}

func (s *Server) signInPage() authPage {
	return authPage{
		title:    "Sign In",
		fallback: "Sign In failed.",
		view: authView{
			Action:               nav.SignIn,
			PasswordAutocomplete: "current-password",
			AltHref:              nav.SignUp,
			AltText:              "Need an account? Sign Up",
		},
		call: s.api.SignIn,
	}
}

func (s *Server) signUpPage() authPage {
	return authPage{
		title:    "Sign Up",
		fallback: "Sign Up failed.",
		view: authView{
			Action:               nav.SignUp,
			PasswordAutocomplete: "new-password",
			AltHref:              nav.SignIn,
			AltText:              "Already have an account? Sign In",
		},
		call: s.api.SignUp,
	}
}

func (s *Server) handleLanding(c *fiber.Ctx) error {
	p := page{Title: "Welcome"}
	if s.health != nil {
		p.Data = s.health.Status()
	}
	return render(c, fiber.StatusOK, "landing", p)
}

// authForm renders the credential form. A browser that is already signed
// in is sent to the weather view instead.
func (s *Server) authForm(ap func() authPage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session.From(c).Snapshot().Authenticated() {
			return c.Redirect(nav.Weather, fiber.StatusFound)
		}
		a := ap()
		return render(c, fiber.StatusOK, "auth", page{Title: a.title, Data: a.view})
	}
}

// authSubmit exchanges the submitted credentials for a token and logs the
// browser in. Failures are shown inline on the form.
func (s *Server) authSubmit(ap func() authPage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := ap()
		st := session.From(c)

		form := credentialsForm{
			Email:    strings.TrimSpace(c.FormValue("email")),
			Password: c.FormValue("password"),
		}
		a.view.Email = form.Email

		if err := validate.Struct(form); err != nil {
			return render(c, fiber.StatusBadRequest, "auth", page{
				Title: a.title,
				Error: "Please enter a valid email address and password.",
				Data:  a.view,
			})
		}

		token, err := a.call(c.UserContext(), form.Email, form.Password)
		if err != nil {
			log.Printf("ERROR: %s failed for %s: %v", a.title, form.Email, err)
			return render(c, fiber.StatusOK, "auth", page{
				Title: a.title,
				Error: remote.UserMessage(err, a.fallback),
				Data:  a.view,
			})
		}

		var rec nav.Recorder
		if err := st.Login(c.UserContext(), token, form.Email, rec.Navigate); err != nil {
			return render(c, fiber.StatusOK, "auth", page{Title: a.title, Error: a.fallback, Data: a.view})
		}
		return follow(c, rec)
	}
}

// handleSignOut clears the local session unconditionally and tells the
// service in the background; a failed remote call is only logged.
func (s *Server) handleSignOut(c *fiber.Ctx) error {
	st := session.From(c)

	if token := st.Snapshot().Token; token != "" {
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.signOutTimeout)
			defer cancel()
			if err := s.api.SignOut(ctx, token); err != nil {
				log.Printf("ERROR: Signout failed: %s", remote.UserMessage(err, err.Error()))
			}
		}()
	}

	var rec nav.Recorder
	st.Logout(c.UserContext(), rec.Navigate)
	return follow(c, rec)
}

// follow turns the directive a session transition produced into a redirect.
func follow(c *fiber.Ctx, rec nav.Recorder) error {
	d, ok := rec.Last()
	if !ok {
		d = nav.Directive{To: nav.Root}
	}
	return c.Redirect(d.To, fiber.StatusSeeOther)
}
