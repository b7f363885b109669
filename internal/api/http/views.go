package httpapi

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-portal/internal/session"
	"github.com/i474232898/weather-portal/internal/weather"
)

//go:embed templates/*.html
var templateFS embed.FS

const timeLayout = "2006-01-02 15:04:05"

var funcs = template.FuncMap{
	"coord": weather.FormatCoordinate,
	"fmtTime": func(v any) string {
		switch t := v.(type) {
		case weather.Timestamp:
			return t.Display(timeLayout)
		case time.Time:
			return weather.Timestamp{Time: t}.Display(timeLayout)
		default:
			return "-"
		}
	},
	"deref": func(n *int) int {
		if n == nil {
			return 0
		}
		return *n
	},
}

// pages maps a page name to its template set; every set shares the layout.
var pages = mustParsePages("landing", "auth", "weather", "history", "failure")

func mustParsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(
			templateFS, "templates/layout.html", "templates/"+name+".html",
		))
	}
	return out
}

// page is what every template receives.
type page struct {
	Title   string
	Session session.Session
	Error   string
	Data    any
}

// render executes the named page inside the layout. The navbar reads the
// session as it stands after the handler ran.
func render(c *fiber.Ctx, status int, name string, p page) error {
	tmpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	p.Session = session.From(c).Snapshot()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// renderFailure answers with the failure page. It never reads the session,
// since it also serves requests the provider did not handle.
func renderFailure(c *fiber.Ctx, status int, message string) error {
	var buf bytes.Buffer
	p := page{Title: "Something went wrong", Error: message}
	if err := pages["failure"].ExecuteTemplate(&buf, "layout", p); err != nil {
		return c.Status(status).SendString(message)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
