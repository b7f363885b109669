package httpapi

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-portal/internal/remote"
	"github.com/i474232898/weather-portal/internal/session"
	"github.com/i474232898/weather-portal/internal/weather"
)

type weatherView struct {
	Lat    string
	Lon    string
	Report *weather.Report
}

func (s *Server) handleWeather(c *fiber.Ctx) error {
	sess := session.From(c).Snapshot()

	view := weatherView{
		Lat: c.Query("lat", s.defaultLat),
		Lon: c.Query("lon", s.defaultLon),
	}
	p := page{Title: "Current Weather", Data: &view}

	point, err := weather.ParsePoint(view.Lat, view.Lon)
	if err != nil {
		p.Error = "Latitude must be between -90 and 90 and longitude between -180 and 180."
		return render(c, fiber.StatusBadRequest, "weather", p)
	}

	report, err := s.api.CurrentWeather(c.UserContext(), sess.Token, point)
	if err != nil {
		log.Printf("ERROR: weather fetch failed for %s,%s: %v", view.Lat, view.Lon, err)
		p.Error = remote.UserMessage(err, "Failed to fetch weather")
		return render(c, fiber.StatusOK, "weather", p)
	}

	view.Report = &report
	return render(c, fiber.StatusOK, "weather", p)
}
