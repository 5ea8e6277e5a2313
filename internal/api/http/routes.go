package httpapi

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		_, err := weather.ParseUnit(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("source", func(fl validator.FieldLevel) bool {
		_, err := weather.ParseSourceID(fl.Field().String())
		return err == nil
	})
	return v
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, settings weather.SettingsStore) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-lookup",
			"sources": service.Sources(),
		})
	})

	v1 := app.Group("/api/v1")

	// Umbrella command: channel's source first, then the others.
	v1.Get("/weather", func(c *fiber.Ctx) error {
		req := weather.Request{
			User:     c.Query("user"),
			Channel:  c.Query("channel"),
			Location: c.Query("location"),
		}

		reply, err := service.Weather(c.UserContext(), req)
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(fiber.Map{"reply": reply})
	})

	v1.Get("/weather/:source", func(c *fiber.Ctx) error {
		raw, err := url.PathUnescape(c.Params("source"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		id, err := weather.ParseSourceID(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !slices.Contains(service.Sources(), id) {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("weather source %q is not configured", id))
		}

		reply, err := service.Lookup(c.UserContext(), id, c.Query("channel"), c.Query("location"))
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(fiber.Map{"source": id, "reply": reply})
	})

	v1.Get("/channels/:channel/settings", func(c *fiber.Ctx) error {
		channel, err := url.PathUnescape(c.Params("channel"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		cs, err := settings.ChannelSettings(channel)
		if err != nil {
			log.Printf("ERROR: loading settings for %q: %v", channel, err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load channel settings")
		}
		return c.JSON(toSettingsBody(channel, cs))
	})

	v1.Put("/channels/:channel/settings", func(c *fiber.Ctx) error {
		channel, err := url.PathUnescape(c.Params("channel"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var body settingsBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		cs := body.toChannelSettings()
		if err := settings.SetChannelSettings(channel, cs); err != nil {
			log.Printf("ERROR: storing settings for %q: %v", channel, err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store channel settings")
		}
		return c.JSON(toSettingsBody(channel, cs))
	})
}

// settingsBody is the wire form of a channel's settings.
type settingsBody struct {
	Channel string `json:"channel,omitempty"`
	Unit    string `json:"unit" validate:"required,unit"`
	Convert *bool  `json:"convert" validate:"required"`
	Source  string `json:"source" validate:"required,source"`
}

func (b settingsBody) toChannelSettings() weather.ChannelSettings {
	// validated above
	unit, _ := weather.ParseUnit(b.Unit)
	source, _ := weather.ParseSourceID(b.Source)
	return weather.ChannelSettings{
		Preference: weather.Preference{Unit: unit, Convert: *b.Convert},
		Source:     source,
	}
}

func toSettingsBody(channel string, cs weather.ChannelSettings) settingsBody {
	convert := cs.Convert
	return settingsBody{
		Channel: channel,
		Unit:    cs.Unit.Name(),
		Convert: &convert,
		Source:  string(cs.Source),
	}
}

// lookupError maps lookup failures onto HTTP status codes.
func lookupError(err error) error {
	if errors.Is(err, weather.ErrMissingLocation) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var werr *weather.Error
	if !errors.As(err, &werr) {
		log.Printf("ERROR: weather lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to look up weather")
	}

	switch werr.Kind {
	case weather.KindLocationNotFound, weather.KindExhausted:
		return fiber.NewError(fiber.StatusNotFound, werr.Error())
	case weather.KindMalformed:
		return fiber.NewError(fiber.StatusBadGateway,
			fmt.Sprintf("%s returned an unexpected page (possible bug): %s", werr.Source, werr.Error()))
	default:
		return fiber.NewError(fiber.StatusBadGateway, werr.Error())
	}
}
