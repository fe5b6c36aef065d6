package api

import (
	"strings"

	domain "github.com/example/bfhl-api/domain/bfhl"
	"github.com/example/bfhl-api/modules/bfhl"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for the API endpoints.
type Handlers struct {
	dispatcher *bfhl.Dispatcher
	email      string
}

// NewHandlers creates a new handlers instance.
func NewHandlers(dispatcher *bfhl.Dispatcher, email string) *Handlers {
	return &Handlers{
		dispatcher: dispatcher,
		email:      email,
	}
}

// Operate handles POST /bfhl. JSON and URL-encoded form bodies are accepted; any
// other content type counts as an empty body. Validation failures reach the error
// handler as *domain.ValidationError and become 400 envelopes.
func (h *Handlers) Operate(c *fiber.Ctx) error {
	var (
		data any
		err  error
	)
	switch {
	case c.Is("json"):
		data, err = h.dispatcher.Dispatch(c.UserContext(), c.Body())
	case isForm(c):
		var raw bfhl.RawRequest
		if raw, err = bfhl.FormRequest(formValues(c)); err == nil {
			data, err = h.dispatcher.DispatchRaw(c.UserContext(), raw)
		}
	default:
		data, err = h.dispatcher.Dispatch(c.UserContext(), nil)
	}
	if err != nil {
		return err
	}
	return c.JSON(domain.Success(h.email, data))
}

func isForm(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationForm)
}

// formValues collects the URL-encoded body fields, keeping repeated keys in order.
func formValues(c *fiber.Ctx) map[string][]string {
	form := make(map[string][]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		form[string(key)] = append(form[string(key)], string(value))
	})
	return form
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(domain.Health(h.email))
}

// Index handles GET / with the list of available endpoints.
func (h *Handlers) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Server is running",
		"endpoints": fiber.Map{
			"health": "GET /health",
			"bfhl":   "POST /bfhl",
		},
	})
}

// NotFound answers every unmatched route.
func (h *Handlers) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(domain.Failure(h.email, domain.MsgNotFound))
}
