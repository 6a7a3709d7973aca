package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the request id in both directions.
const Header = "X-Ray-ID"

// LocalsKey is where the id is stored on the fiber context.
const LocalsKey = "ray_id"

// New returns a middleware that tags every request with a ray id. An incoming
// X-Ray-ID header is reused, otherwise a UUID v4 is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalsKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}
