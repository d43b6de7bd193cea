package httpapi

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"voicetasks/internal/auth"
	"voicetasks/internal/repository"
)

// identityKey is the key under which the verified caller is stored in
// the request context.
const identityKey = "identity"

// RequireAuth validates the bearer credential before any handler logic
// runs and stores the resolved identity in the request context. Seen
// users are recorded best-effort.
func RequireAuth(verifier auth.Verifier, users *repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return fail(c, fiber.StatusUnauthorized, "Unauthorized: No token provided")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		identity, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		if _, err := users.Upsert(c.UserContext(), identity.UID, identity.Email); err != nil {
			log.Printf("[warn] record user %s: %v", identity.UID, err)
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

func callerIdentity(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	return identity, ok
}
