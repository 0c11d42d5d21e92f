package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const SessionCookieName = "mg_token"

// CookiePolicy builds the session cookie. Production cookies are Secure and
// cross-site; everything else is Lax.
type CookiePolicy struct {
	Production bool
}

func (p CookiePolicy) base() *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		HTTPOnly: true,
		Secure:   p.Production,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if p.Production {
		cookie.SameSite = fiber.CookieSameSiteNoneMode
	}
	return cookie
}

func (p CookiePolicy) Session(token string, expiresAt time.Time) *fiber.Cookie {
	cookie := p.base()
	cookie.Value = token
	cookie.Expires = expiresAt
	return cookie
}

func (p CookiePolicy) Cleared() *fiber.Cookie {
	cookie := p.base()
	cookie.Value = ""
	cookie.Expires = time.Unix(0, 0)
	return cookie
}
