package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "token"

// setSessionCookie attaches the session token: HTTP-only so page scripts
// cannot read it, SameSite=Lax, Secure in prod, scoped to the whole site,
// with a lifetime mirroring the token's expiry.
func (h *handlerImpl) setSessionCookie(c *gin.Context, token string) {
	const httpOnly = true
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(h.tokenTTL.Seconds()),
		"/", "", h.secureCookies, httpOnly)
}

// clearSessionCookie removes the cookie. The previously issued token stays
// cryptographically valid until its natural expiry; the client just stops
// carrying it.
func (h *handlerImpl) clearSessionCookie(c *gin.Context) {
	const httpOnly = true
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1,
		"/", "", h.secureCookies, httpOnly)
}

// readSessionCookie extracts the carried token. Absence is the anonymous
// state, not an error.
func readSessionCookie(c *gin.Context) (string, bool) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}
