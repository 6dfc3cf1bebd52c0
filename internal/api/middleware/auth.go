package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"backoffice/internal/authz"
	"backoffice/internal/utils"
	"backoffice/internal/utils/logger"
)

var log = logger.New("auth_middleware")

// CookieName is where the login flow stores the token.
const CookieName = "jwt"

const principalKey = "principal"

// AuthMiddleware authenticates requests by validating the bearer token and
// attaching the resulting principal to the request context. Authorization is
// a separate concern (see RequireRoles).
type AuthMiddleware struct {
	issuer *utils.TokenIssuer
}

// NewAuthMiddleware creates the middleware around a token issuer.
func NewAuthMiddleware(issuer *utils.TokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer}
}

// Middleware returns the echo middleware. Every failure — missing token, bad
// signature, expiry — is a 401; nothing else leaks.
func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication token")
			}
			principal, err := m.issuer.Validate(token)
			if err != nil {
				log.Warn("Rejected token from %s: %v", c.RealIP(), err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			c.Set(principalKey, *principal)
			return next(c)
		}
	}
}

// ExtractToken finds the bearer token. The cookie takes precedence over the
// Authorization header when both are present.
func ExtractToken(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFrom returns the authenticated principal set by Middleware.
func PrincipalFrom(c echo.Context) (authz.Principal, bool) {
	p, ok := c.Get(principalKey).(authz.Principal)
	return p, ok
}
