package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/metrics"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

// UserSource loads the live user record a token refers to.
// Satisfied by repository.UserRepository.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Authenticator authenticates inbound requests: it verifies the bearer
// token, then joins it against live user state, so a deactivated account
// or a rotated password invalidates every previously issued token.
type Authenticator struct {
	Users UserSource

	Metrics *metrics.Collector // optional
}

func NewAuthenticator(users UserSource) *Authenticator {
	return &Authenticator{Users: users}
}

type authFailure struct {
	status  int
	message string
}

func (a *Authenticator) fail(reason string, status int, message string) *authFailure {
	if a.Metrics != nil {
		a.Metrics.RecordAuthFailure(reason)
	}
	return &authFailure{status, message}
}

// authenticate runs the full check sequence. Each failure is a distinct,
// reportable condition; only a store error yields the generic 500.
func (a *Authenticator) authenticate(c echo.Context) (*model.User, *Claims, *authFailure) {
	raw := TokenFromRequest(c)
	if raw == "" {
		return nil, nil, a.fail("token_missing", http.StatusUnauthorized, "Authorization token required")
	}

	claims := VerifyToken(raw)
	if claims == nil {
		return nil, nil, a.fail("token_invalid", http.StatusUnauthorized, "Invalid or expired token")
	}

	u, err := a.Users.GetByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil, a.fail("user_missing", http.StatusNotFound, "User not found")
		}
		return nil, nil, a.fail("store_error", http.StatusInternalServerError, "Authentication failed")
	}

	if !u.IsActive {
		return nil, nil, a.fail("account_deactivated", http.StatusUnauthorized, "Account is deactivated")
	}

	if u.PasswordChangedAt != nil && claims.IssuedAt != nil &&
		u.PasswordChangedAt.After(claims.IssuedAt.Time) {
		return nil, nil, a.fail("password_rotated", http.StatusUnauthorized, "Password was changed. Please login again.")
	}

	return u, claims, nil
}

// RequireAuth returns an Echo middleware that only runs the wrapped handler
// after authentication succeeds; on failure it short-circuits with the
// matching status and JSON error body.
func (a *Authenticator) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, claims, fail := a.authenticate(c)
			if fail != nil {
				return c.JSON(fail.status, echo.Map{"success": false, "error": fail.message})
			}
			c.Set("auth_user", u)
			c.Set("auth_claims", claims)
			return next(c)
		}
	}
}

// RequireRole returns a middleware enforcing exact role equality, to be
// mounted after RequireAuth. No role hierarchy.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Authorization token required"})
			}
			if u.Role != role {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": role + " role required"})
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c echo.Context) *model.User {
	if u, ok := c.Get("auth_user").(*model.User); ok {
		return u
	}
	return nil
}

// GetClaims returns the verified token claims set by RequireAuth, or nil.
func GetClaims(c echo.Context) *Claims {
	if cl, ok := c.Get("auth_claims").(*Claims); ok {
		return cl
	}
	return nil
}

// TryGetClaimsFromAuthHeader parses the Authorization header if present.
// Returns claims or nil; an invalid token is treated the same as no token.
func TryGetClaimsFromAuthHeader(c echo.Context) *Claims {
	raw := TokenFromRequest(c)
	if raw == "" {
		return nil
	}
	return VerifyToken(raw)
}
