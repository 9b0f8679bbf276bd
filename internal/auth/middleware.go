package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "techblog/internal/errors"
	"techblog/internal/model"
)

// subjectContextKey is the echo context key holding the resolved Subject.
const subjectContextKey = "auth.subject"

// sessionResolveTimeout bounds the blacklist lookup against Redis so a
// navigation guard never blocks indefinitely on a slow session store.
const sessionResolveTimeout = 3 * time.Second

// Subject is the authenticated identity derived from a session.
type Subject struct {
	UserID uuid.UUID
	Email  string
	Role   model.Role
}

// IsAdmin reports whether the subject carries the admin role.
func (s *Subject) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

// Guard resolves request sessions into Subjects and gates routes by role.
type Guard struct {
	jwtService *JWTService
	tokenStore TokenStoreInterface
}

// NewGuard creates a route guard backed by the JWT service and token store.
func NewGuard(jwtService *JWTService, tokenStore TokenStoreInterface) *Guard {
	return &Guard{jwtService: jwtService, tokenStore: tokenStore}
}

// SubjectFrom returns the Subject a guard middleware attached to the context,
// or nil when the request is unauthenticated.
func SubjectFrom(c echo.Context) *Subject {
	subject, _ := c.Get(subjectContextKey).(*Subject)
	return subject
}

// resolve validates the bearer token and returns the authenticated Subject.
// The blacklist check runs under a bounded context.
func (g *Guard) resolve(c echo.Context) (*Subject, error) {
	if subject := SubjectFrom(c); subject != nil {
		return subject, nil
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, apperrors.ErrUnauthorized
	}
	token := header
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		token = strings.TrimSpace(header[7:])
	}

	claims, err := g.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), sessionResolveTimeout)
	defer cancel()
	blacklisted, err := g.tokenStore.IsAccessTokenBlacklisted(ctx, claims.ID)
	if err != nil || blacklisted {
		return nil, apperrors.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	subject := &Subject{UserID: userID, Email: claims.Email, Role: claims.Role}
	c.Set(subjectContextKey, subject)
	return subject, nil
}

// RequireAuth ensures the request carries a valid session and attaches the
// Subject to the context. Fails with 401 otherwise.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := g.resolve(c); err != nil {
			httpErr := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// RequireRole composes RequireAuth with a role check: 401 without a valid
// session, 403 when the session's role does not match. Handlers behind this
// middleware never re-check authentication.
func (g *Guard) RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, err := g.resolve(c)
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if subject.Role != role {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// SessionGate is the navigation guard for admin-scoped paths. It resolves
// the session up front (bounded wait, see resolve) so the role decision never
// runs against a stale read, then redirects browser clients instead of
// returning bare status codes: unauthenticated sessions go to the login page,
// authenticated non-admins go home. API clients fall through to RequireRole
// for the usual 401/403 responses.
func (g *Guard) SessionGate(loginPath, homePath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, err := g.resolve(c)
			if !wantsHTML(c) {
				return next(c)
			}
			if err != nil {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			if !subject.IsAdmin() {
				return c.Redirect(http.StatusSeeOther, homePath)
			}
			return next(c)
		}
	}
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
