package middlewares

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/slsmu/slsmu/internal/model"
	"github.com/slsmu/slsmu/internal/server/session"
)

const (
	// CurrentCallerContextKey is the key to retrieve the current_caller from echo.Context.
	CurrentCallerContextKey = "current_caller"
	// HeaderSite is the header identifying the site of the request.
	HeaderSite = "X-Slsmu-Site"
)

// Caller returns a middleware that resolves the caller of every request.
// It stores the current_caller into echo.Context, nil for guests.
// It never rejects a request, handlers decide with the access policy.
func Caller(authorizer *session.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := authorizer.Authorize(session.Request{
				Token: token(c.Request().Header.Get(echo.HeaderAuthorization)),
				Site:  c.Request().Header.Get(HeaderSite),
			})
			if err != nil {
				return err
			}

			if result.Auth {
				c.Set(CurrentCallerContextKey, result.Caller)
			}
			return next(c)
		}
	}
}

// CurrentCaller returns the caller stored in the context, nil for guests.
func CurrentCaller(c echo.Context) *model.Caller {
	caller, ok := c.Get(CurrentCallerContextKey).(*model.Caller)
	if ok {
		return caller
	}
	return nil
}

func token(authorization string) string {
	parts := strings.Fields(authorization)
	if len(parts) < 2 {
		return ""
	}

	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
