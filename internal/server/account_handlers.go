package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/slsmu/slsmu/internal/server/middlewares"
	"github.com/slsmu/slsmu/internal/server/service"
	"github.com/slsmu/slsmu/internal/sferror"
)

// account contains all account handlers.
type account struct {
	accounts *service.AccountService
}

///// Post
////
//

// Post dispatches the login and add requests.
func (h *account) Post(c echo.Context) error {
	// Filter params
	var params service.AccountParams
	if err := c.Bind(&params); err != nil {
		logrus.WithError(err).Debug("could not get parameters")
		return sferror.Validation("Could not get account params.")
	}
	params.Site = c.Request().Header.Get(middlewares.HeaderSite)

	switch params.Type {
	case "login":
		login, err := h.accounts.Login(params)
		if err != nil {
			return err
		}
		if !login.Auth {
			return c.JSON(http.StatusUnauthorized, login)
		}
		return c.JSON(http.StatusOK, login)
	case "add":
		return render(c)(h.accounts.Add(middlewares.CurrentCaller(c), params))
	default:
		return service.UndefinedMethod(params.Type)
	}
}

///// Get
////
//

// Get dispatches the get, me, list and delete requests.
func (h *account) Get(c echo.Context) error {
	caller := middlewares.CurrentCaller(c)
	email := c.QueryParam("email")

	switch t := c.QueryParam("type"); t {
	case "get":
		return render(c)(h.accounts.Get(caller, email))
	case "me":
		return render(c)(h.accounts.Me(caller))
	case "list":
		return render(c)(h.accounts.List(caller))
	case "delete":
		return render(c)(h.accounts.Delete(caller, email))
	default:
		return service.UndefinedMethod(t)
	}
}

func render(c echo.Context) func(service.Render, error) error {
	return func(r service.Render, err error) error {
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, r)
	}
}
