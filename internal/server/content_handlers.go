package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/slsmu/slsmu/internal/policy"
	"github.com/slsmu/slsmu/internal/server/middlewares"
	"github.com/slsmu/slsmu/internal/server/serializer"
	"github.com/slsmu/slsmu/internal/server/service"
	"github.com/slsmu/slsmu/internal/sferror"
)

// content contains all content handlers.
type content struct {
	contents *service.ContentService
}

///// Post
////
//

// Post dispatches the add (create) and update requests.
// The payload shape is checked before any access decision.
func (h *content) Post(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return sferror.Validation("Could not get content params.")
	}

	params, err := service.ParseContentParams(body)
	if err != nil {
		return err
	}

	action, err := policy.ParseAction(params.Type)
	if err != nil {
		return service.UndefinedMethod(params.Type)
	}

	caller := middlewares.CurrentCaller(c)

	switch action {
	case policy.Create:
		content, err := h.contents.Create(caller, params)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, serializer.Content(content))
	case policy.Update:
		content, err := h.contents.Update(caller, params)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, serializer.Content(content))
	default:
		return service.UndefinedMethod(params.Type)
	}
}

///// Get
////
//

// Get dispatches the get (read), list and delete requests.
func (h *content) Get(c echo.Context) error {
	t := c.QueryParam("type")
	action, err := policy.ParseAction(t)
	if err != nil {
		return service.UndefinedMethod(t)
	}

	caller := middlewares.CurrentCaller(c)

	switch action {
	case policy.Read:
		content, err := h.contents.Get(caller, c.QueryParam("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, serializer.Content(content))
	case policy.List:
		params := service.ListParams{
			ContentType: c.QueryParam("contentType"),
			Owner:       c.QueryParam("owner"),
		}
		if v := c.QueryParam("private"); v != "" {
			private, err := strconv.ParseBool(v)
			if err != nil {
				return sferror.Validation("private must be a boolean.")
			}
			params.Private = &private
		}

		contents, err := h.contents.List(caller, params)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, serializer.Contents(contents))
	case policy.Delete:
		if err := h.contents.Delete(caller, c.QueryParam("id")); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"message": true})
	default:
		return service.UndefinedMethod(t)
	}
}
