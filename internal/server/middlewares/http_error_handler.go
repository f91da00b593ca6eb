package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/slsmu/slsmu/internal/sferror"
)

// HTTPErrorHandler is a middleware that formats rendered errors.
// Internal errors are logged and rendered without details.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	switch e := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if e.Internal != nil {
			logrus.WithError(e.Internal).Warn("echo error")
		}
		_ = c.JSON(e.Code, echo.Map{
			"error": echo.Map{
				"message": e.Message,
			},
		})
	case *sferror.SFError:
		if sferror.Is(e, sferror.KindInternal) {
			internal(err, c)
			return
		}

		logrus.WithFields(logrus.Fields{
			"tag":    e.Tag(),
			"method": c.Request().Method,
			"uri":    c.Request().RequestURI,
		}).Debug(e.Error())
		_ = c.JSON(sferror.StatusCode(e), e)
	default:
		internal(err, c)
	}
}

func internal(err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	logrus.WithError(err).WithFields(logrus.Fields{
		"id":     id,
		"method": c.Request().Method,
		"uri":    c.Request().RequestURI,
	}).Error("unexpected error")

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": echo.Map{
			"message": fmt.Sprintf("Unexpected error (id: %s)", id),
		},
	})
}
