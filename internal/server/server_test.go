package server_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/appleboy/gofight/v2"
	"github.com/labstack/echo/v4"
	"github.com/slsmu/slsmu/internal/database"
	"github.com/slsmu/slsmu/internal/model"
	"github.com/slsmu/slsmu/internal/server"
	"github.com/slsmu/slsmu/internal/server/service"
	"github.com/slsmu/slsmu/internal/server/session"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

const site = "localhost"

func TestRequestHome(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"version":"test"}`, r.Body.String())
	})
}

func TestRequestVersion(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/version").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"version":"test"}`, r.Body.String())
	})
}

func setup() (engine *echo.Echo, ctrl server.IOC, r *gofight.RequestConfig, cleanup func()) {
	dir, err := os.MkdirTemp("", "slsmu")
	if err != nil {
		panic(err)
	}

	db, err := database.StormOpen(filepath.Join(dir, "slsmu.db"), "")
	if err != nil {
		panic(err)
	}

	tokens, err := session.NewTokenService(session.TokenConfig{
		Format: session.FormatJWT,
		Secret: []byte("secret"),
		TTL:    time.Hour,
	})
	if err != nil {
		panic(err)
	}

	ctrl = server.IOC{
		Version:  "test",
		Database: db,
		Tokens:   tokens,
	}
	engine = server.EchoEngine(ctrl)

	return engine, ctrl, gofight.New(), func() {
		db.Close()
		os.RemoveAll(dir)
	}
}

func createAccount(ctrl server.IOC, email string, role model.Role) *model.Account {
	account, err := service.CreateAccount(ctrl.Database, email, "password", role)
	if err != nil {
		panic(err)
	}
	return account
}

func header(token string) gofight.H {
	h := gofight.H{
		"X-Slsmu-Site": site,
	}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

func login(t *testing.T, engine *echo.Echo, email string) (token string) {
	gofight.New().POST("/users").SetHeader(header("")).SetJSON(gofight.D{
		"type":     "login",
		"email":    email,
		"password": "password",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code, r.Body.String())

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.True(t, v.GetBool("auth"))
		token = string(v.GetStringBytes("token"))
	})
	return token
}
