package sferror_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/slsmu/slsmu/internal/sferror"
	"github.com/stretchr/testify/assert"
)

func TestSFError(t *testing.T) {
	err := sferror.Forbidden("some message")

	assert.Equal(t, "some message", err.Error())
	assert.Equal(t, "forbidden", err.Tag())
	assert.Equal(t, http.StatusForbidden, sferror.StatusCode(err))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, sferror.KindUnauthenticated, sferror.KindOf(sferror.Unauthenticated("no token")))
	assert.Equal(t, sferror.KindValidation, sferror.KindOf(errors.Wrap(sferror.Validation("title"), "add content")))
	assert.Equal(t, sferror.KindNotFound, sferror.KindOf(sferror.NotFound("missing")))
	assert.Equal(t, sferror.KindInternal, sferror.KindOf(errors.New("boom")))

	assert.True(t, sferror.Is(sferror.Forbidden("nope"), sferror.KindForbidden))
	assert.False(t, sferror.Is(nil, sferror.KindInternal))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, sferror.StatusCode(sferror.Unauthenticated("x")))
	assert.Equal(t, http.StatusBadRequest, sferror.StatusCode(sferror.Validation("x")))
	assert.Equal(t, http.StatusNotFound, sferror.StatusCode(sferror.NotFound("x")))
	assert.Equal(t, http.StatusInternalServerError, sferror.StatusCode(errors.New("x")))
}

func TestSFErrorJSON(t *testing.T) {
	payload, err := json.Marshal(sferror.Unauthenticated("Invalid login credentials."))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"error":{"tag":"invalid-auth","message":"Invalid login credentials."}}`, string(payload))
}
