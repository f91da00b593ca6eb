package service

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/slsmu/slsmu/internal/model"
	"github.com/slsmu/slsmu/internal/policy"
	"github.com/slsmu/slsmu/internal/sferror"
)

type (
	// A Render is an arbitrary payload serializable in JSON by the API.
	Render any

	// M is an arbitrary map.
	M map[string]any
)

// UndefinedMethod returns the error of an unknown request type.
func UndefinedMethod(tag string) error {
	return sferror.NewWithTag(sferror.KindValidation, "undefined-method", "Undefined method: "+tag)
}

// authorize turns a policy decision into an error.
// Guests get an unauthenticated error, authenticated callers a forbidden one.
func authorize(caller *model.Caller, d policy.Decision, err error) error {
	if err != nil {
		var unknown *policy.UnknownActionError
		if errors.As(err, &unknown) {
			return UndefinedMethod(unknown.Tag)
		}
		return errors.Wrap(err, "could not evaluate policy")
	}

	if d.Allowed() {
		return nil
	}

	entry := logrus.WithField("reason", d.Reason.String())
	if caller != nil {
		entry = entry.WithField("caller", caller.ID)
	}
	entry.Debug("denied")

	if !d.Authenticated() {
		return sferror.Unauthenticated("Not authorized.")
	}
	return sferror.Forbidden("Not authorized.")
}
