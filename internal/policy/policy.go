// Package policy decides whether a caller may perform an action on a content item.
//
// The decision only depends on the caller, the action and the ownership and
// visibility of the target; it never reads the store.
package policy

import (
	"fmt"

	"github.com/slsmu/slsmu/internal/model"
)

// An Action is an operation on content items.
type Action int

const (
	// Create a content item. The caller becomes its owner.
	Create Action = iota + 1
	// Read a single content item.
	Read
	// List content items.
	List
	// Update a content item.
	Update
	// Delete a content item.
	Delete
)

var actions = map[string]Action{
	"create": Create,
	"read":   Read,
	"list":   List,
	"update": Update,
	"delete": Delete,
}

// aliases are the request types naming an action.
var aliases = map[string]Action{
	"add": Create,
	"get": Read,
}

// ParseAction returns the action for the given tag or request type.
func ParseAction(tag string) (Action, error) {
	if a, ok := actions[tag]; ok {
		return a, nil
	}
	if a, ok := aliases[tag]; ok {
		return a, nil
	}
	return 0, &UnknownActionError{Tag: tag}
}

// String implements fmt.Stringer.
func (a Action) String() string {
	if tag, ok := tags(a); ok {
		return tag
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// An UnknownActionError is returned for actions outside the policy table.
type UnknownActionError struct {
	Tag string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Tag)
}

// A Verdict is allow or deny.
type Verdict int

const (
	// Deny means the action is not permitted.
	Deny Verdict = iota
	// Allow means the action is permitted.
	Allow
)

// String returns "allow" or "deny".
func (v Verdict) String() string {
	if v == Allow {
		return "allow"
	}
	return "deny"
}

// A Reason tells why a decision was denied.
type Reason int

const (
	// ReasonNone is used for allowed decisions.
	ReasonNone Reason = iota
	// ReasonGuest means the action requires an authenticated caller.
	ReasonGuest
	// ReasonNotOwner means the caller neither owns the target nor is admin.
	ReasonNotOwner
	// ReasonPrivate means the target is private.
	ReasonPrivate
	// ReasonAdminOnly means only admins may perform the action.
	ReasonAdminOnly
)

// String returns a human-readable reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "allowed"
	case ReasonGuest:
		return "authentication required"
	case ReasonNotOwner:
		return "not owner"
	case ReasonPrivate:
		return "private content"
	case ReasonAdminOnly:
		return "admin only"
	default:
		return "unknown"
	}
}

type (
	// A Resource holds the attributes of a content item the policy depends on.
	// For List, Owner is the scope of the listing and empty for the general listing.
	Resource struct {
		Owner   string
		Private bool
	}

	// A Decision is the outcome of an evaluation.
	Decision struct {
		Verdict Verdict
		Reason  Reason
	}
)

// Allowed returns true if the decision allows the action.
func (d Decision) Allowed() bool {
	return d.Verdict == Allow
}

// Authenticated returns true if the decision was denied despite an authenticated caller.
func (d Decision) Authenticated() bool {
	return d.Reason != ReasonGuest
}

var allow = Decision{Verdict: Allow}

func deny(r Reason) Decision {
	return Decision{Verdict: Deny, Reason: r}
}

// Of returns the Resource of the given content.
func Of(c *model.Content) Resource {
	return Resource{Owner: c.OwnerID, Private: c.Private}
}

// Evaluate decides whether the caller may perform the action on the target.
// A nil caller is a guest.
// It returns an error for actions and roles outside the policy table.
func Evaluate(caller *model.Caller, action Action, target Resource) (Decision, error) {
	if caller == nil {
		return guest(action, target)
	}

	switch caller.Role {
	case model.RoleAdmin:
		if _, ok := tags(action); !ok {
			return Decision{}, &UnknownActionError{Tag: action.String()}
		}
		return allow, nil
	case model.RoleUser:
		return user(caller.ID, action, target)
	default:
		return Decision{}, fmt.Errorf("unknown role %q", caller.Role)
	}
}

func guest(action Action, target Resource) (Decision, error) {
	switch action {
	case Create, Update, Delete:
		return deny(ReasonGuest), nil
	case Read:
		if target.Private {
			return deny(ReasonGuest), nil
		}
		return allow, nil
	case List:
		// Results must be filtered with Visible.
		return allow, nil
	default:
		return Decision{}, &UnknownActionError{Tag: action.String()}
	}
}

func user(id string, action Action, target Resource) (Decision, error) {
	owner := target.Owner == id

	switch action {
	case Create:
		return allow, nil
	case Read:
		if owner || !target.Private {
			return allow, nil
		}
		return deny(ReasonPrivate), nil
	case List:
		// Only the listing scoped to the caller's own items.
		if owner {
			return allow, nil
		}
		return deny(ReasonAdminOnly), nil
	case Update, Delete:
		if owner {
			return allow, nil
		}
		return deny(ReasonNotOwner), nil
	default:
		return Decision{}, &UnknownActionError{Tag: action.String()}
	}
}

// Visible returns true if the item can be part of a listing assembled for the caller.
func Visible(caller *model.Caller, item Resource) bool {
	if caller.IsAdmin() {
		return true
	}
	if caller != nil && item.Owner == caller.ID {
		return true
	}
	return !item.Private
}

// Filter returns the contents visible by the caller.
func Filter(caller *model.Caller, contents []*model.Content) []*model.Content {
	visible := make([]*model.Content, 0, len(contents))
	for _, c := range contents {
		if Visible(caller, Of(c)) {
			visible = append(visible, c)
		}
	}
	return visible
}

func tags(action Action) (string, bool) {
	for tag, a := range actions {
		if a == action {
			return tag, true
		}
	}
	return "", false
}
