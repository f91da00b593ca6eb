package policy

import "github.com/slsmu/slsmu/internal/model"

// Admin decides account management actions (add, get, list, delete).
func Admin(caller *model.Caller) Decision {
	switch {
	case caller == nil:
		return deny(ReasonGuest)
	case caller.IsAdmin():
		return allow
	default:
		return deny(ReasonAdminOnly)
	}
}

// Self decides actions on the caller's own account.
func Self(caller *model.Caller) Decision {
	if caller == nil {
		return deny(ReasonGuest)
	}
	return allow
}
