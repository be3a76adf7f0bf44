package access

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// Actor is the caller of an operation as established by the transport.
type Actor struct {
	UserID uint
	Admin  bool
}

// Public is an unauthenticated caller.
var Public = Actor{}

func Admin(userID uint) Actor {
	return Actor{UserID: userID, Admin: true}
}

func (a Actor) RequireAdmin() error {
	if !a.Admin {
		return httperr.Forbidden()
	}
	return nil
}

// UserRef returns the user id for audit records, nil for public callers.
func (a Actor) UserRef() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
