package services

import (
	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/models"
)

// Actor is the resolved identity of the caller. It is always passed in
// explicitly; the core never reads identity from request-scoped globals.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}
