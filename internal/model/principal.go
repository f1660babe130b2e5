package model

import (
	"github.com/google/uuid"
)

// Principal is the authenticated actor behind a request, as verified from
// the identity collaborator's token. Request-supplied ids are only ever
// cross-checked against it, never trusted on their own.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}
