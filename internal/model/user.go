package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is a user's role in the system. Users are owned by the identity
// collaborator; this service only reads id and role to validate references.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// ParseRole validates a role value from the boundary. The legacy value
// "medecin" is accepted as an alias of RoleDoctor.
func ParseRole(s string) (Role, error) {
	switch s {
	case "patient":
		return RolePatient, nil
	case "doctor", "medecin":
		return RoleDoctor, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User is a read-only projection of the identity collaborator's users table.
type User struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Surname    string    `json:"surname" db:"surname"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Role       Role      `json:"role" db:"role"`
	Speciality *string   `json:"speciality,omitempty" db:"speciality"`
}
