package models

import (
	"fmt"
	"time"
)

// Role is the closed set of roles a user can hold
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a raw string into a known Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsAdmin reports whether the role grants catalog, order and account management
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsCustomer reports whether the role places orders for itself. Admins are not customers.
func (r Role) IsCustomer() bool {
	return r == RoleUser
}

// Satisfies reports whether a holder of r passes a gate that requires role.
func (r Role) Satisfies(required Role) bool {
	switch required {
	case RoleAdmin:
		return r.IsAdmin()
	case RoleUser:
		return r.IsCustomer() || r.IsAdmin()
	}
	return false
}

type User struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Name            string    `json:"name" gorm:"not null" bson:"name"`
	Email           string    `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	PasswordHash    string    `json:"-" gorm:"not null" bson:"password"`
	Role            Role      `json:"role" gorm:"not null;default:'user';index" bson:"role"`
	DeliveryAddress string    `json:"deliveryAddress,omitempty" bson:"deliveryAddress,omitempty"`
	PhoneNumber     string    `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HasDeliveryProfile is true when both stored delivery fields are present
func (u *User) HasDeliveryProfile() bool {
	return u.DeliveryAddress != "" && u.PhoneNumber != ""
}
