package domain

import "strings"

// Role is the authorization role carried by an identity and its access tokens.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleUser    Role = "User"
	RoleCreator Role = "Creator"
)

// ParseRole resolves a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "user":
		return RoleUser, true
	case "creator":
		return RoleCreator, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// UserType is the account kind chosen at registration.
type UserType string

const (
	UserTypeUser    UserType = "User"
	UserTypeCreator UserType = "Creator"
)

// Valid reports whether t is one of the registrable account kinds.
func (t UserType) Valid() bool {
	return t == UserTypeUser || t == UserTypeCreator
}

// Role maps the account kind chosen at registration to the role it is granted.
func (t UserType) Role() Role {
	if t == UserTypeCreator {
		return RoleCreator
	}
	return RoleUser
}
