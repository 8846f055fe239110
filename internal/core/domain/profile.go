package domain

// UserProfile is the account data attached to an identity with the User role.
type UserProfile struct {
	IdentityID  string
	FullName    string
	Address     string
	PhoneNumber string
}

// CreatorProfile is the account data attached to an identity with the Creator role.
type CreatorProfile struct {
	IdentityID   string
	BusinessName string
	Address      string
	PhoneNumber  string
}

// Profile is the role-dependent view returned by profile lookups.
// Exactly one of User or Creator is set.
type Profile struct {
	User    *UserProfile
	Creator *CreatorProfile
}
