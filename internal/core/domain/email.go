package domain

// Email is a single outbound HTML message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// UserConfirmedEvent is published to the backend once an identity confirms its email.
type UserConfirmedEvent struct {
	Email      string
	Role       Role
	Username   string
	AdminToken string
}
