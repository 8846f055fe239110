package domain

// VerificationPurpose scopes a single-use verification token.
type VerificationPurpose string

const (
	PurposeEmailConfirmation VerificationPurpose = "email-confirmation"
	PurposePasswordReset     VerificationPurpose = "password-reset"
)
