package domain

// Each workflow reports exactly one value of its own outcome type.
// The string forms are stable and used as metric labels.

type RegistrationOutcome string

const (
	RegistrationSuccess            RegistrationOutcome = "Success"
	RegistrationEmailAlreadyExists RegistrationOutcome = "EmailAlreadyExists"
	RegistrationSystemError        RegistrationOutcome = "SystemError"
	RegistrationEmailCantBeSent    RegistrationOutcome = "EmailCantBeSend"
)

type AuthenticationOutcome string

const (
	AuthenticationSuccess       AuthenticationOutcome = "Success"
	AuthenticationEmailNotFound AuthenticationOutcome = "EmailNotFound"
	AuthenticationWrongPassword AuthenticationOutcome = "WrongPassword"
)

type ConfirmEmailOutcome string

const (
	ConfirmEmailSuccess       ConfirmEmailOutcome = "Success"
	ConfirmEmailEmailNotFound ConfirmEmailOutcome = "EmailNotFound"
	ConfirmEmailInvalidToken  ConfirmEmailOutcome = "InvalidToken"
)

type PasswordResetRequestOutcome string

const (
	PasswordResetRequestSuccess         PasswordResetRequestOutcome = "Success"
	PasswordResetRequestEmailNotFound   PasswordResetRequestOutcome = "EmailNotFound"
	PasswordResetRequestEmailCantBeSent PasswordResetRequestOutcome = "EmailCantBeSend"
)

type PasswordResetOutcome string

const (
	PasswordResetSuccess                   PasswordResetOutcome = "Success"
	PasswordResetEmailNotFound             PasswordResetOutcome = "EmailNotFound"
	PasswordResetUnsupportedPasswordFormat PasswordResetOutcome = "UnsupportedPasswordFormat"
)

type RefreshOutcome string

const (
	RefreshSuccess       RefreshOutcome = "Success"
	RefreshEmailNotFound RefreshOutcome = "EmailNotFound"
	RefreshExpired       RefreshOutcome = "Expired"
)

type PolicyOutcome string

const (
	PolicySuccess           PolicyOutcome = "Success"
	PolicyFailure           PolicyOutcome = "Failure"
	PolicyEmailNotConfirmed PolicyOutcome = "EmailNotConfirmed"
)

type ProfileOutcome string

const (
	ProfileSuccess               ProfileOutcome = "Success"
	ProfileEmailNotFound         ProfileOutcome = "EmailNotFound"
	ProfileUserIsAdmin           ProfileOutcome = "UserIsAdmin"
	ProfileUserNotInitialized    ProfileOutcome = "UserNotInitialized"
	ProfileCreatorNotInitialized ProfileOutcome = "CreatorNotInitialized"
)

type ProfileUpdateOutcome string

const (
	ProfileUpdateSuccess       ProfileUpdateOutcome = "Success"
	ProfileUpdateEmailNotFound ProfileUpdateOutcome = "EmailNotFound"
	ProfileUpdateUserIsAdmin   ProfileUpdateOutcome = "UserIsAdmin"
	ProfileUpdateWrongUserType ProfileUpdateOutcome = "WrongUserType"
	ProfileUpdateInvalidToken  ProfileUpdateOutcome = "InvalidToken"
)

type DeletionOutcome string

const (
	DeletionSuccess       DeletionOutcome = "Success"
	DeletionEmailNotFound DeletionOutcome = "EmailNotFound"
	DeletionUserIsAdmin   DeletionOutcome = "UserIsAdmin"
)

// AuthenticationResult carries tokens only when Outcome is AuthenticationSuccess.
type AuthenticationResult struct {
	Outcome AuthenticationOutcome
	Tokens  *TokenPair
}

// RefreshResult carries tokens only when Outcome is RefreshSuccess.
type RefreshResult struct {
	Outcome RefreshOutcome
	Tokens  *TokenPair
}

// ProfileResult carries a profile only when Outcome is ProfileSuccess.
type ProfileResult struct {
	Outcome ProfileOutcome
	Profile *Profile
}
