package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeTokenExpired marks expired verification/reset/session tokens
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeTokenInvalid marks malformed or badly signed tokens
	TextCodeTokenInvalid = "TOKEN_INVALID"
	// TextCodeCodeMismatch marks a wrong one-time code
	TextCodeCodeMismatch = "CODE_MISMATCH"
)

// ErrTokenExpired is returned when a token is presented after its TTL.
var ErrTokenExpired = goerrors.New("token expired, please request a new one", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenInvalid is returned for bad signatures and malformed payloads.
var ErrTokenInvalid = goerrors.New("invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrCodeMismatch is returned when the supplied one-time code does not match
// the hash embedded in the token.
var ErrCodeMismatch = goerrors.New("invalid code, please try again", goerrors.CategoryValidation).
	WithTextCode(TextCodeCodeMismatch).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidCredentials is returned on login when the email/password pair
// does not match. The message never says which half was wrong.
var ErrInvalidCredentials = goerrors.New("email or password is incorrect", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountBanned blocks banned accounts from logging in.
var ErrAccountBanned = goerrors.New("your account is banned, please contact the authority", goerrors.CategoryAuth).
	WithTextCode("ACCOUNT_BANNED").
	WithCode(goerrors.CodeForbidden)

// ErrNotVerified blocks accounts that never completed activation.
var ErrNotVerified = goerrors.New("your account is not verified, please verify your account", goerrors.CategoryAuth).
	WithTextCode("ACCOUNT_NOT_VERIFIED").
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountNotFound is returned when the target account does not exist.
var ErrAccountNotFound = goerrors.New("couldn't find any user account, please register", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrAlreadyRegistered is returned on duplicate registration.
var ErrAlreadyRegistered = goerrors.New("you are already registered", goerrors.CategoryConflict).
	WithCode(goerrors.CodeConflict)

// ErrAlreadyActive is returned when an activation token is replayed after
// the account reached the active state.
var ErrAlreadyActive = goerrors.New("account is already activated", goerrors.CategoryConflict).
	WithCode(goerrors.CodeConflict)

// ErrNotStaff is returned by the dashboard login for non admin accounts.
var ErrNotStaff = goerrors.New("only admins can access the dashboard", goerrors.CategoryAuthz).
	WithCode(goerrors.CodeForbidden)

// ErrNoEmptyString guards hashing of empty passwords.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest)
