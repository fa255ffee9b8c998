package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrUserInactive     = errors.New("user account is inactive")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrLastAdmin        = errors.New("cannot remove the last active admin account")
	ErrSelfDelete       = errors.New("cannot delete the currently signed-in user")
	ErrSelfDeactivate   = errors.New("cannot deactivate the currently signed-in user")
	ErrRoleNotStaffed   = errors.New("no active user holds this role")
)

// Process errors
var (
	ErrProcessNotFound = errors.New("process not found")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)
