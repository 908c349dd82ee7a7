package service

import "errors"

var (
	// ErrAuthFailure covers every credential failure without telling them apart.
	ErrAuthFailure      = errors.New("invalid email or password")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrNameRequired     = errors.New("name is required")
	ErrDebtRequired     = errors.New("single payment needs debt_id or debt")
	ErrInvalidPeriod    = errors.New("month must be between 1 and 12")

	// ErrNotificationFailed marks a job that ran but could not reach every user.
	ErrNotificationFailed = errors.New("some notifications failed")
)
