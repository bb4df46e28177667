// Package common defines the sentinel errors shared by the repositories,
// services, and transport adapter. Callers match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Token-level errors. Never cross the service boundary: the auth service
	// collapses them to ErrorUnauthorized before returning.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInternal     = errors.New("internal error")

	// ErrorStorageUnavailable signals that the durable backend could not
	// complete an operation. It is an operational fault, not a credential
	// fault, and is surfaced to callers unchanged.
	ErrorStorageUnavailable = errors.New("storage unavailable")
)
