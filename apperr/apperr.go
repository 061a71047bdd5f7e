// Package apperr defines the closed set of failures the API surfaces.
// Callers branch on Kind, never on message text.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind enumerates every error the request flow can end in.
type Kind string

const (
	KindAuthMissing  Kind = "AUTH_MISSING"
	KindAuthInvalid  Kind = "AUTH_INVALID"
	KindUserNotFound Kind = "USER_NOT_FOUND"
	KindPostNotFound Kind = "POST_NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
)

// Error carries the failure kind plus the entity it concerns.
type Error struct {
	Kind    Kind
	Entity  string
	Ref     string
	Message string
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s: %s %q: %s", e.Kind, e.Entity, e.Ref, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Status maps the kind to its HTTP status code. A token subject that
// resolves to no user is an authentication failure, so it gets 401 like the
// other token problems.
func (e *Error) Status() int {
	switch e.Kind {
	case KindPostNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}

func AuthMissing() *Error {
	return &Error{Kind: KindAuthMissing, Message: "authorization token required"}
}

func AuthInvalid(message string) *Error {
	return &Error{Kind: KindAuthInvalid, Message: message}
}

func UserNotFound(username string) *Error {
	return &Error{Kind: KindUserNotFound, Entity: "user", Ref: username, Message: "user does not exist"}
}

// PostNotFound takes whatever the lookup keyed on (id or title).
func PostNotFound(ref string) *Error {
	return &Error{Kind: KindPostNotFound, Entity: "post", Ref: ref, Message: "post does not exist"}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Entity: "post", Message: message}
}
