package domain

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindGateway
)

// Error carries a client-safe message plus the kind used to pick the HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Invalid(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Message: msg} }

// Gateway wraps a payment provider failure behind a fixed user-facing message.
func Gateway(msg string, cause error) error {
	return &Error{Kind: KindGateway, Message: msg, Err: cause}
}

var (
	ErrInsufficientBalance = &Error{Kind: KindValidation, Message: "insufficient wallet balance"}
	ErrSelfParent          = &Error{Kind: KindValidation, Message: "category cannot be its own parent"}
	ErrNoInvoice           = &Error{Kind: KindValidation, Message: "order has no active payment invoice"}
	ErrBadCredentials      = &Error{Kind: KindUnauthorized, Message: "invalid email or password"}
	ErrNotOwner            = &Error{Kind: KindForbidden, Message: "not allowed to access this resource"}
)

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
