// Package errs defines the error taxonomy shared by every ledger operation.
//
// Each failure that crosses the service boundary is an *Error carrying a Kind,
// a stable machine-readable key, and a human-readable message. Callers branch
// on Kind (or key), never on message text. System errors additionally wrap the
// underlying cause so it can be logged in full while the surfaced message
// stays generic.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller. Only KindSystem is safely
// retriable; retrying any other kind cannot change the outcome.
type Kind int

const (
	// KindValidation covers malformed or missing input fields.
	KindValidation Kind = iota
	// KindConflict covers duplicate resources and same-account transfers.
	KindConflict
	// KindNotFound covers absent accounts and unregistered currencies.
	KindNotFound
	// KindAuthorization covers initiators that are not a party to the operation.
	KindAuthorization
	// KindBusinessRule covers insufficient balance and currency mismatches.
	KindBusinessRule
	// KindSystem covers persistence and other unexpected failures.
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindBusinessRule:
		return "business_rule"
	case KindSystem:
		return "system"
	}
	return "unknown"
}

// Stable response keys surfaced to callers.
const (
	KeyInvalidAccountURN   = "error_invalid_account_urn"
	KeySameAccountURN      = "error_same_account_urn"
	KeyAccountNotFound     = "error_account_not_found"
	KeyAccountExists       = "error_account_exists"
	KeyBalancesNotFound    = "error_balances_not_found"
	KeyNoUserAssociation   = "error_no_user_association"
	KeyInvalidCurrency     = "error_invalid_currency"
	KeyInvalidCurrencyCode = "error_invalid_currency_code"
	KeyInvalidAmount       = "error_invalid_amount"
	KeyInsufficientBalance = "error_insufficient_balance"
	KeyInvalidAccountName  = "error_invalid_account_name"
	KeyInternal            = "error_internal"
)

// Error is the single error type surfaced by ledger services.
type Error struct {
	Kind    Kind
	Key     string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Kind, e.Key, e.Message, e.cause)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Key, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Validation builds a KindValidation error.
func Validation(key, message string) *Error {
	return &Error{Kind: KindValidation, Key: key, Message: message}
}

// Conflict builds a KindConflict error.
func Conflict(key, message string) *Error {
	return &Error{Kind: KindConflict, Key: key, Message: message}
}

// NotFound builds a KindNotFound error.
func NotFound(key, message string) *Error {
	return &Error{Kind: KindNotFound, Key: key, Message: message}
}

// Authorization builds a KindAuthorization error.
func Authorization(key, message string) *Error {
	return &Error{Kind: KindAuthorization, Key: key, Message: message}
}

// BusinessRule builds a KindBusinessRule error.
func BusinessRule(key, message string) *Error {
	return &Error{Kind: KindBusinessRule, Key: key, Message: message}
}

// System wraps an unexpected failure. The cause is retained for logging; the
// message surfaced to callers stays generic.
func System(cause error) *Error {
	return &Error{
		Kind:    KindSystem,
		Key:     KeyInternal,
		Message: "internal error, please retry later",
		cause:   cause,
	}
}

// As extracts an *Error from err, if present.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// Ensure converts an arbitrary error into an *Error. Typed errors pass
// through untouched; anything else becomes a system error so no untyped
// failure crosses the service boundary.
func Ensure(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	return System(err)
}
