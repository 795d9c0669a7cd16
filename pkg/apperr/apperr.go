// Package apperr defines the error kinds surfaced by shopdesk services and
// the HTTP status each one maps to.
//
// Services return *Error values (or wrap them with %w). Transport code asks
// KindOf / StatusOf and renders Public(), never the wrapped cause.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	ValidationFailed
	Unauthenticated
	InvalidCredentials
	InvalidExternalToken
	AccessDenied
	AccountDeactivated
	CrossTenantReference
	NoShop
	NotFound
	InsufficientStock
	SalePostingFailed
)

var kindInfo = map[Kind]struct {
	name    string
	status  int
	message string
}{
	Internal:             {"internal", http.StatusInternalServerError, "Server Error"},
	ValidationFailed:     {"validation_failed", http.StatusUnprocessableEntity, "The given data was invalid."},
	Unauthenticated:      {"unauthenticated", http.StatusUnauthorized, "Unauthenticated."},
	InvalidCredentials:   {"invalid_credentials", http.StatusUnauthorized, "Invalid credentials"},
	InvalidExternalToken: {"invalid_external_token", http.StatusUnauthorized, "Invalid ID token"},
	AccessDenied:         {"access_denied", http.StatusForbidden, "Access denied"},
	AccountDeactivated:   {"account_deactivated", http.StatusForbidden, "Account is deactivated"},
	CrossTenantReference: {"cross_tenant_reference", http.StatusForbidden, "Product does not belong to your shop"},
	NoShop:               {"no_shop", http.StatusBadRequest, "User is not associated with any shop"},
	NotFound:             {"not_found", http.StatusNotFound, "Resource not found"},
	InsufficientStock:    {"insufficient_stock", http.StatusUnprocessableEntity, "Insufficient stock"},
	SalePostingFailed:    {"sale_posting_failed", http.StatusInternalServerError, "Failed to create sale"},
}

func (k Kind) String() string { return kindInfo[k].name }

// Status is the HTTP status code for k.
func (k Kind) Status() int { return kindInfo[k].status }

// Error is a classified failure. Message is safe to show to clients;
// Err is the internal cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Public()
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Public is the client-facing message.
func (e *Error) Public() string {
	if e.Message != "" {
		return e.Message
	}
	return kindInfo[e.Kind].message
}

var (
	ErrUnauthenticated      = &Error{Kind: Unauthenticated}
	ErrInvalidCredentials   = &Error{Kind: InvalidCredentials}
	ErrInvalidExternalToken = &Error{Kind: InvalidExternalToken}
	ErrAccessDenied         = &Error{Kind: AccessDenied}
	ErrAccountDeactivated   = &Error{Kind: AccountDeactivated}
	ErrCrossTenantReference = &Error{Kind: CrossTenantReference}
	ErrNoShop               = &Error{Kind: NoShop}
	ErrNotFound             = &Error{Kind: NotFound}
	ErrInsufficientStock    = &Error{Kind: InsufficientStock}
	ErrSalePostingFailed    = &Error{Kind: SalePostingFailed}
	ErrValidation           = &Error{Kind: ValidationFailed}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err. An err that already carries a kind is returned as is.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// Denied is an AccessDenied with an operation-specific message.
func Denied(message string) *Error {
	return &Error{Kind: AccessDenied, Message: message}
}

// Validation builds a ValidationFailed error from field → message.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: ValidationFailed, Fields: fields}
}

// Field is a single-field ValidationFailed.
func Field(name, message string) *Error {
	return Validation(map[string]string{name: message})
}

// KindOf returns the kind carried by err, or Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// As returns the *Error in err's chain, classifying unknown errors as
// Internal.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: Internal, Err: err}
}
