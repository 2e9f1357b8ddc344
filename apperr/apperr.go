package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// Kind classifies a failure into the stable taxonomy the pipeline renders.
type Kind int

const (
	Internal Kind = iota
	Validation
	NotFound
	InvalidCredentials
	Unauthenticated
	Forbidden
	Conflict
	AlreadyDelivered
	Upstream
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "ValidationError"
	case NotFound:
		return "NotFound"
	case InvalidCredentials:
		return "InvalidCredentials"
	case Unauthenticated:
		return "Unauthenticated"
	case Forbidden:
		return "Forbidden"
	case Conflict:
		return "Conflict"
	case AlreadyDelivered:
		return "AlreadyDelivered"
	case Upstream:
		return "UpstreamServiceError"
	default:
		return "Internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Validation, AlreadyDelivered:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case InvalidCredentials, Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a taxonomy kind, a user-facing message and an optional cause.
// The stack is captured at construction so a verbose trace points at the
// error's origin rather than the rendering site.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	stack []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Stack returns the trace captured when the error was built.
func (e *Error) Stack() []byte { return e.stack }

// New builds a taxonomy error with a user-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, stack: debug.Stack()}
}

// Wrap attaches a cause to a taxonomy error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err, stack: debug.Stack()}
}

// KindOf classifies any error. Untyped store and token failures are mapped
// the same way the original pipeline classified exceptions.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return Conflict
	}
	if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenMalformed) {
		return Unauthenticated
	}
	return Internal
}

// MessageOf returns the user-facing message for err, or a stable generic
// message for anything outside the taxonomy.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	switch KindOf(err) {
	case NotFound:
		return "Resource not found"
	case Conflict:
		return "Duplicate field value"
	case Unauthenticated:
		return "Invalid or expired token"
	default:
		return "Internal server error"
	}
}
