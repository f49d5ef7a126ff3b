package services

import "github.com/gofiber/fiber/v2"

type ErrorKind int

const (
	KindUnauthenticated ErrorKind = iota
	KindForbidden
	KindNotFound
	KindValidation
	KindSlotUnavailable
	KindInvalidTimeRange
	KindTransitionDenied
	KindConflict
	KindInternal
)

// Error is the one error type the booking core returns. Handlers map Kind to
// an HTTP status and never inspect anything else.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden, KindTransitionDenied:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidation, KindSlotUnavailable, KindInvalidTimeRange:
		return fiber.StatusBadRequest
	case KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
