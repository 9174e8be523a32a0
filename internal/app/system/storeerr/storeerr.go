// internal/app/system/storeerr/storeerr.go

// Package storeerr maps low-level store errors onto a closed taxonomy and
// produces one user-presentable message per class. Every component in the
// cascade subsystem goes through this package instead of inspecting driver
// errors directly.
package storeerr

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Class is one member of the closed error taxonomy.
type Class string

const (
	PermissionDenied        Class = "permission_denied"
	NotFound                Class = "not_found"
	Unavailable             Class = "unavailable"
	DeadlineExceeded        Class = "deadline_exceeded"
	AlreadyExists           Class = "already_exists"
	FailedPrecondition      Class = "failed_precondition"
	InvalidArgument         Class = "invalid_argument"
	ResourceExhausted       Class = "resource_exhausted"
	Unauthenticated         Class = "unauthenticated"
	Cancelled               Class = "cancelled"
	DataLoss                Class = "data_loss"
	Internal                Class = "internal"
	OutOfRange              Class = "out_of_range"
	Unimplemented           Class = "unimplemented"
	SelfReferenceNotAllowed Class = "self_reference_not_allowed"
	AlreadyInState          Class = "already_in_state"
)

// Error is a classified error with a user-presentable message. Cascade
// operations raise these for mandatory failures instead of raw driver errors.
type Error struct {
	Class Class
	Msg   string // user-facing sentence; Message(Class) when empty
	Err   error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return Message(e.Class)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error with an explicit user-facing message.
func New(class Class, msg string) *Error {
	return &Error{Class: class, Msg: msg}
}

// Wrap classifies err and keeps it as the cause. The message defaults to the
// class message so a raw store error never reaches a user.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Class: Classify(err), Err: err}
}

// ClassOf returns the class of err, classifying on the fly when err is not
// already an *Error.
func ClassOf(err error) Class {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Class
	}
	return Classify(err)
}

// Mongo server error codes this subsystem cares about. Anything unlisted
// falls through to substring inspection and finally Internal.
const (
	codeUnauthorized          = 13
	codeAuthFailed            = 18
	codeMaxTimeExpired        = 50
	codeHostUnreachable       = 6
	codeHostNotFound          = 7
	codeShutdownInProgress    = 91
	codeNotWritablePrimary    = 10107
	codePrimarySteppedDown    = 189
	codeNetworkTimeout        = 89
	codeExceededMemoryLimit   = 146
	codeTooManyRequests       = 16500
	codeDuplicateKey          = 11000
	codeDuplicateKeyUpdate    = 11001
	codeWriteConflict         = 112
	codeInterrupted           = 11601
	codeIllegalOperation      = 20
	codeCommandNotSupported   = 115
	codeDocumentTooLarge      = 10334
	codeCappedPositionLost    = 136
	codeUnrecoverableRollback = 306
)

// Classify maps an error to its taxonomy class.
//
// Order matters: context errors first (the driver wraps them), then typed
// driver errors, then server codes, then message substrings for errors that
// arrive with no structured code at all.
func Classify(err error) Class {
	if err == nil {
		return Internal
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce.Class
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound
	}
	if mongo.IsTimeout(err) {
		return DeadlineExceeded
	}
	if mongo.IsDuplicateKeyError(err) {
		return AlreadyExists
	}
	if mongo.IsNetworkError(err) {
		return Unavailable
	}

	if class, ok := classifyCode(err); ok {
		return class
	}

	return classifyMessage(err.Error())
}

func classifyCode(err error) (Class, bool) {
	var code int32
	var found bool

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		code = cmdErr.Code
		found = true
	}
	var wErr mongo.WriteException
	if !found && errors.As(err, &wErr) {
		if wErr.WriteConcernError != nil {
			code = int32(wErr.WriteConcernError.Code)
			found = true
		} else if len(wErr.WriteErrors) > 0 {
			code = int32(wErr.WriteErrors[0].Code)
			found = true
		}
	}
	var bwErr mongo.BulkWriteException
	if !found && errors.As(err, &bwErr) && len(bwErr.WriteErrors) > 0 {
		code = int32(bwErr.WriteErrors[0].Code)
		found = true
	}
	if !found {
		return Internal, false
	}

	switch code {
	case codeUnauthorized:
		return PermissionDenied, true
	case codeAuthFailed:
		return Unauthenticated, true
	case codeMaxTimeExpired, codeNetworkTimeout:
		return DeadlineExceeded, true
	case codeHostUnreachable, codeHostNotFound, codeShutdownInProgress,
		codeNotWritablePrimary, codePrimarySteppedDown:
		return Unavailable, true
	case codeExceededMemoryLimit, codeTooManyRequests:
		return ResourceExhausted, true
	case codeDuplicateKey, codeDuplicateKeyUpdate:
		return AlreadyExists, true
	case codeWriteConflict:
		return FailedPrecondition, true
	case codeInterrupted:
		return Cancelled, true
	case codeIllegalOperation:
		return InvalidArgument, true
	case codeCommandNotSupported:
		return Unimplemented, true
	case codeDocumentTooLarge:
		return OutOfRange, true
	case codeCappedPositionLost, codeUnrecoverableRollback:
		return DataLoss, true
	}
	return Internal, false
}

// classifyMessage inspects message text for hints when no structured code is
// present. Mirrors the profile/network/offline checks callers used to do ad
// hoc.
func classifyMessage(msg string) Class {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "no documents"), strings.Contains(m, "not found"),
		strings.Contains(m, "user profile"):
		return NotFound
	case strings.Contains(m, "offline"), strings.Contains(m, "network"),
		strings.Contains(m, "connection refused"), strings.Contains(m, "connection reset"),
		strings.Contains(m, "no reachable servers"), strings.Contains(m, "server selection"):
		return Unavailable
	case strings.Contains(m, "deadline"), strings.Contains(m, "timed out"),
		strings.Contains(m, "timeout"):
		return DeadlineExceeded
	case strings.Contains(m, "permission"), strings.Contains(m, "unauthorized"):
		return PermissionDenied
	case strings.Contains(m, "duplicate"):
		return AlreadyExists
	default:
		return Internal
	}
}

// IsTransient reports whether an operation failing with this class is safe to
// retry. Permission, not-found, and invalid-argument failures never are.
func IsTransient(class Class) bool {
	switch class {
	case Unavailable, DeadlineExceeded, ResourceExhausted:
		return true
	}
	return false
}

var messages = map[Class]string{
	PermissionDenied:        "You do not have permission to perform this action.",
	NotFound:                "The requested record could not be found.",
	Unavailable:             "The service is temporarily unavailable. Please try again.",
	DeadlineExceeded:        "The operation took too long to complete. Please try again.",
	AlreadyExists:           "A record like this already exists.",
	FailedPrecondition:      "The operation cannot be performed in the current state.",
	InvalidArgument:         "Some of the provided information is invalid.",
	ResourceExhausted:       "The service is overloaded. Please try again shortly.",
	Unauthenticated:         "You must be signed in to perform this action.",
	Cancelled:               "The operation was cancelled.",
	DataLoss:                "Some data could not be recovered. Please contact support.",
	OutOfRange:              "A provided value is out of the allowed range.",
	Unimplemented:           "This action is not supported.",
	SelfReferenceNotAllowed: "You cannot perform this action on yourself.",
	AlreadyInState:          "Nothing to change; the request is already in effect.",
}

const fallbackMessage = "Something went wrong. Please try again."

// Message returns the user-facing sentence for a class, with a generic
// fallback for anything unmapped (including Internal).
func Message(class Class) string {
	if msg, ok := messages[class]; ok {
		return msg
	}
	return fallbackMessage
}

// UserMessage classifies err and returns the sentence a caller can surface.
func UserMessage(err error) string {
	var ce *Error
	if errors.As(err, &ce) && ce.Msg != "" {
		return ce.Msg
	}
	return Message(Classify(err))
}
