package binding

import (
	"errors"
	"fmt"

	"github.com/yaoapp/jsbind/process"
	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
)

// Kind the error kind, it is used as the name of the script error
type Kind string

const (
	// BindingPrecondition the owner or its native value is unavailable, or the wrapper state does not allow the operation
	BindingPrecondition Kind = "BindingPrecondition"

	// InvocationResolution the owner object or the member could not be resolved, or the arguments do not match
	InvocationResolution Kind = "InvocationResolution"

	// InvocationFailure the host member returned an error or panicked
	InvocationFailure Kind = "InvocationFailure"

	// MarshalingFailure the value could not be converted between the engine and the host
	MarshalingFailure Kind = "MarshalingFailure"
)

var (
	// ErrNoOwner the owner is nil
	ErrNoOwner = errors.New("the owner is required")

	// ErrInvalidNativeValue the owner has no native value
	ErrInvalidNativeValue = errors.New("the owner has no valid native value")

	// ErrAlreadyBound the wrapper has been bound
	ErrAlreadyBound = errors.New("the wrapper has been bound")

	// ErrNotBound the wrapper is not bound yet
	ErrNotBound = errors.New("the wrapper is not bound")

	// ErrOwnerNotFound the owner object is not registered anymore
	ErrOwnerNotFound = errors.New("the owner object is not found")
)

// Error the binding error, it is thrown into the script as an Error with name and code
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (err *Error) Error() string {
	if err.Message != "" {
		return err.Message
	}
	if err.Err != nil {
		return err.Err.Error()
	}
	return string(err.Kind)
}

// Unwrap return the cause
func (err *Error) Unwrap() error {
	return err.Err
}

// Name the script error name
func (err *Error) Name() string {
	return string(err.Kind)
}

// Code the script error code
func (err *Error) Code() int {
	return err.Status
}

// Is reports whether the error is of the given kind
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func precondition(cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    BindingPrecondition,
		Status:  400,
		Message: fmt.Sprintf("%s: %s", fmt.Sprintf(format, args...), cause.Error()),
		Err:     cause,
	}
}

func resolution(cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    InvocationResolution,
		Status:  404,
		Message: fmt.Sprintf("%s: %s", fmt.Sprintf(format, args...), cause.Error()),
		Err:     cause,
	}
}

// classify map the errors of the host invocation layer to the binding errors
func classify(err error) *Error {
	var (
		bindErr     *Error
		memberErr   *repository.MemberError
		arityErr    *repository.ArityError
		marshalErr  *runtime.MarshalError
		callErr     *repository.CallError
		readonlyErr *repository.ReadOnlyError
		processErr  *process.Error
	)

	switch {
	case errors.As(err, &bindErr):
		return bindErr

	case errors.As(err, &memberErr), errors.As(err, &arityErr):
		return &Error{Kind: InvocationResolution, Status: 404, Message: err.Error(), Err: err}

	case errors.As(err, &marshalErr):
		return &Error{Kind: MarshalingFailure, Status: marshalErr.Code(), Message: err.Error(), Err: err}

	case errors.As(err, &callErr):
		return &Error{Kind: InvocationFailure, Status: callErr.Code, Message: err.Error(), Err: err}

	case errors.As(err, &readonlyErr):
		return &Error{Kind: InvocationFailure, Status: 403, Message: err.Error(), Err: err}

	case errors.As(err, &processErr):
		return &Error{Kind: InvocationFailure, Status: processErr.Code, Message: processErr.Message, Err: err}
	}

	return &Error{Kind: InvocationFailure, Status: 500, Message: err.Error(), Err: err}
}
