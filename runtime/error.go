package runtime

import "fmt"

// NewMarshalError create a new marshaling error
func NewMarshalError(err error, format string, args ...interface{}) *MarshalError {
	return &MarshalError{Message: fmt.Sprintf(format, args...), Err: err}
}

func (err *MarshalError) Error() string {
	if err.Err == nil {
		return err.Message
	}
	return fmt.Sprintf("%s: %s", err.Message, err.Err.Error())
}

// Unwrap return the cause
func (err *MarshalError) Unwrap() error {
	return err.Err
}

// Name the script error name
func (err *MarshalError) Name() string {
	return "MarshalingFailure"
}

// Code the script error code
func (err *MarshalError) Code() int {
	return 500
}

// ErrorName return the script error name of the given error
func ErrorName(err error) string {
	if e, ok := err.(ScriptError); ok && e.Name() != "" {
		return e.Name()
	}
	return "Error"
}

// ErrorCode return the script error code of the given error
func ErrorCode(err error) int {
	if e, ok := err.(ScriptError); ok && e.Code() != 0 {
		return e.Code()
	}
	return 500
}
