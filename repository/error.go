package repository

import "fmt"

// MemberError the method or property is not found on the object
type MemberError struct {
	ObjectID int64
	Type     string
	Member   string
	Kind     string // method, property
}

func (err *MemberError) Error() string {
	if err.Type == "" {
		return fmt.Sprintf("%s %s not found", err.Kind, err.Member)
	}
	return fmt.Sprintf("%s %s not found on object %d of type %s", err.Kind, err.Member, err.ObjectID, err.Type)
}

// ArityError the number of arguments does not match the method signature
type ArityError struct {
	Method   string
	Want     int
	Got      int
	Variadic bool
}

func (err *ArityError) Error() string {
	if err.Variadic {
		return fmt.Sprintf("%s expects at least %d arguments, got %d", err.Method, err.Want, err.Got)
	}
	return fmt.Sprintf("%s expects %d arguments, got %d", err.Method, err.Want, err.Got)
}

// CallError the host method returned an error or panicked
type CallError struct {
	Method string
	Code   int
	Err    error
	Stack  string
}

func (err *CallError) Error() string {
	return fmt.Sprintf("%s: %s", err.Method, err.Err.Error())
}

// Unwrap return the cause
func (err *CallError) Unwrap() error {
	return err.Err
}

// ReadOnlyError the property can not be assigned
type ReadOnlyError struct {
	Property string
}

func (err *ReadOnlyError) Error() string {
	return fmt.Sprintf("property %s is read-only", err.Property)
}
