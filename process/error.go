package process

import "fmt"

// Error the process error
type Error struct {
	Code    int
	Message string
	Stack   string
}

func (err *Error) Error() string {
	return fmt.Sprintf("%s (%d)", err.Message, err.Code)
}
