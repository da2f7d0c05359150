package process

import (
	"context"
	"sync"
)

// Process one invocation of a named handler
type Process struct {
	Name    string
	Group   string
	Method  string
	Args    []interface{}
	Origin  string // the script member that made the call, e.g. calculator.add
	Context context.Context
	handler Handler
	value   interface{}
}

// Handler the process handler
type Handler func(process *Process) interface{}

// Table name-keyed process handlers, names are case-insensitive
type Table struct {
	handlers map[string]Handler
	mutex    sync.RWMutex
}
