package process

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/yaoapp/kun/exception"
	"github.com/yaoapp/kun/log"
)

// DefaultTimeout the default timeout of Execute when the process has no context
var DefaultTimeout = 30 * time.Second

var table = NewTable()

// NewTable create an empty handler table
func NewTable() *Table {
	return &Table{handlers: map[string]Handler{}}
}

// Register a handler, the name is the full group.method path
func (t *Table) Register(name string, handler Handler) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.handlers[strings.ToLower(name)] = handler
}

// RegisterGroup register the handlers of a group as group.method
func (t *Table) RegisterGroup(group string, handlers map[string]Handler) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	for method, handler := range handlers {
		t.handlers[strings.ToLower(group+"."+method)] = handler
	}
}

// Unregister remove a handler, returns false if the name is unknown
func (t *Table) Unregister(name string) bool {
	name = strings.ToLower(name)
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if _, has := t.handlers[name]; !has {
		return false
	}
	delete(t.handlers, name)
	return true
}

// UnregisterGroup remove every handler under the group, returns the count
func (t *Table) UnregisterGroup(group string) int {
	prefix := strings.ToLower(group) + "."
	t.mutex.Lock()
	defer t.mutex.Unlock()
	n := 0
	for name := range t.handlers {
		if strings.HasPrefix(name, prefix) {
			delete(t.handlers, name)
			n++
		}
	}
	return n
}

// Exists check if a handler is registered under the name
func (t *Table) Exists(name string) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.handlers[strings.ToLower(name)] != nil
}

// Of resolve the handler and prepare a process
func (t *Table) Of(name string, args ...interface{}) (*Process, error) {
	dot := strings.Index(name, ".")
	if dot < 1 || dot == len(name)-1 {
		return nil, fmt.Errorf("%s the process name should be group.method", name)
	}

	t.mutex.RLock()
	handler := t.handlers[strings.ToLower(name)]
	t.mutex.RUnlock()
	if handler == nil {
		return nil, &Error{Code: 404, Message: fmt.Sprintf("%s not found", name)}
	}

	return &Process{
		Name:    name,
		Group:   strings.ToLower(name[:dot]),
		Method:  name[dot+1:],
		Args:    args,
		handler: handler,
	}, nil
}

// Register a handler in the default table
func Register(name string, handler Handler) { table.Register(name, handler) }

// RegisterGroup register a group in the default table
func RegisterGroup(group string, handlers map[string]Handler) {
	table.RegisterGroup(group, handlers)
}

// Unregister remove a handler from the default table
func Unregister(name string) bool { return table.Unregister(name) }

// UnregisterGroup remove a group from the default table
func UnregisterGroup(group string) int { return table.UnregisterGroup(group) }

// Exists check the default table
func Exists(name string) bool { return table.Exists(name) }

// Of prepare a process from the default table
func Of(name string, args ...interface{}) (*Process, error) { return table.Of(name, args...) }

// WithContext bound the execution with ctx
func (process *Process) WithContext(ctx context.Context) *Process {
	process.Context = ctx
	return process
}

// WithOrigin record the script member that made the call
func (process *Process) WithOrigin(origin string) *Process {
	process.Origin = origin
	return process
}

// Execute run the handler on its own goroutine until it returns or the context is done.
// Panics are converted by Catch.
func (process *Process) Execute() error {
	ctx := process.Context
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				err := Catch(recovered)
				log.With(log.F{"origin": process.Origin}).Error("[process] %s %s", process, err.Error())
				done <- err
			}
		}()
		process.value = process.handler(process)
		done <- nil
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Value the result of the last Execute
func (process *Process) Value() interface{} {
	return process.value
}

// Release drop the result
func (process *Process) Release() {
	process.value = nil
}

// NArgs the number of arguments
func (process *Process) NArgs() int {
	return len(process.Args)
}

// RequireArgs throw a 400 exception when fewer than n arguments were given
func (process *Process) RequireArgs(n int) {
	if len(process.Args) < n {
		exception.New("%s requires %d arguments, %d given", 400, process.Name, n, len(process.Args)).Throw()
	}
}

// ArgString the i-th argument as a string, throws a 400 exception otherwise
func (process *Process) ArgString(i int) string {
	process.RequireArgs(i + 1)
	s, ok := process.Args[i].(string)
	if !ok {
		exception.New("%s the argument %d should be a string", 400, process.Name, i).Throw()
	}
	return s
}

// Catch convert the recovered value to an error
// kun exceptions keep their code, other values carry the stack
func Catch(recovered interface{}) error {
	switch v := recovered.(type) {
	case nil:
		return nil
	case exception.Exception:
		return &Error{Code: v.Code, Message: v.Message}
	case *exception.Exception:
		return &Error{Code: v.Code, Message: v.Message}
	}
	e := goerrors.Wrap(recovered, 2)
	return &Error{Code: 500, Message: e.Error(), Stack: string(e.Stack())}
}

func (process *Process) String() string {
	return fmt.Sprintf("%s(%d args)", process.Name, len(process.Args))
}
