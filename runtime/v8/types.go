package v8

import (
	"sync"
	"sync/atomic"
	"time"

	"rogchap.com/v8go"
)

// Option runtime option
type Option struct {
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"` // terminate the script execution after this time, 0 means never
}

// Engine the V8 engine
type Engine struct {
	option *Option
}

// Context a V8 isolate with one context
type Context struct {
	iso     *v8go.Isolate
	ctx     *v8go.Context
	timeout time.Duration
	origin  atomic.Value
	mutex   sync.Mutex
	closed  bool
}

// Object a V8 object
type Object struct {
	ctx    *Context
	object *v8go.Object
}

// Function a V8 function created from a function template
type Function struct {
	name     string
	function *v8go.Function
}
