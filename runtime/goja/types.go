package goja

import (
	"sync"
	"time"

	"github.com/dop251/goja"
)

// Option runtime option
type Option struct {
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"` // interrupt the script execution after this time, 0 means never
}

// Engine the goja engine
type Engine struct {
	option *Option
}

// Context a goja runtime
type Context struct {
	vm      *goja.Runtime
	timeout time.Duration
	mutex   sync.Mutex
	closed  bool
	origin  string
}

// Object a goja object
type Object struct {
	ctx    *Context
	object *goja.Object
}

// Function a goja native function
type Function struct {
	name     string
	function *goja.Object
}
