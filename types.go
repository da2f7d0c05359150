package jsbind

import (
	"sync"

	"github.com/yaoapp/jsbind/binding"
	"github.com/yaoapp/jsbind/console"
	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/jsbind/runtime/transform"
)

// Host the registered host objects and the engine the contexts are created by
type Host struct {
	option     *Option
	engine     runtime.Engine
	repo       *repository.Repository
	consoles   *repository.Repository
	console    *console.Console
	sourcemaps *transform.SourceMaps
	contexts   sync.Map
	closed     bool
	mutex      sync.RWMutex
}

// Context a script context, the registered objects are bound as globals
type Context struct {
	ID       string
	host     *Host
	runtime  runtime.Context
	wrappers []*binding.ObjectWrapper
	console  string
}

// Exception the script error, the stack is remapped to the sources in debug mode
type Exception struct {
	Message string
	Stack   string
	Err     error
}
