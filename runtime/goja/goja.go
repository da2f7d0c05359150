// Package goja implements the runtime contract on the pure Go goja engine
package goja

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

// New create a goja engine
func New(option *Option) *Engine {
	if option == nil {
		option = &Option{}
	}

	if option.Timeout < 0 {
		log.Warn("[goja] the timeout should not be negative, the execution will never be interrupted")
		option.Timeout = 0
	}
	return &Engine{option: option}
}

// Name the engine name
func (engine *Engine) Name() string {
	return "goja"
}

// NewContext create a new goja runtime
func (engine *Engine) NewContext() (runtime.Context, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	log.Trace("[goja] new context created. timeout:%v", engine.option.Timeout)
	return &Context{vm: vm, timeout: engine.option.Timeout}, nil
}

// VM the underlying goja runtime
func (ctx *Context) VM() *goja.Runtime {
	return ctx.vm
}

// Global the global object
func (ctx *Context) Global() (runtime.Object, error) {
	if ctx.closed {
		return nil, fmt.Errorf("[goja] the context is closed")
	}
	return &Object{ctx: ctx, object: ctx.vm.GlobalObject()}, nil
}

// NewObject create a new empty object
func (ctx *Context) NewObject() (runtime.Object, error) {
	if ctx.closed {
		return nil, fmt.Errorf("[goja] the context is closed")
	}
	return &Object{ctx: ctx, object: ctx.vm.NewObject()}, nil
}

// Run execute the script and return the completion value
func (ctx *Context) Run(source string, origin string) (res interface{}, err error) {
	ctx.mutex.Lock()
	defer ctx.mutex.Unlock()

	if ctx.closed {
		return nil, fmt.Errorf("[goja] the context is closed")
	}

	ctx.origin = origin
	ctx.vm.ClearInterrupt()
	defer ctx.watch()()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("[goja] %s panic: %v", origin, r)
		}
	}()

	value, err := ctx.vm.RunScript(origin, source)
	if err != nil {
		return nil, err
	}

	if _, ok := goja.AssertFunction(value); ok {
		return runtime.Undefined(0x00), nil
	}
	return goValue(value)
}

// Call call a global function
func (ctx *Context) Call(method string, args ...interface{}) (res interface{}, err error) {
	ctx.mutex.Lock()
	defer ctx.mutex.Unlock()

	if ctx.closed {
		return nil, fmt.Errorf("[goja] the context is closed")
	}

	fn, ok := goja.AssertFunction(ctx.vm.Get(method))
	if !ok {
		return nil, fmt.Errorf("%s is not a function", method)
	}

	jsArgs := make([]goja.Value, 0, len(args))
	for _, arg := range args {
		jsArgs = append(jsArgs, ctx.jsValue(arg))
	}

	ctx.vm.ClearInterrupt()
	defer ctx.watch()()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("[goja] %s panic: %v", method, r)
		}
	}()

	value, err := fn(goja.Undefined(), jsArgs...)
	if err != nil {
		return nil, err
	}

	goRes, err := goValue(value)
	if err != nil {
		return nil, fmt.Errorf("%s %w", method, err)
	}
	return goRes, nil
}

// Location the source and the line of the innermost script frame
func (ctx *Context) Location() (string, int) {
	frames := ctx.vm.CaptureCallStack(0, nil)
	for _, frame := range frames {
		pos := frame.Position()
		if pos.Line > 0 {
			return frame.SrcName(), pos.Line
		}
	}
	return ctx.origin, 0
}

// Terminate interrupt the running script
func (ctx *Context) Terminate() {
	ctx.vm.Interrupt("terminated")
}

// Close the context
func (ctx *Context) Close() error {
	ctx.mutex.Lock()
	defer ctx.mutex.Unlock()
	if ctx.closed {
		return nil
	}
	ctx.closed = true
	ctx.vm.ClearInterrupt()
	return nil
}

func (ctx *Context) watch() func() {
	if ctx.timeout <= 0 {
		return func() {}
	}
	timeout := ctx.timeout
	timer := time.AfterFunc(timeout, func() {
		log.Warn("[goja] the script execution timeout (%v), interrupt it", timeout)
		ctx.vm.Interrupt(fmt.Sprintf("the script execution timeout (%v)", timeout))
	})
	return func() {
		timer.Stop()
		ctx.vm.ClearInterrupt()
	}
}
