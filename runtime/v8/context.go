package v8

import (
	"fmt"
	"time"

	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/jsbind/runtime/v8/bridge"
	"github.com/yaoapp/kun/log"
	"rogchap.com/v8go"
)

// V8 the underlying v8go context
func (ctx *Context) V8() *v8go.Context {
	return ctx.ctx
}

// Global the global object
func (ctx *Context) Global() (runtime.Object, error) {
	if ctx.closed {
		return nil, fmt.Errorf("[V8] the context is closed")
	}
	return &Object{ctx: ctx, object: ctx.ctx.Global()}, nil
}

// NewObject create a new empty object
func (ctx *Context) NewObject() (runtime.Object, error) {
	if ctx.closed {
		return nil, fmt.Errorf("[V8] the context is closed")
	}

	tmpl := v8go.NewObjectTemplate(ctx.iso)
	instance, err := tmpl.NewInstance(ctx.ctx)
	if err != nil {
		return nil, err
	}
	return &Object{ctx: ctx, object: instance}, nil
}

// Run execute the script and return the completion value
func (ctx *Context) Run(source string, origin string) (interface{}, error) {
	ctx.mutex.Lock()
	defer ctx.mutex.Unlock()

	if ctx.closed {
		return nil, fmt.Errorf("[V8] the context is closed")
	}

	ctx.origin.Store(origin)
	defer ctx.watch()()

	value, err := ctx.ctx.RunScript(source, origin)
	if err != nil {
		return nil, err
	}

	if value.IsFunction() || value.IsSymbol() {
		return runtime.Undefined(0x00), nil
	}
	return bridge.GoValue(value)
}

// Call call a global function
func (ctx *Context) Call(method string, args ...interface{}) (interface{}, error) {
	ctx.mutex.Lock()
	defer ctx.mutex.Unlock()

	if ctx.closed {
		return nil, fmt.Errorf("[V8] the context is closed")
	}

	jsArgs, err := bridge.JsValues(ctx.ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%s %w", method, err)
	}

	defer ctx.watch()()
	jsRes, err := ctx.ctx.Global().MethodCall(method, bridge.Valuers(jsArgs)...)
	if err != nil {
		return nil, err
	}

	goRes, err := bridge.GoValue(jsRes)
	if err != nil {
		return nil, fmt.Errorf("%s %w", method, err)
	}
	return goRes, nil
}

// Location the origin of the running script, V8 does not expose the line to the host
func (ctx *Context) Location() (string, int) {
	origin, _ := ctx.origin.Load().(string)
	return origin, 0
}

// Terminate the running script
func (ctx *Context) Terminate() {
	if ctx.iso != nil {
		ctx.iso.TerminateExecution()
	}
}

// Close the context and dispose the isolate
func (ctx *Context) Close() error {
	ctx.mutex.Lock()
	defer ctx.mutex.Unlock()
	if ctx.closed {
		return nil
	}
	ctx.closed = true
	ctx.ctx.Close()
	ctx.iso.Dispose()
	return nil
}

// watch terminate the execution after the timeout, returns the function to stop watching
func (ctx *Context) watch() func() {
	if ctx.timeout <= 0 {
		return func() {}
	}
	timeout := ctx.timeout
	timer := time.AfterFunc(timeout, func() {
		log.Warn("[V8] the script execution timeout (%v), terminate it", timeout)
		ctx.iso.TerminateExecution()
	})
	return func() { timer.Stop() }
}
