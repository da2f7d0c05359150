package jsbind

import (
	"errors"
	"fmt"
	"os"

	"github.com/dop251/goja"
	"github.com/google/uuid"
	"github.com/yaoapp/jsbind/binding"
	"github.com/yaoapp/jsbind/runtime/transform"
	"github.com/yaoapp/kun/log"
	"rogchap.com/v8go"
)

// NewContext create a context and bind the registered objects and the console
func (host *Host) NewContext() (*Context, error) {
	if err := host.ready(); err != nil {
		return nil, err
	}

	rt, err := host.engine.NewContext()
	if err != nil {
		return nil, err
	}

	ctx := &Context{ID: uuid.NewString(), host: host, runtime: rt}
	ctx.wrappers, err = binding.Global(rt, host.repo, host.repo.Objects(), host.option.Attribute())
	if err != nil {
		rt.Close()
		return nil, err
	}

	err = ctx.bindConsole()
	if err != nil {
		rt.Close()
		return nil, err
	}

	host.contexts.Store(ctx.ID, ctx)
	log.Trace("[jsbind] context %s created. objects:%d", ctx.ID, len(ctx.wrappers))
	return ctx, nil
}

// the console of each context reports the location of its own scripts
func (ctx *Context) bindConsole() error {
	name := "Console:" + ctx.ID
	obj, err := ctx.host.consoles.Register(name, ctx.host.console.Object(ctx.runtime.Location))
	if err != nil {
		return err
	}

	wrapper := binding.NewObjectWrapper(obj, ctx.host.consoles).WithAttribute(ctx.host.option.Attribute())
	err = wrapper.Bind(ctx.runtime)
	if err != nil {
		ctx.host.consoles.Unregister(name)
		return err
	}

	global, err := ctx.runtime.Global()
	if err != nil {
		ctx.host.consoles.Unregister(name)
		return err
	}

	err = global.Set("console", wrapper.Value(), ctx.host.option.Attribute())
	if err != nil {
		ctx.host.consoles.Unregister(name)
		return err
	}

	ctx.console = name
	return nil
}

// Objects the bound object wrappers
func (ctx *Context) Objects() []*binding.ObjectWrapper {
	return ctx.wrappers
}

// Run run the script, TypeScript and JSX sources are transformed first
func (ctx *Context) Run(source string, file string) (interface{}, error) {
	code := source
	if transform.Transpiled(file) {
		js, smap, err := transform.Script(source, file)
		if err != nil {
			return nil, err
		}
		code = string(js)
		if ctx.host.option.Debug {
			if err := ctx.host.sourcemaps.Add(file, smap); err != nil {
				log.Warn("[jsbind] %s", err.Error())
			}
		}
	}

	res, err := ctx.runtime.Run(code, file)
	if err != nil {
		return nil, ctx.exception(err)
	}
	return res, nil
}

// RunFile read the file and run it
func (ctx *Context) RunFile(file string) (interface{}, error) {
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ctx.Run(string(source), file)
}

// Call call a global function
func (ctx *Context) Call(method string, args ...interface{}) (interface{}, error) {
	res, err := ctx.runtime.Call(method, args...)
	if err != nil {
		return nil, ctx.exception(err)
	}
	return res, nil
}

// Close close the context and remove its console, a running script is terminated first
func (ctx *Context) Close() error {
	if _, has := ctx.host.contexts.LoadAndDelete(ctx.ID); !has {
		return nil
	}

	// the engine context waits for the terminated script to return
	ctx.runtime.Terminate()

	if ctx.console != "" {
		ctx.host.consoles.Unregister(ctx.console)
	}

	log.Trace("[jsbind] context %s closed", ctx.ID)
	return ctx.runtime.Close()
}

func (ctx *Context) exception(err error) error {
	var message, stack string

	var jsErr *v8go.JSError
	var gojaErr *goja.Exception
	switch {
	case errors.As(err, &jsErr):
		message, stack = jsErr.Message, jsErr.StackTrace
	case errors.As(err, &gojaErr):
		message, stack = gojaErr.Value().String(), gojaErr.String()
	default:
		return err
	}

	if ctx.host.option.Debug && stack != "" {
		stack = ctx.host.sourcemaps.StackTrace(message, stack)
	}
	return &Exception{Message: message, Stack: stack, Err: err}
}

func (e *Exception) Error() string {
	if e.Stack != "" {
		return e.Stack
	}
	return e.Message
}

// Unwrap return the engine error
func (e *Exception) Unwrap() error {
	return e.Err
}

// String the message and the stack
func (e *Exception) String() string {
	return fmt.Sprintf("%s\n%s", e.Message, e.Stack)
}
