package goja

import (
	"fmt"

	"github.com/dop251/goja"
	goerrors "github.com/go-errors/errors"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

// NewFunction create a native function named name, the handler is invoked when the function is called
func (ctx *Context) NewFunction(name string, handler runtime.Handler) (runtime.Function, error) {
	if ctx.closed {
		return nil, fmt.Errorf("[goja] the context is closed")
	}

	if handler == nil {
		return nil, fmt.Errorf("[goja] %s the handler is required", name)
	}

	fn := ctx.vm.ToValue(ctx.callback(name, handler)).(*goja.Object)
	err := fn.DefineDataProperty("name", ctx.vm.ToValue(name), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	if err != nil {
		return nil, err
	}
	return &Function{name: name, function: fn}, nil
}

// Name the function name
func (fn *Function) Name() string {
	return fn.name
}

// Goja the underlying goja function object
func (fn *Function) Goja() *goja.Object {
	return fn.function
}

func (ctx *Context) callback(name string, handler runtime.Handler) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args, err := goValues(call.Arguments)
		if err != nil {
			panic(ctx.exception(err))
		}

		res, err := ctx.invoke(name, handler, args)
		if err != nil {
			panic(ctx.exception(err))
		}
		return ctx.jsValue(res)
	}
}

func (ctx *Context) invoke(name string, handler runtime.Handler, args []interface{}) (res interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			e := goerrors.Wrap(r, 2)
			log.Error("[goja] %s panic: %s", name, e.Error())
			log.Trace("[goja] %s", e.ErrorStack())
			err = e
		}
	}()
	return handler.Invoke(args)
}
