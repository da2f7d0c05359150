package v8

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/jsbind/runtime/v8/bridge"
	"github.com/yaoapp/kun/log"
	"rogchap.com/v8go"
)

// NewFunction create a native function named name, the handler is invoked when the function is called
func (ctx *Context) NewFunction(name string, handler runtime.Handler) (runtime.Function, error) {
	if ctx.closed {
		return nil, fmt.Errorf("[V8] the context is closed")
	}

	if handler == nil {
		return nil, fmt.Errorf("[V8] %s the handler is required", name)
	}

	tmpl := v8go.NewFunctionTemplate(ctx.iso, callback(name, handler))
	fn := tmpl.GetFunction(ctx.ctx)

	fnObj, err := fn.AsObject()
	if err != nil {
		return nil, err
	}

	// the name of a function is configurable
	jsName, err := v8go.NewValue(ctx.iso, name)
	if err != nil {
		return nil, err
	}

	err = ctx.defineValue(fnObj, "name", jsName, runtime.ReadOnly|runtime.DontEnum)
	if err != nil {
		return nil, err
	}

	return &Function{name: name, function: fn}, nil
}

// Name the function name
func (fn *Function) Name() string {
	return fn.name
}

// V8 the underlying v8go function
func (fn *Function) V8() *v8go.Function {
	return fn.function
}

func callback(name string, handler runtime.Handler) v8go.FunctionCallback {
	return func(info *v8go.FunctionCallbackInfo) (result *v8go.Value) {
		ctx := info.Context()

		defer func() {
			if r := recover(); r != nil {
				err := goerrors.Wrap(r, 2)
				log.Error("[V8] %s panic: %s", name, err.Error())
				log.Trace("[V8] %s", err.ErrorStack())
				result = bridge.JsException(ctx, err)
			}
		}()

		args, err := bridge.GoValues(info.Args())
		if err != nil {
			return bridge.JsException(ctx, err)
		}

		res, err := handler.Invoke(args)
		if err != nil {
			return bridge.JsException(ctx, err)
		}

		jsRes, err := bridge.JsValue(ctx, res)
		if err != nil {
			return bridge.JsException(ctx, runtime.NewMarshalError(err, "%s result", name))
		}
		return jsRes
	}
}
