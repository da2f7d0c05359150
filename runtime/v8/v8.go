package v8

import (
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
	"rogchap.com/v8go"
)

// New create a V8 engine
func New(option *Option) *Engine {
	if option == nil {
		option = &Option{}
	}
	option.Validate()
	return &Engine{option: option}
}

// Name the engine name
func (engine *Engine) Name() string {
	return "v8"
}

// NewContext create a new isolate and context
func (engine *Engine) NewContext() (runtime.Context, error) {
	iso := v8go.NewIsolate()
	ctx := v8go.NewContext(iso)
	log.Trace("[V8] new context created. timeout:%v", engine.option.Timeout)
	return &Context{iso: iso, ctx: ctx, timeout: engine.option.Timeout}, nil
}
