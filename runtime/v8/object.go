package v8

import (
	"fmt"

	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/jsbind/runtime/v8/bridge"
	"rogchap.com/v8go"
)

// V8 the underlying v8go object
func (obj *Object) V8() *v8go.Object {
	return obj.object
}

// Set define a data property with the given attributes
func (obj *Object) Set(name string, value interface{}, attr runtime.Attribute) error {
	jsValue, err := obj.ctx.jsValue(value)
	if err != nil {
		return runtime.NewMarshalError(err, "property %s", name)
	}
	return obj.ctx.defineValue(obj.object, name, jsValue, attr)
}

// SetAccessor define an accessor property, the setter could be nil for read-only properties
func (obj *Object) SetAccessor(name string, getter runtime.Handler, setter runtime.Handler, attr runtime.Attribute) error {
	if getter == nil {
		return fmt.Errorf("[V8] %s the getter is required", name)
	}

	iso := obj.ctx.iso
	descriptor, err := v8go.NewObjectTemplate(iso).NewInstance(obj.ctx.ctx)
	if err != nil {
		return err
	}

	get := v8go.NewFunctionTemplate(iso, callback("get "+name, getter)).GetFunction(obj.ctx.ctx)
	if err := descriptor.Set("get", get); err != nil {
		return err
	}

	if setter != nil {
		set := v8go.NewFunctionTemplate(iso, callback("set "+name, setter)).GetFunction(obj.ctx.ctx)
		if err := descriptor.Set("set", set); err != nil {
			return err
		}
	}

	if err := descriptor.Set("enumerable", attr.Enumerable()); err != nil {
		return err
	}

	if err := descriptor.Set("configurable", attr.Configurable()); err != nil {
		return err
	}

	return obj.ctx.callDefineProperty(obj.object, name, descriptor)
}

// Get the property value
func (obj *Object) Get(name string) (interface{}, error) {
	value, err := obj.object.Get(name)
	if err != nil {
		return nil, err
	}
	if value.IsFunction() {
		return &Function{name: name, function: mustFunction(value)}, nil
	}
	return bridge.GoValue(value)
}

// Has check if the object has the property
func (obj *Object) Has(name string) bool {
	return obj.object.Has(name)
}

// Delete the property
func (obj *Object) Delete(name string) bool {
	return obj.object.Delete(name)
}

func mustFunction(value *v8go.Value) *v8go.Function {
	fn, _ := value.AsFunction()
	return fn
}

func (ctx *Context) jsValue(value interface{}) (*v8go.Value, error) {
	switch v := value.(type) {
	case *Function:
		return v.function.Value, nil
	case *Object:
		return v.object.Value, nil
	}
	return bridge.JsValue(ctx.ctx, value)
}

// defineValue Object.defineProperty(target, name, {value, writable, enumerable, configurable})
func (ctx *Context) defineValue(target *v8go.Object, name string, value *v8go.Value, attr runtime.Attribute) error {
	descriptor, err := v8go.NewObjectTemplate(ctx.iso).NewInstance(ctx.ctx)
	if err != nil {
		return err
	}

	if err := descriptor.Set("value", value); err != nil {
		return err
	}

	if err := descriptor.Set("writable", attr.Writable()); err != nil {
		return err
	}

	if err := descriptor.Set("enumerable", attr.Enumerable()); err != nil {
		return err
	}

	if err := descriptor.Set("configurable", attr.Configurable()); err != nil {
		return err
	}

	return ctx.callDefineProperty(target, name, descriptor)
}

func (ctx *Context) callDefineProperty(target *v8go.Object, name string, descriptor *v8go.Object) error {
	global, err := ctx.ctx.Global().Get("Object")
	if err != nil {
		return err
	}

	object, err := global.AsObject()
	if err != nil {
		return err
	}

	key, err := v8go.NewValue(ctx.iso, name)
	if err != nil {
		return err
	}

	_, err = object.MethodCall("defineProperty", target, key, descriptor)
	if err != nil {
		return fmt.Errorf("[V8] define property %s: %w", name, err)
	}
	return nil
}
