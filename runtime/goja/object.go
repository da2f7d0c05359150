package goja

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/yaoapp/jsbind/runtime"
)

// Goja the underlying goja object
func (obj *Object) Goja() *goja.Object {
	return obj.object
}

// Set define a data property with the given attributes
func (obj *Object) Set(name string, value interface{}, attr runtime.Attribute) error {
	return obj.object.DefineDataProperty(name, obj.ctx.jsValue(value), flag(attr.Writable()), flag(attr.Configurable()), flag(attr.Enumerable()))
}

// SetAccessor define an accessor property, the setter could be nil for read-only properties
func (obj *Object) SetAccessor(name string, getter runtime.Handler, setter runtime.Handler, attr runtime.Attribute) error {
	if getter == nil {
		return fmt.Errorf("[goja] %s the getter is required", name)
	}

	var set goja.Value
	get := obj.ctx.vm.ToValue(obj.ctx.callback("get "+name, getter))
	if setter != nil {
		set = obj.ctx.vm.ToValue(obj.ctx.callback("set "+name, setter))
	}
	return obj.object.DefineAccessorProperty(name, get, set, flag(attr.Configurable()), flag(attr.Enumerable()))
}

// Get the property value
func (obj *Object) Get(name string) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("[goja] get %s: %v", name, r)
		}
	}()

	v := obj.object.Get(name)
	if fn, ok := v.(*goja.Object); ok {
		if _, isFn := goja.AssertFunction(fn); isFn {
			return &Function{name: name, function: fn}, nil
		}
	}
	return goValue(v)
}

// Has check if the object or its prototypes has the property
func (obj *Object) Has(name string) bool {
	for o := obj.object; o != nil; o = o.Prototype() {
		for _, key := range o.GetOwnPropertyNames() {
			if key == name {
				return true
			}
		}
	}
	return false
}

// Delete the property
func (obj *Object) Delete(name string) bool {
	return obj.object.Delete(name) == nil
}

func flag(b bool) goja.Flag {
	if b {
		return goja.FLAG_TRUE
	}
	return goja.FLAG_FALSE
}
