package goja

import (
	"fmt"
	"math/big"

	"github.com/dop251/goja"
	"github.com/yaoapp/jsbind/runtime"
)

// goValue cast a goja value to a Golang value, integers are exported as int to match the V8 bridge
func goValue(value goja.Value) (interface{}, error) {
	if value == nil || goja.IsUndefined(value) {
		return runtime.Undefined(0x00), nil
	}

	if goja.IsNull(value) {
		return nil, nil
	}

	if _, ok := goja.AssertFunction(value); ok {
		return nil, fmt.Errorf("the function can not be converted to a host value")
	}

	return normalize(value.Export()), nil
}

func goValues(values []goja.Value) ([]interface{}, error) {
	res := make([]interface{}, 0, len(values))
	for i, value := range values {
		goValue, err := goValue(value)
		if err != nil {
			return nil, runtime.NewMarshalError(err, "argument %d", i)
		}
		res = append(res, goValue)
	}
	return res, nil
}

func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case int64:
		return int(v)

	case *big.Int:
		if v.IsInt64() {
			return v.Int64()
		}
		return v

	case goja.ArrayBuffer:
		return v.Bytes()

	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalize(item)
		}
		return v

	case []interface{}:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	}
	return value
}

func (ctx *Context) jsValue(value interface{}) goja.Value {
	switch v := value.(type) {
	case nil:
		return goja.Null()
	case runtime.Undefined:
		return goja.Undefined()
	case goja.Value:
		return v
	case *Function:
		return v.function
	case *Object:
		return v.object
	case error:
		return ctx.vm.ToValue(v.Error())
	}
	return ctx.vm.ToValue(value)
}

// exception create a JavaScript Error for the given error
func (ctx *Context) exception(err error) goja.Value {
	vm := ctx.vm
	ctor, ok := goja.AssertConstructor(vm.Get("Error"))
	if !ok {
		return vm.ToValue(err.Error())
	}

	obj, e := ctor(nil, vm.ToValue(err.Error()))
	if e != nil {
		return vm.ToValue(err.Error())
	}

	obj.Set("name", runtime.ErrorName(err))
	obj.Set("code", runtime.ErrorCode(err))
	return obj
}
