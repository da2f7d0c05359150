package repository

import (
	"fmt"
	"math"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/jsbind/runtime"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// convert cast the script value to the given type
func convert(arg interface{}, typ reflect.Type) (reflect.Value, error) {

	if arg == nil {
		return reflect.Zero(typ), nil
	}

	if _, ok := arg.(runtime.Undefined); ok {
		return reflect.Zero(typ), nil
	}

	value := reflect.ValueOf(arg)
	if value.Type().AssignableTo(typ) {
		return value, nil
	}

	if isNumber(value.Kind()) && isNumber(typ.Kind()) {
		return convertNumber(value, typ)
	}

	if value.Kind() == typ.Kind() && value.Type().ConvertibleTo(typ) {
		return value.Convert(typ), nil
	}

	// map, slice, struct etc.
	data, err := jsoniter.Marshal(arg)
	if err != nil {
		return reflect.Value{}, err
	}

	ptr := reflect.New(typ)
	err = jsoniter.Unmarshal(data, ptr.Interface())
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%v can not be converted to %s", arg, typ)
	}
	return ptr.Elem(), nil
}

func convertNumber(value reflect.Value, typ reflect.Type) (reflect.Value, error) {
	res := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt(value, typ)
		if err != nil {
			return reflect.Value{}, err
		}
		if res.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%v overflows %s", value, typ)
		}
		res.SetInt(n)
		return res, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toUint(value, typ)
		if err != nil {
			return reflect.Value{}, err
		}
		if res.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("%v overflows %s", value, typ)
		}
		res.SetUint(n)
		return res, nil
	}

	return value.Convert(typ), nil
}

// toInt the float range is checked before the cast, out of range casts are implementation-defined
func toInt(value reflect.Value, typ reflect.Type) (int64, error) {
	switch {
	case value.CanInt():
		return value.Int(), nil
	case value.CanUint():
		if value.Uint() > math.MaxInt64 {
			return 0, fmt.Errorf("%v overflows %s", value, typ)
		}
		return int64(value.Uint()), nil
	}

	f := value.Float()
	if err := integral(f, typ); err != nil {
		return 0, err
	}
	if f < -(1<<63) || f >= 1<<63 {
		return 0, fmt.Errorf("%v overflows %s", f, typ)
	}
	return int64(f), nil
}

func toUint(value reflect.Value, typ reflect.Type) (uint64, error) {
	switch {
	case value.CanUint():
		return value.Uint(), nil
	case value.CanInt():
		if value.Int() < 0 {
			return 0, fmt.Errorf("%v overflows %s", value, typ)
		}
		return uint64(value.Int()), nil
	}

	f := value.Float()
	if err := integral(f, typ); err != nil {
		return 0, err
	}
	if f < 0 || f >= 1<<64 {
		return 0, fmt.Errorf("%v overflows %s", f, typ)
	}
	return uint64(f), nil
}

func integral(f float64, typ reflect.Type) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return fmt.Errorf("%v can not be converted to %s", f, typ)
	}
	return nil
}

func isNumber(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// isComplex the value should be exposed as a nested object
func isComplex(typ reflect.Type) bool {
	if typ == nil {
		return false
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ.Kind() == reflect.Struct
}

// results cast the returned values, the trailing error is returned as error
func results(out []reflect.Value) (interface{}, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return runtime.Undefined(0x00), nil
	case 1:
		return out[0].Interface(), nil
	}

	res := make([]interface{}, 0, len(out))
	for _, v := range out {
		res = append(res, v.Interface())
	}
	return res, nil
}
