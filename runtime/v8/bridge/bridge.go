package bridge

import (
	"fmt"
	"math"
	"math/big"

	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/jsbind/runtime"
	"rogchap.com/v8go"
)

// JsValues cast golang values to JavasScript values
func JsValues(ctx *v8go.Context, values []interface{}) ([]*v8go.Value, error) {
	res := make([]*v8go.Value, 0, len(values))
	for i, value := range values {
		jsValue, err := JsValue(ctx, value)
		if err != nil {
			return nil, runtime.NewMarshalError(err, "argument %d", i)
		}
		res = append(res, jsValue)
	}
	return res, nil
}

// Valuers cast values to the v8go.Valuer list
func Valuers(values []*v8go.Value) []v8go.Valuer {
	valuers := make([]v8go.Valuer, 0, len(values))
	for _, value := range values {
		valuers = append(valuers, value)
	}
	return valuers
}

// JsValue cast golang value to JavasScript value
//
// *  ---------------------------------------------------
// *  | Golang                  | Javascript            |
// *  ---------------------------------------------------
// *  | nil                     | null                  |
// *  | runtime.Undefined       | undefined             |
// *  | bool                    | boolean               |
// *  | int, int8, int16, int32 | number(int)           |
// *  | uint, uint8, uint16     | number(int)           |
// *  | uint32                  | number(int)           |
// *  | float32, float64        | number(float)         |
// *  | int64, uint64           | bigint                |
// *  | *big.Int                | bigint                |
// *  | string                  | string                |
// *  | []byte                  | object(Uint8Array)    |
// *  | map, slice, struct      | object / array (JSON) |
// *  ---------------------------------------------------
func JsValue(ctx *v8go.Context, value interface{}) (*v8go.Value, error) {

	iso := ctx.Isolate()
	switch v := value.(type) {

	case nil:
		return v8go.Null(iso), nil

	case runtime.Undefined:
		return v8go.Undefined(iso), nil

	case *v8go.Value:
		return v, nil

	case *v8go.Object:
		return v.Value, nil

	case *v8go.Function:
		return v.Value, nil

	case string, int32, uint32, int64, uint64, bool, *big.Int, float64:
		return v8go.NewValue(iso, v)

	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return v8go.NewValue(iso, int32(v))
		}
		return v8go.NewValue(iso, float64(v))

	case int8:
		return v8go.NewValue(iso, int32(v))

	case int16:
		return v8go.NewValue(iso, int32(v))

	case uint:
		if v <= math.MaxUint32 {
			return v8go.NewValue(iso, uint32(v))
		}
		return v8go.NewValue(iso, float64(v))

	case uint8:
		return v8go.NewValue(iso, int32(v))

	case uint16:
		return v8go.NewValue(iso, int32(v))

	case float32:
		return v8go.NewValue(iso, float64(v))

	case []byte:
		return jsNewBytes(ctx, v)

	case error:
		return v8go.NewValue(iso, v.Error())

	default:
		return jsValueParse(ctx, v)
	}
}

func jsNewBytes(ctx *v8go.Context, value []byte) (*v8go.Value, error) {

	codes := make([]int, len(value))
	for i, b := range value {
		codes[i] = int(b)
	}

	array, err := jsValueParse(ctx, codes)
	if err != nil {
		return nil, err
	}

	ctor, err := ctx.Global().Get("Uint8Array")
	if err != nil {
		return nil, err
	}

	fn, err := ctor.AsFunction()
	if err != nil {
		return nil, err
	}

	bytes, err := fn.NewInstance(array)
	if err != nil {
		return nil, err
	}

	return bytes.Value, nil
}

func jsValueParse(ctx *v8go.Context, value interface{}) (*v8go.Value, error) {

	data, err := jsoniter.Marshal(value)
	if err != nil {
		return nil, err
	}

	jsValue, err := v8go.JSONParse(ctx, string(data))
	if err != nil {
		return nil, err
	}

	return jsValue, nil
}

// GoValues cast JavasScript values to Golang values
func GoValues(jsValues []*v8go.Value) ([]interface{}, error) {
	goValues := make([]interface{}, 0, len(jsValues))
	for i, jsValue := range jsValues {
		goValue, err := GoValue(jsValue)
		if err != nil {
			return nil, runtime.NewMarshalError(err, "argument %d", i)
		}
		goValues = append(goValues, goValue)
	}
	return goValues, nil
}

// GoValue cast JavasScript value to Golang value
//
// *  JavaScript -> Golang
// *  ---------------------------------------------------
// *  | JavaScript            | Golang                  |
// *  ---------------------------------------------------
// *  | null                  | nil                     |
// *  | undefined             | runtime.Undefined       |
// *  | boolean               | bool                    |
// *  | number(int)           | int                     |
// *  | number(float)         | float64                 |
// *  | bigint                | int64 / *big.Int        |
// *  | string                | string                  |
// *  | object                | map[string]interface{}  |
// *  | array                 | []interface{}           |
// *  | object(Uint8Array)    | []byte                  |
// *  | function              | error                   |
// *  ---------------------------------------------------
func GoValue(value *v8go.Value) (interface{}, error) {

	if value == nil || value.IsNull() {
		return nil, nil
	}

	if value.IsUndefined() {
		return runtime.Undefined(0x00), nil
	}

	if value.IsString() {
		return value.String(), nil
	}

	if value.IsBoolean() {
		return value.Boolean(), nil
	}

	if value.IsInt32() {
		return int(value.Int32()), nil
	}

	if value.IsNumber() {
		return value.Number(), nil
	}

	if value.IsBigInt() {
		n := value.BigInt()
		if n.IsInt64() {
			return n.Int64(), nil
		}
		return n, nil
	}

	if value.IsFunction() {
		return nil, fmt.Errorf("the function can not be converted to a host value")
	}

	if value.IsUint8Array() {
		return goBytes(value)
	}

	var goValue interface{}
	data, err := value.MarshalJSON()
	if err != nil {
		return nil, err
	}

	err = jsoniter.Unmarshal(data, &goValue)
	if err != nil {
		return nil, err
	}

	return goValue, nil
}

func goBytes(value *v8go.Value) ([]byte, error) {
	obj, err := value.AsObject()
	if err != nil {
		return nil, err
	}

	length, err := obj.Get("length")
	if err != nil {
		return nil, err
	}

	bytes := make([]byte, 0, length.Int32())
	for i := 0; i < int(length.Int32()); i++ {
		b, err := obj.GetIdx(uint32(i))
		if err != nil {
			return nil, err
		}
		bytes = append(bytes, byte(b.Uint32()))
	}
	return bytes, nil
}

// JsException create a JavaScript Error for the given error and throw it
// the error name and code are taken from runtime.ScriptError when it is implemented
func JsException(ctx *v8go.Context, err error) *v8go.Value {
	iso := ctx.Isolate()
	message, _ := v8go.NewValue(iso, err.Error())

	ctor, e := ctx.Global().Get("Error")
	if e != nil {
		return iso.ThrowException(message)
	}

	fn, e := ctor.AsFunction()
	if e != nil {
		return iso.ThrowException(message)
	}

	errorObj, e := fn.NewInstance(message)
	if e != nil {
		return iso.ThrowException(message)
	}

	errorObj.Set("name", runtime.ErrorName(err))
	errorObj.Set("code", int32(runtime.ErrorCode(err)))
	return iso.ThrowException(errorObj.Value)
}
