// Package enginetest checks the behavior shared by all runtime.Engine implementations
package enginetest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/jsbind/runtime"
)

// Run run the engine test suite
func Run(t *testing.T, engine runtime.Engine) {
	t.Run("Run", func(t *testing.T) { testRun(t, engine) })
	t.Run("Function", func(t *testing.T) { testFunction(t, engine) })
	t.Run("Exception", func(t *testing.T) { testException(t, engine) })
	t.Run("Attribute", func(t *testing.T) { testAttribute(t, engine) })
	t.Run("Accessor", func(t *testing.T) { testAccessor(t, engine) })
	t.Run("Object", func(t *testing.T) { testObject(t, engine) })
	t.Run("Call", func(t *testing.T) { testCall(t, engine) })
	t.Run("Close", func(t *testing.T) { testClose(t, engine) })
}

// Context create a context closed when the test ends
func Context(t *testing.T, engine runtime.Engine) runtime.Context {
	ctx, err := engine.NewContext()
	require.Nil(t, err)
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func testRun(t *testing.T, engine runtime.Engine) {
	ctx := Context(t, engine)

	res, err := ctx.Run("1 + 2", "run.js")
	require.Nil(t, err)
	assert.EqualValues(t, 3, res)

	res, err = ctx.Run(`({foo: "bar", list: [1, "a"]})`, "run.js")
	require.Nil(t, err)
	assert.Equal(t, "bar", res.(map[string]interface{})["foo"])
	assert.Len(t, res.(map[string]interface{})["list"], 2)

	res, err = ctx.Run("(function(){})", "run.js")
	require.Nil(t, err)
	assert.Equal(t, runtime.Undefined(0x00), res)

	_, err = ctx.Run("throw new Error('boom')", "run.js")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = ctx.Run("this is not javascript", "run.js")
	assert.NotNil(t, err)
}

func testFunction(t *testing.T, engine runtime.Engine) {
	ctx := Context(t, engine)
	global, err := ctx.Global()
	require.Nil(t, err)

	var received []interface{}
	fn, err := ctx.NewFunction("add", runtime.HandlerFunc(func(args []interface{}) (interface{}, error) {
		received = args
		sum := 0
		for _, arg := range args {
			n, ok := arg.(int)
			if !ok {
				return nil, fmt.Errorf("%v is not an integer", arg)
			}
			sum += n
		}
		return sum, nil
	}))
	require.Nil(t, err)
	assert.Equal(t, "add", fn.Name())

	assert.False(t, global.Has("add"))
	err = global.Set("add", fn, runtime.None)
	require.Nil(t, err)
	assert.True(t, global.Has("add"))

	res, err := ctx.Run("add(2, 3)", "function.js")
	require.Nil(t, err)
	assert.EqualValues(t, 5, res)
	assert.Equal(t, []interface{}{2, 3}, received)

	res, err = ctx.Run("add.name", "function.js")
	require.Nil(t, err)
	assert.Equal(t, "add", res)

	res, err = ctx.Run("add()", "function.js")
	require.Nil(t, err)
	assert.EqualValues(t, 0, res)
	assert.Len(t, received, 0)
}

func testException(t *testing.T, engine runtime.Engine) {
	ctx := Context(t, engine)
	global, err := ctx.Global()
	require.Nil(t, err)

	fail, err := ctx.NewFunction("fail", runtime.HandlerFunc(func(args []interface{}) (interface{}, error) {
		return nil, runtime.NewMarshalError(nil, "can not convert")
	}))
	require.Nil(t, err)
	require.Nil(t, global.Set("fail", fail, runtime.None))

	crash, err := ctx.NewFunction("crash", runtime.HandlerFunc(func(args []interface{}) (interface{}, error) {
		var m map[string]int
		m["boom"] = 1
		return nil, nil
	}))
	require.Nil(t, err)
	require.Nil(t, global.Set("crash", crash, runtime.None))

	res, err := ctx.Run(`
		(function(){
			try { fail() } catch (e) { return [e instanceof Error, e.name, e.code, e.message] }
		})()
	`, "exception.js")
	require.Nil(t, err)
	list := res.([]interface{})
	assert.Equal(t, true, list[0])
	assert.Equal(t, "MarshalingFailure", list[1])
	assert.EqualValues(t, 500, list[2])
	assert.Equal(t, "can not convert", list[3])

	res, err = ctx.Run(`
		(function(){
			try { crash() } catch (e) { return e instanceof Error }
		})()
	`, "exception.js")
	require.Nil(t, err)
	assert.Equal(t, true, res)

	_, err = ctx.Run("fail()", "exception.js")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "can not convert")

	// the context is still usable
	res, err = ctx.Run("1 + 1", "exception.js")
	require.Nil(t, err)
	assert.EqualValues(t, 2, res)
}

func testAttribute(t *testing.T, engine runtime.Engine) {
	ctx := Context(t, engine)
	global, err := ctx.Global()
	require.Nil(t, err)

	obj, err := ctx.NewObject()
	require.Nil(t, err)
	require.Nil(t, obj.Set("fixed", 1, runtime.ReadOnly|runtime.DontDelete))
	require.Nil(t, obj.Set("hidden", 2, runtime.DontEnum))
	require.Nil(t, obj.Set("open", 3, runtime.None))
	require.Nil(t, global.Set("obj", obj, runtime.None))

	res, err := ctx.Run(`
		obj.fixed = 10; obj.open = 30;
		delete obj.fixed;
		[obj.fixed, obj.open, Object.keys(obj).join(","), Object.getOwnPropertyDescriptor(obj, "hidden").enumerable]
	`, "attribute.js")
	require.Nil(t, err)
	list := res.([]interface{})
	assert.EqualValues(t, 1, list[0])
	assert.EqualValues(t, 30, list[1])
	assert.Equal(t, "fixed,open", list[2])
	assert.Equal(t, false, list[3])
}

func testAccessor(t *testing.T, engine runtime.Engine) {
	ctx := Context(t, engine)
	global, err := ctx.Global()
	require.Nil(t, err)

	var value interface{} = "initial"
	getter := runtime.HandlerFunc(func(args []interface{}) (interface{}, error) { return value, nil })
	setter := runtime.HandlerFunc(func(args []interface{}) (interface{}, error) {
		if len(args) > 0 {
			value = args[0]
		}
		return nil, nil
	})

	obj, err := ctx.NewObject()
	require.Nil(t, err)
	require.Nil(t, obj.SetAccessor("name", getter, setter, runtime.DontDelete))
	require.Nil(t, obj.SetAccessor("readonly", getter, nil, runtime.None))
	require.Nil(t, global.Set("obj", obj, runtime.None))

	res, err := ctx.Run(`obj.name`, "accessor.js")
	require.Nil(t, err)
	assert.Equal(t, "initial", res)

	res, err = ctx.Run(`obj.name = "changed"; obj.readonly`, "accessor.js")
	require.Nil(t, err)
	assert.Equal(t, "changed", res)
	assert.Equal(t, "changed", value)

	got, err := obj.Get("name")
	require.Nil(t, err)
	assert.Equal(t, "changed", got)
}

func testObject(t *testing.T, engine runtime.Engine) {
	ctx := Context(t, engine)

	obj, err := ctx.NewObject()
	require.Nil(t, err)
	assert.False(t, obj.Has("foo"))

	require.Nil(t, obj.Set("foo", map[string]interface{}{"bar": "baz"}, runtime.None))
	assert.True(t, obj.Has("foo"))

	value, err := obj.Get("foo")
	require.Nil(t, err)
	assert.Equal(t, map[string]interface{}{"bar": "baz"}, value)

	assert.True(t, obj.Delete("foo"))
	assert.False(t, obj.Has("foo"))
}

func testCall(t *testing.T, engine runtime.Engine) {
	ctx := Context(t, engine)

	_, err := ctx.Run(`function hello(name) { return "hello " + name }`, "call.js")
	require.Nil(t, err)

	res, err := ctx.Call("hello", "world")
	require.Nil(t, err)
	assert.Equal(t, "hello world", res)

	_, err = ctx.Call("missing")
	assert.NotNil(t, err)

	source, _ := ctx.Location()
	assert.Equal(t, "call.js", source)
}

func testClose(t *testing.T, engine runtime.Engine) {
	ctx, err := engine.NewContext()
	require.Nil(t, err)
	require.Nil(t, ctx.Close())
	require.Nil(t, ctx.Close())

	_, err = ctx.Run("1", "close.js")
	assert.NotNil(t, err)

	_, err = ctx.NewObject()
	assert.NotNil(t, err)
}
