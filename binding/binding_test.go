package binding

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/jsbind/runtime/enginetest"
	"github.com/yaoapp/jsbind/runtime/goja"
	v8 "github.com/yaoapp/jsbind/runtime/v8"
	"github.com/yaoapp/kun/exception"
)

type Calculator struct {
	Name    string
	Version int `js:"version,readonly"`
	Memory  Memory
}

type Memory struct {
	Value float64
}

func (m *Memory) Clear() { m.Value = 0 }

func (c *Calculator) Add(a, b int) int { return a + b }

func (c *Calculator) Concat(values ...string) string {
	res := ""
	for _, v := range values {
		res += v
	}
	return res
}

func (c *Calculator) Deny() { exception.New("denied", 403).Throw() }

func (c *Calculator) Fail() error { return errors.New("always fails") }

func each(t *testing.T, test func(t *testing.T, engine runtime.Engine)) {
	engines := []runtime.Engine{v8.New(nil), goja.New(nil)}
	for _, engine := range engines {
		engine := engine
		t.Run(engine.Name(), func(t *testing.T) { test(t, engine) })
	}
}

func prepare(t *testing.T, engine runtime.Engine) (runtime.Context, *repository.Repository, *repository.Object, *Calculator) {
	repo, err := repository.New(nil)
	require.Nil(t, err)

	calc := &Calculator{Name: "calc", Version: 1}
	obj, err := repo.Register("Calculator", calc)
	require.Nil(t, err)

	return enginetest.Context(t, engine), repo, obj, calc
}

func method(t *testing.T, obj *repository.Object, name string) *repository.Method {
	for _, m := range obj.Methods {
		if m.ManagedName == name {
			return m
		}
	}
	t.Fatalf("method %s not found", name)
	return nil
}

func bindGlobal(t *testing.T, ctx runtime.Context, repo *repository.Repository, obj *repository.Object, name string) *MethodWrapper {
	global, err := ctx.Global()
	require.Nil(t, err)

	wrapper := NewMethodWrapper(method(t, obj, name))
	require.Nil(t, wrapper.Bind(NewOwner(ctx, global, obj.ID, repo)))
	return wrapper
}

func catch(t *testing.T, ctx runtime.Context, source string) string {
	res, err := ctx.Run("try { "+source+"; 'no error' } catch (e) { e.name + ':' + e.code }", "catch.js")
	require.Nil(t, err)
	return res.(string)
}

func TestMethodWrapperBind(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, obj, _ := prepare(t, engine)
		global, err := ctx.Global()
		require.Nil(t, err)

		wrapper := NewMethodWrapper(method(t, obj, "Add"))
		assert.Equal(t, Unbound, wrapper.State())
		assert.Equal(t, "add", wrapper.Name())
		assert.False(t, global.Has("add"))

		res, err := ctx.Run("typeof add", "bind.js")
		require.Nil(t, err)
		assert.Equal(t, "undefined", res)

		owner := NewOwner(ctx, global, obj.ID, repo)
		require.Nil(t, wrapper.Bind(owner))
		assert.Equal(t, Bound, wrapper.State())
		assert.True(t, global.Has("add"))

		res, err = ctx.Run("add(2, 3)", "bind.js")
		require.Nil(t, err)
		assert.EqualValues(t, 5, res)

		res, err = ctx.Run("add.name", "bind.js")
		require.Nil(t, err)
		assert.Equal(t, "add", res)

		res, err = ctx.Run("delete add; typeof add", "bind.js")
		require.Nil(t, err)
		assert.Equal(t, "function", res)

		// the first registration stays live
		err = wrapper.Bind(owner)
		assert.True(t, errors.Is(err, ErrAlreadyBound))
		assert.True(t, Is(err, BindingPrecondition))
		assert.Equal(t, Bound, wrapper.State())

		other, err := ctx.NewObject()
		require.Nil(t, err)
		err = wrapper.Bind(NewOwner(ctx, other, obj.ID, repo))
		assert.True(t, errors.Is(err, ErrAlreadyBound))
		assert.False(t, other.Has("add"))

		res, err = ctx.Run("add(1, 1)", "bind.js")
		require.Nil(t, err)
		assert.EqualValues(t, 2, res)
	})
}

func TestMethodWrapperAttribute(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, obj, _ := prepare(t, engine)
		global, err := ctx.Global()
		require.Nil(t, err)

		wrapper := NewMethodWrapper(method(t, obj, "Add")).WithAttribute(runtime.None)
		require.Nil(t, wrapper.Bind(NewOwner(ctx, global, obj.ID, repo)))

		res, err := ctx.Run("delete add; typeof add", "attribute.js")
		require.Nil(t, err)
		assert.Equal(t, "undefined", res)
	})
}

func TestMethodWrapperPrecondition(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, obj, _ := prepare(t, engine)
		wrapper := NewMethodWrapper(method(t, obj, "Add"))

		_, err := wrapper.Execute([]interface{}{2, 3})
		assert.True(t, errors.Is(err, ErrNotBound))
		assert.True(t, Is(err, BindingPrecondition))

		err = wrapper.Bind(nil)
		assert.True(t, errors.Is(err, ErrNoOwner))

		err = wrapper.Bind(NewOwner(ctx, nil, obj.ID, repo))
		assert.True(t, errors.Is(err, ErrInvalidNativeValue))

		var unbound *ObjectWrapper
		err = wrapper.Bind(unbound)
		assert.True(t, errors.Is(err, ErrInvalidNativeValue))
		assert.Equal(t, Unbound, wrapper.State())

		global, err := ctx.Global()
		require.Nil(t, err)
		assert.False(t, global.Has("add"))
	})
}

func TestMethodWrapperExecute(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, obj, _ := prepare(t, engine)
		add := bindGlobal(t, ctx, repo, obj, "Add")
		fail := bindGlobal(t, ctx, repo, obj, "Fail")
		deny := bindGlobal(t, ctx, repo, obj, "Deny")

		res, err := add.Execute([]interface{}{2, 3})
		require.Nil(t, err)
		assert.Equal(t, 5, res)

		res, err = add.Handler().Invoke([]interface{}{4, 5})
		require.Nil(t, err)
		assert.Equal(t, 9, res)

		_, err = add.Execute([]interface{}{})
		var bindErr *Error
		require.True(t, errors.As(err, &bindErr))
		assert.Equal(t, InvocationResolution, bindErr.Kind)
		assert.Equal(t, 404, bindErr.Code())

		_, err = fail.Execute([]interface{}{})
		require.True(t, errors.As(err, &bindErr))
		assert.Equal(t, InvocationFailure, bindErr.Kind)
		assert.Equal(t, 500, bindErr.Code())
		assert.Equal(t, "Fail: always fails", err.Error())

		var callErr *repository.CallError
		assert.True(t, errors.As(err, &callErr))

		_, err = deny.Execute(nil)
		require.True(t, errors.As(err, &bindErr))
		assert.Equal(t, InvocationFailure, bindErr.Kind)
		assert.Equal(t, 403, bindErr.Code())
	})
}

func TestScriptError(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, obj, _ := prepare(t, engine)
		bindGlobal(t, ctx, repo, obj, "Add")
		bindGlobal(t, ctx, repo, obj, "Fail")
		bindGlobal(t, ctx, repo, obj, "Deny")

		assert.Equal(t, "InvocationFailure:500", catch(t, ctx, "fail()"))
		assert.Equal(t, "InvocationResolution:404", catch(t, ctx, "add()"))
		assert.Equal(t, "InvocationResolution:404", catch(t, ctx, "add(1, 2, 3)"))
		assert.Equal(t, "InvocationFailure:403", catch(t, ctx, "deny()"))
		assert.Equal(t, "MarshalingFailure:500", catch(t, ctx, `add("two", 1)`))
		assert.Equal(t, "no error", catch(t, ctx, "add(1, 2)"))

		_, err := ctx.Run("fail()", "error.js")
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "always fails")

		res, err := ctx.Run(`try { fail() } catch (e) { e instanceof Error }`, "error.js")
		require.Nil(t, err)
		assert.Equal(t, true, res)

		// the context is still usable
		res, err = ctx.Run("add(1, 1)", "error.js")
		require.Nil(t, err)
		assert.EqualValues(t, 2, res)
	})
}

func TestUnregistered(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, obj, _ := prepare(t, engine)
		add := bindGlobal(t, ctx, repo, obj, "Add")

		assert.True(t, repo.Unregister("Calculator"))
		assert.Equal(t, "InvocationResolution:404", catch(t, ctx, "add(1, 2)"))

		_, err := add.Execute([]interface{}{1, 2})
		assert.True(t, errors.Is(err, ErrOwnerNotFound))
	})
}

func TestObjectWrapper(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, _, calc := prepare(t, engine)

		wrappers, err := Global(ctx, repo, repo.Objects(), DefaultAttribute)
		require.Nil(t, err)
		require.Len(t, wrappers, 1)

		calculator := wrappers[0]
		assert.Equal(t, "calculator", calculator.Name())
		assert.NotNil(t, calculator.Value())
		assert.Equal(t, []string{"add", "concat", "deny", "fail", "name", "version", "memory"}, calculator.Members())

		res, err := ctx.Run("calculator.add(2, 3)", "object.js")
		require.Nil(t, err)
		assert.EqualValues(t, 5, res)

		res, err = ctx.Run(`calculator.concat("a", "b", "c") + calculator.concat()`, "object.js")
		require.Nil(t, err)
		assert.Equal(t, "abc", res)

		res, err = ctx.Run("Object.keys(calculator).length", "object.js")
		require.Nil(t, err)
		assert.EqualValues(t, 7, res)

		res, err = ctx.Run("calculator.name", "object.js")
		require.Nil(t, err)
		assert.Equal(t, "calc", res)

		res, err = ctx.Run("calculator.name = 'renamed'; calculator.name", "object.js")
		require.Nil(t, err)
		assert.Equal(t, "renamed", res)
		assert.Equal(t, "renamed", calc.Name)

		res, err = ctx.Run("calculator.version = 2; calculator.version", "object.js")
		require.Nil(t, err)
		assert.EqualValues(t, 1, res)
		assert.Equal(t, 1, calc.Version)

		assert.Equal(t, "MarshalingFailure:500", catch(t, ctx, "calculator.name = {a: 1}"))

		res, err = ctx.Run("calculator.memory.value = 2; calculator.memory.value", "object.js")
		require.Nil(t, err)
		assert.EqualValues(t, 2, res)
		assert.Equal(t, 2.0, calc.Memory.Value)

		res, err = ctx.Run("calculator.memory.clear(); calculator.memory.value", "object.js")
		require.Nil(t, err)
		assert.EqualValues(t, 0, res)

		res, err = ctx.Run("calculator.memory = 1; typeof calculator.memory", "object.js")
		require.Nil(t, err)
		assert.Equal(t, "object", res)

		res, err = ctx.Run("calculator = null; typeof calculator", "object.js")
		require.Nil(t, err)
		assert.Equal(t, "object", res)

		err = calculator.Bind(ctx)
		assert.True(t, errors.Is(err, ErrAlreadyBound))
	})
}

func TestObjectWrapperAttribute(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, _, _ := prepare(t, engine)

		_, err := Global(ctx, repo, repo.Objects(), runtime.DontEnum|runtime.DontDelete)
		require.Nil(t, err)

		res, err := ctx.Run("Object.keys(calculator).length", "attribute.js")
		require.Nil(t, err)
		assert.EqualValues(t, 0, res)

		res, err = ctx.Run("calculator.add(1, 2)", "attribute.js")
		require.Nil(t, err)
		assert.EqualValues(t, 3, res)
	})
}

func TestPropertyWrapper(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, obj, calc := prepare(t, engine)
		wrapper := NewObjectWrapper(obj, repo)

		props := wrapper.Properties()
		require.Len(t, props, 3)
		name, version, memory := props[0], props[1], props[2]
		assert.Nil(t, name.Child())
		assert.NotNil(t, memory.Child())

		_, err := name.Get()
		assert.True(t, errors.Is(err, ErrNotBound))

		require.Nil(t, wrapper.Bind(ctx))
		assert.Equal(t, Bound, name.State())
		assert.Equal(t, Bound, memory.State())

		res, err := name.Get()
		require.Nil(t, err)
		assert.Equal(t, "calc", res)

		require.Nil(t, name.Set("direct"))
		assert.Equal(t, "direct", calc.Name)

		err = version.Set(2)
		var bindErr *Error
		require.True(t, errors.As(err, &bindErr))
		assert.Equal(t, InvocationFailure, bindErr.Kind)
		assert.Equal(t, 403, bindErr.Code())

		assert.True(t, errors.Is(wrapper.Bind(ctx), ErrAlreadyBound))
		assert.True(t, errors.Is(name.Bind(wrapper), ErrAlreadyBound))
	})
}

func TestObjectWrapperPrecondition(t *testing.T) {
	repo, err := repository.New(nil)
	require.Nil(t, err)
	obj, err := repo.Register("Calculator", &Calculator{})
	require.Nil(t, err)

	wrapper := NewObjectWrapper(obj, repo)
	assert.Nil(t, wrapper.Value())
	assert.Len(t, wrapper.Members(), 0)

	err = wrapper.Bind(nil)
	assert.True(t, Is(err, BindingPrecondition))

	err = wrapper.BindTo(nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidNativeValue))

	_, err = Global(nil, repo, repo.Objects(), DefaultAttribute)
	assert.True(t, Is(err, BindingPrecondition))
}

// rejectContext creates objects refusing to define the named member
type rejectContext struct {
	runtime.Context
	name string
}

type rejectObject struct {
	runtime.Object
	name string
}

func (ctx *rejectContext) NewObject() (runtime.Object, error) {
	obj, err := ctx.Context.NewObject()
	if err != nil {
		return nil, err
	}
	return &rejectObject{Object: obj, name: ctx.name}, nil
}

func (obj *rejectObject) Set(name string, value interface{}, attr runtime.Attribute) error {
	if name == obj.name {
		return fmt.Errorf("%s rejected", name)
	}
	return obj.Object.Set(name, value, attr)
}

func TestObjectWrapperRebind(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, obj, _ := prepare(t, engine)
		wrapper := NewObjectWrapper(obj, repo)

		err := wrapper.Bind(&rejectContext{Context: ctx, name: "fail"})
		require.NotNil(t, err)
		assert.True(t, Is(err, BindingPrecondition))
		assert.Nil(t, wrapper.Value())
		assert.Nil(t, wrapper.Context())
		assert.Len(t, wrapper.Members(), 0)
		for _, method := range wrapper.Methods() {
			assert.Equal(t, Unbound, method.State(), method.Name())
		}

		require.Nil(t, wrapper.Bind(ctx))
		assert.Equal(t, []string{"add", "concat", "deny", "fail", "name", "version", "memory"}, wrapper.Members())
		assert.True(t, errors.Is(wrapper.Bind(ctx), ErrAlreadyBound))

		global, err := ctx.Global()
		require.Nil(t, err)
		require.Nil(t, global.Set("calc", wrapper.Value(), DefaultAttribute))

		res, err := ctx.Run("calc.add(2, 3)", "rebind.js")
		require.Nil(t, err)
		assert.EqualValues(t, 5, res)
	})
}

func TestConcurrentExecute(t *testing.T) {
	each(t, func(t *testing.T, engine runtime.Engine) {
		ctx, repo, obj, _ := prepare(t, engine)
		add := bindGlobal(t, ctx, repo, obj, "Add")

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := add.Execute([]interface{}{i, i})
				assert.Nil(t, err)
				assert.Equal(t, 2*i, res)
			}(i)
		}
		wg.Wait()
	})
}
