// Package binding exposes the registered host objects to the script engines
package binding

import (
	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

// NewOwner use an existing native object as the owner of the members of the object id
func NewOwner(ctx runtime.Context, value runtime.Object, id int64, invoker Invoker) Owner {
	return &owner{id: id, ctx: ctx, value: value, invoker: invoker}
}

// Global bind the objects and install them on the global object
// the objects are read-only, the members are installed with attr
func Global(ctx runtime.Context, invoker Invoker, objects []*repository.Object, attr runtime.Attribute) ([]*ObjectWrapper, error) {
	if ctx == nil {
		return nil, precondition(ErrInvalidNativeValue, "global")
	}

	global, err := ctx.Global()
	if err != nil {
		return nil, precondition(err, "global")
	}

	wrappers := make([]*ObjectWrapper, 0, len(objects))
	for _, object := range objects {
		wrapper := NewObjectWrapper(object, invoker).WithAttribute(attr)
		if err := wrapper.Bind(ctx); err != nil {
			log.Error("[binding] %s %s", object.JavascriptName, err.Error())
			return nil, err
		}

		err = global.Set(object.JavascriptName, wrapper.Value(), attr|runtime.ReadOnly)
		if err != nil {
			return nil, precondition(err, "%s", object.JavascriptName)
		}
		wrappers = append(wrappers, wrapper)
	}
	return wrappers, nil
}

func (o *owner) ID() int64                { return o.id }
func (o *owner) Value() runtime.Object    { return o.value }
func (o *owner) Context() runtime.Context { return o.ctx }
func (o *owner) Invoker() Invoker         { return o.invoker }
