package binding

import (
	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

// NewObjectWrapper create the wrappers of the object members
func NewObjectWrapper(object *repository.Object, invoker Invoker) *ObjectWrapper {
	wrapper := &ObjectWrapper{
		object:  object,
		invoker: invoker,
		attr:    DefaultAttribute,
		members: []string{},
	}
	wrapper.wrap()
	return wrapper
}

// wrap create unbound wrappers of the members
func (wrapper *ObjectWrapper) wrap() {
	wrapper.methods = make([]*MethodWrapper, 0, len(wrapper.object.Methods))
	for _, method := range wrapper.object.Methods {
		wrapper.methods = append(wrapper.methods, NewMethodWrapper(method).WithAttribute(wrapper.attr))
	}

	wrapper.properties = make([]*PropertyWrapper, 0, len(wrapper.object.Properties))
	for _, prop := range wrapper.object.Properties {
		wrapper.properties = append(wrapper.properties, NewPropertyWrapper(prop, wrapper.invoker).WithAttribute(wrapper.attr))
	}
}

// WithAttribute set the attribute of all the members
func (wrapper *ObjectWrapper) WithAttribute(attr runtime.Attribute) *ObjectWrapper {
	wrapper.mutex.Lock()
	wrapper.attr = attr
	wrapper.mutex.Unlock()

	for _, method := range wrapper.methods {
		method.WithAttribute(attr)
	}

	for _, prop := range wrapper.properties {
		prop.WithAttribute(attr)
	}
	return wrapper
}

// Bind create the native object and bind all the members
func (wrapper *ObjectWrapper) Bind(ctx runtime.Context) error {
	wrapper.mutex.Lock()
	defer wrapper.mutex.Unlock()

	name := wrapper.object.JavascriptName
	if wrapper.value != nil {
		return precondition(ErrAlreadyBound, "%s", name)
	}

	if ctx == nil {
		return precondition(ErrInvalidNativeValue, "%s", name)
	}

	value, err := ctx.NewObject()
	if err != nil {
		return precondition(err, "%s", name)
	}

	return wrapper.bind(ctx, value)
}

// BindTo bind all the members to an existing native object
func (wrapper *ObjectWrapper) BindTo(ctx runtime.Context, value runtime.Object) error {
	wrapper.mutex.Lock()
	defer wrapper.mutex.Unlock()

	name := wrapper.object.JavascriptName
	if wrapper.value != nil {
		return precondition(ErrAlreadyBound, "%s", name)
	}

	if ctx == nil || value == nil {
		return precondition(ErrInvalidNativeValue, "%s", name)
	}
	return wrapper.bind(ctx, value)
}

// bind the members, on failure the member wrappers are replaced so the object can be bound again.
// The members bound before the failure stay on the native value.
func (wrapper *ObjectWrapper) bind(ctx runtime.Context, value runtime.Object) error {
	target := NewOwner(ctx, value, wrapper.object.ID, wrapper.invoker)
	members := make([]string, 0, len(wrapper.methods)+len(wrapper.properties))
	for _, method := range wrapper.methods {
		if err := method.Bind(target); err != nil {
			wrapper.wrap()
			return err
		}
		members = append(members, method.Name())
	}

	for _, prop := range wrapper.properties {
		if err := prop.Bind(target); err != nil {
			wrapper.wrap()
			return err
		}
		members = append(members, prop.Name())
	}

	wrapper.ctx = ctx
	wrapper.value = value
	wrapper.members = members

	log.Trace("[binding] %s (%d) bound. members:%d", wrapper.object.JavascriptName, wrapper.object.ID, len(wrapper.members))
	return nil
}

// ID the object id
func (wrapper *ObjectWrapper) ID() int64 {
	if wrapper == nil {
		return 0
	}
	return wrapper.object.ID
}

// Name the javascript name
func (wrapper *ObjectWrapper) Name() string {
	return wrapper.object.JavascriptName
}

// Object the object descriptor
func (wrapper *ObjectWrapper) Object() *repository.Object {
	return wrapper.object
}

// Value the native object, nil before Bind
func (wrapper *ObjectWrapper) Value() runtime.Object {
	if wrapper == nil {
		return nil
	}
	wrapper.mutex.RLock()
	defer wrapper.mutex.RUnlock()
	return wrapper.value
}

// Context the engine context the object is bound in
func (wrapper *ObjectWrapper) Context() runtime.Context {
	if wrapper == nil {
		return nil
	}
	wrapper.mutex.RLock()
	defer wrapper.mutex.RUnlock()
	return wrapper.ctx
}

// Invoker the host invocation layer
func (wrapper *ObjectWrapper) Invoker() Invoker {
	if wrapper == nil {
		return nil
	}
	return wrapper.invoker
}

// Methods the method wrappers
func (wrapper *ObjectWrapper) Methods() []*MethodWrapper {
	return wrapper.methods
}

// Properties the property wrappers
func (wrapper *ObjectWrapper) Properties() []*PropertyWrapper {
	return wrapper.properties
}

// Members the names of the bound members
func (wrapper *ObjectWrapper) Members() []string {
	wrapper.mutex.RLock()
	defer wrapper.mutex.RUnlock()
	res := make([]string, len(wrapper.members))
	copy(res, wrapper.members)
	return res
}
