package binding

import (
	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

// NewPropertyWrapper create the wrapper of the property, complex properties own a child object wrapper
func NewPropertyWrapper(property *repository.Property, invoker Invoker) *PropertyWrapper {
	wrapper := &PropertyWrapper{property: property, attr: DefaultAttribute}
	if property.IsComplexType && property.Value != nil {
		wrapper.child = NewObjectWrapper(property.Value, invoker)
	}
	return wrapper
}

// WithAttribute set the attribute used when the property is installed
func (wrapper *PropertyWrapper) WithAttribute(attr runtime.Attribute) *PropertyWrapper {
	wrapper.mutex.Lock()
	defer wrapper.mutex.Unlock()
	wrapper.attr = attr
	if wrapper.child != nil {
		wrapper.child.WithAttribute(attr)
	}
	return wrapper
}

// Property the property descriptor
func (wrapper *PropertyWrapper) Property() *repository.Property {
	return wrapper.property
}

// Name the javascript name
func (wrapper *PropertyWrapper) Name() string {
	return wrapper.property.JavascriptName
}

// Child the wrapper of the nested object, nil for the simple properties
func (wrapper *PropertyWrapper) Child() *ObjectWrapper {
	return wrapper.child
}

// State the binding state
func (wrapper *PropertyWrapper) State() State {
	wrapper.mutex.RLock()
	defer wrapper.mutex.RUnlock()
	return wrapper.state
}

// Bind install the property on the owner
// simple properties are accessors, the setter is absent when the property is read-only
// complex properties are the native values of the child object wrappers
func (wrapper *PropertyWrapper) Bind(owner Owner) error {
	wrapper.mutex.Lock()
	defer wrapper.mutex.Unlock()

	name := wrapper.property.JavascriptName
	if wrapper.state == Bound {
		return precondition(ErrAlreadyBound, "%s", name)
	}

	value, ctx, err := validate(owner)
	if err != nil {
		return precondition(err, "%s", name)
	}

	if wrapper.child != nil {
		err = wrapper.child.Bind(ctx)
		if err != nil {
			return err
		}
		err = value.Set(name, wrapper.child.Value(), wrapper.attr|runtime.ReadOnly)
	} else {
		var setter runtime.Handler
		if !wrapper.property.ReadOnly {
			setter = runtime.HandlerFunc(wrapper.set)
		}
		err = value.SetAccessor(name, runtime.HandlerFunc(wrapper.get), setter, wrapper.attr)
	}

	if err != nil {
		return precondition(err, "%s", name)
	}

	wrapper.state = Bound
	wrapper.ownerID = owner.ID()
	wrapper.invoker = owner.Invoker()
	log.Trace("[binding] property %s bound to object %d", name, wrapper.ownerID)
	return nil
}

// Get read the host property
func (wrapper *PropertyWrapper) Get() (interface{}, error) {
	id, invoker, err := wrapper.bound()
	if err != nil {
		return nil, err
	}

	res, found, err := invoker.TryGetProperty(id, wrapper.property.ManagedName)
	if !found {
		return nil, resolution(ErrOwnerNotFound, "%s object %d", wrapper.property.JavascriptName, id)
	}

	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

// Set assign the host property
func (wrapper *PropertyWrapper) Set(value interface{}) error {
	id, invoker, err := wrapper.bound()
	if err != nil {
		return err
	}

	found, err := invoker.TrySetProperty(id, wrapper.property.ManagedName, value)
	if !found {
		return resolution(ErrOwnerNotFound, "%s object %d", wrapper.property.JavascriptName, id)
	}

	if err != nil {
		return classify(err)
	}
	return nil
}

func (wrapper *PropertyWrapper) get(args []interface{}) (interface{}, error) {
	return wrapper.Get()
}

func (wrapper *PropertyWrapper) set(args []interface{}) (interface{}, error) {
	var value interface{} = runtime.Undefined(0x00)
	if len(args) > 0 {
		value = args[0]
	}

	if err := wrapper.Set(value); err != nil {
		return nil, err
	}
	return runtime.Undefined(0x00), nil
}

func (wrapper *PropertyWrapper) bound() (int64, Invoker, error) {
	wrapper.mutex.RLock()
	defer wrapper.mutex.RUnlock()

	if wrapper.state != Bound {
		return 0, nil, precondition(ErrNotBound, "%s", wrapper.property.JavascriptName)
	}

	if wrapper.invoker == nil {
		return 0, nil, resolution(ErrOwnerNotFound, "%s", wrapper.property.JavascriptName)
	}
	return wrapper.ownerID, wrapper.invoker, nil
}
