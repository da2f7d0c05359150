package binding

import (
	"github.com/yaoapp/jsbind/process"
	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

// NewMethodWrapper create the wrapper of the method, nothing is installed until Bind
func NewMethodWrapper(method *repository.Method) *MethodWrapper {
	wrapper := &MethodWrapper{method: method, attr: DefaultAttribute}
	wrapper.handler = &methodHandler{wrapper: wrapper}
	return wrapper
}

// WithAttribute set the attribute used when the function is installed
func (wrapper *MethodWrapper) WithAttribute(attr runtime.Attribute) *MethodWrapper {
	wrapper.mutex.Lock()
	defer wrapper.mutex.Unlock()
	wrapper.attr = attr
	return wrapper
}

// Method the method descriptor
func (wrapper *MethodWrapper) Method() *repository.Method {
	return wrapper.method
}

// Name the javascript name
func (wrapper *MethodWrapper) Name() string {
	return wrapper.method.JavascriptName
}

// State the binding state
func (wrapper *MethodWrapper) State() State {
	wrapper.mutex.RLock()
	defer wrapper.mutex.RUnlock()
	return wrapper.state
}

// Handler the dispatch handler
func (wrapper *MethodWrapper) Handler() runtime.Handler {
	return wrapper.handler
}

// Bind create the native function and install it on the owner, a wrapper can be bound only once
func (wrapper *MethodWrapper) Bind(owner Owner) error {
	wrapper.mutex.Lock()
	defer wrapper.mutex.Unlock()

	name := wrapper.method.JavascriptName
	if wrapper.state == Bound {
		return precondition(ErrAlreadyBound, "%s", name)
	}

	value, ctx, err := validate(owner)
	if err != nil {
		return precondition(err, "%s", name)
	}

	fn, err := ctx.NewFunction(name, wrapper.handler)
	if err != nil {
		return precondition(err, "%s", name)
	}

	err = value.Set(name, fn, wrapper.attr)
	if err != nil {
		return precondition(err, "%s", name)
	}

	wrapper.state = Bound
	wrapper.ownerID = owner.ID()
	wrapper.invoker = owner.Invoker()
	log.Trace("[binding] %s bound to object %d (%s)", name, wrapper.ownerID, wrapper.attr)
	return nil
}

// Execute call the host method with the script arguments
func (wrapper *MethodWrapper) Execute(parameters []interface{}) (res interface{}, err error) {
	wrapper.mutex.RLock()
	state, id, invoker := wrapper.state, wrapper.ownerID, wrapper.invoker
	wrapper.mutex.RUnlock()

	name := wrapper.method.JavascriptName
	if state != Bound {
		return nil, precondition(ErrNotBound, "%s", name)
	}

	if invoker == nil {
		return nil, resolution(ErrOwnerNotFound, "%s", name)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			e := classify(process.Catch(recovered))
			log.Error("[binding] %s panic: %s", name, e.Error())
			res, err = nil, e
		}
	}()

	res, found, e := invoker.TryCallMethod(id, wrapper.method.ManagedName, parameters)
	if !found {
		return nil, resolution(ErrOwnerNotFound, "%s object %d", name, id)
	}

	if e != nil {
		bindErr := classify(e)
		log.With(log.F{"object": id, "method": name, "kind": bindErr.Kind}).Trace("[binding] %s", bindErr.Error())
		return nil, bindErr
	}
	return res, nil
}

// Invoke forward the script call to the method wrapper
func (handler *methodHandler) Invoke(args []interface{}) (interface{}, error) {
	return handler.wrapper.Execute(args)
}

// validate the owner exposes a native value and an engine context
func validate(owner Owner) (runtime.Object, runtime.Context, error) {
	if owner == nil {
		return nil, nil, ErrNoOwner
	}

	value := owner.Value()
	ctx := owner.Context()
	if value == nil || ctx == nil {
		return nil, nil, ErrInvalidNativeValue
	}
	return value, ctx, nil
}
