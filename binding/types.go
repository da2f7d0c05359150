package binding

import (
	"sync"

	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
)

// DefaultAttribute the attribute of the bound members
const DefaultAttribute = runtime.DontDelete

// State the binding state of a wrapper
type State uint8

const (
	// Unbound the wrapper has not been installed on an owner
	Unbound State = iota

	// Bound the wrapper has been installed on an owner, the state never goes back
	Bound
)

// Invoker resolves the members of the registered host objects by object id
type Invoker interface {
	TryCallMethod(id int64, name string, args []interface{}) (interface{}, bool, error)
	TryGetProperty(id int64, name string) (interface{}, bool, error)
	TrySetProperty(id int64, name string, value interface{}) (bool, error)
}

// Owner a bindable object, it exposes the native value the members are installed on
type Owner interface {
	ID() int64
	Value() runtime.Object
	Context() runtime.Context
	Invoker() Invoker
}

// MethodWrapper binds one host method to a native function
type MethodWrapper struct {
	method  *repository.Method
	handler *methodHandler
	attr    runtime.Attribute
	state   State
	ownerID int64
	invoker Invoker
	mutex   sync.RWMutex
}

// methodHandler the dispatch handler of a method wrapper
type methodHandler struct {
	wrapper *MethodWrapper
}

// PropertyWrapper binds one host property to an accessor or to a nested object
type PropertyWrapper struct {
	property *repository.Property
	child    *ObjectWrapper
	attr     runtime.Attribute
	state    State
	ownerID  int64
	invoker  Invoker
	mutex    sync.RWMutex
}

// ObjectWrapper binds a registered host object and all its members to a native object
type ObjectWrapper struct {
	object     *repository.Object
	invoker    Invoker
	attr       runtime.Attribute
	methods    []*MethodWrapper
	properties []*PropertyWrapper
	ctx        runtime.Context
	value      runtime.Object
	members    []string
	mutex      sync.RWMutex
}

// owner an existing native object acting as the owner of the wrappers, e.g. the global object
type owner struct {
	id      int64
	ctx     runtime.Context
	value   runtime.Object
	invoker Invoker
}
