package runtime

// Attribute the property attribute flags, the values are the same as V8's PropertyAttribute
type Attribute uint8

const (
	// None writable, enumerable and deletable
	None Attribute = 0

	// ReadOnly the property can not be assigned
	ReadOnly Attribute = 1 << 0

	// DontEnum the property is not enumerable
	DontEnum Attribute = 1 << 1

	// DontDelete the property can not be deleted
	DontDelete Attribute = 1 << 2
)

// Engine the embedded script engine
type Engine interface {
	Name() string
	NewContext() (Context, error)
}

// Context a script execution context
type Context interface {
	Global() (Object, error)
	NewObject() (Object, error)
	NewFunction(name string, handler Handler) (Function, error)
	Run(source string, origin string) (interface{}, error)
	Call(method string, args ...interface{}) (interface{}, error)
	Location() (string, int)
	Terminate()
	Close() error
}

// Object a native engine object
type Object interface {
	Set(name string, value interface{}, attr Attribute) error
	SetAccessor(name string, getter Handler, setter Handler, attr Attribute) error
	Get(name string) (interface{}, error)
	Has(name string) bool
	Delete(name string) bool
}

// Function a native function handle created by the engine
type Function interface {
	Name() string
}

// Handler the dispatch handler invoked by the engine when a native function is called from script
type Handler interface {
	Invoke(args []interface{}) (interface{}, error)
}

// HandlerFunc adapts a function to a Handler
type HandlerFunc func(args []interface{}) (interface{}, error)

// Invoke calls fn(args)
func (fn HandlerFunc) Invoke(args []interface{}) (interface{}, error) {
	return fn(args)
}

// Undefined the JavaScript undefined value
type Undefined byte

// ScriptError an error that knows how it is presented to scripts
type ScriptError interface {
	error
	Name() string
	Code() int
}

// MarshalError a value can not be converted between the engine and the host
type MarshalError struct {
	Message string
	Err     error
}
