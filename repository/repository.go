package repository

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/jsbind/process"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

// New create a new repository
func New(option *Option) (*Repository, error) {
	if option == nil {
		option = &Option{}
	}
	option.Validate()

	types, err := lru.NewARC(option.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Repository{
		option:  option,
		objects: map[int64]*Object{},
		roots:   []*Object{},
		types:   types,
	}, nil
}

// Validate the option
func (option *Option) Validate() {
	if option.CacheSize <= 0 {
		option.CacheSize = 256
	}

	if option.ProcessTimeout <= 0 {
		option.ProcessTimeout = 30 * time.Second
	}
}

// Register register a host object, the object is exposed as the lowercase-first name
func (repo *Repository) Register(name string, value interface{}) (*Object, error) {
	if name == "" {
		return nil, fmt.Errorf("[repository] the object name is required")
	}

	if repo.has(name) {
		return nil, fmt.Errorf("[repository] %s has been registered", name)
	}

	obj := repo.newObject(name, value)
	repo.analyse(obj, map[uintptr]bool{})
	if err := repo.addRoot(obj); err != nil {
		return nil, err
	}

	log.Trace("[repository] register %s (%d). methods:%d, properties:%d", name, obj.ID, len(obj.Methods), len(obj.Properties))
	return obj, nil
}

// RegisterProcesses register an object whose methods call the named processes
// methods: {"javascriptName": "process.name"}
func (repo *Repository) RegisterProcesses(name string, methods map[string]string) (*Object, error) {
	if name == "" {
		return nil, fmt.Errorf("[repository] the object name is required")
	}

	if repo.has(name) {
		return nil, fmt.Errorf("[repository] %s has been registered", name)
	}

	names := make([]string, 0, len(methods))
	for jsName := range methods {
		names = append(names, jsName)
	}
	sort.Strings(names)

	obj := repo.newObject(name, nil)
	for _, jsName := range names {
		processName := methods[jsName]
		if !process.Exists(processName) {
			log.Warn("[repository] %s.%s the process %s does not exist yet", name, jsName, processName)
		}
		obj.Methods = append(obj.Methods, &Method{
			ManagedName:    processName,
			JavascriptName: jsName,
			Variadic:       true,
			Function:       repo.processFunction(processName, obj.JavascriptName+"."+jsName),
		})
	}
	if err := repo.addRoot(obj); err != nil {
		return nil, err
	}

	log.Trace("[repository] register processes %s (%d). methods:%d", name, obj.ID, len(obj.Methods))
	return obj, nil
}

// Unregister remove the root object and its nested objects
func (repo *Repository) Unregister(name string) bool {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for i, obj := range repo.roots {
		if obj.Name == name {
			repo.roots = append(repo.roots[:i], repo.roots[i+1:]...)
			repo.remove(obj)
			return true
		}
	}
	return false
}

// Objects the root objects
func (repo *Repository) Objects() []*Object {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	res := make([]*Object, len(repo.roots))
	copy(res, repo.roots)
	return res
}

// Get the object by id
func (repo *Repository) Get(id int64) (*Object, bool) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	obj, has := repo.objects[id]
	return obj, has
}

// Snapshot the JSON of the root object descriptors
func (repo *Repository) Snapshot() ([]byte, error) {
	return jsoniter.Marshal(repo.Objects())
}

// TryCallMethod call the method of the object, returns false if the object does not exist
func (repo *Repository) TryCallMethod(id int64, name string, args []interface{}) (interface{}, bool, error) {
	obj, has := repo.Get(id)
	if !has {
		return nil, false, nil
	}

	method := obj.method(name)
	if method == nil {
		return nil, true, &MemberError{ObjectID: id, Type: obj.typeName(), Member: name, Kind: "method"}
	}

	res, err := method.Function(obj.Value, args)
	return res, true, err
}

// TryGetProperty get the property value of the object, returns false if the object does not exist
func (repo *Repository) TryGetProperty(id int64, name string) (interface{}, bool, error) {
	obj, has := repo.Get(id)
	if !has {
		return nil, false, nil
	}

	prop := obj.property(name)
	if prop == nil {
		return nil, true, &MemberError{ObjectID: id, Type: obj.typeName(), Member: name, Kind: "property"}
	}

	res, err := prop.GetValue(obj.Value)
	return res, true, err
}

// TrySetProperty set the property value of the object, returns false if the object does not exist
func (repo *Repository) TrySetProperty(id int64, name string, value interface{}) (bool, error) {
	obj, has := repo.Get(id)
	if !has {
		return false, nil
	}

	prop := obj.property(name)
	if prop == nil {
		return true, &MemberError{ObjectID: id, Type: obj.typeName(), Member: name, Kind: "property"}
	}

	return true, prop.SetValue(obj.Value, value)
}

func (repo *Repository) newObject(name string, value interface{}) *Object {
	obj := &Object{
		ID:             atomic.AddInt64(&repo.lastID, 1),
		Name:           name,
		JavascriptName: LowercaseFirst(name),
		Value:          value,
	}
	repo.mutex.Lock()
	repo.objects[obj.ID] = obj
	repo.mutex.Unlock()
	return obj
}

func (repo *Repository) addRoot(obj *Object) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	for _, root := range repo.roots {
		if root.Name == obj.Name {
			repo.remove(obj)
			return fmt.Errorf("[repository] %s has been registered", obj.Name)
		}
	}
	repo.roots = append(repo.roots, obj)
	return nil
}

func (repo *Repository) has(name string) bool {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	for _, obj := range repo.roots {
		if obj.Name == name {
			return true
		}
	}
	return false
}

func (repo *Repository) remove(obj *Object) {
	delete(repo.objects, obj.ID)
	for _, prop := range obj.Properties {
		if prop.Value != nil {
			repo.remove(prop.Value)
		}
	}
}

func (repo *Repository) processFunction(name, origin string) Function {
	return func(target interface{}, args []interface{}) (interface{}, error) {
		for i, arg := range args {
			if _, ok := arg.(runtime.Undefined); ok {
				args[i] = nil
			}
		}

		p, err := process.Of(name, args...)
		if err != nil {
			return nil, &MemberError{Member: name, Kind: "process"}
		}

		ctx, cancel := context.WithTimeout(context.Background(), repo.option.ProcessTimeout)
		defer cancel()

		err = p.WithContext(ctx).WithOrigin(origin).Execute()
		if err != nil {
			return nil, callError(name, err)
		}
		defer p.Release()
		return p.Value(), nil
	}
}

func (obj *Object) method(name string) *Method {
	for _, method := range obj.Methods {
		if method.ManagedName == name {
			return method
		}
	}
	return nil
}

func (obj *Object) property(name string) *Property {
	for _, prop := range obj.Properties {
		if prop.ManagedName == name {
			return prop
		}
	}
	return nil
}

func (obj *Object) typeName() string {
	if obj.Value == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", obj.Value)
}

func marshalError(err error, format string, args ...interface{}) error {
	return runtime.NewMarshalError(err, format, args...)
}

func callError(method string, err error) *CallError {
	if e, ok := err.(*CallError); ok {
		return e
	}

	callErr := &CallError{Method: method, Code: 500, Err: err}
	if e, ok := err.(*process.Error); ok {
		callErr.Code = e.Code
		callErr.Stack = e.Stack
	}
	return callErr
}
