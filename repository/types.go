package repository

import (
	"reflect"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Option the repository option
type Option struct {
	CacheSize      int           `json:"cacheSize,omitempty" yaml:"cacheSize,omitempty"`           // the number of analysed types kept in the cache, the default value is 256
	ProcessTimeout time.Duration `json:"processTimeout,omitempty" yaml:"processTimeout,omitempty"` // the timeout of the process methods, the default value is 30s
}

// Repository the registered host objects
type Repository struct {
	option  *Option
	objects map[int64]*Object
	roots   []*Object
	mutex   sync.RWMutex
	lastID  int64
	types   *lru.ARCCache
}

// Object a registered host object
type Object struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	JavascriptName string      `json:"javascriptName"`
	Value          interface{} `json:"-"`
	Methods        []*Method   `json:"methods,omitempty"`
	Properties     []*Property `json:"properties,omitempty"`
}

// Method the descriptor of a bindable method
type Method struct {
	ManagedName    string   `json:"managedName"`
	JavascriptName string   `json:"javascriptName"`
	ParameterCount int      `json:"parameterCount"`
	Variadic       bool     `json:"variadic,omitempty"`
	Function       Function `json:"-"`
}

// Function invoke the method on the target with the script arguments
type Function func(target interface{}, args []interface{}) (interface{}, error)

// Property the descriptor of a bindable property
type Property struct {
	ManagedName    string                                            `json:"managedName"`
	JavascriptName string                                            `json:"javascriptName"`
	IsComplexType  bool                                              `json:"isComplexType"`
	ReadOnly       bool                                              `json:"readOnly,omitempty"`
	Value          *Object                                           `json:"value,omitempty"`
	GetValue       func(target interface{}) (interface{}, error)     `json:"-"`
	SetValue       func(target interface{}, value interface{}) error `json:"-"`
}

// typeInfo the analysed members of a type
type typeInfo struct {
	methods []methodInfo
	fields  []fieldInfo
}

type methodInfo struct {
	index    int
	name     string
	in       []reflect.Type
	out      []reflect.Type
	variadic bool
}

type fieldInfo struct {
	index    []int
	name     string
	jsName   string
	typ      reflect.Type
	readonly bool
}
