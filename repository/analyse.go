package repository

import (
	"reflect"
	"strings"

	"github.com/yaoapp/jsbind/process"
	"github.com/yaoapp/kun/log"
)

var typeType = reflect.TypeOf((*reflect.Type)(nil)).Elem()

// analyse create the method and property descriptors of the object
func (repo *Repository) analyse(obj *Object, visited map[uintptr]bool) {
	if obj.Value == nil {
		return
	}

	value := reflect.ValueOf(obj.Value)
	typ := value.Type()
	if isPrimitive(typ) {
		return
	}

	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return
		}
		// visited holds the pointers on the current path, shared values are analysed again
		ptr := value.Pointer()
		if visited[ptr] {
			log.Warn("[repository] %s the circular reference is ignored", obj.Name)
			return
		}
		visited[ptr] = true
		defer delete(visited, ptr)
	}

	info := repo.typeInfo(typ)
	for _, m := range info.methods {
		obj.Methods = append(obj.Methods, m.descriptor())
	}

	elem := reflect.Indirect(value)
	for _, f := range info.fields {
		prop := f.descriptor(value.Kind() == reflect.Ptr)
		if prop.IsComplexType {
			field := elem.FieldByIndex(f.index)
			var nested interface{}
			switch {
			case field.Kind() == reflect.Ptr && !field.IsNil():
				nested = field.Interface()
			case field.Kind() == reflect.Struct && field.CanAddr():
				nested = field.Addr().Interface()
			case field.Kind() == reflect.Struct:
				nested = field.Interface()
			}

			if nested != nil {
				prop.Value = repo.newObject(f.name, nested)
				repo.analyse(prop.Value, visited)
			}
		}
		obj.Properties = append(obj.Properties, prop)
	}
}

// typeInfo get the analysed members of the type from the cache
func (repo *Repository) typeInfo(typ reflect.Type) *typeInfo {
	if cached, has := repo.types.Get(typ); has {
		return cached.(*typeInfo)
	}

	info := &typeInfo{}
	for i := 0; i < typ.NumMethod(); i++ {
		method := typ.Method(i)
		if !method.IsExported() {
			continue
		}

		mtype := method.Type
		skip := false
		for j := 0; j < mtype.NumOut(); j++ {
			if mtype.Out(j) == typeType {
				skip = true
				break
			}
		}

		if skip {
			log.Trace("[repository] %s.%s returns reflect.Type, ignored", typ, method.Name)
			continue
		}

		m := methodInfo{index: i, name: method.Name, variadic: mtype.IsVariadic()}
		for j := 1; j < mtype.NumIn(); j++ { // the receiver is the first parameter
			m.in = append(m.in, mtype.In(j))
		}
		for j := 0; j < mtype.NumOut(); j++ {
			m.out = append(m.out, mtype.Out(j))
		}
		info.methods = append(info.methods, m)
	}

	st := typ
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}

	if st.Kind() == reflect.Struct {
		for i := 0; i < st.NumField(); i++ {
			field := st.Field(i)
			if !field.IsExported() || field.Anonymous || field.Type == typeType {
				continue
			}

			jsName, readonly, skip := parseTag(field)
			if skip {
				continue
			}
			info.fields = append(info.fields, fieldInfo{
				index:    field.Index,
				name:     field.Name,
				jsName:   jsName,
				typ:      field.Type,
				readonly: readonly,
			})
		}
	}

	repo.types.Add(typ, info)
	return info
}

// parseTag parse the js tag. `js:"name,readonly"` or `js:"-"`
func parseTag(field reflect.StructField) (string, bool, bool) {
	tag, has := field.Tag.Lookup("js")
	if !has {
		return LowercaseFirst(field.Name), false, false
	}

	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		name = LowercaseFirst(field.Name)
	}

	readonly := false
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "readonly" {
			readonly = true
		}
	}
	return name, readonly, false
}

func (m methodInfo) descriptor() *Method {
	fixed := len(m.in)
	if m.variadic {
		fixed--
	}

	return &Method{
		ManagedName:    m.name,
		JavascriptName: LowercaseFirst(m.name),
		ParameterCount: fixed,
		Variadic:       m.variadic,
		Function:       m.call,
	}
}

func (m methodInfo) call(target interface{}, args []interface{}) (res interface{}, err error) {
	fixed := len(m.in)
	if m.variadic {
		fixed--
	}

	if len(args) < fixed || (!m.variadic && len(args) > fixed) {
		return nil, &ArityError{Method: m.name, Want: fixed, Got: len(args), Variadic: m.variadic}
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		var typ reflect.Type
		if i < fixed {
			typ = m.in[i]
		} else {
			typ = m.in[len(m.in)-1].Elem()
		}

		v, err := convert(arg, typ)
		if err != nil {
			return nil, marshalError(err, "%s argument %d", m.name, i)
		}
		in = append(in, v)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = callError(m.name, process.Catch(recovered))
		}
	}()

	out := reflect.ValueOf(target).Method(m.index).Call(in)
	res, err = results(out)
	if err != nil {
		return nil, callError(m.name, err)
	}
	return res, nil
}

func (f fieldInfo) descriptor(addressable bool) *Property {
	prop := &Property{
		ManagedName:    f.name,
		JavascriptName: f.jsName,
		IsComplexType:  isComplex(f.typ),
		ReadOnly:       f.readonly || !addressable,
	}

	prop.GetValue = func(target interface{}) (interface{}, error) {
		elem := reflect.Indirect(reflect.ValueOf(target))
		return elem.FieldByIndex(f.index).Interface(), nil
	}

	prop.SetValue = func(target interface{}, value interface{}) error {
		if prop.ReadOnly {
			return &ReadOnlyError{Property: f.name}
		}

		v, err := convert(value, f.typ)
		if err != nil {
			return marshalError(err, "property %s", f.name)
		}
		reflect.ValueOf(target).Elem().FieldByIndex(f.index).Set(v)
		return nil
	}
	return prop
}

func isPrimitive(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool, reflect.String, reflect.Complex64, reflect.Complex128:
		return typ.NumMethod() == 0
	}
	return isNumber(typ.Kind()) && typ.NumMethod() == 0
}

// LowercaseFirst lowercase the first letter of the name
func LowercaseFirst(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1]) + name[1:]
}
