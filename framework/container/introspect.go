package container

import (
	"fmt"
	"reflect"
	"runtime"
)

// OwnerName is how the owner dependency appears in resolution chains and in
// declarative manifests.
const OwnerName = "__Owner"

// DependencyKind tells the resolver where a dependency value comes from.
type DependencyKind int

const (
	// NamedDependency is resolved through the registry by name.
	NamedDependency DependencyKind = iota

	// OwnerDependency resolves to the name of the module that is pulling in
	// the current transient instance. It never consults the registry.
	OwnerDependency
)

// Dependency is one declared constructor argument.
type Dependency struct {
	Name string
	Kind DependencyKind
}

// ParseDependencies turns declared dependency lists into an ordered slice of
// names. Each entry may itself be a comma-separated parameter list, so
// ParseDependencies("Constants, Logger") and
// ParseDependencies("Constants", "Logger") are equivalent. Blank slots are
// dropped.
func ParseDependencies(decl ...string) []string {
	var names []string
	for _, d := range decl {
		names = append(names, splitList(d)...)
	}
	return names
}

// Factory builds a module instance from its resolved dependencies, passed in
// declaration order.
type Factory func(deps []any) (any, error)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	factoryType = reflect.TypeOf(Factory(nil))
)

// adapter is a constructor turned into a Factory, plus the number of
// arguments it accepts (-1 when any count is fine).
type adapter struct {
	factory Factory
	arity   int
}

// adapt wraps constructor into a Factory. Factory values (or plain
// func([]any) (any, error) literals) are used as they are. Any other function
// is called through reflection: its parameters receive the resolved
// dependencies positionally and it must return (T) or (T, error). When
// allowNoValue is set, () and (error) are accepted as well and yield nil.
func adapt(module string, constructor any, allowNoValue bool) (adapter, error) {
	if constructor == nil {
		return adapter{}, fmt.Errorf("%w: module %q: constructor is nil", ErrInvalidConstructor, module)
	}
	if f, ok := constructor.(Factory); ok {
		return adapter{factory: f, arity: -1}, nil
	}
	if f, ok := constructor.(func([]any) (any, error)); ok {
		return adapter{factory: f, arity: -1}, nil
	}

	val := reflect.ValueOf(constructor)
	typ := val.Type()
	if typ.Kind() != reflect.Func {
		return adapter{}, fmt.Errorf("%w: module %q: constructor must be a function, got %s", ErrInvalidConstructor, module, typ)
	}
	if typ.ConvertibleTo(factoryType) {
		return adapter{factory: val.Convert(factoryType).Interface().(Factory), arity: -1}, nil
	}
	if typ.IsVariadic() {
		return adapter{}, fmt.Errorf("%w: module %q: variadic constructors are not supported", ErrInvalidConstructor, module)
	}

	returnsErr := typ.NumOut() > 0 && typ.Out(typ.NumOut()-1) == errorType
	switch {
	case typ.NumOut() == 1 && !returnsErr:
	case typ.NumOut() == 2 && returnsErr:
	case allowNoValue && (typ.NumOut() == 0 || (typ.NumOut() == 1 && returnsErr)):
	default:
		return adapter{}, fmt.Errorf("%w: module %q: constructor must return (T) or (T, error), got %s", ErrInvalidConstructor, module, typ)
	}

	return adapter{factory: reflectFactory(module, val, returnsErr), arity: typ.NumIn()}, nil
}

// reflectFactory calls fn with the dependency values converted to its
// parameter types. Errors returned by fn are passed through as they are.
func reflectFactory(module string, fn reflect.Value, returnsErr bool) Factory {
	typ := fn.Type()
	return func(deps []any) (any, error) {
		args := make([]reflect.Value, typ.NumIn())
		for i := range args {
			arg, err := argValue(deps[i], typ.In(i))
			if err != nil {
				return nil, fmt.Errorf("%w: module %q, argument %d: %v", ErrDependencyType, module, i, err)
			}
			args[i] = arg
		}

		results := fn.Call(args)
		if returnsErr {
			if errVal := results[len(results)-1]; !errVal.IsNil() {
				return nil, errVal.Interface().(error)
			}
			results = results[:len(results)-1]
		}
		if len(results) == 0 {
			return nil, nil
		}
		return results[0].Interface(), nil
	}
}

func argValue(v any, want reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch want.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", want)
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", rv.Type(), want)
	}
	return rv, nil
}

// funcName returns the runtime name of fn, or "anonymous function".
func funcName(fn any) string {
	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func {
		return "anonymous function"
	}
	if f := runtime.FuncForPC(val.Pointer()); f != nil {
		return f.Name()
	}
	return "anonymous function"
}
