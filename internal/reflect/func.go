package reflect

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNotFunc       = errors.New("constructor must be a function")
	ErrVariadic      = errors.New("variadic constructors are not supported")
	ErrBadResults    = errors.New("constructor must return (T) or (T, error)")
	ErrNilFunc       = errors.New("constructor must not be nil")
	ErrInterfaceKind = errors.New("cannot instantiate interface type")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor describes a constructor function discovered by reflection.
type Constructor struct {
	fn           reflect.Value
	Params       []reflect.Type
	Result       reflect.Type
	ReturnsError bool
}

// Inspect reads the parameter and result types of fn. Parameters are kept in
// declaration order.
func Inspect(fn any) (*Constructor, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}

	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w, got %s", ErrNotFunc, ft)
	}
	if fv.IsNil() {
		return nil, ErrNilFunc
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: %s", ErrVariadic, ft)
	}

	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, fmt.Errorf("%w, got %s", ErrBadResults, ft)
		}
	default:
		return nil, fmt.Errorf("%w, got %s", ErrBadResults, ft)
	}

	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}

	return &Constructor{
		fn:           fv,
		Params:       params,
		Result:       ft.Out(0),
		ReturnsError: ft.NumOut() == 2,
	}, nil
}

// Call invokes the constructor. A panic inside the constructor is returned as
// an error.
func (c *Constructor) Call(args []reflect.Value) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	out := c.fn.Call(args)
	if c.ReturnsError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// Instantiate builds t without arguments: a pointer type yields a pointer to a
// fresh zero value, any other non-interface type yields its zero value.
//
// Pointers to zero-size types may compare equal across calls.
func Instantiate(t reflect.Type) (any, error) {
	if IsInterface(t) {
		return nil, fmt.Errorf("%w %s", ErrInterfaceKind, t)
	}
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem()).Interface(), nil
	}
	return reflect.New(t).Elem().Interface(), nil
}
