package reflect

import (
	"reflect"
	"strconv"
	"sync"
)

var (
	typeKeyCache sync.Map

	keyMu     sync.Mutex
	keyOwners = make(map[string]reflect.Type)
)

func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TypeKey[T any]() string {
	return KeyOf(TypeOf[T]())
}

// KeyOf returns the stable identifier used to register and look up t.
// Distinct types always get distinct keys: when two types share a name,
// such as types declared inside different functions of one package, the
// type seen later gets a "#n" suffix.
func KeyOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := typeKeyCache.Load(t); ok {
		return cached.(string)
	}

	keyMu.Lock()
	defer keyMu.Unlock()
	return keyOfLocked(t)
}

func keyOfLocked(t reflect.Type) string {
	if cached, ok := typeKeyCache.Load(t); ok {
		return cached.(string)
	}

	base := buildTypeKey(t)
	key := base
	for n := 2; ; n++ {
		owner, taken := keyOwners[key]
		if !taken || owner == t {
			break
		}
		key = base + "#" + strconv.Itoa(n)
	}

	keyOwners[key] = t
	typeKeyCache.Store(t, key)
	return key
}

func buildTypeKey(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + keyOfLocked(t.Elem())
	case reflect.Slice:
		return "[]" + keyOfLocked(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + keyOfLocked(t.Elem())
	case reflect.Map:
		return "map[" + keyOfLocked(t.Key()) + "]" + keyOfLocked(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + keyOfLocked(t.Elem())
		case reflect.SendDir:
			return "chan<- " + keyOfLocked(t.Elem())
		default:
			return "chan " + keyOfLocked(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" && t.Name() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.String()
	}
}

func TypeName[T any]() string {
	return TypeOf[T]().String()
}

func IsInterface(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// ValueFor converts a resolved instance into an argument of type t. A nil
// instance becomes the zero value of t instead of an invalid reflect.Value.
func ValueFor(instance any, t reflect.Type) reflect.Value {
	if instance == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(instance)
}
