package core

import (
	"maps"
	"reflect"
	"slices"
	"unsafe"

	"github.com/rotisserie/eris"
)

// schema is the reflected field table of a component state struct
type schema struct {
	name   string
	typ    reflect.Type
	fields map[string]int
}

func newSchema(name string, t reflect.Type) (*schema, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, eris.Wrapf(ErrInvalidStateShape, "component %q: state must be a struct, got %v", name, t)
	}
	s := &schema{name: name, typ: t, fields: make(map[string]int, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := f.Name
		if tag, ok := f.Tag.Lookup("ecs"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				key = tag
			}
		}
		if _, dup := s.fields[key]; dup {
			return nil, eris.Wrapf(ErrInvalidStateShape, "component %q: field name %q used twice", name, key)
		}
		s.fields[key] = i
	}
	return s, nil
}

// check validates partial state without touching any record
func (s *schema) check(fields Fields) error {
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		idx, ok := s.fields[name]
		if !ok {
			return eris.Wrapf(ErrInvalidStateShape, "component %q has no field %q", s.name, name)
		}
		ft := s.typ.Field(idx).Type
		if !assignable(ft, fields[name]) {
			return eris.Wrapf(ErrInvalidStateShape, "component %q field %q: cannot use %T as %v",
				s.name, name, fields[name], ft)
		}
	}
	return nil
}

// apply shallow-merges fields onto dst; fields must have passed check
func (s *schema) apply(dst reflect.Value, fields Fields) {
	for name, val := range fields {
		f := dst.Field(s.fields[name])
		if val == nil {
			f.SetZero()
			continue
		}
		v := reflect.ValueOf(val)
		if v.Type().AssignableTo(f.Type()) {
			f.Set(v)
		} else {
			f.Set(v.Convert(f.Type()))
		}
	}
}

func assignable(t reflect.Type, val any) bool {
	if val == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	vt := reflect.TypeOf(val)
	if vt.AssignableTo(t) {
		return true
	}
	return numeric(vt.Kind()) && numeric(t.Kind())
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// deepCopy returns src with slices, maps, arrays and nested structs cloned,
// unexported fields included. Pointers, funcs, channels and interfaces are
// shared with src.
func deepCopy[T any](src T) T {
	dst := src
	cloneInPlace(reflect.ValueOf(&dst).Elem())
	return dst
}

func cloneInPlace(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if !f.CanSet() {
				if !f.CanAddr() {
					continue
				}
				f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
			}
			cloneInPlace(f)
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			cloneInPlace(v.Index(i))
		}
	case reflect.Slice:
		if v.IsNil() {
			return
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(c, v)
		for i := 0; i < c.Len(); i++ {
			cloneInPlace(c.Index(i))
		}
		v.Set(c)
	case reflect.Map:
		if v.IsNil() {
			return
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			val := reflect.New(v.Type().Elem()).Elem()
			val.Set(iter.Value())
			cloneInPlace(val)
			c.SetMapIndex(iter.Key(), val)
		}
		v.Set(c)
	}
}
