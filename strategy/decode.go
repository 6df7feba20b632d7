package strategy

import (
	"fmt"
	"reflect"
	"strings"
)

// Decode copies an instance's attributes into a user struct. target must be
// a non-nil pointer to a struct. Fields are matched by their `fabrica` tag
// when present, otherwise by a case-insensitive comparison with the field
// name. A tag of "-" skips the field; attributes with no matching field are
// ignored.
//
// Associated instances decode recursively: an attribute holding *Instance
// fills a pointer-to-struct field, or a map[string]any field with its
// attribute map.
func Decode(inst *Instance, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("fabrica: decode target must be a non-nil pointer, got %T", target)
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("fabrica: decode target must point to a struct, got %T", target)
	}

	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get("fabrica"), ",")[0]
		if name == "-" {
			continue
		}

		value, ok := lookupAttr(inst, name, field.Name)
		if !ok || value == nil {
			continue
		}
		if err := assignField(elem.Field(i), field, value); err != nil {
			return err
		}
	}
	return nil
}

// lookupAttr finds the attribute for a struct field: by tag name when one is
// given, else case-insensitively by field name.
func lookupAttr(inst *Instance, tagName, fieldName string) (any, bool) {
	if tagName != "" {
		return inst.Get(tagName)
	}
	if v, ok := inst.Get(fieldName); ok {
		return v, true
	}
	for name, v := range inst.attrs {
		if strings.EqualFold(name, fieldName) {
			return v, true
		}
	}
	return nil, false
}

func assignField(fv reflect.Value, field reflect.StructField, value any) error {
	// Nested instances: recurse into pointer-to-struct fields, or hand over
	// the raw attribute map.
	if nested, ok := value.(*Instance); ok {
		switch {
		case field.Type.Kind() == reflect.Pointer && field.Type.Elem().Kind() == reflect.Struct:
			target := reflect.New(field.Type.Elem())
			if err := Decode(nested, target.Interface()); err != nil {
				return fmt.Errorf("in field %s: %w", field.Name, err)
			}
			fv.Set(target)
			return nil
		case field.Type == reflect.TypeOf(map[string]any(nil)):
			fv.Set(reflect.ValueOf(nested.Attributes()))
			return nil
		}
	}

	vv := reflect.ValueOf(value)
	switch {
	case vv.Type().AssignableTo(field.Type):
		fv.Set(vv)
	case vv.Type().ConvertibleTo(field.Type):
		fv.Set(vv.Convert(field.Type))
	default:
		return fmt.Errorf("fabrica: cannot decode attribute into field %s: have %s, want %s", field.Name, vv.Type(), field.Type)
	}
	return nil
}
