package dispatcher

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// Params holds body or query parameters. Values must be JSON-serializable:
// nil, bool, numbers, strings, json.Number, json.Marshaler, and slices,
// arrays, string-keyed maps, structs or pointers built from those.
type Params map[string]any

var jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// Validate checks every value of p and reports the path of the first value
// that cannot be serialized.
func (p Params) Validate() error {
	for _, key := range p.sortedKeys() {
		if err := validateValue(key, reflect.ValueOf(p[key])); err != nil {
			return err
		}
	}
	return nil
}

func (p Params) sortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateValue(path string, v reflect.Value) error {
	if !v.IsValid() {
		return nil
	}
	if v.Type().Implements(jsonMarshalerType) {
		return nil
	}

	switch v.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("parameter %q: non-finite number %v", path, f)
		}
		return nil
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return validateValue(path, v.Elem())
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := validateValue(fmt.Sprintf("%s[%d]", path, i), v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("parameter %q: map key type %s is not a string", path, v.Type().Key())
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := validateValue(path+"."+iter.Key().String(), iter.Value()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if !field.IsExported() || field.Tag.Get("json") == "-" {
				continue
			}
			if err := validateValue(path+"."+field.Name, v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("parameter %q: unsupported type %s", path, v.Type())
	}
}
